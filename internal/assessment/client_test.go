package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL + "/", UserID: "learner-1"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestFetchQuestion_SendsEmptyAnswerAndHistory(t *testing.T) {
	var body map[string]any
	var userID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/diagnostic" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		userID = r.Header.Get(UserHeader)
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"result": map[string]any{
				"next_mode":       "multiple_choice",
				"question_index":  2,
				"total_questions": 5,
				"question_payload": map[string]any{
					"question":       "What is a token?",
					"options":        []string{"A word piece", "A coin", "A password", "A GPU", "I'm not sure"},
					"correct_answer": 0,
				},
			},
		})
	})

	res, err := client.FetchQuestion(context.Background(), FetchRequest{QuestionIndex: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "learner-1" {
		t.Errorf("expected user header learner-1, got %q", userID)
	}
	if body["answer"] != "" {
		t.Errorf("expected empty answer, got %v", body["answer"])
	}
	if body["question_index"] != float64(2) {
		t.Errorf("expected question_index 2, got %v", body["question_index"])
	}
	if prev, ok := body["previous_answers"].([]any); !ok || len(prev) != 0 {
		t.Errorf("expected empty previous_answers array, got %#v", body["previous_answers"])
	}
	if body["hesitation_seconds"] != float64(0) {
		t.Errorf("expected hesitation 0, got %v", body["hesitation_seconds"])
	}

	nq, ok := res.Outcome().(NextQuestion)
	if !ok {
		t.Fatalf("expected NextQuestion, got %T", res.Outcome())
	}
	if nq.Question == nil || nq.Question.Text != "What is a token?" {
		t.Fatalf("unexpected question: %+v", nq.Question)
	}
	if nq.Index == nil || *nq.Index != 2 {
		t.Errorf("expected index 2, got %v", nq.Index)
	}
}

func TestSubmitAnswer_SendsSelectionAndEchoedCorrectIndex(t *testing.T) {
	var got SubmitRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"result":  map[string]any{"next_mode": "complete", "assessed_level": 0},
		})
	})

	req := SubmitRequest{
		SelectedOption:     3,
		QuestionIndex:      1,
		PreviousAnswers:    []AnswerRecord{{QuestionIndex: 0, SelectedOption: 1, HesitationSeconds: 2.5, CorrectAnswerIndex: 1}},
		CorrectAnswerIndex: 2,
		HesitationSeconds:  4.25,
	}
	res, err := client.SubmitAnswer(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SelectedOption != 3 || got.QuestionIndex != 1 || got.CorrectAnswerIndex != 2 || got.HesitationSeconds != 4.25 {
		t.Errorf("request not forwarded intact: %+v", got)
	}
	if len(got.PreviousAnswers) != 1 || got.PreviousAnswers[0].HesitationSeconds != 2.5 {
		t.Errorf("history not forwarded: %+v", got.PreviousAnswers)
	}

	done, ok := res.Outcome().(Completed)
	if !ok {
		t.Fatalf("expected Completed, got %T", res.Outcome())
	}
	if done.AssessedLevel == nil || *done.AssessedLevel != 0 {
		t.Errorf("expected explicit level 0, got %v", done.AssessedLevel)
	}
}

func TestSubmitText_SendsOnlyAnswerAndHesitation(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": map[string]any{"next_mode": "examples_first"}})
	})

	_, err := client.SubmitText(context.Background(), TextAnswerRequest{Answer: "skip", HesitationSeconds: 1.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body) != 2 || body["answer"] != "skip" || body["hesitation_seconds"] != 1.5 {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestNonSuccessEnvelopeIsFailureRegardlessOfStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]any
		msg    string
	}{
		{"200 with success false", http.StatusOK, map[string]any{"success": false, "error": "agent offline"}, "agent offline"},
		{"500 with error", http.StatusInternalServerError, map[string]any{"success": false, "error": "boom"}, "boom"},
		{"message without error", http.StatusOK, map[string]any{"success": false, "message": "All modules completed!"}, "All modules completed!"},
		{"missing success flag", http.StatusOK, map[string]any{"result": map[string]any{"next_mode": "complete"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := client.FetchQuestion(context.Background(), FetchRequest{})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T (%v)", err, err)
			}
			if apiErr.Message != tt.msg {
				t.Errorf("expected message %q, got %q", tt.msg, apiErr.Message)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
		})
	}
}

func TestUnparseableBodyIsDecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := client.FetchQuestion(context.Background(), FetchRequest{})
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if decErr.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", decErr.StatusCode)
	}
}

func TestMissingResultIsPayloadError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	_, err := client.FetchQuestion(context.Background(), FetchRequest{})
	var pErr *PayloadError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected *PayloadError, got %T", err)
	}
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(Config{BaseURL: url})
	_, err := client.FetchQuestion(context.Background(), FetchRequest{})
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
}

func TestCollaboratorEndpoints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /api/lesson":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "lesson": map[string]any{
				"module": "fundamentals", "content": "# What is AI?", "difficulty": 1, "current_page": 0, "total_pages": 3,
			}})
		case "POST /api/lesson/next-page":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "lesson": map[string]any{
				"module": "fundamentals", "content": "page two", "current_page": 1, "total_pages": 3,
			}})
		case "GET /api/progress":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "progress": map[string]any{
				"user_id": "learner-1", "current_module": "agents", "completed_modules": []string{"fundamentals"}, "difficulty_level": 2,
			}})
		case "POST /api/advance":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "advanced": true, "message": "On to agents"})
		case "POST /api/reset":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Progress reset successfully"})
		case "GET /api/freepik-image":
			if r.URL.Query().Get("concept") != "attention" {
				t.Errorf("expected concept query, got %q", r.URL.RawQuery)
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "image_url": "https://img.example/a.png", "concept": "attention"})
		case "POST /api/quiz":
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "evaluator unavailable"})
		case "POST /api/capstone":
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["task_description"] != "sort my inbox" {
				t.Errorf("capstone body = %v, %v", body, err)
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": map[string]any{
				"agent_code":        "class InboxAgent: ...",
				"agent_description": "Sorts incoming mail",
				"next_steps":        []string{"Add a label rule", "Run it daily"},
			}})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	lesson, err := client.Lesson(ctx)
	if err != nil || lesson.Module != "fundamentals" || lesson.TotalPages != 3 {
		t.Fatalf("Lesson() = %+v, %v", lesson, err)
	}
	next, err := client.NextLessonPage(ctx)
	if err != nil || next.Lesson == nil || next.Lesson.CurrentPage != 1 {
		t.Fatalf("NextLessonPage() = %+v, %v", next, err)
	}
	progress, err := client.Progress(ctx)
	if err != nil || progress.DifficultyLevel != 2 || len(progress.CompletedModules) != 1 {
		t.Fatalf("Progress() = %+v, %v", progress, err)
	}
	adv, err := client.Advance(ctx)
	if err != nil || !adv.Advanced || adv.Message != "On to agents" {
		t.Fatalf("Advance() = %+v, %v", adv, err)
	}
	msg, err := client.Reset(ctx)
	if err != nil || msg != "Progress reset successfully" {
		t.Fatalf("Reset() = %q, %v", msg, err)
	}
	img, err := client.Image(ctx, "attention")
	if err != nil || img.URL != "https://img.example/a.png" || img.Concept != "attention" {
		t.Fatalf("Image() = %+v, %v", img, err)
	}
	cp, err := client.Capstone(ctx, "sort my inbox")
	if err != nil || cp.AgentCode == "" || cp.AgentDescription != "Sorts incoming mail" || len(cp.NextSteps) != 2 {
		t.Fatalf("Capstone() = %+v, %v", cp, err)
	}
	if _, err := client.SubmitQuiz(ctx, QuizAnswer{Question: "q", Answer: "a"}); err == nil {
		t.Fatal("expected quiz error from non-success envelope")
	}
}

func TestNextLessonPage_ComingSoonHasNoLesson(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "coming_soon": true, "message": "Coming soon"})
	})

	turn, err := client.NextLessonPage(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !turn.ComingSoon || turn.Lesson != nil || turn.Message != "Coming soon" {
		t.Errorf("unexpected page turn: %+v", turn)
	}
}

func TestSubmitQuizDecodesFeedback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var ans QuizAnswer
		if err := json.NewDecoder(r.Body).Decode(&ans); err != nil {
			t.Errorf("decode quiz answer: %v", err)
		}
		if ans.QuestionID != "agents_q1" || ans.SelectedOption == nil || *ans.SelectedOption != 2 ||
			ans.CorrectAnswerIndex == nil || *ans.CorrectAnswerIndex != 0 {
			t.Errorf("unexpected quiz answer %+v", ans)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "feedback": map[string]any{
			"correct": true, "is_correct": false, "is_confused": false, "reasoning": "option 3 is not a tool",
			"selected_option": 2, "correct_option": 0,
		}})
	})

	sel, correct := 2, 0
	ev, err := client.SubmitQuiz(context.Background(), QuizAnswer{
		QuestionID: "agents_q1", Question: "Which is a tool?", Answer: "Selected option 2",
		SelectedOption: &sel, CorrectAnswerIndex: &correct,
	})
	if err != nil {
		t.Fatal(err)
	}
	if ev.Passed() {
		t.Error("is_correct must override correct")
	}
	if ev.Verdict() != "Not quite right. Let's keep learning!" || ev.Reasoning == "" {
		t.Errorf("unexpected evaluation %+v", ev)
	}
}

func TestImageWithoutRelevantResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "image_url": nil, "concept": "attention"})
	})
	img, err := client.Image(context.Background(), "attention")
	if err != nil || img.URL != "" || img.Concept != "attention" {
		t.Fatalf("Image() = %+v, %v", img, err)
	}
}

func TestModuleTitle(t *testing.T) {
	tests := map[string]string{
		"transformers_llms": "Transformers Llms",
		"fundamentals":      "Fundamentals",
		"":                  "",
		"agents__advanced":  "Agents Advanced",
	}
	for in, want := range tests {
		if got := ModuleTitle(in); got != want {
			t.Errorf("ModuleTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
