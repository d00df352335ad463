package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/abhisek/learnai/internal/assessment"
)

const anonymousUser = "anonymous"

// diagnosticRequest accepts all three request shapes: index-only fetch,
// selected option and free-text answer.
type diagnosticRequest struct {
	Answer             string                    `json:"answer"`
	SelectedOption     *int                      `json:"selected_option"`
	QuestionIndex      int                       `json:"question_index"`
	PreviousAnswers    []assessment.AnswerRecord `json:"previous_answers"`
	CorrectAnswerIndex *int                      `json:"correct_answer_index"`
	HesitationSeconds  float64                   `json:"hesitation_seconds"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func userID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(assessment.UserHeader)); id != "" {
		return id
	}
	return anonymousUser
}

func (s *Server) handleDiagnostic(w http.ResponseWriter, r *http.Request) {
	var req diagnosticRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionIndex < 0 {
		writeError(w, http.StatusBadRequest, "question_index must not be negative")
		return
	}

	var res assessment.Result
	switch {
	case req.SelectedOption != nil:
		res = s.answer(r.Context(), userID(r), req)
	case strings.TrimSpace(req.Answer) != "":
		s.log.Printf("diagnostic: free-text answer from %s after %.1fs", userID(r), req.HesitationSeconds)
		res = s.question(r.Context(), 0)
	default:
		res = s.question(r.Context(), req.QuestionIndex)
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": res})
}

// question presents bank question index, rewritten by the LLM when one is
// configured.
func (s *Server) question(ctx context.Context, index int) assessment.Result {
	total := len(s.bank)
	if index >= total {
		return assessment.Result{NextMode: assessment.ModeComplete, Reasoning: "All diagnostic questions completed"}
	}

	bq := s.bank[index]
	if s.writer != nil {
		if written, err := s.writer.Rewrite(ctx, bq); err != nil {
			s.log.Printf("diagnostic: question %d from bank: %v", index, err)
		} else {
			bq = written
		}
	}

	q := bq.present(s.shuffle)
	q.Index = index
	payload, err := json.Marshal(q)
	if err != nil {
		return assessment.Result{NextMode: assessment.ModeExamplesFirst, Reasoning: err.Error()}
	}

	return assessment.Result{
		NextMode:        assessment.ModeMultipleChoice,
		QuestionPayload: payload,
		QuestionIndex:   &index,
		TotalQuestions:  &total,
		Reasoning:       fmt.Sprintf("Diagnostic question %d of %d", index+1, total),
	}
}

func (s *Server) answer(ctx context.Context, uid string, req diagnosticRequest) assessment.Result {
	current := assessment.AnswerRecord{
		QuestionIndex:      req.QuestionIndex,
		SelectedOption:     *req.SelectedOption,
		HesitationSeconds:  req.HesitationSeconds,
		CorrectAnswerIndex: -1,
	}
	if req.CorrectAnswerIndex != nil {
		current.CorrectAnswerIndex = *req.CorrectAnswerIndex
	}
	all := append(append([]assessment.AnswerRecord{}, req.PreviousAnswers...), current)

	total := len(s.bank)
	if req.QuestionIndex < total-1 {
		res := s.question(ctx, req.QuestionIndex+1)
		res.Answers = all
		return res
	}

	a := Assess(all)
	res := assessment.Result{
		NextMode:       assessment.ModeComplete,
		AssessedLevel:  &a.Level,
		TotalQuestions: &total,
		AllCorrect:     a.AllCorrect,
		AllUnsure:      a.AllUnsure,
		Answers:        all,
		Reasoning:      fmt.Sprintf("Diagnostic complete. Assessed level: %d", a.Level),
	}

	s.learners.with(uid, func(l *learner) {
		l.difficulty = a.Level
		if !a.AllCorrect {
			return
		}
		target := ""
		switch l.module {
		case diagnosticModule, s.lessons.first():
			if m, ok := s.lessons.next(s.lessons.first()); ok {
				target = m.Name
			}
		default:
			if m, ok := s.lessons.next(l.module); ok {
				target = m.Name
			}
		}
		if target == "" {
			return
		}
		l.moveTo(target)
		res.AcceleratedModule = assessment.Module(target)
		res.Reasoning = fmt.Sprintf("Excellent! You answered all questions correctly. Accelerating to %s.", target)
	})

	s.log.Printf("diagnostic: %s placed at level %d (all correct: %v, all unsure: %v)", uid, a.Level, a.AllCorrect, a.AllUnsure)
	return res
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request) {
	var (
		lesson assessment.Lesson
		ok     bool
	)
	s.learners.with(userID(r), func(l *learner) {
		if l.module == diagnosticModule {
			l.moveTo(s.lessons.first())
		}
		lesson, ok = s.lessons.lesson(l.module, l.page, l.difficulty)
	})
	if !ok {
		writeError(w, http.StatusNotFound, "no lesson available")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "lesson": lesson})
}

// advance moves l to the next module. It reports whether it moved and,
// when it could not, whether the next module is merely unreleased.
func (s *Server) advance(l *learner) (moved, comingSoon bool) {
	next, ok := s.lessons.next(l.module)
	switch {
	case !ok:
		return false, false
	case next.ComingSoon:
		return false, true
	}
	l.moveTo(next.Name)
	return true, false
}

func (s *Server) handleNextPage(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	s.learners.with(userID(r), func(l *learner) {
		if l.module == diagnosticModule {
			l.moveTo(s.lessons.first())
		}
		m, _, _ := s.lessons.find(l.module)

		moduleAdvanced := false
		if l.page+1 < len(m.Pages) {
			l.page++
		} else {
			moved, soon := s.advance(l)
			switch {
			case soon:
				body = map[string]any{"success": true, "coming_soon": true, "message": comingSoonMessage}
				return
			case !moved:
				body = map[string]any{"success": false, "coming_soon": false, "message": "All modules completed!"}
				return
			}
			moduleAdvanced = true
		}

		lesson, _ := s.lessons.lesson(l.module, l.page, l.difficulty)
		body = map[string]any{
			"success":         true,
			"lesson":          lesson,
			"has_more_pages":  lesson.CurrentPage+1 < lesson.TotalPages,
			"module_advanced": moduleAdvanced,
			"coming_soon":     false,
		}
	})
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	var p assessment.Progress
	s.learners.with(uid, func(l *learner) { p = l.progress(uid) })
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "progress": p})
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var moved, soon bool
	s.learners.with(userID(r), func(l *learner) {
		if l.module == diagnosticModule {
			l.moveTo(s.lessons.first())
		}
		moved, soon = s.advance(l)
	})

	msg := ""
	if soon {
		msg = comingSoonMessage
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"advanced":    moved,
		"coming_soon": soon,
		"message":     msg,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.learners.reset(userID(r))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Progress reset successfully"})
}

func (s *Server) handleUnavailable(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotImplemented, "not available in the local server")
}
