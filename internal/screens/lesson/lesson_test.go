package lesson

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnai/internal/assessment"
)

type fakeSource struct {
	lesson   *assessment.Lesson
	turns    []*assessment.PageTurn
	err      error
	calls    int
	eval     *assessment.Evaluation
	quizErr  error
	answers  []assessment.QuizAnswer
	images   map[string]string
	concepts []string
}

func (f *fakeSource) Lesson(context.Context) (*assessment.Lesson, error) {
	return f.lesson, f.err
}

func (f *fakeSource) NextLessonPage(context.Context) (*assessment.PageTurn, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	t := f.turns[0]
	f.turns = f.turns[1:]
	return t, nil
}

func (f *fakeSource) SubmitQuiz(_ context.Context, ans assessment.QuizAnswer) (*assessment.Evaluation, error) {
	f.answers = append(f.answers, ans)
	return f.eval, f.quizErr
}

func (f *fakeSource) Image(_ context.Context, concept string) (*assessment.Image, error) {
	f.concepts = append(f.concepts, concept)
	return &assessment.Image{URL: f.images[concept], Concept: concept}, nil
}

func page(module string, n, total int, content string) *assessment.Lesson {
	return &assessment.Lesson{Module: module, Content: content, CurrentPage: n, TotalPages: total}
}

func load(t *testing.T, s *LessonScreen) {
	t.Helper()
	cmd := s.Init()
	_, follow := s.Update(cmd())
	if follow != nil {
		s.Update(follow())
	}
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestLessonScreen_LoadsCurrentPage(t *testing.T) {
	src := &fakeSource{lesson: page("fundamentals", 0, 3, "What AI does")}
	s := New(context.Background(), src)
	load(t, s)

	view := s.View(100, 30)
	if !strings.Contains(view, "What AI does") || !strings.Contains(view, "page 1 of 3") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestLessonScreen_NextPage(t *testing.T) {
	src := &fakeSource{
		lesson: page("fundamentals", 0, 2, "one"),
		turns: []*assessment.PageTurn{
			{Lesson: page("fundamentals", 1, 2, "two")},
			{Lesson: page("transformers_llms", 0, 2, "attention"), ModuleAdvanced: true},
		},
	}
	s := New(context.Background(), src)
	load(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if cmd == nil {
		t.Fatal("expected a page-turn command")
	}
	// A second press while loading is ignored.
	if _, again := s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"}); again != nil {
		t.Error("expected no command while a page is loading")
	}
	s.Update(cmd())
	if s.lesson.CurrentPage != 1 || s.message != "" {
		t.Fatalf("expected page 2 without a message, got %+v %q", s.lesson, s.message)
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	s.Update(cmd())
	if s.lesson.Module != "transformers_llms" || !strings.Contains(s.message, "Transformers Llms") {
		t.Errorf("expected to enter the next module, got %+v %q", s.lesson, s.message)
	}
	if src.calls != 2 {
		t.Errorf("expected 2 page turns, got %d", src.calls)
	}
}

func TestLessonScreen_ComingSoonKeepsPage(t *testing.T) {
	src := &fakeSource{
		lesson: page("transformers_llms", 1, 2, "last page"),
		turns:  []*assessment.PageTurn{{ComingSoon: true, Message: "Agents are coming soon!"}},
	}
	s := New(context.Background(), src)
	load(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	s.Update(cmd())

	if s.lesson.Content != "last page" {
		t.Errorf("expected the page to stay, got %q", s.lesson.Content)
	}
	if !strings.Contains(s.View(100, 30), "Agents are coming soon!") {
		t.Error("expected the coming-soon message in the view")
	}
}

func TestLessonScreen_LoadError(t *testing.T) {
	s := New(context.Background(), &fakeSource{err: errors.New("service down")})
	load(t, s)

	if !strings.Contains(s.View(100, 30), "service down") {
		t.Error("expected the error in the view")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"}); cmd != nil {
		t.Error("expected no page turn without a lesson")
	}
}

func checkPage(questions ...assessment.CheckQuestion) *assessment.Lesson {
	l := page("agents", 0, 2, "Agents use tools")
	l.CheckQuestions = questions
	return l
}

func TestLessonScreen_AnswersMultipleChoiceCheck(t *testing.T) {
	correct, global := 1, 3
	src := &fakeSource{
		lesson: checkPage(assessment.CheckQuestion{
			Question:           "Which one is a tool?",
			Options:            []string{"A mood", "A web search", "A color"},
			CorrectAnswerIndex: &correct,
			GlobalIndex:        &global,
		}),
		eval: &assessment.Evaluation{Correct: true},
	}
	s := New(context.Background(), src)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := start
	s.now = func() time.Time { return clock }
	load(t, s)

	s.Update(key('a'))
	if s.check == nil {
		t.Fatal("expected the check question to open")
	}

	// Nothing is highlighted yet, so Enter alone is not an answer.
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Fatal("expected no submission without a selection")
	}
	if s.warning == "" || len(src.answers) != 0 {
		t.Fatalf("warning %q answers %v", s.warning, src.answers)
	}

	clock = start.Add(4 * time.Second)
	_, cmd := s.Update(key('2'))
	if cmd == nil {
		t.Fatal("expected a quiz submission")
	}
	s.Update(cmd())

	if len(src.answers) != 1 {
		t.Fatalf("answers = %v", src.answers)
	}
	ans := src.answers[0]
	if ans.QuestionID != "agents_q3" || ans.Answer != "A web search" || *ans.SelectedOption != 1 ||
		*ans.CorrectAnswerIndex != 1 || ans.HesitationSeconds != 4 {
		t.Errorf("unexpected answer %+v", ans)
	}
	if s.check != nil || !strings.Contains(s.View(100, 30), "Correct! Great job!") {
		t.Errorf("expected feedback after grading:\n%s", s.View(100, 30))
	}
	if s.pendingCheck() != -1 {
		t.Error("an answered question must not be offered again")
	}
}

func TestLessonScreen_AnswersOpenCheck(t *testing.T) {
	src := &fakeSource{
		lesson: checkPage(assessment.CheckQuestion{Question: "What does an agent loop do?"}),
		eval:   &assessment.Evaluation{Correct: true, IsConfused: true},
	}
	s := New(context.Background(), src)
	load(t, s)

	s.Update(key('a'))
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Fatal("expected an empty answer to be refused")
	}
	for _, r := range "not sure" {
		s.Update(key(r))
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())

	if len(src.answers) != 1 || src.answers[0].Answer != "not sure" || src.answers[0].SelectedOption != nil {
		t.Fatalf("answers = %+v", src.answers)
	}
	if src.answers[0].QuestionID != "agents_q0" {
		t.Errorf("question id = %q", src.answers[0].QuestionID)
	}
	view := s.View(100, 30)
	if strings.Contains(view, "Correct!") || !strings.Contains(view, "Let me help clarify") {
		t.Errorf("a confused learner must not be told they were right:\n%s", view)
	}
}

func TestLessonScreen_QuizErrorKeepsQuestionOpen(t *testing.T) {
	src := &fakeSource{
		lesson:  checkPage(assessment.CheckQuestion{Question: "Pick one", Options: []string{"x", "y"}}),
		quizErr: errors.New("not available in the local server"),
	}
	s := New(context.Background(), src)
	load(t, s)

	s.Update(key('a'))
	_, cmd := s.Update(key('1'))
	s.Update(cmd())

	if s.check == nil || s.check.choice.Submitted {
		t.Fatal("expected the question to stay open for another try")
	}
	if !strings.Contains(s.View(100, 30), "not available in the local server") {
		t.Error("expected the error in the view")
	}
}

func TestLessonScreen_ResolvesConceptImage(t *testing.T) {
	l := page("transformers_llms", 0, 1, "Attention")
	l.ImageReference = "freepik://attention diagram"
	src := &fakeSource{lesson: l, images: map[string]string{"attention diagram": "https://img.example/attn.png"}}
	s := New(context.Background(), src)
	load(t, s)

	if len(src.concepts) != 1 || src.concepts[0] != "attention diagram" {
		t.Fatalf("concepts = %q", src.concepts)
	}
	if !strings.Contains(s.View(100, 30), "Visual aid: https://img.example/attn.png") {
		t.Errorf("unexpected view:\n%s", s.View(100, 30))
	}
}

func TestLessonScreen_UnresolvedImageIsHidden(t *testing.T) {
	l := page("fundamentals", 0, 1, "Basics")
	l.ImageReference = "freepik://neural network"
	src := &fakeSource{lesson: l}
	s := New(context.Background(), src)
	load(t, s)

	if strings.Contains(s.View(100, 30), "Visual aid") {
		t.Error("expected no visual aid without an image URL")
	}
}
