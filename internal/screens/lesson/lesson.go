// Package lesson shows the learner's current lesson page and its check
// questions.
package lesson

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnai/internal/assessment"
	diag "github.com/abhisek/learnai/internal/diagnostic"
	"github.com/abhisek/learnai/internal/screen"
	"github.com/abhisek/learnai/internal/ui/components"
	"github.com/abhisek/learnai/internal/ui/layout"
	"github.com/abhisek/learnai/internal/ui/theme"
)

// imageScheme marks an image reference the service has not resolved to a
// URL yet. The rest of the reference is the concept to look up.
const imageScheme = "freepik://"

// Source serves lesson pages, grades check answers and finds
// illustrations. *assessment.Client implements it.
type Source interface {
	Lesson(ctx context.Context) (*assessment.Lesson, error)
	NextLessonPage(ctx context.Context) (*assessment.PageTurn, error)
	SubmitQuiz(ctx context.Context, ans assessment.QuizAnswer) (*assessment.Evaluation, error)
	Image(ctx context.Context, concept string) (*assessment.Image, error)
}

type lessonLoadedMsg struct {
	Lesson *assessment.Lesson
	Err    error
}

type pageTurnedMsg struct {
	Turn *assessment.PageTurn
	Err  error
}

type imageMsg struct {
	Ref string
	URL string
}

type gradedMsg struct {
	QuestionID string
	Eval       *assessment.Evaluation
	Err        error
}

// check is the check question being answered.
type check struct {
	id       string
	question assessment.CheckQuestion
	opened   time.Time
	choice   components.MultiChoice
	input    components.TextInput
	busy     bool
}

// LessonScreen displays one lesson page at a time.
type LessonScreen struct {
	ctx      context.Context
	src      Source
	now      func() time.Time
	lesson   *assessment.Lesson
	imageURL string
	loading  bool
	message  string
	errMsg   string

	check    *check
	answered map[string]bool
	feedback string
	warning  string
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a LessonScreen backed by src. Service calls run under ctx.
func New(ctx context.Context, src Source) *LessonScreen {
	if ctx == nil {
		ctx = context.Background()
	}
	return &LessonScreen{
		ctx:      ctx,
		src:      src,
		now:      time.Now,
		answered: make(map[string]bool),
	}
}

func (s *LessonScreen) Init() tea.Cmd {
	s.loading = true
	ctx, src := s.ctx, s.src
	return func() tea.Msg {
		l, err := src.Lesson(ctx)
		return lessonLoadedMsg{Lesson: l, Err: err}
	}
}

func (s *LessonScreen) Title() string {
	if s.lesson != nil && s.lesson.Title != "" {
		return s.lesson.Title
	}
	return "Lesson"
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.check != nil {
		if len(s.check.question.Options) > 0 {
			return []layout.KeyHint{
				{Key: "1-9", Description: "Answer"},
				{Key: "↑↓", Description: "Move"},
				{Key: "Enter", Description: "Submit"},
			}
		}
		return []layout.KeyHint{{Key: "Enter", Description: "Submit"}}
	}
	hints := []layout.KeyHint{{Key: "N", Description: "Next page"}}
	if s.pendingCheck() >= 0 {
		hints = append(hints, layout.KeyHint{Key: "A", Description: "Answer check"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Home"})
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, s.show(msg.Lesson)

	case pageTurnedMsg:
		s.loading = false
		switch {
		case msg.Err != nil:
			s.message = "Couldn't load the next page: " + msg.Err.Error()
		case msg.Turn.ComingSoon:
			s.message = msg.Turn.Message
		default:
			cmd := s.show(msg.Turn.Lesson)
			s.message = ""
			if msg.Turn.ModuleAdvanced {
				s.message = "New module: " + assessment.ModuleTitle(s.lesson.Module)
			}
			return s, cmd
		}
		return s, nil

	case imageMsg:
		if s.lesson != nil && s.lesson.ImageReference == msg.Ref {
			s.imageURL = msg.URL
		}
		return s, nil

	case gradedMsg:
		return s.handleGraded(msg)

	case tea.KeyMsg:
		if s.check != nil {
			return s.handleCheckKey(msg)
		}
		switch msg.String() {
		case "n", "right":
			if s.loading || s.lesson == nil {
				return s, nil
			}
			s.loading = true
			ctx, src := s.ctx, s.src
			return s, func() tea.Msg {
				turn, err := src.NextLessonPage(ctx)
				return pageTurnedMsg{Turn: turn, Err: err}
			}
		case "a":
			s.openCheck()
			if s.check != nil && len(s.check.question.Options) == 0 {
				return s, s.check.input.Init()
			}
		}
		return s, nil
	}

	if s.check != nil && len(s.check.question.Options) == 0 {
		var cmd tea.Cmd
		s.check.input, cmd = s.check.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// show displays l and looks up its illustration when the service only
// named a concept.
func (s *LessonScreen) show(l *assessment.Lesson) tea.Cmd {
	s.lesson = l
	s.check = nil
	s.feedback = ""
	s.warning = ""
	s.imageURL = ""

	ref := l.ImageReference
	if ref == "" {
		return nil
	}
	concept, ok := strings.CutPrefix(ref, imageScheme)
	if !ok {
		s.imageURL = ref
		return nil
	}
	if concept == "" {
		return nil
	}
	ctx, src := s.ctx, s.src
	return func() tea.Msg {
		img, err := src.Image(ctx, concept)
		if err != nil || img == nil || strings.HasPrefix(img.URL, imageScheme) {
			return imageMsg{Ref: ref}
		}
		return imageMsg{Ref: ref, URL: img.URL}
	}
}

// pendingCheck returns the position of the first unanswered check
// question on the page, or -1.
func (s *LessonScreen) pendingCheck() int {
	if s.lesson == nil {
		return -1
	}
	for i, q := range s.lesson.CheckQuestions {
		if !s.answered[q.QuizID(s.lesson.Module, i)] {
			return i
		}
	}
	return -1
}

func (s *LessonScreen) openCheck() {
	i := s.pendingCheck()
	if i < 0 || s.loading {
		return
	}
	q := s.lesson.CheckQuestions[i]
	c := &check{
		id:       q.QuizID(s.lesson.Module, i),
		question: q,
		opened:   s.now(),
	}
	if len(q.Options) > 0 {
		c.choice = components.NewMultiChoice(q.Options)
	} else {
		c.input = components.NewTextInput("Your answer", 500)
	}
	s.check = c
	s.feedback = ""
	s.warning = ""
}

func (s *LessonScreen) handleCheckKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	c := s.check
	if c.busy {
		return s, nil
	}

	ans := assessment.QuizAnswer{QuestionID: c.id, Question: c.question.Question}
	if len(c.question.Options) > 0 {
		c.choice, _ = c.choice.Update(msg)
		if !c.choice.Submitted {
			return s, nil
		}
		chosen := c.choice.ChosenIndex
		if chosen < 0 || chosen >= len(c.question.Options) {
			s.warning = diag.WarningNoSelection
			c.choice.Reopen()
			return s, nil
		}
		ans.Answer = c.question.Options[chosen]
		ans.SelectedOption = &chosen
		ans.CorrectAnswerIndex = c.question.CorrectAnswerIndex
	} else {
		if msg.String() != "enter" {
			var cmd tea.Cmd
			c.input, cmd = c.input.Update(msg)
			return s, cmd
		}
		ans.Answer = c.input.Value()
		if ans.Answer == "" {
			s.warning = "Please type an answer."
			return s, nil
		}
	}
	ans.HesitationSeconds = s.now().Sub(c.opened).Seconds()

	c.busy = true
	s.warning = ""
	ctx, src := s.ctx, s.src
	return s, func() tea.Msg {
		ev, err := src.SubmitQuiz(ctx, ans)
		return gradedMsg{QuestionID: ans.QuestionID, Eval: ev, Err: err}
	}
}

func (s *LessonScreen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	c := s.check
	if c == nil || c.id != msg.QuestionID {
		return s, nil
	}
	c.busy = false
	if msg.Err != nil {
		s.warning = "Couldn't check your answer: " + msg.Err.Error()
		if len(c.question.Options) > 0 {
			c.choice.Reopen()
		}
		return s, nil
	}

	s.answered[c.id] = true
	s.check = nil
	ev := msg.Eval
	lines := []string{ev.Verdict()}
	if ev.Reasoning != "" {
		lines = append(lines, ev.Reasoning)
	}
	if ev.IsConfused {
		lines = append(lines, "I've simplified the next content and will focus on examples.")
	}
	s.feedback = strings.Join(lines, "\n")
	return s, nil
}

func (s *LessonScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nCouldn't load your lesson: %s", s.errMsg))
	}
	if s.lesson == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading your lesson...")
	}

	l := s.lesson
	textWidth := min(width-8, 80)
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("%s · page %d of %d", assessment.ModuleTitle(l.Module), l.CurrentPage+1, l.TotalPages)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Render(strings.TrimSpace(l.Content)))
	b.WriteString("\n")

	if s.imageURL != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Visual aid: " + s.imageURL))
		b.WriteString("\n")
	}

	if s.check != nil {
		b.WriteString("\n")
		b.WriteString(s.renderCheck(textWidth))
	} else if len(l.CheckQuestions) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Check yourself"))
		b.WriteString("\n")
		for i, q := range l.CheckQuestions {
			mark := "• "
			if s.answered[q.QuizID(l.Module, i)] {
				mark = "✓ "
			}
			b.WriteString(lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Render(mark + q.Question))
			b.WriteString("\n")
		}
	}

	if s.warning != "" {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render(s.warning))
		b.WriteString("\n")
	}
	if s.feedback != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(textWidth).Foreground(theme.Accent).Render(s.feedback))
		b.WriteString("\n")
	}
	if s.message != "" {
		b.WriteString("\n")
		b.WriteString(theme.Notice.Render(s.message))
		b.WriteString("\n")
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (s *LessonScreen) renderCheck(width int) string {
	c := s.check
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Bold(true).Render(c.question.Question))
	b.WriteString("\n\n")
	if len(c.question.Options) > 0 {
		b.WriteString(c.choice.View())
	} else {
		b.WriteString(c.input.View())
		b.WriteString("\n")
	}
	if c.busy {
		b.WriteString(theme.Hint.Render("Checking your answer..."))
		b.WriteString("\n")
	}
	return b.String()
}
