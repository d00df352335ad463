// Package diagnostic is the screen that runs the placement diagnostic.
package diagnostic

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	diag "github.com/abhisek/learnai/internal/diagnostic"
	"github.com/abhisek/learnai/internal/router"
	"github.com/abhisek/learnai/internal/screen"
	"github.com/abhisek/learnai/internal/screens/summary"
	"github.com/abhisek/learnai/internal/ui/components"
	"github.com/abhisek/learnai/internal/ui/layout"
	"github.com/abhisek/learnai/internal/ui/theme"
)

// defaultNoticeFor is how long a notice stays up.
const defaultNoticeFor = 4 * time.Second

// Controller runs a diagnostic session. *diag.Controller implements it.
type Controller interface {
	Start(ctx context.Context) diag.Step
	Submit(ctx context.Context, option int) (diag.Step, error)
	SubmitFallback(ctx context.Context, text string) (diag.Step, error)
}

// DiagnosticScreen shows diagnostic questions and forwards answers to the
// controller. Controller calls run as commands so the UI never blocks.
type DiagnosticScreen struct {
	ctx     context.Context
	ctrl    Controller
	lessons func() screen.Screen

	sessionID string
	step      diag.Step
	started   bool

	choice  components.MultiChoice
	input   components.TextInput
	spinner spinner.Model
	busy    bool

	notice    string
	noticeSeq int
	noticeFor time.Duration
	warning   string
	errMsg    string
}

var _ screen.Screen = (*DiagnosticScreen)(nil)
var _ screen.KeyHintProvider = (*DiagnosticScreen)(nil)

// New creates a DiagnosticScreen. Controller calls run under ctx, which
// should end when the program does. lessons builds the screen that
// replaces this one when the diagnostic hands off to the lesson flow.
func New(ctx context.Context, ctrl Controller, lessons func() screen.Screen) *DiagnosticScreen {
	if ctx == nil {
		ctx = context.Background()
	}
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(theme.Notice))
	return &DiagnosticScreen{
		ctx:       ctx,
		ctrl:      ctrl,
		lessons:   lessons,
		noticeFor: defaultNoticeFor,
		spinner:   sp,
	}
}

func (s *DiagnosticScreen) Init() tea.Cmd {
	s.busy = true
	ctx, ctrl := s.ctx, s.ctrl
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		return stepMsg{Step: ctrl.Start(ctx), Start: true, from: s}
	})
}

func (s *DiagnosticScreen) Title() string {
	return "Diagnostic"
}

func (s *DiagnosticScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "" || !s.started:
		return []layout.KeyHint{{Key: "Esc", Description: "Home"}}
	case s.step.Kind == diag.StepFallback:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Leave"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-5", Description: "Answer"},
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Leave"},
	}
}

func (s *DiagnosticScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		return s.handleStep(msg)

	case noticeExpiredMsg:
		if msg.Seq == s.noticeSeq {
			s.notice = ""
		}
		return s, nil

	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.started && s.step.Kind == diag.StepFallback {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *DiagnosticScreen) handleStep(msg stepMsg) (screen.Screen, tea.Cmd) {
	if msg.from != s {
		// A result for a screen that has since been left.
		return s, nil
	}
	if msg.Start {
		s.sessionID = msg.Step.SessionID
	} else if msg.Step.SessionID != "" && msg.Step.SessionID != s.sessionID {
		// Left over from a session that has since been restarted.
		return s, nil
	}
	s.busy = false

	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	step := msg.Step
	var cmds []tea.Cmd
	switch step.Kind {
	case diag.StepQuestion:
		if !s.started || s.step.Kind != diag.StepQuestion || s.step.Index != step.Index {
			s.choice = components.NewMultiChoice(step.Question.Options)
		} else {
			s.choice.Reopen()
		}

	case diag.StepFallback:
		if !s.started || s.step.Kind != diag.StepFallback {
			s.input = components.NewTextInput(step.Fallback.Hint, 500)
			cmds = append(cmds, s.input.Init())
		}

	case diag.StepComplete:
		next := summary.New(*step.Summary, step.Delay, s.lessons)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case diag.StepLessons:
		next := s.lessons()
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}

	s.started = true
	s.step = step
	s.warning = step.Warning
	if step.Notice != "" {
		s.noticeSeq++
		s.notice = step.Notice
		seq := s.noticeSeq
		cmds = append(cmds, tea.Tick(s.noticeFor, func(time.Time) tea.Msg {
			return noticeExpiredMsg{Seq: seq}
		}))
	}
	return s, tea.Batch(cmds...)
}

func (s *DiagnosticScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.busy || !s.started || s.errMsg != "" {
		return s, nil
	}

	switch s.step.Kind {
	case diag.StepQuestion:
		s.choice, _ = s.choice.Update(msg)
		if !s.choice.Submitted {
			return s, nil
		}
		option := s.choice.ChosenIndex
		return s, s.call(func(ctx context.Context) (diag.Step, error) {
			return s.ctrl.Submit(ctx, option)
		})

	case diag.StepFallback:
		if msg.String() == "enter" {
			text := s.input.Value()
			return s, s.call(func(ctx context.Context) (diag.Step, error) {
				return s.ctrl.SubmitFallback(ctx, text)
			})
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// call runs a controller operation in the background, showing the spinner
// until its step arrives.
func (s *DiagnosticScreen) call(op func(context.Context) (diag.Step, error)) tea.Cmd {
	s.busy = true
	s.warning = ""
	ctx := s.ctx
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		step, err := op(ctx)
		return stepMsg{Step: step, Err: err, from: s}
	})
}
