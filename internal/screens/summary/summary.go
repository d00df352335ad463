// Package summary shows the diagnostic result before the lesson flow.
package summary

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	diag "github.com/abhisek/learnai/internal/diagnostic"
	"github.com/abhisek/learnai/internal/router"
	"github.com/abhisek/learnai/internal/screen"
	"github.com/abhisek/learnai/internal/ui/layout"
	"github.com/abhisek/learnai/internal/ui/theme"
)

// continueMsg fires when the summary has been up for its delay.
type continueMsg struct{}

// SummaryScreen displays the completion message, then replaces itself with
// the lesson flow after a delay. Enter skips the wait.
type SummaryScreen struct {
	summary diag.Summary
	delay   time.Duration
	next    func() screen.Screen
	done    bool
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen that moves on to next after delay.
func New(summary diag.Summary, delay time.Duration, next func() screen.Screen) *SummaryScreen {
	return &SummaryScreen{summary: summary, delay: delay, next: next}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return tea.Tick(s.delay, func(time.Time) tea.Msg { return continueMsg{} })
}

func (s *SummaryScreen) Title() string {
	return "Your Level"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start learning"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case continueMsg:
		return s, s.advance()
	case tea.KeyMsg:
		if msg.String() == "enter" {
			return s, s.advance()
		}
	}
	return s, nil
}

// advance hands off exactly once, whichever of the timer and Enter comes first.
func (s *SummaryScreen) advance() tea.Cmd {
	if s.done {
		return nil
	}
	s.done = true
	next := s.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	headline := "Diagnostic complete"
	color := theme.Primary
	if sum.Perfect() {
		headline = "Diagnostic complete ★"
		color = theme.Success
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(color).
		Bold(true).
		Render(headline))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(sum.Message))
	b.WriteString("\n\n")

	if sum.Reasoning != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().
				Width(min(width-8, 70)).
				Foreground(theme.TextDim).
				Render(sum.Reasoning)))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Inherit(theme.Hint).
		Render("Preparing your first lesson..."))

	return lipgloss.PlaceVertical(height, lipgloss.Center, b.String())
}
