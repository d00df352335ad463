package diagnostic

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	diag "github.com/abhisek/learnai/internal/diagnostic"
	"github.com/abhisek/learnai/internal/ui/components"
	"github.com/abhisek/learnai/internal/ui/theme"
)

func (s *DiagnosticScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nThe diagnostic stopped: %s\n\nPress Esc to go home.", s.errMsg))
	}
	if !s.started {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			s.spinner.View()+" Loading your first question...")
	}

	var body string
	if s.step.Kind == diag.StepFallback {
		body = s.renderFallback(width)
	} else {
		body = s.renderQuestion(width)
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if s.warning != "" {
		b.WriteString(centered(width, theme.Warning.Render(s.warning)))
		b.WriteString("\n")
	}
	if s.busy {
		b.WriteString(centered(width, s.spinner.View()+" Sending..."))
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(centered(width, theme.Notice.Render(s.notice)))
	}
	return b.String()
}

func (s *DiagnosticScreen) renderQuestion(width int) string {
	step := s.step
	var b strings.Builder

	barWidth := min(width-8, 60)
	bar := components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", step.Index+1, step.Total),
		float64(step.Index)/float64(max(step.Total, 1)),
		false,
		barWidth,
	)
	b.WriteString("\n")
	b.WriteString(centered(width, bar.View()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(step.Question.Text))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
	return b.String()
}

func (s *DiagnosticScreen) renderFallback(width int) string {
	fb := s.step.Fallback
	var b strings.Builder

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(fb.Prompt))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Hint.Render(fb.Hint)))
	b.WriteString("\n\n")
	b.WriteString(centered(width, "> "+s.input.View()))
	b.WriteString("\n")
	return b.String()
}

func centered(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
