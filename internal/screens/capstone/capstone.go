// Package capstone generates a starter agent for tasks the learner
// describes.
package capstone

import (
	"context"
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnai/internal/assessment"
	"github.com/abhisek/learnai/internal/screen"
	"github.com/abhisek/learnai/internal/ui/components"
	"github.com/abhisek/learnai/internal/ui/layout"
	"github.com/abhisek/learnai/internal/ui/theme"
)

const (
	prompt        = "What type of tasks would you like your agent to manage?"
	defaultSaveAs = "my_agent.py"
)

// Service generates capstone agents. *assessment.Client implements it.
type Service interface {
	Capstone(ctx context.Context, taskDescription string) (*assessment.Capstone, error)
}

type generatedMsg struct {
	Result *assessment.Capstone
	Err    error
}

type savedMsg struct {
	Path string
	Err  error
}

// CapstoneScreen asks for a task description, then shows the agent the
// service built for it.
type CapstoneScreen struct {
	ctx     context.Context
	svc     Service
	saveAs  string
	input   components.TextInput
	spinner spinner.Model
	busy    bool
	result  *assessment.Capstone
	status  string
	errMsg  string
}

var _ screen.Screen = (*CapstoneScreen)(nil)
var _ screen.KeyHintProvider = (*CapstoneScreen)(nil)

// New creates a CapstoneScreen. Generated code is saved to my_agent.py in
// the working directory.
func New(ctx context.Context, svc Service) *CapstoneScreen {
	if ctx == nil {
		ctx = context.Background()
	}
	return &CapstoneScreen{
		ctx:     ctx,
		svc:     svc,
		saveAs:  defaultSaveAs,
		input:   components.NewTextInput("e.g. sort my inbox and draft replies", 500),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(theme.Notice)),
	}
}

func (s *CapstoneScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *CapstoneScreen) Title() string {
	return "Capstone"
}

func (s *CapstoneScreen) KeyHints() []layout.KeyHint {
	if s.result != nil {
		return []layout.KeyHint{
			{Key: "S", Description: "Save code"},
			{Key: "Esc", Description: "Home"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Generate"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *CapstoneScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.result = msg.Result
		return s, nil

	case savedMsg:
		if msg.Err != nil {
			s.status = "Couldn't save: " + msg.Err.Error()
		} else {
			s.status = "Saved to " + msg.Path
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

	if s.result == nil {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *CapstoneScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	if s.result != nil {
		if msg.String() == "s" && s.result.AgentCode != "" {
			return s, s.save()
		}
		return s, nil
	}

	if msg.String() != "enter" {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	task := s.input.Value()
	if task == "" {
		s.errMsg = "Describe the tasks first."
		return s, nil
	}
	s.busy = true
	s.errMsg = ""
	ctx, svc := s.ctx, s.svc
	return s, tea.Batch(s.spinner.Tick, func() tea.Msg {
		res, err := svc.Capstone(ctx, task)
		return generatedMsg{Result: res, Err: err}
	})
}

func (s *CapstoneScreen) save() tea.Cmd {
	path, code := s.saveAs, s.result.AgentCode
	return func() tea.Msg {
		err := os.WriteFile(path, []byte(code), 0o644)
		return savedMsg{Path: path, Err: err}
	}
}

func (s *CapstoneScreen) View(width, height int) string {
	textWidth := min(width-8, 80)
	var b strings.Builder

	if s.result == nil {
		b.WriteString(theme.Title.Width(textWidth).Render("Build Your First AI Agent"))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Render(prompt))
		b.WriteString("\n\n")
		b.WriteString(s.input.View())
		b.WriteString("\n")
		if s.busy {
			b.WriteString("\n" + s.spinner.View() + " Generating your custom AI agent...\n")
		}
		if s.errMsg != "" {
			b.WriteString("\n" + theme.Warning.Render(s.errMsg) + "\n")
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
	}

	r := s.result
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
		Render("Congratulations! You've completed your capstone project!"))
	b.WriteString("\n\n")
	description := r.AgentDescription
	if description == "" {
		description = "Your custom agent"
	}
	b.WriteString(lipgloss.NewStyle().Width(textWidth).Foreground(theme.Secondary).Render(description))
	b.WriteString("\n")

	if r.AgentCode != "" {
		b.WriteString("\n")
		b.WriteString(theme.Card.Width(textWidth).Render(clip(r.AgentCode, max(height-14, 4))))
		b.WriteString("\n")
	}

	if len(r.NextSteps) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Next steps"))
		b.WriteString("\n")
		for _, step := range r.NextSteps {
			b.WriteString(lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Render("• " + step))
			b.WriteString("\n")
		}
	}

	if s.status != "" {
		b.WriteString("\n" + theme.Notice.Render(s.status) + "\n")
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

// clip keeps the first n lines of code, noting how many were cut.
func clip(code string, n int) string {
	lines := strings.Split(strings.TrimRight(code, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:n], "\n") + fmt.Sprintf("\n… %d more lines (save to see all)", len(lines)-n)
}
