// Package home is the main menu.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnai/internal/assessment"
	diag "github.com/abhisek/learnai/internal/diagnostic"
	"github.com/abhisek/learnai/internal/router"
	"github.com/abhisek/learnai/internal/screen"
	"github.com/abhisek/learnai/internal/screens/placeholder"
	"github.com/abhisek/learnai/internal/ui/components"
	"github.com/abhisek/learnai/internal/ui/layout"
	"github.com/abhisek/learnai/internal/ui/theme"
)

const capstoneMessage = "Capstone projects are coming soon.\nFinish the available modules first!"

// Service reports and resets the learner's progress. *assessment.Client
// implements it.
type Service interface {
	Progress(ctx context.Context) (*assessment.Progress, error)
	Reset(ctx context.Context) (string, error)
}

// Deps builds the screens the menu opens. History may be nil when there
// is no local event log. Without Capstone the menu entry says the
// feature is coming soon.
type Deps struct {
	Service    Service
	Diagnostic func() screen.Screen
	Lessons    func() screen.Screen
	History    func() screen.Screen
	Capstone   func() screen.Screen
}

type progressMsg struct {
	Progress *assessment.Progress
	Err      error
}

type resetMsg struct {
	Message string
	Err     error
}

// HomeScreen is the main menu with a one-line progress summary.
type HomeScreen struct {
	deps     Deps
	menu     components.Menu
	progress *assessment.Progress
	status   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	capstone := deps.Capstone
	if capstone == nil {
		capstone = func() screen.Screen { return placeholder.New("Capstone", capstoneMessage) }
	}

	items := []components.MenuItem{
		{Label: "Take the diagnostic", Action: push(deps.Diagnostic)},
		{Label: "Continue learning", Action: push(deps.Lessons)},
		{Label: "Past diagnostics", Action: push(deps.History), Disabled: deps.History == nil},
		{Label: "Capstone project", Action: push(capstone)},
		{Label: "Reset progress", Action: h.reset},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadProgress()
}

func (h *HomeScreen) loadProgress() tea.Cmd {
	svc := h.deps.Service
	return func() tea.Msg {
		p, err := svc.Progress(context.Background())
		return progressMsg{Progress: p, Err: err}
	}
}

func (h *HomeScreen) reset() tea.Cmd {
	svc := h.deps.Service
	return func() tea.Msg {
		msg, err := svc.Reset(context.Background())
		return resetMsg{Message: msg, Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "R", Description: "Refresh"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		if msg.Err != nil {
			h.progress = nil
			h.status = "Couldn't reach the learning service: " + msg.Err.Error()
			return h, nil
		}
		h.progress = msg.Progress
		return h, nil

	case resetMsg:
		if msg.Err != nil {
			h.status = "Reset failed: " + msg.Err.Error()
			return h, nil
		}
		h.status = msg.Message
		return h, h.loadProgress()

	case tea.KeyMsg:
		if msg.String() == "r" {
			h.status = ""
			return h, h.loadProgress()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Width(width).Render("LearnAI"))
	sections = append(sections, theme.Subtitle.Width(width).Render(h.progressLine()))

	menu := theme.Card.Render(strings.TrimRight(h.menu.View(), "\n"))
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, menu))

	if h.status != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Notice.Render(h.status)))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n\n"))
}

func (h *HomeScreen) progressLine() string {
	p := h.progress
	switch {
	case p == nil:
		return "Progress unavailable"
	case len(p.CompletedModules) == 0 && p.CurrentModule == "diagnostic":
		return "New here? Start with the diagnostic."
	}
	return fmt.Sprintf("Module: %s · Level: %s · Completed: %d",
		assessment.ModuleTitle(p.CurrentModule), diag.LevelLabel(p.DifficultyLevel), len(p.CompletedModules))
}
