package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnai/internal/assessment"
	diag "github.com/abhisek/learnai/internal/diagnostic"
	"github.com/abhisek/learnai/internal/router"
	"github.com/abhisek/learnai/internal/screen"
	"github.com/abhisek/learnai/internal/screens/capstone"
	diagscreen "github.com/abhisek/learnai/internal/screens/diagnostic"
	"github.com/abhisek/learnai/internal/screens/history"
	"github.com/abhisek/learnai/internal/screens/home"
	"github.com/abhisek/learnai/internal/screens/lesson"
	"github.com/abhisek/learnai/internal/screens/welcome"
	"github.com/abhisek/learnai/internal/ui/layout"
)

// Service is the part of the assessment client the menus use.
// *assessment.Client implements it.
type Service interface {
	home.Service
	lesson.Source
	capstone.Service
}

var (
	_ Service               = (*assessment.Client)(nil)
	_ diagscreen.Controller = (*diag.Controller)(nil)
)

// Options holds the dependencies the screens are built from.
type Options struct {
	// Context bounds the service calls screens make. Cancel it once Run
	// returns so nothing started by the UI outlives the program.
	Context    context.Context
	Controller diagscreen.Controller
	Service    Service
	// Events is the local diagnostic log. Past diagnostics are hidden
	// when it is nil.
	Events history.Events
	// Status is shown on the right of the header.
	Status string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status string
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the welcome screen.
func newAppModel(opts Options) AppModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	lessons := func() screen.Screen { return lesson.New(ctx, opts.Service) }

	deps := home.Deps{
		Service: opts.Service,
		Diagnostic: func() screen.Screen {
			return diagscreen.New(ctx, opts.Controller, lessons)
		},
		Lessons: lessons,
		Capstone: func() screen.Screen {
			return capstone.New(ctx, opts.Service)
		},
	}
	if opts.Events != nil {
		deps.History = func() screen.Screen { return history.New(opts.Events) }
	}

	welcomeScreen := welcome.New(func() screen.Screen { return home.New(deps) })
	return AppModel{
		router: router.New(welcomeScreen),
		status: opts.Status,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)
	footer := layout.RenderFooter(m.hints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) hints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
