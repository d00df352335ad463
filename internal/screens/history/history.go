// Package history lists past diagnostic sessions from the local event log.
package history

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	diag "github.com/abhisek/learnai/internal/diagnostic"
	"github.com/abhisek/learnai/internal/router"
	"github.com/abhisek/learnai/internal/screen"
	"github.com/abhisek/learnai/internal/store"
	"github.com/abhisek/learnai/internal/ui/layout"
	"github.com/abhisek/learnai/internal/ui/theme"
)

// maxEvents bounds how much of the log is read.
const maxEvents = 1000

// Events reads the diagnostic event log.
type Events interface {
	DiagnosticEvents(ctx context.Context, opts store.QueryOpts) ([]store.DiagnosticEvent, error)
}

// sessionRow is one diagnostic session, its events oldest first.
type sessionRow struct {
	ID      string
	Events  []store.DiagnosticEvent
	Answers int
	Outcome string
}

type historyLoadedMsg struct {
	Sessions []sessionRow
	Err      error
}

// HistoryScreen displays past diagnostic sessions.
type HistoryScreen struct {
	events   Events
	sessions []sessionRow
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(events Events) *HistoryScreen {
	return &HistoryScreen{
		events:   events,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	events := s.events
	return func() tea.Msg {
		evs, err := events.DiagnosticEvents(context.Background(), store.QueryOpts{Limit: maxEvents})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Sessions: groupSessions(evs)}
	}
}

// groupSessions groups newest-first events by session, keeping sessions
// newest first and each session's events oldest first.
func groupSessions(evs []store.DiagnosticEvent) []sessionRow {
	var rows []sessionRow
	index := make(map[string]int)
	for _, ev := range evs {
		i, ok := index[ev.SessionID]
		if !ok {
			i = len(rows)
			index[ev.SessionID] = i
			rows = append(rows, sessionRow{ID: ev.SessionID, Outcome: "unfinished"})
		}
		rows[i].Events = append(rows[i].Events, ev)
	}

	for i := range rows {
		r := &rows[i]
		slices.Reverse(r.Events)
		for _, ev := range r.Events {
			switch ev.Kind {
			case diag.EventAnswerRecorded, diag.EventFallbackSubmitted:
				r.Answers++
			case diag.EventCompleted:
				r.Outcome = ev.Detail
			case diag.EventLessonHandoff:
				r.Outcome = "went straight to lessons"
			}
		}
	}
	return rows
}

func (s *HistoryScreen) Title() string {
	return "Past Diagnostics"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No diagnostics yet. Take one from the home screen!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, row := range s.sessions {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}

		started := row.Events[0].Timestamp.Local().Format("Jan 02, 2006 15:04")
		line := fmt.Sprintf("%s%s  %d answers  %s", prefix, started, row.Answers, row.Outcome)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, ev := range row.Events {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render("    "+describe(ev))))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func describe(ev store.DiagnosticEvent) string {
	var b strings.Builder
	b.WriteString(ev.Timestamp.Local().Format("15:04:05"))
	b.WriteString("  ")
	b.WriteString(ev.Kind)
	if ev.QuestionIndex != nil {
		fmt.Fprintf(&b, " q%d", *ev.QuestionIndex+1)
	}
	if ev.SelectedOption != nil {
		fmt.Fprintf(&b, " chose %d", *ev.SelectedOption+1)
	}
	if ev.HesitationSeconds > 0 {
		fmt.Fprintf(&b, " after %.1fs", ev.HesitationSeconds)
	}
	if ev.Detail != "" {
		b.WriteString("  " + ev.Detail)
	}
	return b.String()
}
