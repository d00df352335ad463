package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	diag "github.com/abhisek/learnai/internal/diagnostic"
	"github.com/abhisek/learnai/internal/store"
)

type fakeEvents struct {
	events []store.DiagnosticEvent
	err    error
}

func (f *fakeEvents) DiagnosticEvents(context.Context, store.QueryOpts) ([]store.DiagnosticEvent, error) {
	return f.events, f.err
}

func event(id int64, session, kind, detail string) store.DiagnosticEvent {
	return store.DiagnosticEvent{
		ID:        id,
		Timestamp: time.Date(2026, 3, 1, 10, 0, int(id), 0, time.UTC),
		DiagnosticEventData: store.DiagnosticEventData{
			SessionID: session,
			Kind:      kind,
			Detail:    detail,
		},
	}
}

func TestGroupSessions(t *testing.T) {
	// Newest first, as the store returns them.
	evs := []store.DiagnosticEvent{
		event(7, "b", diag.EventQuestionShown, ""),
		event(6, "b", diag.EventSessionStart, ""),
		event(5, "a", diag.EventCompleted, "perfect: Expert"),
		event(4, "a", diag.EventAnswerRecorded, ""),
		event(3, "a", diag.EventAnswerRecorded, ""),
		event(2, "a", diag.EventQuestionShown, ""),
		event(1, "a", diag.EventSessionStart, ""),
	}

	rows := groupSessions(evs)

	if len(rows) != 2 || rows[0].ID != "b" || rows[1].ID != "a" {
		t.Fatalf("unexpected sessions: %+v", rows)
	}
	if rows[1].Answers != 2 || rows[1].Outcome != "perfect: Expert" {
		t.Errorf("session a = %d answers, %q", rows[1].Answers, rows[1].Outcome)
	}
	if rows[0].Outcome != "unfinished" {
		t.Errorf("session b outcome = %q", rows[0].Outcome)
	}
	if rows[1].Events[0].Kind != diag.EventSessionStart {
		t.Errorf("expected events oldest first, got %q first", rows[1].Events[0].Kind)
	}
}

func TestHistoryScreen_LoadAndExpand(t *testing.T) {
	s := New(&fakeEvents{events: []store.DiagnosticEvent{
		event(2, "a", diag.EventLessonHandoff, "fallback answered"),
		event(1, "a", diag.EventSessionStart, ""),
	}})
	s.Update(s.Init()())

	view := s.View(100, 30)
	if !strings.Contains(view, "went straight to lessons") {
		t.Errorf("unexpected view:\n%s", view)
	}
	if strings.Contains(view, "fallback answered") {
		t.Error("details should be hidden until expanded")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(100, 30), "fallback answered") {
		t.Error("expected details after Enter")
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(&fakeEvents{})
	s.Update(s.Init()())
	if !strings.Contains(s.View(100, 30), "No diagnostics yet") {
		t.Error("expected the empty message")
	}
}

func TestHistoryScreen_Error(t *testing.T) {
	s := New(&fakeEvents{err: errors.New("disk full")})
	s.Update(s.Init()())
	if !strings.Contains(s.View(100, 30), "disk full") {
		t.Error("expected the error message")
	}
}

func TestHistoryScreen_EscPops(t *testing.T) {
	s := New(&fakeEvents{})
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd == nil {
		t.Error("expected a pop command on Esc")
	}
}
