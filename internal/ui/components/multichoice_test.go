package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func press(m MultiChoice, msgs ...tea.Msg) MultiChoice {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func TestMultiChoice_ArrowsThenEnter(t *testing.T) {
	m := press(NewMultiChoice([]string{"a", "b", "c"}),
		tea.KeyPressMsg{Code: tea.KeyDown},
		tea.KeyPressMsg{Code: tea.KeyDown},
		tea.KeyPressMsg{Code: tea.KeyDown},
		tea.KeyPressMsg{Code: tea.KeyUp},
		tea.KeyPressMsg{Code: tea.KeyEnter},
	)
	if !m.Submitted || m.ChosenIndex != 1 {
		t.Errorf("submitted=%v chosen=%d, want true 1", m.Submitted, m.ChosenIndex)
	}
}

func TestMultiChoice_DigitOutOfRange(t *testing.T) {
	m := press(NewMultiChoice([]string{"a", "b"}), tea.KeyPressMsg{Code: '7', Text: "7"})
	if !m.Submitted || m.ChosenIndex != 6 {
		t.Errorf("submitted=%v chosen=%d, want true 6", m.Submitted, m.ChosenIndex)
	}
	if m.Selected != -1 {
		t.Errorf("selected moved to %d", m.Selected)
	}
}

func TestMultiChoice_StartsWithNothingSelected(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b", "c"})
	if m.Selected != -1 {
		t.Fatalf("selected = %d, want -1", m.Selected)
	}
	if strings.Contains(m.View(), "▸") {
		t.Errorf("view highlights an option before any key:\n%s", m.View())
	}

	m = press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if !m.Submitted || m.ChosenIndex != -1 {
		t.Errorf("submitted=%v chosen=%d, want true -1", m.Submitted, m.ChosenIndex)
	}
}

func TestMultiChoice_UpFromNothingSelectsLast(t *testing.T) {
	m := press(NewMultiChoice([]string{"a", "b", "c"}),
		tea.KeyPressMsg{Code: tea.KeyUp},
		tea.KeyPressMsg{Code: tea.KeyEnter},
	)
	if m.ChosenIndex != 2 {
		t.Errorf("chosen = %d, want 2", m.ChosenIndex)
	}
}

func TestMultiChoice_ReopenAfterSubmit(t *testing.T) {
	m := press(NewMultiChoice([]string{"a", "b"}), tea.KeyPressMsg{Code: '2', Text: "2"})

	// Further keys are ignored until reopened.
	m = press(m, tea.KeyPressMsg{Code: '1', Text: "1"})
	if m.ChosenIndex != 1 {
		t.Fatalf("chosen = %d, want 1", m.ChosenIndex)
	}

	m.Reopen()
	m = press(m, tea.KeyPressMsg{Code: '1', Text: "1"})
	if m.ChosenIndex != 0 {
		t.Errorf("chosen = %d, want 0", m.ChosenIndex)
	}
}
