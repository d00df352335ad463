package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnai/internal/ui/theme"
)

// MultiChoice is a numbered option picker. Options are chosen with the
// arrow keys and Enter, or directly by number.
type MultiChoice struct {
	Options     []string
	Selected    int
	Submitted   bool
	ChosenIndex int
}

// NewMultiChoice creates a picker with nothing highlighted. Enter before
// any option is highlighted submits -1.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options:     options,
		Selected:    -1,
		ChosenIndex: -1,
	}
}

// Update handles keyboard navigation and selection. A digit key submits
// that option number even when no such option exists; the caller decides
// what an out-of-range choice means.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		switch {
		case m.Selected < 0 && len(m.Options) > 0:
			m.Selected = len(m.Options) - 1
		case m.Selected > 0:
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Submitted = true
		m.ChosenIndex = m.Selected
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			n := int(key[0] - '1')
			if n < len(m.Options) {
				m.Selected = n
			}
			m.Submitted = true
			m.ChosenIndex = n
		}
	}

	return m, nil
}

// Reopen allows another submission after one was not accepted.
func (m *MultiChoice) Reopen() {
	m.Submitted = false
	m.ChosenIndex = -1
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == m.Selected {
			prefix = "▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%d) %s", prefix, i+1, opt)))
		b.WriteString("\n")
	}
	return b.String()
}
