// Package screen defines what the router stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnai/internal/ui/layout"
)

// Screen is one page of the app: the welcome banner, the menu, the
// diagnostic, a lesson.
type Screen interface {
	// Init starts the screen's background work, such as a remote call.
	Init() tea.Cmd

	// Update handles a message. Screens hand off to each other by
	// returning router messages from their commands.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area; the app draws the header and footer.
	View(width, height int) string

	// Title is shown in the center of the header.
	Title() string
}

// KeyHintProvider is implemented by screens whose keys differ from the
// default menu hints, or change with the screen's state.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
