package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bandprep/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens that handle Esc themselves, such
// as a running test that asks before abandoning.
type EscapeHandler interface {
	HandlesEscape() bool
}

// StatusProvider is implemented by screens that show a status in the
// header, such as the countdown of a running test.
type StatusProvider interface {
	HeaderStatus() string
}
