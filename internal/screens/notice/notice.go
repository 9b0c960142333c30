// Package notice is a one-message screen for failures that stop a flow,
// such as a test that could not be loaded.
package notice

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bandprep/internal/router"
	"github.com/abhisek/bandprep/internal/screen"
	"github.com/abhisek/bandprep/internal/ui/theme"
)

// NoticeScreen shows a message until any key is pressed.
type NoticeScreen struct {
	title   string
	message string
}

var _ screen.Screen = (*NoticeScreen)(nil)

// New creates a new NoticeScreen.
func New(title, message string) *NoticeScreen {
	return &NoticeScreen{title: title, message: message}
}

func (n *NoticeScreen) Init() tea.Cmd {
	return nil
}

func (n *NoticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		return n, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return n, nil
}

func (n *NoticeScreen) View(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(n.message + "\n\n" + theme.Hint.Render("Press any key to go back."))
}

func (n *NoticeScreen) Title() string {
	return n.title
}
