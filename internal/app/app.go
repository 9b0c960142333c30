// Package app is the root Bubble Tea model: a screen stack framed by a
// header and a footer of key hints.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bandprep/internal/router"
	"github.com/abhisek/bandprep/internal/screen"
	"github.com/abhisek/bandprep/internal/screens/history"
	"github.com/abhisek/bandprep/internal/screens/home"
	sessionscreen "github.com/abhisek/bandprep/internal/screens/session"
	"github.com/abhisek/bandprep/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	// Session holds what every test needs: identity, submitter, audio and
	// the optional reviewer.
	Session sessionscreen.Deps

	// Journal lists past attempts. Nil hides history.
	Journal history.Lister

	// Initial replaces the home screen as the first screen, e.g. when a
	// test is started straight from the command line.
	Initial screen.Screen
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen at the bottom of
// the stack.
func newAppModel(opts Options) AppModel {
	r := router.New(home.New(opts.Session, opts.Journal))
	if opts.Initial != nil {
		r.Push(opts.Initial)
	}
	return AppModel{router: r, opts: opts}
}

func (m AppModel) Init() tea.Cmd {
	if m.opts.Initial != nil {
		return m.opts.Initial.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
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

	header := layout.RenderHeader(title, m.headerStatus(active), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// headerStatus is the active screen's status, or the signed-in user.
func (m AppModel) headerStatus(active screen.Screen) string {
	if sp, ok := active.(screen.StatusProvider); ok {
		return sp.HeaderStatus()
	}
	if m.opts.Session.Identity == nil {
		return ""
	}
	if id := m.opts.Session.Identity.Credentials().UserID; id != "" {
		return id + "  "
	}
	return ""
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if kp, ok := active.(screen.KeyHintProvider); ok {
		return append(kp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
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
