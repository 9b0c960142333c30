// Package home is the start screen: the test catalog, history and exit.
package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bandprep/internal/content"
	"github.com/abhisek/bandprep/internal/router"
	"github.com/abhisek/bandprep/internal/screen"
	"github.com/abhisek/bandprep/internal/screens/history"
	"github.com/abhisek/bandprep/internal/screens/notice"
	sessionscreen "github.com/abhisek/bandprep/internal/screens/session"
	"github.com/abhisek/bandprep/internal/store"
	"github.com/abhisek/bandprep/internal/ui/components"
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	menu    components.Menu
	entries []content.Entry
	stats   stats
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. journal may be nil, which hides history.
func New(deps sessionscreen.Deps, journal history.Lister) *HomeScreen {
	entries, err := content.Catalog()
	h := &HomeScreen{entries: entries}
	if err != nil {
		h.errMsg = err.Error()
	}
	if deps.Identity != nil {
		h.stats.UserID = deps.Identity.Credentials().UserID
	}
	if journal != nil {
		h.stats = loadStats(journal, h.stats)
	}

	items := make([]components.MenuItem, 0, len(entries)+2)
	for _, e := range entries {
		items = append(items, components.MenuItem{
			Label:  entryLabel(e),
			Detail: entryDetail(e),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					test, err := content.Load(e.Skill, e.Number)
					if err != nil {
						return router.PushScreenMsg{Screen: notice.New("Error", err.Error())}
					}
					return router.PushScreenMsg{Screen: sessionscreen.New(test, deps)}
				}
			},
		})
	}
	items = append(items,
		components.MenuItem{Label: "History", Disabled: journal == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(journal)}
			}
		}},
		components.MenuItem{Label: "Exit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)
	h.menu = components.NewMenu(items)
	return h
}

// loadStats counts journal attempts and finds the best band.
func loadStats(journal history.Lister, st stats) stats {
	attempts, err := journal.RecentAttempts(context.Background(), store.QueryOpts{})
	if err != nil {
		return st
	}
	st.Taken = len(attempts)
	for _, a := range attempts {
		st.BestBand = max(st.BestBand, a.Band)
	}
	return st
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.stats, cw, compact),
	}
	if h.errMsg != "" {
		sections = append(sections, components.Panel("Could not load tests: "+h.errMsg, cw))
	}
	sections = append(sections, h.menu.View())

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
