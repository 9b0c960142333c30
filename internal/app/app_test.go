package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/bandprep/internal/content"
	"github.com/abhisek/bandprep/internal/identity"
	sessionscreen "github.com/abhisek/bandprep/internal/screens/session"
	sess "github.com/abhisek/bandprep/internal/session"
	"github.com/abhisek/bandprep/internal/submit"
)

type nopSubmitter struct{}

func (nopSubmitter) Submit(context.Context, submit.Record, string) (*submit.Ack, error) {
	return &submit.Ack{}, nil
}

func testOptions(t *testing.T, withTest bool) Options {
	t.Helper()
	deps := sessionscreen.Deps{
		Identity:  identity.Static{UserID: "u1"},
		Submitter: nopSubmitter{},
		Logger:    zerolog.Nop(),
	}
	opts := Options{Session: deps}
	if withTest {
		test, err := content.Load(content.Writing, 1)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		s := sessionscreen.New(test, deps)
		t.Cleanup(func() { s.Controller().Abandon() })
		opts.Initial = s
	}
	return opts
}

func TestAppModel_EscapeGoesToSessionScreen(t *testing.T) {
	m := newAppModel(testOptions(t, true))
	m.Init()

	updated, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	m = updated.(AppModel)
	if cmd != nil {
		t.Fatal("Esc should be handled by the session screen, not popped")
	}
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, want 2", m.router.Depth())
	}
	s := m.router.Active().(*sessionscreen.SessionScreen)
	if s.Controller().Phase() != sess.PhaseInProgress {
		t.Error("session should still be running")
	}
}

func TestAppModel_EscapePopsOtherScreens(t *testing.T) {
	m := newAppModel(testOptions(t, false))
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("Esc on the home screen should do nothing")
	}
}

func TestAppModel_HeaderStatus(t *testing.T) {
	m := newAppModel(testOptions(t, false))
	if got := m.headerStatus(m.router.Active()); got != "u1  " {
		t.Errorf("home status = %q", got)
	}

	m = newAppModel(testOptions(t, true))
	if got := m.headerStatus(m.router.Active()); got != "40:00" {
		t.Errorf("session status = %q, want 40:00", got)
	}
}

func TestAppModel_View(t *testing.T) {
	m := newAppModel(testOptions(t, false))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(AppModel)
	if m.width != 120 || m.height != 40 {
		t.Fatalf("size = %dx%d", m.width, m.height)
	}
	_ = m.View()
	if hints := m.footerHints(m.router.Active()); len(hints) != 3 {
		t.Errorf("home hints = %v", hints)
	}
}
