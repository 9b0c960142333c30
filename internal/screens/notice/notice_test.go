package notice

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bandprep/internal/router"
)

func TestNoticeScreen(t *testing.T) {
	n := New("Error", "no reading test 9")
	if n.Title() != "Error" {
		t.Errorf("Title = %q", n.Title())
	}
	if !strings.Contains(n.View(80, 20), "no reading test 9") {
		t.Error("expected message in view")
	}

	_, cmd := n.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd == nil {
		t.Fatal("expected a command on key press")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
