package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bandprep/internal/content"
	"github.com/abhisek/bandprep/internal/router"
	"github.com/abhisek/bandprep/internal/screen"
	"github.com/abhisek/bandprep/internal/store"
	"github.com/abhisek/bandprep/internal/ui/layout"
	"github.com/abhisek/bandprep/internal/ui/theme"
)

// Lister reads past attempts from the journal.
type Lister interface {
	RecentAttempts(ctx context.Context, opts store.QueryOpts) ([]store.AttemptRecord, error)
}

type historyLoadedMsg struct {
	Attempts []store.AttemptRecord
	Err      error
}

// HistoryScreen displays finished attempts, newest first.
type HistoryScreen struct {
	journal  Lister
	attempts []store.AttemptRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(journal Lister) *HistoryScreen {
	return &HistoryScreen{
		journal:  journal,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		attempts, err := s.journal.RecentAttempts(context.Background(), store.QueryOpts{Limit: 50})
		return historyLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.attempts = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No finished tests yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, a := range s.attempts {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		sent := "saved"
		if !a.Submitted {
			sent = "not saved"
		}
		line := fmt.Sprintf("%s%s  %-9s #%d  %-22s %s  %s",
			prefix, a.CompletedAt.Local().Format("Jan 02 15:04"),
			content.Skill(a.Skill).Title(), a.TestNumber, Outcome(a.AttemptData),
			fmt.Sprintf("%d:%02d", a.ElapsedSeconds/60, a.ElapsedSeconds%60), sent)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == s.selected:
			style = style.Foreground(theme.Primary).Bold(true)
		case !a.Submitted:
			style = style.Foreground(theme.TextDim)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    attempt %s   status %s", a.AttemptID, a.Status)
			if a.SubmitError != "" {
				detail += "\n    " + a.SubmitError
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// Outcome summarises an attempt's score the way its skill reports it.
func Outcome(a store.AttemptData) string {
	switch content.Skill(a.Skill) {
	case content.Listening, content.Reading:
		return fmt.Sprintf("%d/%d  band %.1f", a.Correct, a.Total, a.Band)
	case content.Speaking:
		if a.AverageRating == 0 {
			return "no ratings"
		}
		return fmt.Sprintf("self-rating %.1f", a.AverageRating)
	case content.Writing:
		return fmt.Sprintf("%d words", a.WordCount)
	}
	return ""
}
