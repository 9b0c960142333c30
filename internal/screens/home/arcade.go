package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bandprep/internal/content"
	"github.com/abhisek/bandprep/internal/ui/theme"
)

// Block-letter title.
const titleFull = `█▀▄ ▄▀█ █▄ █ █▀▄ █▀█ █▀█ █▀▀ █▀█
█▀▄ █▀█ █ ▀█ █ █ █▀▀ █▀▄ ██▄ █▀▀
▀▀  ▀ ▀ ▀  ▀ ▀▀  ▀   ▀ ▀ ▀▀▀ ▀  `

const titleCompact = "B A N D P R E P"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title) + "\n" + theme.Subtitle.Render("Timed practice tests"))
}

// stats is what the home screen shows about past attempts.
type stats struct {
	Taken    int
	BestBand float64
	UserID   string
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(st stats, cw int, compact bool) string {
	takenStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	bandStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	user := dimStyle.Render("not signed in")
	if st.UserID != "" {
		user = dimStyle.Render(st.UserID)
	}
	band := dimStyle.Render("no band yet")
	if st.BestBand > 0 {
		band = bandStyle.Render(fmt.Sprintf("best band %.1f", st.BestBand))
	}

	sep := "  ·  "
	if compact {
		sep = " · "
	}
	line := strings.Join([]string{
		takenStyle.Render(fmt.Sprintf("%d tests taken", st.Taken)),
		band,
		user,
	}, sep)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

// entryLabel names a catalog entry in the menu.
func entryLabel(e content.Entry) string {
	return fmt.Sprintf("%s %d  %s", e.Skill.Title(), e.Number, e.Title)
}

// entryDetail describes a catalog entry's size and length.
func entryDetail(e content.Entry) string {
	return fmt.Sprintf("%d items · %d min", e.Items, e.Skill.TotalSeconds()/60)
}
