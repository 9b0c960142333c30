package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bandprep/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for centered panels.
func ContentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Frame wraps content in a double border, centered in the given area.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Panel wraps content in a rounded-border card at the given content width.
func Panel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}

// Stars renders a 1-5 rating, e.g. ★★★☆☆. Zero renders five empty stars.
func Stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	filled := lipgloss.NewStyle().Foreground(theme.Accent).Render
	empty := lipgloss.NewStyle().Foreground(theme.Border).Render
	s := ""
	for i := 1; i <= 5; i++ {
		if i <= n {
			s += filled("★")
		} else {
			s += empty("☆")
		}
	}
	return s
}
