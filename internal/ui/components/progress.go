package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bandprep/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// TimeBar shows the share of time left. It turns amber under a quarter and
// red under a tenth.
func TimeBar(remaining, total, width int) string {
	pct := 0.0
	if total > 0 {
		pct = float64(remaining) / float64(total)
	}
	fill := theme.Secondary
	switch {
	case pct < 0.10:
		fill = theme.Error
	case pct < 0.25:
		fill = theme.Accent
	}
	return renderBar(pct, width, fill)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // " 100%"
	}

	result += renderBar(p.Percent, p.Width-labelWidth-percentWidth, theme.Secondary)

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	return result
}

func renderBar(pct float64, barWidth int, fill color.Color) string {
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * pct)
	filled = min(max(filled, 0), barWidth)
	empty := barWidth - filled

	filledStr := lipgloss.NewStyle().
		Background(fill).
		Render(strings.Repeat(" ", filled))

	emptyStr := lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", empty))

	return filledStr + emptyStr
}
