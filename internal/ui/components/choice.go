package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bandprep/internal/ui/theme"
)

// Choice is a lettered option picker. The chosen letter is shown until a
// different option is picked; there is no right or wrong here.
type Choice struct {
	Options  []string
	Selected int    // highlighted row
	Chosen   string // letter of the picked option, "" if none
}

// NewChoice creates a picker with the given options and current answer.
func NewChoice(options []string, chosen string) Choice {
	c := Choice{Options: options, Chosen: strings.ToUpper(strings.TrimSpace(chosen))}
	for i := range options {
		if optionLetter(i) == c.Chosen {
			c.Selected = i
		}
	}
	return c
}

// Update handles arrow navigation, Enter and letter keys. picked is true
// when an option was chosen by this message.
func (c Choice) Update(msg tea.Msg) (Choice, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
		return c, false
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
		return c, false
	case "enter", "space":
		c.Chosen = optionLetter(c.Selected)
		return c, true
	}

	if len(key) == 1 {
		i := int(strings.ToUpper(key)[0] - 'A')
		if i >= 0 && i < len(c.Options) {
			c.Selected = i
			c.Chosen = optionLetter(i)
			return c, true
		}
	}
	return c, false
}

// View renders the options.
func (c Choice) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		letter := optionLetter(i)
		prefix := "  "
		if i == c.Selected {
			prefix = "▸ "
		}
		mark := " "
		if letter == c.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, letter, opt)

		switch {
		case letter == c.Chosen:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(line))
		case i == c.Selected:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line))
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func optionLetter(i int) string {
	return string(rune('A' + i))
}
