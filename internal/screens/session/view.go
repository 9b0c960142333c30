package session

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bandprep/internal/content"
	"github.com/abhisek/bandprep/internal/ui/components"
	"github.com/abhisek/bandprep/internal/ui/layout"
	"github.com/abhisek/bandprep/internal/ui/theme"
)

// renderItemView renders the current item with its section context.
func (s *SessionScreen) renderItemView(width, height int) string {
	v := s.view
	cw := components.ContentWidth(width)
	sec := v.Section()
	part := v.Part()

	var b strings.Builder

	// Position line.
	left := theme.Label.Render(sec.Title + "  ·  " + part.Title)
	right := theme.Hint.Render(fmt.Sprintf("Item %d/%d   answered %d", v.Ordinal+1, v.TotalItems, v.Answered))
	gap := cw - lipgloss.Width(left) - lipgloss.Width(right)
	b.WriteString(left + strings.Repeat(" ", max(gap, 1)) + right)
	b.WriteString("\n")

	// Countdown.
	timer := timerStyle(v.Remaining, v.Test.Duration()).Render(layout.FormatClock(v.Remaining))
	b.WriteString(components.TimeBar(v.Remaining, v.Test.Duration(), cw-lipgloss.Width(timer)-2))
	b.WriteString("  " + timer)
	b.WriteString("\n\n")

	if part.Instructions != "" {
		b.WriteString(lipgloss.NewStyle().Width(cw).Render(theme.Hint.Render(part.Instructions)))
		b.WriteString("\n\n")
	}
	if sec.Audio != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("♪ " + sec.Audio))
		b.WriteString("\n\n")
	}
	if sec.Passage != "" {
		lines := max(4, height/3)
		b.WriteString(components.Panel(s.passageWindow(sec.Passage, cw-4, lines), cw))
		b.WriteString("\n\n")
	}

	// Prompt.
	b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Bold(true).Render(v.Item.Prompt))
	b.WriteString("\n\n")

	switch v.Item.Kind {
	case content.KindChoice:
		b.WriteString(s.choice.View())
	case content.KindText:
		b.WriteString("Answer: " + s.input.View())
	case content.KindEssay:
		b.WriteString(s.area.View())
		b.WriteString("\n")
		words := len(strings.Fields(s.area.Value()))
		style := theme.Hint
		if words >= v.Test.MinWords() {
			style = theme.Correct
		}
		b.WriteString(style.Render(fmt.Sprintf("%d / %d words", words, v.Test.MinWords())))
	case content.KindSpeaking:
		b.WriteString(s.renderSpeaking(cw))
	}

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Warning.Render(s.notice))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

// passageWindow wraps the passage to w columns and returns the visible
// slice starting at the scroll offset.
func (s *SessionScreen) passageWindow(passage string, w, lines int) string {
	wrapped := strings.Split(lipgloss.NewStyle().Width(w).Render(passage), "\n")
	top := min(s.passageTop, max(len(wrapped)-lines, 0))
	s.passageTop = top
	end := min(top+lines, len(wrapped))
	out := strings.Join(wrapped[top:end], "\n")
	if end < len(wrapped) {
		out += "\n" + theme.Hint.Render(fmt.Sprintf("… %d more lines", len(wrapped)-end))
	}
	return out
}

// renderSpeaking renders the transcript, model answer and rating fields.
// The active field is marked.
func (s *SessionScreen) renderSpeaking(cw int) string {
	itemID := s.view.Item.ID
	active := content.SpeakingFields[s.field]
	marker := func(f content.Field) string {
		if f == active {
			return theme.Selected.Render("▸ ")
		}
		return "  "
	}

	var b strings.Builder

	b.WriteString(marker(content.FieldTranscript) + theme.Label.Render("Your answer"))
	if s.deps.Recorder.Recording() {
		b.WriteString("  " + theme.Incorrect.Render("● REC"))
	}
	b.WriteString("\n")
	b.WriteString(s.area.View())
	b.WriteString("\n\n")

	models := s.ctrl.Test().Reference.ModelAnswers[itemID]
	if len(models) > 0 {
		chosen, _ := strconv.Atoi(string(s.ctrl.Answer(content.AnswerID(itemID, content.FieldModel))))
		b.WriteString(marker(content.FieldModel) + theme.Label.Render("Model answer"))
		if chosen >= 1 && chosen <= len(models) {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d of %d", chosen, len(models))))
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Width(cw - 4).PaddingLeft(2).Foreground(theme.TextDim).Render(models[chosen-1]))
		} else {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d available, press 1-%d", len(models), len(models))))
		}
		b.WriteString("\n\n")
	}

	for _, f := range content.RatingFields {
		n, _ := strconv.Atoi(string(s.ctrl.Answer(content.AnswerID(itemID, f))))
		b.WriteString(marker(f))
		b.WriteString(fmt.Sprintf("%-14s ", strings.ToUpper(string(f[:1]))+string(f[1:])))
		b.WriteString(components.Stars(n))
		b.WriteString("\n")
	}
	return b.String()
}

func timerStyle(remaining, total int) lipgloss.Style {
	switch {
	case remaining*10 < total:
		return theme.TimerCritical
	case remaining*4 < total:
		return theme.TimerLow
	}
	return theme.TimerNormal
}

// renderConfirm renders a yes/no dialog.
func renderConfirm(width int, question, detail, yes string) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(question))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(detail))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render(yes))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
