// Package summary shows a finished attempt: its score or band, the
// submission outcome and, for writing, an optional examiner review.
package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bandprep/internal/content"
	"github.com/abhisek/bandprep/internal/review"
	"github.com/abhisek/bandprep/internal/router"
	"github.com/abhisek/bandprep/internal/screen"
	sess "github.com/abhisek/bandprep/internal/session"
	"github.com/abhisek/bandprep/internal/ui/components"
	"github.com/abhisek/bandprep/internal/ui/layout"
	"github.com/abhisek/bandprep/internal/ui/theme"
)

// submissionDoneMsg is sent once the controller's submission resolved.
type submissionDoneMsg struct{}

// reviewDoneMsg carries the examiner's feedback.
type reviewDoneMsg struct {
	Text string
	Err  error
}

// SummaryScreen displays the result of a finished attempt.
type SummaryScreen struct {
	ctrl     *sess.Controller
	reviewer *review.Reviewer

	resolved  bool
	reviewing bool
	feedback  string
	reviewErr string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for a controller that has left the
// in-progress phase. reviewer may be nil.
func New(ctrl *sess.Controller, reviewer *review.Reviewer) *SummaryScreen {
	return &SummaryScreen{ctrl: ctrl, reviewer: reviewer}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return waitSubmission(s.ctrl)
}

func (s *SummaryScreen) Title() string {
	return s.ctrl.Test().Title
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.canReview() {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Examiner review"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submissionDoneMsg:
		s.resolved = true
		return s, nil

	case reviewDoneMsg:
		s.reviewing = false
		if msg.Err != nil {
			s.reviewErr = msg.Err.Error()
		} else {
			s.feedback = msg.Text
			s.reviewErr = ""
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r", "R":
			if s.canReview() {
				s.reviewing = true
				return s, s.requestReview()
			}
		}
	}
	return s, nil
}

// canReview reports whether an examiner review can be requested now.
func (s *SummaryScreen) canReview() bool {
	res := s.ctrl.Result()
	return s.reviewer != nil && res != nil &&
		s.ctrl.Test().Skill == content.Writing &&
		!s.reviewing && s.feedback == ""
}

func (s *SummaryScreen) requestReview() tea.Cmd {
	test := s.ctrl.Test()
	essay := essayText(s.ctrl.Result())
	reviewer := s.reviewer
	return func() tea.Msg {
		text, err := reviewer.Review(context.Background(), review.BuildRequest(test.Reference.Task, essay))
		return reviewDoneMsg{Text: text, Err: err}
	}
}

// essayText joins the essay answers in item order.
func essayText(res *sess.Result) string {
	ids := make([]string, 0, len(res.Record.Answers))
	for id := range res.Record.Answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, res.Record.Answers[id])
	}
	return strings.Join(parts, "\n\n")
}

func waitSubmission(ctrl *sess.Controller) tea.Cmd {
	return func() tea.Msg {
		<-ctrl.Done()
		return submissionDoneMsg{}
	}
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.ctrl.Result()
	if res == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\nGrading...")
	}

	cw := components.ContentWidth(width)
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	heading := "Test complete"
	if res.Status == sess.StatusExpired {
		heading = "Time's up"
	}
	b.WriteString(center(theme.Title.Render(heading)))
	b.WriteString("\n")
	b.WriteString(center(theme.Subtitle.Render(fmt.Sprintf(
		"%d of %d items answered   ·   %s used",
		res.Answered, s.ctrl.Test().Structure.ItemCount(), layout.FormatClock(res.Elapsed)))))
	b.WriteString("\n\n")

	b.WriteString(center(components.Panel(scoreBlock(res), cw)))
	b.WriteString("\n\n")

	b.WriteString(center(s.submissionLine()))
	b.WriteString("\n")

	switch {
	case s.reviewing:
		b.WriteString("\n")
		b.WriteString(center(theme.Hint.Render("Asking the examiner...")))
	case s.reviewErr != "":
		b.WriteString("\n")
		b.WriteString(center(theme.Incorrect.Render("Review failed: " + s.reviewErr)))
	case s.feedback != "":
		b.WriteString("\n")
		b.WriteString(center(components.Panel(
			theme.Label.Render("Examiner review")+"\n\n"+
				lipgloss.NewStyle().Width(cw-4).Foreground(theme.Text).Render(s.feedback), cw)))
	}

	return b.String()
}

// scoreBlock renders the skill-specific outcome.
func scoreBlock(res *sess.Result) string {
	sc := res.Score
	var b strings.Builder

	switch sc.Skill {
	case content.Listening, content.Reading:
		b.WriteString(theme.Label.Render("Correct") + "  ")
		b.WriteString(theme.Body.Render(fmt.Sprintf("%d / %d", sc.CorrectCount, sc.TotalItems)))
		if sc.TotalItems > 0 {
			pct := float64(sc.CorrectCount) / float64(sc.TotalItems)
			b.WriteString("\n" + components.NewProgressBar("", pct, true, 36).View())
		}
		if res.Band != nil {
			b.WriteString("\n" + theme.Label.Render("Band   ") + "  ")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(res.Band.String()))
		}
		var wrong []string
		for _, it := range sc.Items {
			if !it.Correct {
				wrong = append(wrong, it.ItemID)
			}
		}
		if len(wrong) > 0 {
			b.WriteString("\n\n" + theme.Hint.Render("Missed: "+strings.Join(wrong, ", ")))
		}

	case content.Speaking:
		if sc.RatingsCount == 0 {
			b.WriteString(theme.Hint.Render("No self-ratings recorded."))
			break
		}
		b.WriteString(theme.Label.Render("Average self-rating") + "  ")
		b.WriteString(theme.Body.Render(fmt.Sprintf("%.1f / 5", sc.AverageSelfRating)))
		b.WriteString("\n")
		for _, f := range content.RatingFields {
			avg, ok := sc.PerCategoryRatings[f]
			if !ok {
				continue
			}
			b.WriteString(fmt.Sprintf("\n  %-14s %s %.1f", titleCase(string(f)), components.Stars(int(avg+0.5)), avg))
		}
		if len(sc.Overlaps) > 0 {
			b.WriteString("\n\n" + theme.Label.Render("Overlap with model answers"))
			for _, o := range sc.Overlaps {
				b.WriteString(fmt.Sprintf("\n  %-10s model %d   %d/%d words   %.0f%%",
					o.ItemID, o.ModelIndex, o.Matched, o.ModelWords, o.Percent))
			}
		}

	case content.Writing:
		b.WriteString(theme.Label.Render("Words") + "  ")
		b.WriteString(theme.Body.Render(fmt.Sprintf("%d (minimum %d)", sc.WordCount, sc.MinWords)))
		if sc.MeetsMinimum {
			b.WriteString("\n" + theme.Correct.Render("Meets the minimum length."))
		} else {
			b.WriteString("\n" + theme.Warning.Render("Below the minimum length."))
		}
	}
	return b.String()
}

func (s *SummaryScreen) submissionLine() string {
	phase := s.ctrl.Phase()
	switch {
	case !s.resolved && phase == sess.PhaseSubmitting:
		return theme.Hint.Render("Submitting result...")
	case phase == sess.PhaseSubmitted:
		return theme.Correct.Render("Result submitted.")
	case phase == sess.PhaseSubmitFailed:
		return theme.Warning.Render(s.ctrl.View().Warning)
	}
	return ""
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
