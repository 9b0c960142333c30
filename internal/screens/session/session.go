// Package session is the screen that runs a timed test: it renders the
// current item, captures answers into the session controller and hands
// over to the summary once the test ends.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/bandprep/internal/clock"
	"github.com/abhisek/bandprep/internal/content"
	"github.com/abhisek/bandprep/internal/identity"
	"github.com/abhisek/bandprep/internal/media"
	"github.com/abhisek/bandprep/internal/review"
	"github.com/abhisek/bandprep/internal/router"
	"github.com/abhisek/bandprep/internal/screen"
	"github.com/abhisek/bandprep/internal/screens/summary"
	sess "github.com/abhisek/bandprep/internal/session"
	"github.com/abhisek/bandprep/internal/ui/components"
	"github.com/abhisek/bandprep/internal/ui/layout"
)

// Deps are the collaborators of a SessionScreen. Identity and Submitter
// are required.
type Deps struct {
	Identity  identity.Source
	Submitter sess.Submitter
	Journal   sess.Journal
	Reviewer  *review.Reviewer
	Player    media.Player
	Recorder  *media.TypedRecorder
	Clock     *clock.Countdown // nil uses a real one-second clock
	Logger    zerolog.Logger
}

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmQuit
	confirmFinish
)

// SessionScreen implements screen.Screen for a running test.
type SessionScreen struct {
	deps Deps
	ctrl *sess.Controller
	view sess.View

	// Editors for the current item. Which one is live depends on its kind.
	itemID string
	choice components.Choice
	input  components.TextInput
	area   components.TextArea
	field  int // index into content.SpeakingFields

	section    int // section whose audio was last started
	passageTop int
	confirm    confirmKind
	notice     string
	errMsg     string
	width      int
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.EscapeHandler = (*SessionScreen)(nil)

// New creates a SessionScreen for test.
func New(test *content.Test, deps Deps) *SessionScreen {
	s := &SessionScreen{deps: deps, section: -1, width: 80}
	if deps.Recorder == nil {
		s.deps.Recorder = media.NewTypedRecorder(deps.Logger)
	}

	cfg := sess.Config{
		Test:      test,
		Identity:  deps.Identity,
		Submitter: deps.Submitter,
		Journal:   deps.Journal,
		Logger:    deps.Logger,
	}
	if deps.Clock != nil {
		cfg.Clock = deps.Clock
	}
	ctrl, err := sess.New(cfg)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.ctrl = ctrl
	s.view = ctrl.View()
	return s
}

// Controller returns the session controller, or nil if it failed to build.
func (s *SessionScreen) Controller() *sess.Controller { return s.ctrl }

func (s *SessionScreen) Init() tea.Cmd {
	if s.ctrl == nil {
		return nil
	}
	s.ctrl.Start()
	s.refresh()
	return tea.Batch(tickCmd(), s.focusCmd())
}

func (s *SessionScreen) Title() string {
	if s.ctrl == nil {
		return "Test"
	}
	return s.ctrl.Test().Title
}

// HandlesEscape reports that Esc asks before abandoning the test.
func (s *SessionScreen) HandlesEscape() bool {
	return s.ctrl != nil && s.errMsg == ""
}

// HeaderStatus shows the countdown in the header.
func (s *SessionScreen) HeaderStatus() string {
	if s.ctrl == nil {
		return ""
	}
	return layout.FormatClock(s.view.Remaining)
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.ctrl == nil || s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	if s.confirm != confirmNone {
		return []layout.KeyHint{
			{Key: "Y", Description: "Yes"},
			{Key: "N", Description: "Keep going"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "PgUp/PgDn", Description: "Prev/Next"},
	}
	switch s.view.Item.Kind {
	case content.KindChoice:
		hints = append(hints, layout.KeyHint{Key: "A-Z", Description: "Choose"})
	case content.KindSpeaking:
		hints = append(hints,
			layout.KeyHint{Key: "Tab", Description: "Field"},
			layout.KeyHint{Key: "Ctrl+R", Description: "Record"},
		)
	}
	if s.view.Section().Passage != "" {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+U/D", Description: "Scroll"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+S", Description: "Finish"},
		layout.KeyHint{Key: "Esc", Description: "Quit"},
	)
}

func (s *SessionScreen) View(width, height int) string {
	s.width = width
	if s.errMsg != "" || s.ctrl == nil {
		return renderError(width, s.errMsg)
	}
	switch s.confirm {
	case confirmQuit:
		return renderConfirm(width, "Leave this test?", "Nothing will be graded or submitted.", "[Y] Yes, leave")
	case confirmFinish:
		unanswered := s.view.TotalItems - s.view.Answered
		detail := "All items have an answer."
		if unanswered > 0 {
			detail = fmt.Sprintf("%d of %d items have no answer.", unanswered, s.view.TotalItems)
		}
		return renderConfirm(width, "Finish and submit?", detail, "[Y] Yes, finish")
	}
	return s.renderItemView(width, height)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if s.ctrl == nil {
			return s, nil
		}
		s.refresh()
		if s.ended() {
			return s, s.showSummary()
		}
		return s, tickCmd()

	case tea.WindowSizeMsg:
		s.width = msg.Width
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.ctrl == nil || s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	s.refresh()
	if s.ended() {
		return s, s.showSummary()
	}

	if s.confirm != confirmNone {
		switch key {
		case "y", "Y":
			kind := s.confirm
			s.confirm = confirmNone
			if kind == confirmQuit {
				return s.abandon()
			}
			return s.finish()
		case "n", "N", "esc":
			s.confirm = confirmNone
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirm = confirmQuit
		return s, nil
	case "ctrl+s":
		s.confirm = confirmFinish
		return s, nil
	case "pgdown", "ctrl+n":
		return s, s.navigate(s.ctrl.Advance)
	case "pgup", "ctrl+p":
		return s, s.navigate(s.ctrl.Retreat)
	case "ctrl+d":
		s.passageTop += 5
		return s, nil
	case "ctrl+u":
		s.passageTop = max(0, s.passageTop-5)
		return s, nil
	}

	s.notice = ""
	switch s.view.Item.Kind {
	case content.KindChoice:
		return s.updateChoice(msg)
	case content.KindText:
		return s.updateText(msg)
	case content.KindEssay:
		return s.updateEssay(msg)
	case content.KindSpeaking:
		return s.updateSpeaking(msg)
	}
	return s, nil
}

func (s *SessionScreen) updateChoice(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	var picked bool
	s.choice, picked = s.choice.Update(msg)
	if picked {
		s.capture(s.itemID, s.choice.Chosen)
	}
	return s, nil
}

func (s *SessionScreen) updateText(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "enter" {
		return s, s.navigate(s.ctrl.Advance)
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.capture(s.itemID, s.input.Value())
	return s, cmd
}

func (s *SessionScreen) updateEssay(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.area, cmd = s.area.Update(msg)
	s.capture(s.itemID, s.area.Value())
	return s, cmd
}

func (s *SessionScreen) updateSpeaking(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	field := content.SpeakingFields[s.field]

	switch key {
	case "tab", "shift+tab":
		s.stopRecording()
		step := 1
		if key == "shift+tab" {
			step = len(content.SpeakingFields) - 1
		}
		s.field = (s.field + step) % len(content.SpeakingFields)
		return s, nil
	case "ctrl+r":
		if s.deps.Recorder.Recording() {
			s.stopRecording()
			return s, nil
		}
		if err := s.deps.Recorder.Start(context.Background(), s.itemID); err != nil {
			s.notice = err.Error()
			return s, nil
		}
		s.field = 0
		s.area = components.NewTextArea("Speak your answer (type what you say)...", "", s.editorWidth(), 5)
		s.notice = "Recording... press Ctrl+R to stop"
		return s, s.area.Init()
	}

	switch {
	case field == content.FieldTranscript:
		if !s.deps.Recorder.Recording() {
			return s, nil
		}
		var cmd tea.Cmd
		s.area, cmd = s.area.Update(msg)
		return s, cmd

	case field == content.FieldModel:
		models := s.ctrl.Test().Reference.ModelAnswers[s.itemID]
		if len(models) == 0 {
			return s, nil
		}
		cur, _ := strconv.Atoi(string(s.ctrl.Answer(content.AnswerID(s.itemID, field))))
		switch key {
		case "left", "h":
			cur = max(1, cur-1)
		case "right", "l":
			cur = min(len(models), cur+1)
		default:
			if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(models) {
				cur = n
			} else {
				return s, nil
			}
		}
		s.capture(content.AnswerID(s.itemID, field), strconv.Itoa(max(cur, 1)))

	case field.IsRating():
		cur, _ := strconv.Atoi(string(s.ctrl.Answer(content.AnswerID(s.itemID, field))))
		switch key {
		case "left", "h":
			cur = max(1, cur-1)
		case "right", "l":
			cur = min(5, cur+1)
		case "1", "2", "3", "4", "5":
			cur, _ = strconv.Atoi(key)
		case "0", "backspace":
			cur = 0
		default:
			return s, nil
		}
		value := ""
		if cur > 0 {
			value = strconv.Itoa(cur)
		}
		s.capture(content.AnswerID(s.itemID, field), value)
	}
	return s, nil
}

// stopRecording closes an open recording and captures its transcript.
func (s *SessionScreen) stopRecording() {
	rec := s.deps.Recorder
	if !rec.Recording() {
		return
	}
	s.area.Blur()
	if err := rec.Write(s.area.Value()); err != nil {
		s.notice = err.Error()
		return
	}
	transcript, err := media.RecordInto(context.Background(), s.ctrl, s.itemID, rec)
	if err != nil {
		s.notice = err.Error()
		return
	}
	s.notice = strconv.Itoa(len(strings.Fields(transcript))) + " words recorded"
	s.view = s.ctrl.View()
}

// capture stores value and reports rejections as a notice. Late
// keystrokes after the session ended are dropped quietly.
func (s *SessionScreen) capture(id, value string) {
	err := s.ctrl.Capture(id, value)
	switch {
	case err == nil, errors.Is(err, sess.ErrCaptureRejected):
	default:
		s.notice = err.Error()
	}
	s.view = s.ctrl.View()
}

func (s *SessionScreen) navigate(move func() error) tea.Cmd {
	s.stopRecording()
	if err := move(); err != nil {
		return s.showSummary()
	}
	s.refresh()
	return s.focusCmd()
}

func (s *SessionScreen) finish() (screen.Screen, tea.Cmd) {
	s.stopRecording()
	_ = s.ctrl.Finish()
	return s, s.showSummary()
}

func (s *SessionScreen) abandon() (screen.Screen, tea.Cmd) {
	if s.deps.Recorder.Recording() {
		_, _ = s.deps.Recorder.Stop(context.Background())
	}
	s.ctrl.Abandon()
	if s.deps.Player != nil {
		s.deps.Player.Stop()
	}
	return s, func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *SessionScreen) ended() bool {
	return s.view.Phase != sess.PhaseInProgress
}

// showSummary replaces this screen with the result of the attempt.
func (s *SessionScreen) showSummary() tea.Cmd {
	s.refresh()
	if s.deps.Player != nil {
		s.deps.Player.Stop()
	}
	if s.view.Phase == sess.PhaseAbandoned {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	next := summary.New(s.ctrl, s.deps.Reviewer)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// refresh re-reads the controller and rebuilds the editor when the
// current item changed.
func (s *SessionScreen) refresh() {
	s.view = s.ctrl.View()
	if s.view.Position.Section != s.section {
		s.section = s.view.Position.Section
		s.passageTop = 0
		if s.deps.Player != nil && s.view.Phase == sess.PhaseInProgress {
			if err := s.deps.Player.Play(context.Background(), s.view.Section().Audio); err != nil {
				s.notice = err.Error()
			}
		}
	}
	if s.view.Item.ID != s.itemID {
		s.loadEditor()
	}
}

func (s *SessionScreen) loadEditor() {
	item := s.view.Item
	s.itemID = item.ID
	s.field = 0

	value := string(s.ctrl.Answer(item.ID))
	switch item.Kind {
	case content.KindChoice:
		s.choice = components.NewChoice(item.Options, value)
	case content.KindText:
		s.input = components.NewTextInput("Type your answer...", value, false, 60)
	case content.KindEssay:
		s.area = components.NewTextArea("Write your response...", value, s.editorWidth(), 12)
	case content.KindSpeaking:
		transcript := string(s.ctrl.Answer(content.AnswerID(item.ID, content.FieldTranscript)))
		s.area = components.NewTextArea("", transcript, s.editorWidth(), 5)
		s.area.Blur()
	}
}

func (s *SessionScreen) focusCmd() tea.Cmd {
	switch s.view.Item.Kind {
	case content.KindText:
		return s.input.Init()
	case content.KindEssay:
		return s.area.Init()
	}
	return nil
}

func (s *SessionScreen) editorWidth() int {
	return components.ContentWidth(s.width) - 4
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
