package session

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/bandprep/internal/clock"
	"github.com/abhisek/bandprep/internal/content"
	"github.com/abhisek/bandprep/internal/identity"
	"github.com/abhisek/bandprep/internal/media"
	"github.com/abhisek/bandprep/internal/router"
	"github.com/abhisek/bandprep/internal/screen"
	"github.com/abhisek/bandprep/internal/screens/summary"
	sess "github.com/abhisek/bandprep/internal/session"
	"github.com/abhisek/bandprep/internal/submit"
)

type mockSubmitter struct {
	calls int
}

func (m *mockSubmitter) Submit(_ context.Context, _ submit.Record, _ string) (*submit.Ack, error) {
	m.calls++
	return &submit.Ack{ID: "r-1"}, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func typeText(s *SessionScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

type manualTicks chan time.Time

func (m manualTicks) source() (<-chan time.Time, func()) { return m, func() {} }

func testSessionScreen(t *testing.T, skill content.Skill) (*SessionScreen, *media.LogPlayer, *mockSubmitter) {
	t.Helper()
	test, err := content.Load(skill, 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return newScreen(t, test, manualTicks(make(chan time.Time)))
}

func newScreen(t *testing.T, test *content.Test, ticks manualTicks) (*SessionScreen, *media.LogPlayer, *mockSubmitter) {
	t.Helper()
	player := media.NewLogPlayer(zerolog.Nop())
	sub := &mockSubmitter{}
	s := New(test, Deps{
		Identity:  identity.Static{UserID: "u1", AuthToken: "tok"},
		Submitter: sub,
		Player:    player,
		Clock:     clock.New(ticks.source),
		Logger:    zerolog.Nop(),
	})
	if s.Controller() == nil {
		t.Fatalf("controller not built: %s", s.errMsg)
	}
	s.Init()
	t.Cleanup(func() { s.Controller().Abandon() })
	return s, player, sub
}

func TestSessionScreen_Title(t *testing.T) {
	s, _, _ := testSessionScreen(t, content.Listening)
	if s.Title() != s.Controller().Test().Title {
		t.Errorf("Title = %q", s.Title())
	}
	if !s.HandlesEscape() {
		t.Error("expected the session screen to handle Esc")
	}
	var _ screen.EscapeHandler = s
}

func TestSessionScreen_PlaysSectionAudio(t *testing.T) {
	s, player, _ := testSessionScreen(t, content.Listening)
	if got := player.Current(); got != s.Controller().Test().Structure.Sections[0].Audio {
		t.Errorf("playing %q, want section 1 audio", got)
	}
}

func TestSessionScreen_HeaderStatusShowsClock(t *testing.T) {
	s, _, _ := testSessionScreen(t, content.Listening)
	if got := s.HeaderStatus(); got != "40:00" {
		t.Errorf("HeaderStatus = %q, want 40:00", got)
	}
}

func TestSessionScreen_TextAnswerCaptured(t *testing.T) {
	s, _, _ := testSessionScreen(t, content.Listening)

	typeText(s, "Harbour")
	if got := s.Controller().Answer("1"); got != "Harbour" {
		t.Errorf("answer = %q, want Harbour", got)
	}

	// Enter moves on.
	s.Update(specialKey(tea.KeyEnter))
	if s.view.Item.ID != "2" {
		t.Errorf("item = %q, want 2", s.view.Item.ID)
	}
}

func TestSessionScreen_Navigation(t *testing.T) {
	s, _, _ := testSessionScreen(t, content.Listening)

	s.Update(specialKey(tea.KeyPgDown))
	s.Update(specialKey(tea.KeyPgDown))
	if s.view.Ordinal != 2 {
		t.Fatalf("ordinal = %d, want 2", s.view.Ordinal)
	}
	s.Update(specialKey(tea.KeyPgUp))
	if s.view.Ordinal != 1 {
		t.Errorf("ordinal = %d, want 1", s.view.Ordinal)
	}

	// Retreat at the first item stays put.
	s.Update(specialKey(tea.KeyPgUp))
	s.Update(specialKey(tea.KeyPgUp))
	if s.view.Ordinal != 0 {
		t.Errorf("ordinal = %d, want 0", s.view.Ordinal)
	}
}

func TestSessionScreen_AnswerKeptAcrossNavigation(t *testing.T) {
	s, _, _ := testSessionScreen(t, content.Listening)

	typeText(s, "north")
	s.Update(specialKey(tea.KeyPgDown))
	s.Update(specialKey(tea.KeyPgUp))
	if got := s.input.Value(); got != "north" {
		t.Errorf("input = %q, want restored answer", got)
	}
}

func TestSessionScreen_ChoiceCaptured(t *testing.T) {
	s, _, _ := testSessionScreen(t, content.Reading)

	s.Update(keyPress('b'))
	if got := s.Controller().Answer("1"); got != "B" {
		t.Errorf("answer = %q, want B", got)
	}
	if s.view.Answered != 1 {
		t.Errorf("answered = %d, want 1", s.view.Answered)
	}
}

func TestSessionScreen_SpeakingFields(t *testing.T) {
	s, _, _ := testSessionScreen(t, content.Speaking)
	ctrl := s.Controller()

	s.Update(ctrlKey('r'))
	if !s.deps.Recorder.Recording() {
		t.Fatal("expected recording after ctrl+r")
	}
	typeText(s, "I am a student")
	s.Update(ctrlKey('r'))
	if s.deps.Recorder.Recording() {
		t.Fatal("expected recording stopped")
	}
	if got := ctrl.Answer(content.AnswerID("1.1", content.FieldTranscript)); got != "I am a student" {
		t.Errorf("transcript = %q", got)
	}

	s.Update(specialKey(tea.KeyTab)) // model
	s.Update(keyPress('1'))
	if got := ctrl.Answer(content.AnswerID("1.1", content.FieldModel)); got != "1" {
		t.Errorf("model = %q, want 1", got)
	}

	s.Update(specialKey(tea.KeyTab)) // fluency
	s.Update(keyPress('4'))
	s.Update(keyPress('9')) // ignored
	if got := ctrl.Answer(content.AnswerID("1.1", content.FieldFluency)); got != "4" {
		t.Errorf("fluency = %q, want 4", got)
	}
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	s, _, _ := testSessionScreen(t, content.Listening)

	s.Update(specialKey(tea.KeyEscape))
	if s.confirm != confirmQuit {
		t.Fatal("expected quit confirmation")
	}
	s.Update(keyPress('n'))
	if s.confirm != confirmNone {
		t.Error("expected confirmation dismissed")
	}
	if s.Controller().Phase() != sess.PhaseInProgress {
		t.Error("session should still be running")
	}
}

func TestSessionScreen_QuitConfirm_Yes(t *testing.T) {
	s, player, sub := testSessionScreen(t, content.Listening)

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a command after quit confirmation")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	if s.Controller().Phase() != sess.PhaseAbandoned {
		t.Errorf("phase = %v, want abandoned", s.Controller().Phase())
	}
	if player.Current() != "" {
		t.Error("expected playback stopped")
	}
	if sub.calls != 0 {
		t.Error("abandon must not submit")
	}
}

func TestSessionScreen_Finish(t *testing.T) {
	s, _, sub := testSessionScreen(t, content.Reading)

	s.Update(ctrlKey('s'))
	if s.confirm != confirmFinish {
		t.Fatal("expected finish confirmation")
	}
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a command after finishing")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}

	<-s.Controller().Done()
	if s.Controller().Status() != sess.StatusSubmitted {
		t.Errorf("status = %v", s.Controller().Status())
	}
	if sub.calls != 1 {
		t.Errorf("submit calls = %d, want 1", sub.calls)
	}
}

func TestSessionScreen_ExpiryShowsSummary(t *testing.T) {
	test, err := content.Load(content.Reading, 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	short := *test
	short.TotalSeconds = 1
	ticks := manualTicks(make(chan time.Time))
	s, _, _ := newScreen(t, &short, ticks)

	ticks <- time.Now()
	deadline := time.After(time.Second)
	for s.Controller().Status() != sess.StatusExpired {
		select {
		case <-deadline:
			t.Fatal("session did not expire")
		case <-time.After(5 * time.Millisecond):
		}
	}

	_, cmd := s.Update(timerTickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("expected a command after expiry")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg after expiry")
	}
}

func TestSessionScreen_KeyHints(t *testing.T) {
	s, _, _ := testSessionScreen(t, content.Speaking)
	if len(s.KeyHints()) == 0 {
		t.Error("expected non-empty key hints")
	}
}

func TestSessionScreen_View(t *testing.T) {
	for _, skill := range content.AllSkills {
		s, _, _ := testSessionScreen(t, skill)
		if s.View(100, 40) == "" {
			t.Errorf("%s: empty view", skill)
		}
	}
}

func TestSessionScreen_MissingIdentity(t *testing.T) {
	test, _ := content.Load(content.Reading, 1)
	s := New(test, Deps{Logger: zerolog.Nop()})
	if s.errMsg == "" {
		t.Fatal("expected an error without identity")
	}
	_, cmd := s.Update(keyPress('x'))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected any key to go back")
	}
}
