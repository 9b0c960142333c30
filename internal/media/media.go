// Package media holds the audio collaborators of a session: a recorder that
// turns a spoken answer into a transcript and a player for listening
// recordings. The terminal build has no audio device, so the recorder
// takes typed text and the player only logs.
package media

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/abhisek/bandprep/internal/content"
)

var (
	// ErrNotRecording is returned by Stop and Write without a prior Start.
	ErrNotRecording = errors.New("recorder is not recording")

	// ErrAlreadyRecording is returned by Start while a recording is open.
	ErrAlreadyRecording = errors.New("recorder is already recording")
)

// Recorder captures one spoken answer at a time.
type Recorder interface {
	// Start opens a recording for itemID.
	Start(ctx context.Context, itemID string) error

	// Stop closes the recording and returns its transcript.
	Stop(ctx context.Context) (string, error)
}

// Player plays the recording attached to a listening section.
type Player interface {
	Play(ctx context.Context, track string) error
	Stop()
}

// Capturer stores a value under an answer id. A session controller is one.
type Capturer interface {
	Capture(id, value string) error
}

// TypedRecorder is a Recorder whose transcript is typed by the learner.
type TypedRecorder struct {
	mu        sync.Mutex
	recording bool
	itemID    string
	buf       strings.Builder
	log       zerolog.Logger
}

var _ Recorder = (*TypedRecorder)(nil)

// NewTypedRecorder creates a TypedRecorder.
func NewTypedRecorder(log zerolog.Logger) *TypedRecorder {
	return &TypedRecorder{log: log.With().Str("component", "recorder").Logger()}
}

func (r *TypedRecorder) Start(_ context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return ErrAlreadyRecording
	}
	r.recording = true
	r.itemID = itemID
	r.buf.Reset()
	r.log.Debug().Str("item", itemID).Msg("recording started")
	return nil
}

// Write appends typed text to the open recording.
func (r *TypedRecorder) Write(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return ErrNotRecording
	}
	r.buf.WriteString(text)
	return nil
}

func (r *TypedRecorder) Stop(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return "", ErrNotRecording
	}
	r.recording = false
	transcript := strings.TrimSpace(r.buf.String())
	r.log.Debug().Str("item", r.itemID).Int("chars", len(transcript)).Msg("recording stopped")
	return transcript, nil
}

// Recording reports whether a recording is open.
func (r *TypedRecorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// LogPlayer records the track it would play.
type LogPlayer struct {
	mu      sync.Mutex
	current string
	log     zerolog.Logger
}

var _ Player = (*LogPlayer)(nil)

// NewLogPlayer creates a LogPlayer.
func NewLogPlayer(log zerolog.Logger) *LogPlayer {
	return &LogPlayer{log: log.With().Str("component", "player").Logger()}
}

func (p *LogPlayer) Play(_ context.Context, track string) error {
	if track == "" {
		return nil
	}
	p.mu.Lock()
	p.current = track
	p.mu.Unlock()
	p.log.Info().Str("track", track).Msg("play")
	return nil
}

func (p *LogPlayer) Stop() {
	p.mu.Lock()
	track := p.current
	p.current = ""
	p.mu.Unlock()
	if track != "" {
		p.log.Info().Str("track", track).Msg("stop")
	}
}

// Current returns the track being played, if any.
func (p *LogPlayer) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// RecordInto stops rec and captures its transcript as the transcript field
// of itemID.
func RecordInto(ctx context.Context, dst Capturer, itemID string, rec Recorder) (string, error) {
	transcript, err := rec.Stop(ctx)
	if err != nil {
		return "", err
	}
	if err := dst.Capture(content.AnswerID(itemID, content.FieldTranscript), transcript); err != nil {
		return "", err
	}
	return transcript, nil
}
