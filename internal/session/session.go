// Package session drives one timed attempt at a test: navigation, answer
// capture, the countdown, grading and a single best-effort submission.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/bandprep/internal/answers"
	"github.com/abhisek/bandprep/internal/clock"
	"github.com/abhisek/bandprep/internal/content"
	"github.com/abhisek/bandprep/internal/grading"
	"github.com/abhisek/bandprep/internal/identity"
	"github.com/abhisek/bandprep/internal/store"
	"github.com/abhisek/bandprep/internal/submit"
)

// Submitter sends a finished session's record.
type Submitter interface {
	Submit(ctx context.Context, rec submit.Record, token string) (*submit.Ack, error)
}

// Journal records finished attempts locally.
type Journal interface {
	AppendAttempt(ctx context.Context, data store.AttemptData) error
}

// Config wires a Controller's collaborators. Test, Identity and Submitter
// are required.
type Config struct {
	Test      *content.Test
	Strategy  grading.Strategy // nil selects by skill
	Identity  identity.Source
	Submitter Submitter
	Clock     *clock.Countdown // nil uses a real one-second clock
	Journal   Journal          // optional
	Logger    zerolog.Logger
	Now       func() time.Time

	// OnWarning receives the submission warning, at most once.
	OnWarning func(msg string)

	// Context bounds the submission call. Defaults to Background.
	Context context.Context
}

// Controller is the state machine for one attempt. All methods are safe to
// call from the UI goroutine while the clock expires on its own goroutine.
type Controller struct {
	id        string
	test      *content.Test
	strategy  grading.Strategy
	identity  identity.Source
	submitter Submitter
	clock     *clock.Countdown
	journal   Journal
	log       zerolog.Logger
	now       func() time.Time
	onWarning func(string)
	ctx       context.Context

	store *answers.Store
	done  chan struct{}

	mu        sync.Mutex
	started   bool
	pos       content.Position
	status    Status
	phase     Phase
	startedAt time.Time
	result    *Result
	warning   string
	submitErr error
	ack       *submit.Ack
}

// New creates a Controller positioned at the first item. The clock does
// not run until Start.
func New(cfg Config) (*Controller, error) {
	if cfg.Test == nil {
		return nil, fmt.Errorf("session: test is required")
	}
	if cfg.Identity == nil || cfg.Submitter == nil {
		return nil, fmt.Errorf("session: identity and submitter are required")
	}
	pos, ok := cfg.Test.Structure.First()
	if !ok {
		return nil, fmt.Errorf("session: %s test %d has no items", cfg.Test.Skill, cfg.Test.Number)
	}

	c := &Controller{
		id:        uuid.NewString(),
		test:      cfg.Test,
		strategy:  cfg.Strategy,
		identity:  cfg.Identity,
		submitter: cfg.Submitter,
		clock:     cfg.Clock,
		journal:   cfg.Journal,
		now:       cfg.Now,
		onWarning: cfg.OnWarning,
		ctx:       cfg.Context,
		store:     answers.NewStore(),
		done:      make(chan struct{}),
		pos:       pos,
	}
	if c.strategy == nil {
		c.strategy = grading.ForSkill(cfg.Test.Skill, cfg.Test.MinWords())
	}
	if c.clock == nil {
		c.clock = clock.New(nil)
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	c.log = cfg.Logger.With().
		Str("component", "session").
		Str("attempt", c.id).
		Str("skill", string(cfg.Test.Skill)).
		Int("test", cfg.Test.Number).
		Logger()
	return c, nil
}

// ID returns the attempt id.
func (c *Controller) ID() string { return c.id }

// Test returns the content being taken.
func (c *Controller) Test() *content.Test { return c.test }

// Start starts the clock at the test's duration. Later calls do nothing.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.started || c.terminalLocked() {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.startedAt = c.now()
	c.mu.Unlock()

	c.log.Info().Int("seconds", c.test.Duration()).Msg("session started")
	c.clock.Start(c.test.Duration(), c.expire)
}

// Advance moves to the next item. At the last item it does nothing.
func (c *Controller) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.terminalLocked() {
		return ErrTerminal
	}
	c.pos, _ = c.test.Structure.Next(c.pos)
	return nil
}

// Retreat moves to the previous item. At the first item it does nothing.
func (c *Controller) Retreat() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.terminalLocked() {
		return ErrTerminal
	}
	c.pos, _ = c.test.Structure.Prev(c.pos)
	return nil
}

// Jump moves to the item with itemID.
func (c *Controller) Jump(itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.terminalLocked() {
		return ErrTerminal
	}
	pos, ok := c.test.Structure.Locate(itemID)
	if !ok {
		return fmt.Errorf("%w: %q", content.ErrUnknownItem, itemID)
	}
	c.pos = pos
	return nil
}

// Capture records value under the answer id. A blank value clears the
// answer. Unknown ids and values the item cannot hold are rejected.
func (c *Controller) Capture(id, value string) error {
	c.mu.Lock()
	terminal := c.terminalLocked()
	c.mu.Unlock()
	if terminal {
		return ErrCaptureRejected
	}

	if strings.TrimSpace(value) == "" {
		if _, _, ok := c.test.Structure.Resolve(id); !ok {
			return fmt.Errorf("%w: %q", content.ErrUnknownItem, id)
		}
		value = string(answers.Unanswered)
	} else if err := c.test.CheckAnswer(id, value); err != nil {
		return err
	}

	if err := c.store.Set(id, answers.Value(value)); err != nil {
		return ErrCaptureRejected
	}
	return nil
}

// Answer returns the captured value for id.
func (c *Controller) Answer(id string) answers.Value {
	v, _ := c.store.Get(id)
	return v
}

// Finish ends the session at the learner's request, grades it and starts
// the submission. It returns ErrTerminal if the session already ended.
func (c *Controller) Finish() error {
	if !c.end(StatusSubmitted) {
		return ErrTerminal
	}
	return nil
}

// expire is the clock's expiry callback.
func (c *Controller) expire() {
	c.end(StatusExpired)
}

// end performs the single terminal transition. It reports false when the
// session had already ended or was abandoned.
func (c *Controller) end(status Status) bool {
	c.mu.Lock()
	if c.terminalLocked() {
		c.mu.Unlock()
		return false
	}
	c.status = status
	c.phase = PhaseGrading
	startedAt := c.startedAt
	c.mu.Unlock()

	c.clock.Stop()
	c.store.Close()

	elapsed := c.test.Duration() - c.clock.Remaining()
	if startedAt.IsZero() {
		elapsed = 0
	}
	creds := c.identity.Credentials()
	res := BuildResult(c.test, c.strategy, c.store.Snapshot(), status, creds.UserID, elapsed, c.now())

	c.mu.Lock()
	c.result = res
	c.phase = PhaseSubmitting
	c.mu.Unlock()

	ev := c.log.Info().Str("status", status.String()).Int("answered", res.Answered).Int("elapsed", elapsed)
	if res.Band != nil {
		ev = ev.Int("correct", res.Score.CorrectCount).Str("band", res.Band.String())
	}
	ev.Msg("session graded")

	go c.submit(res, creds)
	return true
}

// submit makes the one submission attempt and resolves the phase.
func (c *Controller) submit(res *Result, creds identity.Credentials) {
	defer close(c.done)

	var (
		ack *submit.Ack
		err error
	)
	if !creds.HasToken() {
		err = &submit.ErrAuthMissing{UserID: creds.UserID}
	} else {
		ack, err = c.submitter.Submit(c.ctx, res.Record, creds.AuthToken)
	}

	c.mu.Lock()
	if err != nil {
		c.phase = PhaseSubmitFailed
		c.submitErr = err
		c.warning = submit.UserMessage(err)
	} else {
		c.phase = PhaseSubmitted
		c.ack = ack
	}
	warning := c.warning
	c.mu.Unlock()

	if err != nil {
		c.log.Warn().Err(err).Msg("result not submitted")
		if c.onWarning != nil {
			c.onWarning(warning)
		}
	} else {
		c.log.Info().Str("result_id", ack.ID).Msg("result submitted")
	}

	if c.journal != nil {
		if jErr := c.journal.AppendAttempt(context.Background(), res.attempt(c.id, err == nil, err)); jErr != nil {
			c.log.Error().Err(jErr).Msg("journal attempt")
		}
	}
}

// Abandon stops the clock and discards the session without grading or
// submitting. It never fails and does nothing once the session ended.
func (c *Controller) Abandon() {
	c.mu.Lock()
	if c.terminalLocked() {
		c.mu.Unlock()
		return
	}
	c.phase = PhaseAbandoned
	c.mu.Unlock()

	c.clock.Stop()
	c.store.Close()
	close(c.done)
	c.log.Info().Msg("session abandoned")
}

// Done is closed once the submission attempt resolved, or on Abandon.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Status returns the session status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Phase returns the controller phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Result returns the graded result, or nil before the session ended.
func (c *Controller) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// SubmitErr returns the submission error once resolved.
func (c *Controller) SubmitErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitErr
}

// View returns a snapshot for presentation.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, _ := c.test.Structure.ItemAt(c.pos)
	remaining := c.clock.Remaining()
	if !c.started {
		remaining = c.test.Duration()
	}
	return View{
		AttemptID:  c.id,
		Test:       c.test,
		Position:   c.pos,
		Item:       item,
		Ordinal:    c.test.Structure.Ordinal(c.pos),
		TotalItems: c.test.Structure.ItemCount(),
		Remaining:  remaining,
		Answered:   answeredItems(c.store),
		Status:     c.status,
		Phase:      c.phase,
		Result:     c.result,
		Warning:    c.warning,
		StartedAt:  c.startedAt,
	}
}

func (c *Controller) terminalLocked() bool {
	return c.status.Terminal() || c.phase == PhaseAbandoned
}
