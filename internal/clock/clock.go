// Package clock provides the once-per-second countdown that bounds an
// assessment session.
package clock

import (
	"sync"
	"time"
)

// TickSource produces ticks and a function that releases them.
type TickSource func() (ticks <-chan time.Time, stop func())

// SecondTicks is the production tick source.
func SecondTicks() (<-chan time.Time, func()) {
	t := time.NewTicker(time.Second)
	return t.C, t.Stop
}

// Countdown counts whole seconds down to zero and reports expiry once.
// It has no pause or resume.
type Countdown struct {
	source TickSource

	mu        sync.Mutex
	remaining int
	started   bool
	stopped   bool
	expired   bool
	onExpire  func()
	quit      chan struct{}
	done      chan struct{}
}

// New creates a Countdown. A nil source uses SecondTicks.
func New(source TickSource) *Countdown {
	if source == nil {
		source = SecondTicks
	}
	return &Countdown{
		source: source,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start begins counting down from totalSeconds. onExpire runs once, on the
// ticking goroutine, when the count reaches zero. Calling Start twice has
// no effect. A zero total expires on the first tick.
func (c *Countdown) Start(totalSeconds int, onExpire func()) {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	c.started = true
	c.remaining = totalSeconds
	c.onExpire = onExpire
	c.mu.Unlock()

	ticks, release := c.source()
	go c.run(ticks, release)
}

func (c *Countdown) run(ticks <-chan time.Time, release func()) {
	defer close(c.done)
	defer release()

	for {
		select {
		case <-c.quit:
			return
		case <-ticks:
			if fire := c.tick(); fire != nil {
				fire()
				return
			}
		}
	}
}

// tick decrements the count and returns the expiry callback when the
// countdown just reached zero.
func (c *Countdown) tick() func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return nil
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining > 0 {
		return nil
	}
	c.stopped = true
	c.expired = true
	if c.onExpire == nil {
		return func() {}
	}
	return c.onExpire
}

// Remaining returns the whole seconds left.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Expired reports whether the countdown reached zero.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

// Stop halts ticking. It is idempotent and safe to call from the expiry
// callback.
func (c *Countdown) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	started := c.started
	c.mu.Unlock()

	close(c.quit)
	if !started {
		close(c.done)
	}
}

// Done is closed once the ticking goroutine has exited.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}
