// Package circuit tracks the health of a remote dependency from call outcomes.
//
// The breaker is advisory: it never short-circuits calls. It flips open after a
// run of consecutive failures and closes again after a run of consecutive
// successes, and callers use the transitions for logging, gauges and readiness.
package circuit

import (
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// StateChange reports a transition caused by a single Observe call.
type StateChange struct {
	Opened bool
	Closed bool
}

// Changed reports whether any transition happened.
func (c StateChange) Changed() bool {
	return c.Opened || c.Closed
}

type Breaker struct {
	mu               sync.Mutex
	name             string
	state            State
	failures         int
	successes        int
	failureThreshold int
	successThreshold int
	since            time.Time
	now              func() time.Time
}

type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the circuit (default 5).
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets how many consecutive successes close it again (default 3).
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: 5,
		successThreshold: 3,
		now:              time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	b.since = b.now()
	return b
}

func (b *Breaker) Name() string {
	return b.name
}

func (b *Breaker) IsOpen() bool {
	return b.State() == StateOpen
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Since returns when the current state was entered.
func (b *Breaker) Since() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.since
}

// Observe records one call outcome and returns the transition it caused, if any.
func (b *Breaker) Observe(ok bool) StateChange {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ok {
		b.failures = 0
		if b.state == StateClosed {
			return StateChange{}
		}
		b.successes++
		if b.successes < b.successThreshold {
			return StateChange{}
		}
		b.transition(StateClosed)
		return StateChange{Closed: true}
	}

	b.successes = 0
	b.failures++
	if b.state == StateOpen || b.failures < b.failureThreshold {
		return StateChange{}
	}
	b.transition(StateOpen)
	return StateChange{Opened: true}
}

// Reset closes the circuit and clears the counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition(StateClosed)
}

func (b *Breaker) transition(to State) {
	b.state = to
	b.failures = 0
	b.successes = 0
	b.since = b.now()
}
