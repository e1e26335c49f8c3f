// Package breaker implements the circuit breaker guarding origin calls.
//
// The breaker is shared across all keys routed through one loader instance:
// it models origin health, not per-key health. State transitions are lazy:
// the open-to-half-open flip is evaluated against the injected clock at call
// time rather than by a background timer, which keeps the breaker free of
// scheduling primitives and trivially testable.
package breaker

import (
	"sync"
	"time"

	"github.com/Nabil201-ctrl/go-resilient-cache/resilient"
)

// State represents the circuit breaker state.
type State int

const (
	StateClosed   State = iota // Normal operation; calls pass through.
	StateOpen                  // Failing; calls are rejected immediately.
	StateHalfOpen              // Probing; a single trial call is allowed.
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config controls breaker thresholds and seams.
type Config struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the breaker.
	FailureThreshold int

	// ResetTimeout is how long the breaker stays open before a probe is
	// allowed through.
	ResetTimeout time.Duration

	// Clock supplies the current time. Defaults to the system clock.
	Clock resilient.Clock

	// OnStateChange, when non-nil, is invoked after every transition with
	// the old and new state. It is called outside the breaker's lock.
	OnStateChange func(from, to State)
}

// Breaker is a three-state circuit breaker with lazy half-open evaluation.
// All state lives behind a single mutex; the guarded sections never include
// the origin call itself.
//
// Every admission carries a generation token and the generation is bumped
// on each state transition, so a call that settles after the breaker has
// already moved on cannot act on the new state: a success from before a
// trip cannot close the open breaker, and a failure from before a probe
// cannot be mistaken for the probe's outcome.
type Breaker struct {
	mu                  sync.Mutex
	failureThreshold    int
	resetTimeout        time.Duration
	clock               resilient.Clock
	onStateChange       func(from, to State)
	state               State
	generation          uint64
	consecutiveFailures int
	openedAt            time.Time
	probing             bool
}

// New constructs a closed breaker from cfg.
func New(cfg Config) *Breaker {
	clk := cfg.Clock
	if clk == nil {
		clk = resilient.SystemClock()
	}
	return &Breaker{
		failureThreshold: cfg.FailureThreshold,
		resetTimeout:     cfg.ResetTimeout,
		clock:            clk,
		onStateChange:    cfg.OnStateChange,
		state:            StateClosed,
	}
}

// Allow reports whether a call may proceed. On admission it returns a nil
// error together with the current generation token; the token must be
// handed to the RecordSuccess or RecordFailure settling the call. It
// returns resilient.ErrCircuitOpen when the breaker is open or a half-open
// probe is already outstanding. Every admitted call must be settled with
// exactly one RecordSuccess or RecordFailure.
func (b *Breaker) Allow() (uint64, error) {
	b.mu.Lock()

	switch b.effectiveState() {
	case StateClosed:
		gen := b.generation
		b.mu.Unlock()
		return gen, nil

	case StateHalfOpen:
		if b.probing {
			b.mu.Unlock()
			return 0, resilient.ErrCircuitOpen
		}
		notify := b.transition(StateHalfOpen)
		b.probing = true
		gen := b.generation
		b.mu.Unlock()
		notify()
		return gen, nil

	default:
		b.mu.Unlock()
		return 0, resilient.ErrCircuitOpen
	}
}

// RecordSuccess settles an admitted call as successful. A success from the
// current generation closes the breaker and resets the consecutive failure
// count; a success from a stale generation is discarded, so it can never
// close a breaker that tripped after the call was admitted.
func (b *Breaker) RecordSuccess(gen uint64) {
	b.mu.Lock()
	if gen != b.generation {
		b.mu.Unlock()
		return
	}
	b.consecutiveFailures = 0
	b.probing = false
	notify := b.transition(StateClosed)
	b.mu.Unlock()
	notify()
}

// RecordFailure settles an admitted call as failed. A failed half-open
// probe reopens the breaker immediately; in the closed state failures
// accumulate until the threshold trips it. Failures from a stale
// generation are discarded, so a call admitted before a probe cannot be
// mistaken for the probe's outcome.
func (b *Breaker) RecordFailure(gen uint64) {
	b.mu.Lock()
	if gen != b.generation {
		b.mu.Unlock()
		return
	}

	if b.probing {
		b.probing = false
		b.openedAt = b.clock.Now()
		notify := b.transition(StateOpen)
		b.mu.Unlock()
		notify()
		return
	}

	b.consecutiveFailures++
	if b.consecutiveFailures >= b.failureThreshold {
		b.openedAt = b.clock.Now()
		notify := b.transition(StateOpen)
		b.mu.Unlock()
		notify()
		return
	}
	b.mu.Unlock()
}

// State returns the breaker state as observed right now, including the lazy
// open-to-half-open flip.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.effectiveState()
}

// effectiveState folds the reset timeout into the stored state. Callers
// must hold b.mu.
func (b *Breaker) effectiveState() State {
	if b.state == StateOpen && b.clock.Now().Sub(b.openedAt) >= b.resetTimeout {
		return StateHalfOpen
	}
	return b.state
}

// transition moves the stored state, bumping the generation so settles
// from before the transition become stale, and returns the notification
// callback to run after the lock is released. Callers must hold b.mu.
func (b *Breaker) transition(to State) func() {
	from := b.state
	if from == to {
		return func() {}
	}
	b.state = to
	b.generation++
	if b.onStateChange == nil {
		return func() {}
	}
	cb := b.onStateChange
	return func() { cb(from, to) }
}
