// Package testsupport provides fakes for exercising the cache-aside loader
// deterministically: a manually advanced clock and origin implementations
// with scripted behavior.
package testsupport

import (
	"context"
	"sync"
	"time"
)

// ManualClock is a Clock whose time only moves when told to. Sleep does not
// block: it records the requested delay, advances the clock by it and
// returns, which keeps retry backoff tests instant and deterministic.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

// NewManualClock creates a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleep records d, advances the clock by it and returns immediately. The
// context error is honored so cancellation behavior stays observable.
func (c *ManualClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

// SleepCalls returns the delays requested so far, in order.
func (c *ManualClock) SleepCalls() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

// CountingOrigin counts invocations and delegates to Fn. An optional Delay
// keeps the call in flight long enough for coalescing tests to pile up
// waiters.
type CountingOrigin struct {
	mu    sync.Mutex
	calls int

	// Delay is slept (real time) inside every Load before Fn runs.
	Delay time.Duration

	// Fn produces the result. When nil, Load returns the key itself.
	Fn func(ctx context.Context, key string) (any, error)
}

// Load implements resilient.Origin.
func (o *CountingOrigin) Load(ctx context.Context, key string) (any, error) {
	o.mu.Lock()
	o.calls++
	o.mu.Unlock()

	if o.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(o.Delay):
		}
	}
	if o.Fn == nil {
		return key, nil
	}
	return o.Fn(ctx, key)
}

// Calls returns how many times Load has been invoked.
func (o *CountingOrigin) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

// ScriptedOrigin fails its first Failures loads with Err and then returns
// Value. It also counts invocations.
type ScriptedOrigin struct {
	mu    sync.Mutex
	calls int

	Failures int
	Err      error
	Value    any
}

// Load implements resilient.Origin.
func (o *ScriptedOrigin) Load(ctx context.Context, key string) (any, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if o.calls <= o.Failures {
		return nil, o.Err
	}
	return o.Value, nil
}

// Calls returns how many times Load has been invoked.
func (o *ScriptedOrigin) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

// MapBytesStore is an in-memory BytesStore for codec store tests.
type MapBytesStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMapBytesStore creates an empty MapBytesStore.
func NewMapBytesStore() *MapBytesStore {
	return &MapBytesStore{entries: map[string][]byte{}}
}

// Get implements resilient.BytesStore.
func (s *MapBytesStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.entries[key]
	return data, ok, nil
}

// Put implements resilient.BytesStore.
func (s *MapBytesStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Delete implements resilient.BytesStore.
func (s *MapBytesStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
