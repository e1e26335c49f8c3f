package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/Nabil201-ctrl/go-resilient-cache/pkg/testsupport"
	"github.com/Nabil201-ctrl/go-resilient-cache/resilient"
)

func newTestBreaker(threshold int, reset time.Duration) (*Breaker, *testsupport.ManualClock) {
	clk := testsupport.NewManualClock(time.Unix(1000, 0))
	b := New(Config{
		FailureThreshold: threshold,
		ResetTimeout:     reset,
		Clock:            clk,
	})
	return b, clk
}

// admit fails the test if the breaker rejects the call.
func admit(t *testing.T, b *Breaker) uint64 {
	t.Helper()
	gen, err := b.Allow()
	if err != nil {
		t.Fatalf("call unexpectedly rejected: %v", err)
	}
	return gen
}

func TestBreaker_StartsClosed(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed, got %s", got)
	}
	admit(t, b)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		b.RecordFailure(admit(t, b))
	}

	if got := b.State(); got != StateOpen {
		t.Fatalf("expected open after 3 failures, got %s", got)
	}
	if _, err := b.Allow(); !errors.Is(err, resilient.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	b.RecordFailure(admit(t, b))
	b.RecordFailure(admit(t, b))
	b.RecordSuccess(admit(t, b))

	// Two more failures should not trip a threshold of 3.
	b.RecordFailure(admit(t, b))
	b.RecordFailure(admit(t, b))

	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed after success reset, got %s", got)
	}
}

func TestBreaker_HalfOpenAfterResetTimeout(t *testing.T) {
	b, clk := newTestBreaker(1, time.Minute)

	b.RecordFailure(admit(t, b))
	if got := b.State(); got != StateOpen {
		t.Fatalf("expected open, got %s", got)
	}

	clk.Advance(59 * time.Second)
	if got := b.State(); got != StateOpen {
		t.Fatalf("expected still open before reset timeout, got %s", got)
	}

	clk.Advance(time.Second)
	if got := b.State(); got != StateHalfOpen {
		t.Fatalf("expected half-open after reset timeout, got %s", got)
	}
}

func TestBreaker_HalfOpenAllowsSingleProbe(t *testing.T) {
	b, clk := newTestBreaker(1, time.Minute)

	b.RecordFailure(admit(t, b))
	clk.Advance(time.Minute)

	admit(t, b)
	// A second caller while the probe is outstanding is rejected.
	if _, err := b.Allow(); !errors.Is(err, resilient.ErrCircuitOpen) {
		t.Fatalf("expected concurrent probe to be rejected, got %v", err)
	}
}

func TestBreaker_ProbeSuccessCloses(t *testing.T) {
	b, clk := newTestBreaker(1, time.Minute)

	b.RecordFailure(admit(t, b))
	clk.Advance(time.Minute)

	b.RecordSuccess(admit(t, b))

	if got := b.State(); got != StateClosed {
		t.Fatalf("expected closed after probe success, got %s", got)
	}
	admit(t, b)
}

func TestBreaker_ProbeFailureReopensAndResetsTimer(t *testing.T) {
	b, clk := newTestBreaker(1, time.Minute)

	b.RecordFailure(admit(t, b))
	clk.Advance(time.Minute)

	b.RecordFailure(admit(t, b))

	if got := b.State(); got != StateOpen {
		t.Fatalf("expected open after probe failure, got %s", got)
	}

	// openedAt was reset by the failed probe: half the timeout is not
	// enough to reach half-open again.
	clk.Advance(30 * time.Second)
	if got := b.State(); got != StateOpen {
		t.Fatalf("expected open before fresh reset timeout elapses, got %s", got)
	}
	clk.Advance(30 * time.Second)
	if got := b.State(); got != StateHalfOpen {
		t.Fatalf("expected half-open after fresh reset timeout, got %s", got)
	}
}

func TestBreaker_StaleSuccessCannotCloseOpenBreaker(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	// A slow call is admitted while closed, then the breaker trips
	// underneath it.
	slow := admit(t, b)
	for i := 0; i < 3; i++ {
		b.RecordFailure(admit(t, b))
	}
	if got := b.State(); got != StateOpen {
		t.Fatalf("expected open after 3 failures, got %s", got)
	}

	// The slow call finally succeeds. Its admission predates the trip, so
	// the success must not close the breaker: only a probe may do that.
	b.RecordSuccess(slow)

	if got := b.State(); got != StateOpen {
		t.Fatalf("expected stale success to be discarded, got %s", got)
	}
	if _, err := b.Allow(); !errors.Is(err, resilient.ErrCircuitOpen) {
		t.Fatalf("expected calls still rejected, got %v", err)
	}
}

func TestBreaker_StaleFailureNotMistakenForProbeOutcome(t *testing.T) {
	b, clk := newTestBreaker(2, time.Minute)

	// A slow call is admitted while closed, then the breaker trips and
	// reaches half-open with a probe outstanding.
	slow := admit(t, b)
	b.RecordFailure(admit(t, b))
	b.RecordFailure(admit(t, b))
	clk.Advance(time.Minute)
	probe := admit(t, b)

	// The slow call fails now. It must not be attributed to the probe.
	b.RecordFailure(slow)
	if got := b.State(); got != StateHalfOpen {
		t.Fatalf("expected stale failure to be discarded, got %s", got)
	}

	// The real probe still decides the outcome.
	b.RecordSuccess(probe)
	if got := b.State(); got != StateClosed {
		t.Fatalf("expected probe success to close the breaker, got %s", got)
	}
}

func TestBreaker_StateChangeCallback(t *testing.T) {
	clk := testsupport.NewManualClock(time.Unix(1000, 0))

	type change struct{ from, to State }
	var changes []change
	b := New(Config{
		FailureThreshold: 1,
		ResetTimeout:     time.Minute,
		Clock:            clk,
		OnStateChange: func(from, to State) {
			changes = append(changes, change{from, to})
		},
	})

	gen, err := b.Allow()
	if err != nil {
		t.Fatalf("call unexpectedly rejected: %v", err)
	}
	b.RecordFailure(gen) // closed -> open
	clk.Advance(time.Minute)
	gen, err = b.Allow() // open -> half-open
	if err != nil {
		t.Fatalf("probe unexpectedly rejected: %v", err)
	}
	b.RecordSuccess(gen) // half-open -> closed

	want := []change{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}
	if len(changes) != len(want) {
		t.Fatalf("expected %d transitions, got %d: %v", len(want), len(changes), changes)
	}
	for i, w := range want {
		if changes[i] != w {
			t.Errorf("transition %d: expected %s->%s, got %s->%s", i, w.from, w.to, changes[i].from, changes[i].to)
		}
	}
}

func TestState_String(t *testing.T) {
	cases := map[State]string{
		StateClosed:   "closed",
		StateOpen:     "open",
		StateHalfOpen: "half-open",
		State(42):     "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
