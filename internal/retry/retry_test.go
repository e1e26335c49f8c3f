package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nabil201-ctrl/go-resilient-cache/pkg/testsupport"
	"github.com/Nabil201-ctrl/go-resilient-cache/resilient"
)

func TestPolicy_SucceedsWithoutRetry(t *testing.T) {
	clk := testsupport.NewManualClock(time.Unix(1000, 0))
	p := Policy{MaxRetries: 3, BaseDelay: 100 * time.Millisecond, Clock: clk}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if len(clk.SleepCalls()) != 0 {
		t.Errorf("expected no backoff sleeps, got %v", clk.SleepCalls())
	}
}

func TestPolicy_RetriesThenSucceeds(t *testing.T) {
	clk := testsupport.NewManualClock(time.Unix(1000, 0))
	p := Policy{MaxRetries: 3, BaseDelay: 100 * time.Millisecond, Clock: clk}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestPolicy_LinearBackoffDelays(t *testing.T) {
	clk := testsupport.NewManualClock(time.Unix(1000, 0))
	p := Policy{MaxRetries: 3, BaseDelay: 100 * time.Millisecond, Clock: clk}

	failure := errors.New("always fails")
	err := p.Do(context.Background(), func(ctx context.Context) error {
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected final attempt's error, got %v", err)
	}

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	got := clk.SleepCalls()
	if len(got) != len(want) {
		t.Fatalf("expected %d backoff sleeps, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sleep %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestPolicy_CircuitOpenNotRetried(t *testing.T) {
	clk := testsupport.NewManualClock(time.Unix(1000, 0))
	p := Policy{MaxRetries: 5, BaseDelay: 100 * time.Millisecond, Clock: clk}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return resilient.ErrCircuitOpen
	})
	if !errors.Is(err, resilient.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected circuit rejection to abort retries, got %d calls", calls)
	}
}

func TestPolicy_ContextCancellationAborts(t *testing.T) {
	clk := testsupport.NewManualClock(time.Unix(1000, 0))
	p := Policy{MaxRetries: 5, BaseDelay: 100 * time.Millisecond, Clock: clk}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := p.Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected no retry after cancellation, got %d calls", calls)
	}
}

func TestPolicy_OnRetryHook(t *testing.T) {
	clk := testsupport.NewManualClock(time.Unix(1000, 0))

	type retryEvent struct {
		attempt int
		delay   time.Duration
	}
	var events []retryEvent
	p := Policy{
		MaxRetries: 3,
		BaseDelay:  50 * time.Millisecond,
		Clock:      clk,
		OnRetry: func(attempt int, delay time.Duration) {
			events = append(events, retryEvent{attempt, delay})
		},
	}

	p.Do(context.Background(), func(ctx context.Context) error {
		return errors.New("always fails")
	})

	want := []retryEvent{
		{2, 50 * time.Millisecond},
		{3, 100 * time.Millisecond},
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d retry events, got %v", len(want), events)
	}
	for i, w := range want {
		if events[i] != w {
			t.Errorf("event %d: expected %+v, got %+v", i, w, events[i])
		}
	}
}

func TestPolicy_ZeroMaxRetriesStillAttemptsOnce(t *testing.T) {
	p := Policy{MaxRetries: 0, BaseDelay: time.Millisecond, Clock: testsupport.NewManualClock(time.Unix(1000, 0))}

	calls := 0
	p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("fails")
	})
	if calls != 1 {
		t.Errorf("expected exactly one attempt, got %d", calls)
	}
}
