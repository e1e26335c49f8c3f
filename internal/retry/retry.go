// Package retry implements the backoff policy wrapped around origin calls.
//
// The delay after a failed attempt i (0-indexed) is BaseDelay * (i+1), a
// monotonically non-decreasing linear backoff. A rejection from the circuit
// breaker is never retried: it already means the origin should not be
// contacted, so it propagates immediately.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/Nabil201-ctrl/go-resilient-cache/resilient"
)

// Policy retries a single logical operation up to MaxRetries total attempts.
type Policy struct {
	// MaxRetries is the total number of attempts, including the first.
	MaxRetries int

	// BaseDelay is the backoff unit between attempts.
	BaseDelay time.Duration

	// Clock supplies the sleep between attempts. Defaults to the system
	// clock.
	Clock resilient.Clock

	// OnRetry, when non-nil, is invoked before each re-attempt with the
	// upcoming attempt number (1-indexed from the second attempt) and the
	// backoff that was just waited.
	OnRetry func(attempt int, delay time.Duration)
}

// Do runs fn up to p.MaxRetries times and returns nil on the first success.
// On exhaustion it returns the final attempt's error. Context cancellation
// and resilient.ErrCircuitOpen abort the sequence immediately.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	clk := p.Clock
	if clk == nil {
		clk = resilient.SystemClock()
	}
	attempts := p.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			delay := p.BaseDelay * time.Duration(i)
			if sleepErr := clk.Sleep(ctx, delay); sleepErr != nil {
				return sleepErr
			}
			if p.OnRetry != nil {
				p.OnRetry(i+1, delay)
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, resilient.ErrCircuitOpen) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}
	return err
}
