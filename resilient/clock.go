package resilient

import (
	"context"
	"time"
)

// Clock abstracts wall-clock reads and delays so that the breaker's lazy
// half-open evaluation and the retry backoff are testable without real
// sleeps. The system clock is the default everywhere a Clock is accepted.
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until ctx is done, returning the context error
	// in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

// SystemClock returns a Clock backed by the runtime's real time.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
