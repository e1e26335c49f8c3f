package cacheaside

import (
	"context"
	"errors"
	"time"

	"github.com/Nabil201-ctrl/go-resilient-cache/internal/breaker"
	"github.com/Nabil201-ctrl/go-resilient-cache/internal/coalesce"
	"github.com/Nabil201-ctrl/go-resilient-cache/internal/retry"
	"github.com/Nabil201-ctrl/go-resilient-cache/resilient"
)

// Interface assertion to ensure Loader implements resilient.Fetcher.
var _ resilient.Fetcher = (*Loader)(nil)

// Loader is the resilient cache-aside read-through layer. Fetch returns a
// value from the store or, on a miss, from the origin, with concurrent
// requests for the same key coalesced into one origin call, origin failures
// retried with backoff, a shared circuit breaker shedding load when the
// origin is unhealthy, and successful results written back with a TTL.
//
// One Loader guards one origin: the breaker state is shared across every
// key routed through the instance, so a run of failures on one key will
// short-circuit fetches for all keys. That is an origin-health signal, not
// a per-key one.
type Loader struct {
	store   resilient.Store
	origin  resilient.Origin
	breaker *breaker.Breaker
	retry   retry.Policy
	group   coalesce.Group
	ttl     time.Duration
	clock   resilient.Clock
	log     resilient.Logger
	metrics resilient.Metrics
}

// Option customizes a Loader beyond its Config.
type Option func(*Loader)

// WithClock injects the clock used by the breaker, the retry backoff and
// TTL computation. Defaults to the system clock.
func WithClock(clk resilient.Clock) Option {
	return func(l *Loader) {
		if clk != nil {
			l.clock = clk
		}
	}
}

// WithLogger injects the logger used for cache degradation and breaker
// transitions. Defaults to a no-op logger.
func WithLogger(log resilient.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithMetrics injects the metrics sink. Defaults to a no-op implementation.
func WithMetrics(m resilient.Metrics) Option {
	return func(l *Loader) {
		if m != nil {
			l.metrics = m
		}
	}
}

// New constructs a Loader over the given store and origin. Zero-valued
// resilience knobs in cfg are replaced with defaults before validation.
func New(store resilient.Store, origin resilient.Origin, cfg resilient.Config, opts ...Option) (*Loader, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Loader{
		store:   store,
		origin:  origin,
		ttl:     cfg.TTL,
		clock:   resilient.SystemClock(),
		log:     resilient.NopLogger{},
		metrics: resilient.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(l)
	}

	l.breaker = breaker.New(breaker.Config{
		FailureThreshold: cfg.FailureThreshold,
		ResetTimeout:     cfg.ResetTimeout,
		Clock:            l.clock,
		OnStateChange: func(from, to breaker.State) {
			l.metrics.BreakerTransition(to.String())
			l.log.Info("circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})
	l.retry = retry.Policy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.BaseDelay,
		Clock:      l.clock,
		OnRetry: func(attempt int, delay time.Duration) {
			l.metrics.RetryAttempt()
			l.log.Info("retrying origin load", "attempt", attempt, "delay", delay)
		},
	}

	return l, nil
}

// Fetch returns the value for key, consulting the store first and falling
// back to a coalesced, retried, breaker-guarded origin load on a miss.
//
// Failures surface as *resilient.OriginError once retries are exhausted, or
// resilient.ErrCircuitOpen when the breaker pre-empted the call. A caller
// whose context is cancelled while waiting on a coalesced fetch receives
// its context error; the fetch itself keeps running for the other waiters.
func (l *Loader) Fetch(ctx context.Context, key string) (any, error) {
	v, ok, err := l.store.Get(ctx, key)
	if err != nil {
		// A broken cache degrades to an origin fetch; it never blocks
		// correctness.
		l.log.Warn("cache read failed, treating as miss", "key", key, "error", err)
	} else if ok {
		l.metrics.CacheHit()
		return v, nil
	}
	l.metrics.CacheMiss()

	// The origin sequence is detached from any single caller's
	// cancellation so a driver that gives up does not abort the fetch for
	// the waiters still attached.
	driverCtx := context.WithoutCancel(ctx)
	v, shared, err := l.group.Do(ctx, key, func() (any, error) {
		return l.loadAndStore(driverCtx, key)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		l.metrics.CoalescedWaiter()
	}
	return v, nil
}

// Invalidate removes the cached entry for key and forgets any in-flight
// fetch so the next caller starts fresh. Waiters already attached to an
// in-flight fetch still receive its result.
func (l *Loader) Invalidate(ctx context.Context, key string) error {
	l.group.Forget(key)
	return l.store.Delete(ctx, key)
}

// BreakerState reports the breaker state as observed right now: "closed",
// "open" or "half-open".
func (l *Loader) BreakerState() string {
	return l.breaker.State().String()
}

// loadAndStore is the driver path: retry wrapping breaker wrapping the
// origin, then best-effort write-back.
func (l *Loader) loadAndStore(ctx context.Context, key string) (any, error) {
	var value any
	attempts := 0

	err := l.retry.Do(ctx, func(ctx context.Context) error {
		gen, err := l.breaker.Allow()
		if err != nil {
			return err
		}
		attempts++
		l.metrics.OriginLoad()

		v, err := l.origin.Load(ctx, key)
		if err != nil {
			l.metrics.OriginFailure()
			l.breaker.RecordFailure(gen)
			return err
		}
		l.breaker.RecordSuccess(gen)
		value = v
		return nil
	})
	if err != nil {
		if errors.Is(err, resilient.ErrCircuitOpen) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &resilient.OriginError{Key: key, Attempts: attempts, Err: err}
	}

	if l.ttl > 0 {
		if err := l.store.Put(ctx, key, value, l.ttl); err != nil {
			// The cache is an optimization, not a source of truth.
			l.log.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return value, nil
}

// Fetch is a type-safe wrapper around a Fetcher. It returns
// resilient.ErrInvalidResultType when the stored value does not match T.
func Fetch[T any](ctx context.Context, f resilient.Fetcher, key string) (T, error) {
	var zero T
	v, err := f.Fetch(ctx, key)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, resilient.ErrInvalidResultType
	}
	return t, nil
}
