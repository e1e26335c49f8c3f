package resilient

// Metrics is how the loader reports what it is doing: hits, misses, origin
// traffic, retries, coalesced waiters, and breaker transitions. A no-op
// implementation is substituted when none is configured so call sites never
// need nil checks.
type Metrics interface {
	CacheHit()
	CacheMiss()

	// OriginLoad is recorded once per origin attempt, before the call.
	OriginLoad()

	// OriginFailure is recorded for every failed origin attempt.
	OriginFailure()

	// RetryAttempt is recorded each time the retry policy re-invokes the
	// origin after a failure.
	RetryAttempt()

	// CoalescedWaiter is recorded for every caller whose result was shared
	// with other callers of the same key. The driver of a shared fetch is
	// counted too, so a fetch coalescing n callers records n, not n-1.
	CoalescedWaiter()

	// BreakerTransition is recorded when the circuit breaker changes state.
	// The argument is the new state name: "closed", "open" or "half-open".
	BreakerTransition(state string)
}

// NoopMetrics implements Metrics and records nothing.
type NoopMetrics struct{}

func (NoopMetrics) CacheHit()                {}
func (NoopMetrics) CacheMiss()               {}
func (NoopMetrics) OriginLoad()              {}
func (NoopMetrics) OriginFailure()           {}
func (NoopMetrics) RetryAttempt()            {}
func (NoopMetrics) CoalescedWaiter()         {}
func (NoopMetrics) BreakerTransition(string) {}
