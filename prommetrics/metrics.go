// Package prommetrics provides a Prometheus-backed implementation of the
// resilient.Metrics interface.
package prommetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Nabil201-ctrl/go-resilient-cache/resilient"
)

// Interface assertion to ensure Metrics implements resilient.Metrics.
var _ resilient.Metrics = (*Metrics)(nil)

// Metrics records loader activity into Prometheus collectors.
type Metrics struct {
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	originLoads      prometheus.Counter
	originFailures   prometheus.Counter
	retryAttempts    prometheus.Counter
	coalescedWaiters prometheus.Counter
	transitions      *prometheus.CounterVec
	breakerState     prometheus.Gauge
}

// New creates and registers the collectors on reg. A nil reg uses the
// default registerer. The namespace prefixes every metric name.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total fetches served from the cache store",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total fetches that missed the cache store",
		}),
		originLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "origin_loads_total",
			Help:      "Total origin load attempts",
		}),
		originFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "origin_failures_total",
			Help:      "Total failed origin load attempts",
		}),
		retryAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retry_attempts_total",
			Help:      "Total origin re-attempts after a failure",
		}),
		coalescedWaiters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coalesced_waiters_total",
			Help:      "Total callers that received a shared in-flight result",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaker_transitions_total",
			Help:      "Circuit breaker state transitions by new state",
		}, []string{"state"}),
		breakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "breaker_state",
			Help:      "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		}),
	}

	reg.MustRegister(
		m.cacheHits,
		m.cacheMisses,
		m.originLoads,
		m.originFailures,
		m.retryAttempts,
		m.coalescedWaiters,
		m.transitions,
		m.breakerState,
	)
	return m
}

func (m *Metrics) CacheHit()        { m.cacheHits.Inc() }
func (m *Metrics) CacheMiss()       { m.cacheMisses.Inc() }
func (m *Metrics) OriginLoad()      { m.originLoads.Inc() }
func (m *Metrics) OriginFailure()   { m.originFailures.Inc() }
func (m *Metrics) RetryAttempt()    { m.retryAttempts.Inc() }
func (m *Metrics) CoalescedWaiter() { m.coalescedWaiters.Inc() }

// BreakerTransition records the transition and updates the state gauge.
func (m *Metrics) BreakerTransition(state string) {
	m.transitions.WithLabelValues(state).Inc()
	switch state {
	case "closed":
		m.breakerState.Set(0)
	case "half-open":
		m.breakerState.Set(1)
	case "open":
		m.breakerState.Set(2)
	}
}
