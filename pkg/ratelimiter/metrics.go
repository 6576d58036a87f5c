package ratelimiter

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for rate limit checks. One Metrics
// value is shared by all instrumented limiters; series are split by profile.
type Metrics struct {
	checks        *prometheus.CounterVec
	fallback      *prometheus.CounterVec
	storeFailures *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// Check outcome label values.
const (
	outcomeAllowed = "allowed"
	outcomeDenied  = "denied"
	outcomeError   = "error"
)

// NewMetrics creates and registers the rate limiter collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratelimit_checks_total",
			Help: "Rate limit checks by profile and outcome.",
		}, []string{"profile", "outcome"}),
		fallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratelimit_fallback_total",
			Help: "Checks answered by the in-process fallback, by outcome.",
		}, []string{"profile", "outcome"}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratelimit_store_failures_total",
			Help: "Shared store failures absorbed by the fallback.",
		}, []string{"profile"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ratelimit_check_duration_seconds",
			Help:    "Rate limit check duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"profile"}),
	}

	reg.MustRegister(m.checks, m.fallback, m.storeFailures, m.duration)
	return m
}

// Instrument wraps a Checker so every check is counted and timed.
func (m *Metrics) Instrument(next Checker) Checker {
	return &instrumentedChecker{next: next, metrics: m}
}

type instrumentedChecker struct {
	next    Checker
	metrics *Metrics
}

func (c *instrumentedChecker) Profile() Profile {
	return c.next.Profile()
}

func (c *instrumentedChecker) Check(ctx context.Context, identity string) (*Result, error) {
	start := time.Now()
	result, err := c.next.Check(ctx, identity)

	profile := c.next.Profile().Name
	c.metrics.duration.WithLabelValues(profile).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.checks.WithLabelValues(profile, outcomeError).Inc()
	case result.Allowed():
		c.metrics.checks.WithLabelValues(profile, outcomeAllowed).Inc()
	default:
		c.metrics.checks.WithLabelValues(profile, outcomeDenied).Inc()
	}

	if err == nil && result.Degraded() {
		c.metrics.storeFailures.WithLabelValues(profile).Inc()
		outcome := outcomeDenied
		if result.Allowed() {
			outcome = outcomeAllowed
		}
		c.metrics.fallback.WithLabelValues(profile, outcome).Inc()
	}

	return result, err
}
