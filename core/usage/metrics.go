package usage

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/quotaguard/core/feature"
)

// Checker is the quota decision contract consumed by middleware and
// instrumentation decorators. *Enforcer implements it.
type Checker interface {
	CheckAndConsume(ctx context.Context, userID string, key feature.Key) (*Decision, error)
}

// Metrics holds the Prometheus collectors for quota checks. Series are split
// by feature and outcome; denial outcomes carry the machine-readable reason.
type Metrics struct {
	checks   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the quota collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quota_checks_total",
			Help: "Quota checks by feature and outcome.",
		}, []string{"feature", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quota_check_duration_seconds",
			Help:    "Quota check duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"feature"}),
	}

	reg.MustRegister(m.checks, m.duration)
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

func (c *instrumentedChecker) CheckAndConsume(ctx context.Context, userID string, key feature.Key) (*Decision, error) {
	start := time.Now()
	decision, err := c.next.CheckAndConsume(ctx, userID, key)

	f := key.String()
	c.metrics.duration.WithLabelValues(f).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.checks.WithLabelValues(f, "error").Inc()
	case decision.Allowed:
		c.metrics.checks.WithLabelValues(f, "allowed").Inc()
	default:
		c.metrics.checks.WithLabelValues(f, string(decision.Reason)).Inc()
	}

	return decision, err
}
