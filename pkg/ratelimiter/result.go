package ratelimiter

import "time"

// Result reports the outcome of a single rate limit check.
type Result struct {
	// Limit is the maximum number of events allowed in the window.
	Limit int
	// Remaining is the number of further events allowed right now.
	// Zero when the check was denied.
	Remaining int
	// ResetAt is when capacity frees up: for a denied check, the moment the
	// oldest surviving event leaves the window.
	ResetAt time.Time

	allowed  bool
	degraded bool
}

// Allowed reports whether the checked event was admitted and recorded.
func (r *Result) Allowed() bool {
	return r.allowed
}

// Degraded reports whether the check was answered by the in-process fallback
// after a shared store failure. Degraded results count per instance, not
// across the fleet.
func (r *Result) Degraded() bool {
	return r.degraded
}

// RetryAfter returns how long the caller should wait before retrying.
// Zero for allowed results or when the reset time already passed.
func (r *Result) RetryAfter() time.Duration {
	if r.allowed {
		return 0
	}
	d := time.Until(r.ResetAt)
	if d < 0 {
		return 0
	}
	return d
}
