// Package ratelimiter provides sliding window rate limiting with a shared
// Redis store and a per-process fallback.
//
// This package implements sliding-window-by-event-log limiting: every allowed
// request records an event, and a check counts only the events within the
// trailing window from "now". Unlike fixed calendar buckets, the window
// slides continuously, so a burst at the end of one bucket cannot combine
// with a burst at the start of the next.
//
// # Algorithm
//
// A check for (identity, limit, window) proceeds as:
//  1. Compute windowStart = now - window
//  2. Discard events older than windowStart
//  3. Count the survivors
//  4. If count < limit: record a new event, return allowed with
//     remaining = limit - count - 1
//  5. Otherwise: return denied with remaining = 0 and
//     resetAt = oldest surviving event + window
//
// # Profiles
//
// Distinct endpoint classes carry distinct named profiles, each with its own
// (limit, window) pair and a disjoint key namespace:
//
//	ProfileAuth     10/min   login, credential checks
//	ProfileAPI      100/min  general API traffic
//	ProfileAI       20/min   expensive AI-backed calls
//	ProfilePayment  5/min    payment initiation
//	ProfileUpload   10/hour  file uploads
//
// The same client identity is counted independently per profile because
// Profile.Key prefixes the counter key with the profile name.
//
// # Usage
//
//	store, err := ratelimiter.NewRedisStore(redisClient)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fallback := ratelimiter.NewMemoryStore()
//	go fallback.Start(ctx) // background sweep of expired counters
//
//	limiter, err := ratelimiter.New(store, ratelimiter.ProfileAPI,
//		ratelimiter.WithFallback(fallback),
//		ratelimiter.WithLogger(log),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := limiter.Check(r.Context(), clientip.GetIP(r))
//	if err != nil {
//		// programming error (empty identity), not a store outage
//		http.Error(w, "Internal error", http.StatusInternalServerError)
//		return
//	}
//	if !result.Allowed() {
//		w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter().Seconds())))
//		http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
//		return
//	}
//
// # Failure Semantics
//
// The limiter never returns an error for a store outage. A timed-out or
// failed Redis call degrades that single check to the in-process
// MemoryStore, with no retry against the shared store. During an
// outage each instance counts independently, so a client talking to N
// instances can briefly consume up to N times the limit. That is an explicit
// availability-over-accuracy tradeoff: this limiter prevents abuse, it does
// not meter billing.
//
// The MemoryStore is also usable as the primary store for single-instance
// deployments; both stores implement the same Store interface and produce
// the same decision shape, chosen at startup by configuration.
//
// # Concurrency
//
// The Redis prune/count/insert sequence is not one atomic primitive; under
// high concurrency a key can admit a few more than limit events within a
// window. The over-admission is bounded by the number of concurrent
// in-flight checks and self-corrects as the window slides.
//
// # Observability
//
// NewMetrics registers Prometheus collectors and Instrument wraps any
// Checker with per-profile counters and a duration histogram:
//
//	metrics := ratelimiter.NewMetrics(prometheus.DefaultRegisterer)
//	limiter := metrics.Instrument(rawLimiter)
//
// Series: ratelimit_checks_total{profile,outcome} for every check
// (allowed, denied, error), ratelimit_fallback_total{profile,outcome} for
// checks answered by the in-process fallback, and
// ratelimit_store_failures_total{profile} for the shared store failures
// behind them. Alert on store_failures to catch degradation the fail-open
// check path otherwise hides.
package ratelimiter
