// Package usage enforces per-feature usage quotas. It combines the
// subscription resolver, the tier limit table, and an atomic usage counter
// into a single decision: may this user consume this feature right now, and
// if so, the use is already recorded.
//
// # Windows
//
// Three temporal semantics coexist, selected by the feature:
//
//   - FixedDaily counts uses since local midnight and resets at the next.
//   - FixedWeekly counts uses since Monday 00:00 and resets next Monday.
//   - Rolling30Day counts uses in the trailing 30 days; capacity frees up
//     when the oldest counted use ages out, not at a calendar boundary.
//
// Fixed boundaries are computed in a configurable time.Location (default
// time.Local), so "midnight" means the user-facing deployment timezone.
//
// # Enforcement
//
//	enforcer, err := usage.NewEnforcer(resolver, store,
//		usage.WithLocation(loc),
//		usage.WithLogger(log),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	decision, err := enforcer.CheckAndConsume(ctx, userID, feature.KeyAIMessage)
//	if err != nil {
//		// infrastructure failure: deny, respond 5xx
//	}
//	if !decision.Allowed {
//		// decision.Reason, decision.Current, decision.Limit, decision.ResetAt
//	}
//
// The check and the consume are one atomic store operation (ConsumeBelow).
// There is no separate read-then-increment, so concurrent requests for the
// same (user, feature) at the cap admit exactly as many uses as remain.
//
// # Failure Semantics
//
// Unlike the abuse-prevention rate limiter, quota counts are billing
// relevant and have no safe fallback. A resolver or store failure surfaces
// as an error and the caller must deny. The enforcer never converts an
// outage into a free pass.
package usage
