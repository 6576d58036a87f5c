// Package feature defines the metered feature catalog and the pure per-tier
// limit table the quota enforcer reads from.
//
// Each feature key carries exactly one window kind: fixed daily (resets at
// local midnight), fixed weekly (resets Monday 00:00), or rolling 30 days
// (trailing window from now, never calendar-anchored). The window belongs to
// the feature; tiers only change the cap.
//
// Limit lookups are pure and total, with no I/O:
//
//	limits := feature.LimitsFor(rec.Tier)
//	limit, ok := limits.For(feature.KeyAIMessage)
//	if !ok {
//		// unknown key, programming error
//	}
//	if limit.Disabled() {
//		// feature not in this tier
//	}
//
// A cap of zero always means "disabled for this tier". There is no
// unlimited sentinel; top tiers carry explicit high caps so every feature
// stays enforceable through the same counting path.
package feature
