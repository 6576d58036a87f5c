// Package middleware provides net/http middleware for the throttling and
// quota layer: RateLimit gates routes by network identity, Quota gates them
// by a user's feature allowance.
//
// Both follow the config-struct pattern: a required decision component, an
// optional Skip predicate, and overridable extractors and error handlers.
//
//	mux.Handle("POST /ai/message", rateLimit(quotaAI(aiHandler)))
//
//	rateLimit := middleware.RateLimit(middleware.RateLimitConfig{
//		Limiter:    aiLimiter,
//		SetHeaders: true,
//	})
//
//	quotaAI := middleware.Quota(middleware.QuotaConfig{
//		Enforcer:       enforcer,
//		Feature:        feature.KeyAIMessage,
//		UserExtractor:  userFromSession,
//		ResetFormatter: resetFormatter,
//	})
//
// The two fail differently on purpose. RateLimit rides the limiter's
// built-in degradation, so a counting store outage throttles per instance
// instead of erroring. Quota fails closed with a 500, because a quota count
// is billing relevant and has no safe fallback.
//
// Denial payloads carry machine-readable codes (rate_limit_exceeded,
// quota_exceeded, no_subscription, feature_not_in_tier) plus human-readable
// messages; quota denials include current/limit numbers and, when a
// formatter is configured, a locale-aware reset phrase.
package middleware
