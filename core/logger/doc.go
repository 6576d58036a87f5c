// Package logger provides structured logging helpers built on Go's standard
// slog package, tailored to quota and throttling decisions.
//
// The package ships a set of nil-safe slog.Attr constructors for the
// attributes this module logs most: errors, durations, user identifiers,
// feature keys, tiers, and limiter profiles. Helpers return an empty Attr
// for zero values, so call sites never need nil checks:
//
//	log.Warn("rate limit store unavailable, falling back",
//		logger.Profile("api"),
//		logger.ClientIP(ip),
//		logger.Error(err),
//	)
//
// Components in this module accept a *slog.Logger through functional options
// and default to a discard logger, so logging is always optional and never
// a hard dependency of the core decision path.
package logger
