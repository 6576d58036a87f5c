package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// This allows calls like log.Warn("msg", logger.Error(err)) without explicit
// nil checks, following the principle of making zero values useful.

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors, enabling safe usage without nil checks.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// UserID creates an attribute for the subject user of a quota decision.
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// Feature creates an attribute for a metered feature key.
func Feature(key string) slog.Attr {
	if key == "" {
		return slog.Attr{}
	}
	return slog.String("feature", key)
}

// Tier creates an attribute for a subscription tier.
func Tier(tier string) slog.Attr {
	if tier == "" {
		return slog.Attr{}
	}
	return slog.String("tier", tier)
}

// Profile creates an attribute for a rate limiter profile name.
func Profile(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("profile", name)
}

// LimitKey creates an attribute for a rate limit counter key.
func LimitKey(key string) slog.Attr {
	if key == "" {
		return slog.Attr{}
	}
	return slog.String("limit_key", key)
}

// ClientIP creates an attribute for client IP addresses.
func ClientIP(ip string) slog.Attr {
	return slog.String("client_ip", ip)
}

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}
