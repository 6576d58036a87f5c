package ratelimiter

import "errors"

// Package-level error definitions for rate limiter operations.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrEmptyKey         = errors.New("empty rate limit key")
	ErrStoreUnavailable = errors.New("store unavailable")
)
