package subscription

import "errors"

// Package-level error definitions for subscription resolution.
var (
	ErrNotFound      = errors.New("subscription not found")
	ErrUnknownTier   = errors.New("unknown tier")
	ErrUnknownStatus = errors.New("unknown status")
	ErrEmptyUserID   = errors.New("empty user id")
)
