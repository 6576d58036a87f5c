package usage

import "errors"

// Package-level error definitions for quota enforcement.
var (
	ErrUnknownFeature = errors.New("unknown feature key")
	ErrEmptyUserID    = errors.New("empty user id")
	ErrStoreFailure   = errors.New("usage store failure")
)
