package ratelimiter

import (
	"context"
	"time"
)

// Store records and counts events for sliding window rate limiting.
// Implementations must be safe for concurrent use.
type Store interface {
	// Take prunes events older than now-window for key, counts the
	// survivors, and records a new event only when the count is below
	// limit. It returns the survivor count (before recording), whether the
	// event was recorded, and when capacity next frees up.
	//
	// Implementations built from separate prune/count/insert operations may
	// admit slightly more than limit events under concurrency; that bounded
	// over-admission is acceptable for abuse prevention.
	Take(ctx context.Context, key string, cfg Config, now time.Time) (TakeResult, error)
}

// TakeResult is the raw outcome of a Store.Take call.
type TakeResult struct {
	// Count is the number of events already inside the window, not
	// including the one this call may have recorded.
	Count int
	// Recorded reports whether a new event was written.
	Recorded bool
	// ResetAt is when the oldest surviving event leaves the window. When the
	// window held no events, it is now+window.
	ResetAt time.Time
}
