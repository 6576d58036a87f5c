package usage

import (
	"context"
	"time"

	"github.com/dmitrymomot/quotaguard/core/feature"
)

// Store persists usage events and answers window counts. Implementations
// must make ConsumeBelow genuinely atomic: two concurrent calls for the same
// (user, feature) at count limit-1 must admit exactly one.
type Store interface {
	// CountSince returns how many uses of the feature the user has recorded
	// at or after since, and the timestamp of the oldest counted use. The
	// oldest timestamp is zero when there are no uses in the window.
	CountSince(ctx context.Context, userID string, key feature.Key, since time.Time) (count int, oldest time.Time, err error)

	// ConsumeBelow records one use if and only if the current in-window
	// count is below limit. It returns the count after the call (incremented
	// when consumed, unchanged when not), the oldest in-window use, and
	// whether the use was recorded. The check and the write are one atomic
	// step; callers never pre-check.
	ConsumeBelow(ctx context.Context, userID string, key feature.Key, since time.Time, limit int) (newCount int, oldest time.Time, consumed bool, err error)
}
