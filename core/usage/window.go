package usage

import (
	"time"

	"github.com/dmitrymomot/quotaguard/core/feature"
)

// rollingSpan is the width of the trailing window for Rolling30Day features.
const rollingSpan = 30 * 24 * time.Hour

// WindowStart returns the instant from which uses count toward the current
// window. Fixed windows snap to calendar boundaries in loc; the rolling
// window trails now by exactly 30 days and is never calendar-anchored.
func WindowStart(kind feature.WindowKind, now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)

	switch kind {
	case feature.FixedDaily:
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	case feature.FixedWeekly:
		return weekStart(local, loc)
	case feature.Rolling30Day:
		return now.Add(-rollingSpan)
	default:
		return now
	}
}

// NextReset returns when capacity next frees up. For fixed windows that is
// the next calendar boundary regardless of usage. For the rolling window it
// is when the oldest counted use ages out; with no uses on record the whole
// span is free already, so the reset is a full span from now.
func NextReset(kind feature.WindowKind, now time.Time, oldestUse time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)

	switch kind {
	case feature.FixedDaily:
		midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		return midnight.AddDate(0, 0, 1)
	case feature.FixedWeekly:
		return weekStart(local, loc).AddDate(0, 0, 7)
	case feature.Rolling30Day:
		if oldestUse.IsZero() {
			return now.Add(rollingSpan)
		}
		return oldestUse.Add(rollingSpan)
	default:
		return now
	}
}

// weekStart returns Monday 00:00 of the week containing local.
func weekStart(local time.Time, loc *time.Location) time.Time {
	// time.Weekday counts Sunday as 0; shift so Monday is the origin.
	daysSinceMonday := (int(local.Weekday()) + 6) % 7
	monday := local.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, loc)
}
