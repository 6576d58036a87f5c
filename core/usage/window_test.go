package usage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/quotaguard/core/feature"
	"github.com/dmitrymomot/quotaguard/core/usage"
)

func TestWindowStart(t *testing.T) {
	t.Parallel()

	utc := time.UTC

	t.Run("daily snaps to midnight", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 3, 12, 15, 4, 5, 0, utc)
		got := usage.WindowStart(feature.FixedDaily, now, utc)
		assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, utc), got)
	})

	t.Run("weekly snaps to Monday midnight", func(t *testing.T) {
		t.Parallel()

		// 2025-03-12 is a Wednesday; its week began Monday the 10th.
		now := time.Date(2025, 3, 12, 15, 4, 5, 0, utc)
		got := usage.WindowStart(feature.FixedWeekly, now, utc)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, utc), got)
	})

	t.Run("Sunday belongs to the week started the previous Monday", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 3, 16, 23, 59, 0, 0, utc) // Sunday
		got := usage.WindowStart(feature.FixedWeekly, now, utc)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, utc), got)
	})

	t.Run("Monday is its own week start", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 3, 10, 0, 0, 1, 0, utc) // Monday just past midnight
		got := usage.WindowStart(feature.FixedWeekly, now, utc)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, utc), got)
	})

	t.Run("rolling trails now by 30 days", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 3, 12, 15, 4, 5, 0, utc)
		got := usage.WindowStart(feature.Rolling30Day, now, utc)
		assert.Equal(t, now.Add(-30*24*time.Hour), got)
	})

	t.Run("fixed boundaries follow the location", func(t *testing.T) {
		t.Parallel()

		loc, err := time.LoadLocation("Europe/Amsterdam")
		if err != nil {
			t.Skip("tzdata unavailable")
		}

		// 2025-03-12 01:00 UTC is already the 12th in Amsterdam (UTC+1).
		now := time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC)
		got := usage.WindowStart(feature.FixedDaily, now, loc)
		assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, loc), got)

		// 2025-03-12 23:30 UTC is already the 13th in Amsterdam.
		now = time.Date(2025, 3, 12, 23, 30, 0, 0, time.UTC)
		got = usage.WindowStart(feature.FixedDaily, now, loc)
		assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, loc), got)
	})
}

func TestNextReset(t *testing.T) {
	t.Parallel()

	utc := time.UTC
	now := time.Date(2025, 3, 12, 15, 4, 5, 0, utc) // Wednesday

	t.Run("daily resets at the next midnight", func(t *testing.T) {
		t.Parallel()

		got := usage.NextReset(feature.FixedDaily, now, time.Time{}, utc)
		assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, utc), got)
	})

	t.Run("weekly resets next Monday midnight", func(t *testing.T) {
		t.Parallel()

		got := usage.NextReset(feature.FixedWeekly, now, time.Time{}, utc)
		assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, utc), got)
	})

	t.Run("rolling resets when the oldest use ages out", func(t *testing.T) {
		t.Parallel()

		oldest := time.Date(2025, 2, 20, 12, 0, 0, 0, utc)
		got := usage.NextReset(feature.Rolling30Day, now, oldest, utc)
		assert.Equal(t, oldest.Add(30*24*time.Hour), got)
	})

	t.Run("rolling with no uses resets a full span out", func(t *testing.T) {
		t.Parallel()

		got := usage.NextReset(feature.Rolling30Day, now, time.Time{}, utc)
		assert.Equal(t, now.Add(30*24*time.Hour), got)
	})

	t.Run("reset is always after the window start", func(t *testing.T) {
		t.Parallel()

		for _, kind := range []feature.WindowKind{
			feature.FixedDaily, feature.FixedWeekly, feature.Rolling30Day,
		} {
			start := usage.WindowStart(kind, now, utc)
			reset := usage.NextReset(kind, now, now.Add(-time.Hour), utc)
			assert.True(t, reset.After(start), "kind %s", kind)
			assert.True(t, reset.After(now), "kind %s", kind)
		}
	})
}
