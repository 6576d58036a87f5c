package unlock

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/quotaguard/core/subscription"
)

const week = 7 * 24 * time.Hour

// UnlockState describes one catalog item's availability for a user.
type UnlockState struct {
	Item     ContentItem
	Unlocked bool
	// UnlockedAt is when the item became available. Zero while locked.
	UnlockedAt time.Time
	// UnlocksAt is when a locked item will become available. Zero for
	// unlocked items and for items the user's schedule never releases.
	UnlocksAt time.Time
}

// Summary condenses a user's unlock status for dashboard surfaces.
type Summary struct {
	Total    int
	Unlocked int
	// NextUnlockAt is when the next locked item becomes available. Zero when
	// nothing further will unlock.
	NextUnlockAt time.Time
}

// Scheduler computes progressive content availability from the subscription
// start date and the tier's release plan. It holds no state of its own: the
// same user, tier, and instant always produce the same answer.
//
// A tier change mid-cycle recomputes from the new tier's rate against the
// original start date. There is no proration: a user who upgrades in week 3
// immediately gets week 3's allotment at the new rate.
type Scheduler struct {
	resolver    subscription.Resolver
	catalog     Catalog
	scheduleFor func(subscription.Tier) Schedule
	now         func() time.Time
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedules overrides the tier release plan lookup. Intended for tests.
func WithSchedules(scheduleFor func(subscription.Tier) Schedule) SchedulerOption {
	return func(s *Scheduler) {
		if scheduleFor != nil {
			s.scheduleFor = scheduleFor
		}
	}
}

// WithTimeSource overrides the wall clock. Intended for tests.
func WithTimeSource(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScheduler creates an unlock scheduler.
func NewScheduler(resolver subscription.Resolver, catalog Catalog, opts ...SchedulerOption) (*Scheduler, error) {
	if resolver == nil {
		return nil, errors.New("unlock: subscription resolver is required")
	}
	if catalog == nil {
		return nil, errors.New("unlock: catalog is required")
	}

	s := &Scheduler{
		resolver:    resolver,
		catalog:     catalog,
		scheduleFor: ScheduleFor,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Status returns the availability of every catalog item for the user.
// Users without an active subscription see the full catalog locked, with no
// unlock dates.
func (s *Scheduler) Status(ctx context.Context, userID string) ([]UnlockState, error) {
	items, err := s.catalog.Items(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := s.resolver.Resolve(ctx, userID)
	if err != nil && !errors.Is(err, subscription.ErrNotFound) {
		return nil, err
	}
	if !rec.Active() {
		states := make([]UnlockState, len(items))
		for i, item := range items {
			states[i] = UnlockState{Item: item}
		}
		return states, nil
	}

	schedule := s.scheduleFor(rec.Tier)
	now := s.now()

	states := make([]UnlockState, len(items))
	for i, item := range items {
		states[i] = s.itemState(item, schedule, rec.StartDate, now)
	}
	return states, nil
}

// Summary condenses Status into totals and the next unlock date.
func (s *Scheduler) Summary(ctx context.Context, userID string) (*Summary, error) {
	states, err := s.Status(ctx, userID)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Total: len(states)}
	for _, st := range states {
		if st.Unlocked {
			sum.Unlocked++
			continue
		}
		if st.UnlocksAt.IsZero() {
			continue
		}
		if sum.NextUnlockAt.IsZero() || st.UnlocksAt.Before(sum.NextUnlockAt) {
			sum.NextUnlockAt = st.UnlocksAt
		}
	}
	return sum, nil
}

// NextUnlockAt returns when the user's next locked item becomes available.
// The zero time means nothing further will unlock.
func (s *Scheduler) NextUnlockAt(ctx context.Context, userID string) (time.Time, error) {
	sum, err := s.Summary(ctx, userID)
	if err != nil {
		return time.Time{}, err
	}
	return sum.NextUnlockAt, nil
}

func (s *Scheduler) itemState(item ContentItem, schedule Schedule, start, now time.Time) UnlockState {
	state := UnlockState{Item: item}

	if schedule.Immediate {
		state.Unlocked = true
		state.UnlockedAt = start
		return state
	}
	if schedule.ItemsPerWeek <= 0 {
		return state
	}
	// Items past the schedule's total cap never release at this tier.
	if schedule.TotalCap > 0 && item.OrderIndex >= schedule.TotalCap {
		return state
	}

	// The item releases at the start of the week whose cumulative allotment
	// first exceeds its index.
	weeksNeeded := item.OrderIndex / schedule.ItemsPerWeek
	unlocksAt := start.Add(time.Duration(weeksNeeded) * week)

	if !now.Before(unlocksAt) {
		state.Unlocked = true
		state.UnlockedAt = unlocksAt
		return state
	}
	state.UnlocksAt = unlocksAt
	return state
}
