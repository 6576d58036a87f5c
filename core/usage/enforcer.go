package usage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/quotaguard/core/feature"
	"github.com/dmitrymomot/quotaguard/core/logger"
	"github.com/dmitrymomot/quotaguard/core/subscription"
)

// Reason explains a denial. The values are wire-stable machine-readable
// codes surfaced in boundary error payloads.
type Reason string

const (
	// ReasonNoSubscription covers both a missing subscription and one in any
	// non-active state.
	ReasonNoSubscription Reason = "no_subscription"
	// ReasonFeatureNotInTier means the tier's cap for the feature is zero.
	ReasonFeatureNotInTier Reason = "feature_not_in_tier"
	// ReasonLimitExceeded means the in-window count reached the tier's cap.
	ReasonLimitExceeded Reason = "quota_exceeded"
)

// Decision is the outcome of a quota check. Current and Limit are always
// populated for limit-related denials so the boundary can render "7 of 10
// used"; ResetAt is a structured timestamp, formatting belongs to the
// boundary.
type Decision struct {
	Allowed bool
	Reason  Reason
	Feature feature.Key
	Tier    subscription.Tier
	Current int
	Limit   int
	ResetAt time.Time
}

// Remaining returns how many uses are left in the window.
func (d *Decision) Remaining() int {
	if remaining := d.Limit - d.Current; remaining > 0 {
		return remaining
	}
	return 0
}

// FeatureUsage is one feature's usage snapshot within its current window.
type FeatureUsage struct {
	Feature feature.Key
	Window  feature.WindowKind
	Used    int
	Limit   int
	ResetAt time.Time
}

// Enforcer decides whether a user may consume a metered feature right now,
// and records the use in the same decision. There is no safe fallback for a
// paid-feature counter, so any resolver or store failure propagates as an
// error and the caller denies.
type Enforcer struct {
	resolver  subscription.Resolver
	store     Store
	limitsFor func(subscription.Tier) feature.Limits
	loc       *time.Location
	logger    *slog.Logger
	now       func() time.Time
}

// EnforcerOption configures an Enforcer.
type EnforcerOption func(*Enforcer)

// WithLocation sets the location for fixed window boundaries. Defaults to
// time.Local.
func WithLocation(loc *time.Location) EnforcerOption {
	return func(e *Enforcer) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithLimits overrides the tier limit lookup. Intended for tests.
func WithLimits(limitsFor func(subscription.Tier) feature.Limits) EnforcerOption {
	return func(e *Enforcer) {
		if limitsFor != nil {
			e.limitsFor = limitsFor
		}
	}
}

// WithLogger sets the logger for enforcement failures.
func WithLogger(logger *slog.Logger) EnforcerOption {
	return func(e *Enforcer) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTimeSource overrides the wall clock. Intended for tests.
func WithTimeSource(now func() time.Time) EnforcerOption {
	return func(e *Enforcer) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEnforcer creates a quota enforcer.
func NewEnforcer(resolver subscription.Resolver, store Store, opts ...EnforcerOption) (*Enforcer, error) {
	if resolver == nil {
		return nil, errors.New("usage: subscription resolver is required")
	}
	if store == nil {
		return nil, errors.New("usage: store is required")
	}

	e := &Enforcer{
		resolver:  resolver,
		store:     store,
		limitsFor: feature.LimitsFor,
		loc:       time.Local,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// CheckAndConsume decides whether the user may use the feature now and, when
// allowed, records the use as part of the same atomic step.
//
// A store or resolver failure returns an error and no decision: the caller
// must deny. Silently allowing an unmetered use of a paid feature is the one
// outcome this method never produces.
func (e *Enforcer) CheckAndConsume(ctx context.Context, userID string, key feature.Key) (*Decision, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	rec, err := e.resolver.Resolve(ctx, userID)
	if err != nil && !errors.Is(err, subscription.ErrNotFound) {
		e.logger.ErrorContext(ctx, "quota check failed resolving subscription",
			logger.UserID(userID),
			logger.Feature(key.String()),
			logger.Error(err),
		)
		return nil, err
	}
	if !rec.Active() {
		return &Decision{Reason: ReasonNoSubscription, Feature: key}, nil
	}

	limits := e.limitsFor(rec.Tier)
	limit, ok := limits.For(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, key)
	}
	if limit.Disabled() {
		return &Decision{
			Reason:  ReasonFeatureNotInTier,
			Feature: key,
			Tier:    rec.Tier,
		}, nil
	}

	now := e.now()
	since := WindowStart(limit.Per, now, e.loc)

	newCount, oldest, consumed, err := e.store.ConsumeBelow(ctx, userID, key, since, limit.Max)
	if err != nil {
		e.logger.ErrorContext(ctx, "quota check failed consuming usage",
			logger.UserID(userID),
			logger.Feature(key.String()),
			logger.Error(err),
		)
		return nil, err
	}

	decision := &Decision{
		Allowed: consumed,
		Feature: key,
		Tier:    rec.Tier,
		Current: newCount,
		Limit:   limit.Max,
		ResetAt: NextReset(limit.Per, now, oldest, e.loc),
	}
	if !consumed {
		decision.Reason = ReasonLimitExceeded
	}
	return decision, nil
}

// Stats returns the user's usage snapshot for every feature their tier
// enables, with in-window counts and reset times. Features disabled for the
// tier are omitted.
func (e *Enforcer) Stats(ctx context.Context, userID string) ([]FeatureUsage, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	rec, err := e.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !rec.Active() {
		return nil, fmt.Errorf("%w: user %s has no active subscription", subscription.ErrNotFound, userID)
	}

	limits := e.limitsFor(rec.Tier)
	now := e.now()

	var stats []FeatureUsage
	for _, key := range feature.Keys() {
		limit, ok := limits.For(key)
		if !ok || limit.Disabled() {
			continue
		}

		since := WindowStart(limit.Per, now, e.loc)
		count, oldest, err := e.store.CountSince(ctx, userID, key, since)
		if err != nil {
			return nil, err
		}

		stats = append(stats, FeatureUsage{
			Feature: key,
			Window:  limit.Per,
			Used:    count,
			Limit:   limit.Max,
			ResetAt: NextReset(limit.Per, now, oldest, e.loc),
		})
	}
	return stats, nil
}
