package subscription

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tier is a subscription plan level. Tiers form a total order:
// TierFree < TierStarter < TierPro < TierElite. Every comparison in the
// module goes through rank(), so adding a tier means adding it to exactly
// one place.
type Tier string

const (
	TierFree    Tier = "free"
	TierStarter Tier = "starter"
	TierPro     Tier = "pro"
	TierElite   Tier = "elite"
)

// tierRanks orders the tiers. Missing keys rank below free, which makes an
// unknown tier deny-by-default in every comparison.
var tierRanks = map[Tier]int{
	TierFree:    0,
	TierStarter: 1,
	TierPro:     2,
	TierElite:   3,
}

// tierLabels are the human-readable plan names used in boundary responses.
var tierLabels = map[Tier]string{
	TierFree:    "Free",
	TierStarter: "Starter",
	TierPro:     "Pro",
	TierElite:   "Elite",
}

// ParseTier validates a raw tier string.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := tierRanks[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}

// String returns the wire form of the tier.
func (t Tier) String() string {
	return string(t)
}

// Label returns the display name of the tier, or the wire form when the
// tier is unknown.
func (t Tier) Label() string {
	if label, ok := tierLabels[t]; ok {
		return label
	}
	return string(t)
}

// Valid reports whether the tier is one of the known values.
func (t Tier) Valid() bool {
	_, ok := tierRanks[t]
	return ok
}

func (t Tier) rank() int {
	if r, ok := tierRanks[t]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether the tier grants everything other grants.
// Reflexive: every valid tier satisfies itself.
func (t Tier) AtLeast(other Tier) bool {
	if !t.Valid() {
		return false
	}
	return t.rank() >= other.rank()
}

// Next returns the next tier up, or false from the top tier. There is a
// single linear upgrade path, no skips.
func (t Tier) Next() (Tier, bool) {
	switch t {
	case TierFree:
		return TierStarter, true
	case TierStarter:
		return TierPro, true
	case TierPro:
		return TierElite, true
	default:
		return "", false
	}
}

// Status is the lifecycle state of a subscription. Only StatusActive grants
// feature access; every other state is treated like no subscription.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusActive, StatusPaused, StatusCancelled, StatusExpired:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// String returns the wire form of the status.
func (s Status) String() string {
	return string(s)
}

// BillingPeriod is how often the subscription renews.
type BillingPeriod string

const (
	PeriodMonthly BillingPeriod = "monthly"
	PeriodYearly  BillingPeriod = "yearly"
)

// Record is a read-only snapshot of a user's subscription. Billing owns the
// rows; this module only resolves them to make access decisions.
type Record struct {
	UserID        string
	Tier          Tier
	BillingPeriod BillingPeriod
	Status        Status
	// StartDate anchors the progressive unlock schedule. It never changes on
	// tier change, only on a brand-new subscription.
	StartDate time.Time
	OrderID   uuid.UUID
	Amount    decimal.Decimal
}

// Active reports whether the record currently grants access.
func (r *Record) Active() bool {
	return r != nil && r.Status == StatusActive
}
