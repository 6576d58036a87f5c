package unlock

import (
	"github.com/dmitrymomot/quotaguard/core/subscription"
)

// Schedule is a tier's content release plan. Immediate unlocks the whole
// catalog at once; otherwise ItemsPerWeek items are released each week,
// never exceeding TotalCap items in total. A zero-value schedule releases
// nothing, which is the deny-by-default posture.
type Schedule struct {
	Immediate    bool
	ItemsPerWeek int
	TotalCap     int
}

// tierSchedules maps each tier to its release plan. Unlisted tiers release
// nothing.
var tierSchedules = map[subscription.Tier]Schedule{
	subscription.TierFree:    {},
	subscription.TierStarter: {ItemsPerWeek: 1, TotalCap: 8},
	subscription.TierPro:     {ItemsPerWeek: 2, TotalCap: 24},
	subscription.TierElite:   {Immediate: true},
}

// ScheduleFor returns the release plan for a tier.
func ScheduleFor(tier subscription.Tier) Schedule {
	return tierSchedules[tier]
}
