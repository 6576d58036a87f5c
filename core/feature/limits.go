package feature

import (
	"github.com/dmitrymomot/quotaguard/core/subscription"
)

// Limit is a single feature cap. Max 0 means the feature is disabled for the
// tier. There is no unlimited sentinel: tiers that effectively have no
// practical ceiling carry an explicit high cap, so every limit stays
// comparable and enforceable the same way.
type Limit struct {
	Per WindowKind
	Max int
}

// Disabled reports whether the feature is off for the tier.
func (l Limit) Disabled() bool {
	return l.Max == 0
}

// Limits holds one tier's caps for every known feature.
type Limits struct {
	tier subscription.Tier
	caps map[Key]int
}

// Tier returns the tier these limits belong to.
func (l Limits) Tier() subscription.Tier {
	return l.tier
}

// For returns the limit for a feature key. The second return is false for
// keys outside the known feature set, which callers must treat as a
// programming error rather than a denial.
func (l Limits) For(key Key) (Limit, bool) {
	kind, ok := windowKinds[key]
	if !ok {
		return Limit{}, false
	}
	return Limit{Per: kind, Max: l.caps[key]}, true
}

// tierCaps is the per-tier cap table. Every tier lists every feature; a zero
// entry disables the feature for that tier. Caps only grow with the tier.
var tierCaps = map[subscription.Tier]map[Key]int{
	subscription.TierFree: {
		KeyAIMessage:      3,
		KeyProfileRewrite: 0,
		KeyPhotoCheck:     0,
		KeyPlatformAdvice: 0,
		KeyIcebreaker:     0,
		KeyOpener:         0,
		KeyDateIdea:       0,
		KeyDateAnalysis:   0,
		KeySafetyCheck:    1,
		KeyModuleFeedback: 0,
	},
	subscription.TierStarter: {
		KeyAIMessage:      25,
		KeyProfileRewrite: 1,
		KeyPhotoCheck:     2,
		KeyPlatformAdvice: 3,
		KeyIcebreaker:     3,
		KeyOpener:         3,
		KeyDateIdea:       1,
		KeyDateAnalysis:   1,
		KeySafetyCheck:    2,
		KeyModuleFeedback: 2,
	},
	subscription.TierPro: {
		KeyAIMessage:      100,
		KeyProfileRewrite: 5,
		KeyPhotoCheck:     10,
		KeyPlatformAdvice: 10,
		KeyIcebreaker:     20,
		KeyOpener:         20,
		KeyDateIdea:       5,
		KeyDateAnalysis:   5,
		KeySafetyCheck:    10,
		KeyModuleFeedback: 10,
	},
	subscription.TierElite: {
		KeyAIMessage:      500,
		KeyProfileRewrite: 50,
		KeyPhotoCheck:     100,
		KeyPlatformAdvice: 100,
		KeyIcebreaker:     200,
		KeyOpener:         200,
		KeyDateIdea:       50,
		KeyDateAnalysis:   50,
		KeySafetyCheck:    100,
		KeyModuleFeedback: 100,
	},
}

// LimitsFor returns the cap table for a tier. The lookup is pure and total:
// unknown tiers get the free tier's caps, which is the deny-by-default
// posture for anything unrecognized.
func LimitsFor(tier subscription.Tier) Limits {
	caps, ok := tierCaps[tier]
	if !ok {
		caps = tierCaps[subscription.TierFree]
		tier = subscription.TierFree
	}
	return Limits{tier: tier, caps: caps}
}

// HasAccess reports whether a tier satisfies a required tier. Reflexive and
// monotonic over the tier order.
func HasAccess(tier, required subscription.Tier) bool {
	return tier.AtLeast(required)
}

// UpgradePath returns the next tier up, or false at the ceiling.
func UpgradePath(tier subscription.Tier) (subscription.Tier, bool) {
	return tier.Next()
}
