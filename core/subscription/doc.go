// Package subscription defines the plan model that every access decision in
// this module reads from: the ordered tier ladder, the subscription
// lifecycle states, and the Resolver that maps a user to their governing
// subscription record.
//
// # Tier Order
//
// Tiers form a single total order:
//
//	TierFree < TierStarter < TierPro < TierElite
//
// Access checks use Tier.AtLeast, which makes tier access reflexive (a tier
// always satisfies itself) and monotonic (a higher tier satisfies everything
// a lower one does). Tier.Next walks the upgrade ladder one step at a time,
// which is what upgrade prompts surface to the user.
//
// # Lifecycle
//
// A subscription carries a Status. Only StatusActive grants access; paused,
// cancelled, and expired subscriptions deny exactly like a missing one. The
// distinction matters only for messaging at the boundary, never for the
// decision.
//
// # Resolving
//
// Record rows are owned by billing; this package only reads them:
//
//	resolver, err := subscription.NewPGResolver(pool)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rec, err := resolver.Resolve(ctx, userID)
//	switch {
//	case errors.Is(err, subscription.ErrNotFound):
//		// user never subscribed
//	case err != nil:
//		// infrastructure failure, caller fails closed
//	case !rec.Active():
//		// lapsed subscription, same denial as not found
//	}
//
// Resolve returns the most recently started row when a user has several
// (renewals, tier changes). Record.StartDate anchors the progressive content
// unlock schedule and survives tier changes.
package subscription
