// Package unlock computes progressive content availability. Content items
// release on a weekly drip anchored to the subscription start date, at a
// rate and ceiling set by the tier's Schedule.
//
// The scheduler derives everything from three inputs: the ordered catalog,
// the user's subscription record, and the clock. Nothing is stored per user,
// so there is no unlock state to migrate when a tier changes; the answer is
// recomputed from the current tier's rate against the original start date
// every time. An upgrade takes effect instantly and a downgrade can re-lock
// items, both without proration.
//
//	scheduler, err := unlock.NewScheduler(resolver, catalog)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	states, err := scheduler.Status(ctx, userID)
//	for _, st := range states {
//		if st.Unlocked {
//			// st.UnlockedAt
//		} else if !st.UnlocksAt.IsZero() {
//			// releases at st.UnlocksAt
//		} else {
//			// never releases at this tier
//		}
//	}
//
// An item with OrderIndex i and a schedule of r items per week releases at
// start + floor(i/r) weeks, so week one's allotment is available from the
// start instant itself. Items at or past the schedule's TotalCap carry no
// release date at all. Users without an active subscription see the whole
// catalog locked and dateless.
package unlock
