// Package resettime renders quota reset timestamps as short, locale-aware
// phrases for boundary responses: "today at 18:00", "tomorrow at 00:00",
// "on Monday", "on Jan 2".
//
// The quota engine itself only ever emits structured time.Time values; this
// package is the single place those get turned into text. Locale selection
// accepts raw Accept-Language strings and uses language matching, so
// regional variants resolve to their base language and anything unknown
// falls back to English:
//
//	formatter, err := resettime.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	msg := formatter.Format(r.Header.Get("Accept-Language"), decision.ResetAt, time.Now())
//
// English and Dutch ship built in; WithLocale registers additional
// languages or replaces the built-in wording.
package resettime
