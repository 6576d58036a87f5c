package resettime

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Phrases holds one locale's wording for reset announcements. It is
// immutable after registration and safe for concurrent use.
type Phrases struct {
	// Now is used when the reset moment already passed.
	Now string
	// TodayAt and TomorrowAt receive the clock time, e.g. "00:00".
	TodayAt    string
	TomorrowAt string
	// OnWeekday receives a weekday name from Weekdays.
	OnWeekday string
	// OnDate receives a date rendered with DateFormat.
	OnDate string
	// Weekdays names the days Sunday through Saturday, in time.Weekday
	// order.
	Weekdays [7]string
	// DateFormat is a Go reference-time layout for far-off resets.
	DateFormat string
}

func (p Phrases) validate() error {
	if p.Now == "" || p.TodayAt == "" || p.TomorrowAt == "" || p.OnWeekday == "" || p.OnDate == "" {
		return fmt.Errorf("%w: all phrase templates are required", ErrInvalidPhrases)
	}
	if p.DateFormat == "" {
		return fmt.Errorf("%w: date format is required", ErrInvalidPhrases)
	}
	for _, day := range p.Weekdays {
		if day == "" {
			return fmt.Errorf("%w: all weekday names are required", ErrInvalidPhrases)
		}
	}
	return nil
}

// englishPhrases is the fallback wording.
var englishPhrases = Phrases{
	Now:        "now",
	TodayAt:    "today at %s",
	TomorrowAt: "tomorrow at %s",
	OnWeekday:  "on %s",
	OnDate:     "on %s",
	Weekdays: [7]string{
		"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
	},
	DateFormat: "Jan 2",
}

// dutchPhrases covers the nl locale.
var dutchPhrases = Phrases{
	Now:        "nu",
	TodayAt:    "vandaag om %s",
	TomorrowAt: "morgen om %s",
	OnWeekday:  "op %s",
	OnDate:     "op %s",
	Weekdays: [7]string{
		"zondag", "maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag",
	},
	DateFormat: "2 Jan",
}

// Formatter renders reset timestamps as short human phrases in the caller's
// locale. Locale resolution uses language matching, so "en-US" and "en-GB"
// both land on the English phrases and unknown locales fall back to the
// default.
type Formatter struct {
	tags    []language.Tag
	phrases []Phrases
	matcher language.Matcher
}

// Option configures a Formatter.
type Option func(*Formatter) error

// WithLocale registers or replaces the phrases for a language tag.
func WithLocale(tag language.Tag, p Phrases) Option {
	return func(f *Formatter) error {
		if err := p.validate(); err != nil {
			return fmt.Errorf("locale %s: %w", tag, err)
		}
		for i, existing := range f.tags {
			if existing == tag {
				f.phrases[i] = p
				return nil
			}
		}
		f.tags = append(f.tags, tag)
		f.phrases = append(f.phrases, p)
		return nil
	}
}

// New creates a formatter with English and Dutch built in. The first
// registered locale (English unless replaced) is the fallback for
// unrecognized locale strings.
func New(opts ...Option) (*Formatter, error) {
	f := &Formatter{
		tags:    []language.Tag{language.English, language.Dutch},
		phrases: []Phrases{englishPhrases, dutchPhrases},
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	f.matcher = language.NewMatcher(f.tags)
	return f, nil
}

// Format renders resetAt relative to now in the best match for the locale
// preference string (an Accept-Language value or a bare tag). Both times are
// interpreted in now's location.
func (f *Formatter) Format(locale string, resetAt, now time.Time) string {
	_, index := language.MatchStrings(f.matcher, locale)
	p := f.phrases[index]

	resetAt = resetAt.In(now.Location())
	if !resetAt.After(now) {
		return p.Now
	}

	nowDay := truncateToDay(now)
	resetDay := truncateToDay(resetAt)
	// Rounding absorbs the odd-length days around DST transitions.
	daysAhead := int(resetDay.Sub(nowDay).Hours()/24 + 0.5)

	switch {
	case daysAhead == 0:
		return fmt.Sprintf(p.TodayAt, resetAt.Format("15:04"))
	case daysAhead == 1:
		return fmt.Sprintf(p.TomorrowAt, resetAt.Format("15:04"))
	case daysAhead < 7:
		return fmt.Sprintf(p.OnWeekday, p.Weekdays[resetAt.Weekday()])
	default:
		return fmt.Sprintf(p.OnDate, strings.TrimSpace(resetAt.Format(p.DateFormat)))
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
