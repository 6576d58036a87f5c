package feature

// Key identifies a metered feature. Keys are wire-stable: they appear in
// usage event rows and boundary error payloads.
type Key string

const (
	KeyAIMessage      Key = "ai_message"
	KeyProfileRewrite Key = "profile_rewrite"
	KeyPhotoCheck     Key = "photo_check"
	KeyPlatformAdvice Key = "platform_advice"
	KeyIcebreaker     Key = "icebreaker"
	KeyOpener         Key = "opener"
	KeyDateIdea       Key = "date_idea"
	KeyDateAnalysis   Key = "date_analysis"
	KeySafetyCheck    Key = "safety_check"
	KeyModuleFeedback Key = "module_feedback"
)

// String returns the wire form of the key.
func (k Key) String() string {
	return string(k)
}

// Valid reports whether the key belongs to the known feature set.
func (k Key) Valid() bool {
	_, ok := windowKinds[k]
	return ok
}

// WindowKind selects the temporal semantics of a feature's quota window.
type WindowKind string

const (
	// FixedDaily resets at local midnight.
	FixedDaily WindowKind = "fixed_daily"
	// FixedWeekly resets Monday 00:00 local time.
	FixedWeekly WindowKind = "fixed_weekly"
	// Rolling30Day counts uses in the trailing 30 days from now. The window
	// slides with the clock and is never calendar-anchored.
	Rolling30Day WindowKind = "rolling_30d"
)

// windowKinds binds each feature to its window semantics. The window is a
// property of the feature, not of the tier: a tier changes how many uses a
// user gets, never when the count resets.
var windowKinds = map[Key]WindowKind{
	KeyAIMessage:      FixedWeekly,
	KeyProfileRewrite: Rolling30Day,
	KeyPhotoCheck:     Rolling30Day,
	KeyPlatformAdvice: Rolling30Day,
	KeyIcebreaker:     FixedDaily,
	KeyOpener:         FixedDaily,
	KeyDateIdea:       FixedDaily,
	KeyDateAnalysis:   FixedDaily,
	KeySafetyCheck:    FixedDaily,
	KeyModuleFeedback: FixedDaily,
}

// Window returns the window kind for a feature key.
func (k Key) Window() (WindowKind, bool) {
	kind, ok := windowKinds[k]
	return kind, ok
}

// Keys returns all known feature keys. The order is stable.
func Keys() []Key {
	return []Key{
		KeyAIMessage,
		KeyProfileRewrite,
		KeyPhotoCheck,
		KeyPlatformAdvice,
		KeyIcebreaker,
		KeyOpener,
		KeyDateIdea,
		KeyDateAnalysis,
		KeySafetyCheck,
		KeyModuleFeedback,
	}
}
