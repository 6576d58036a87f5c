package ratelimiter

import (
	"fmt"
	"time"
)

// Config defines a sliding window: at most Limit events per Window.
type Config struct {
	Limit  int
	Window time.Duration
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, c.Limit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, c.Window)
	}
	return nil
}

// Profile is a named limiter configuration with its own key namespace.
// Keys from different profiles never collide, so the same client identity
// is counted independently per profile.
type Profile struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Predefined profiles for the endpoint classes this module protects. Each
// owns a distinct (limit, window) pair tuned to the cost of the operation.
var (
	// ProfileAuth throttles login and credential endpoints.
	ProfileAuth = Profile{Name: "auth", Limit: 10, Window: time.Minute}
	// ProfileAPI covers general API traffic.
	ProfileAPI = Profile{Name: "api", Limit: 100, Window: time.Minute}
	// ProfileAI throttles expensive AI-backed calls.
	ProfileAI = Profile{Name: "ai", Limit: 20, Window: time.Minute}
	// ProfilePayment throttles payment initiation.
	ProfilePayment = Profile{Name: "payment", Limit: 5, Window: time.Minute}
	// ProfileUpload throttles file uploads.
	ProfileUpload = Profile{Name: "upload", Limit: 10, Window: time.Hour}
)

// Key builds the counter key for an identity within this profile's
// namespace. The same (identity, profile) pair always maps to the same key,
// which is what scopes a counter.
func (p Profile) Key(identity string) string {
	return "ratelimit:" + p.Name + ":" + identity
}

// Config returns the profile's limit configuration.
func (p Profile) Config() Config {
	return Config{Limit: p.Limit, Window: p.Window}
}

// Validate checks that the profile is usable.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: profile name is required", ErrInvalidConfig)
	}
	return p.Config().Validate()
}
