package ratelimiter

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/quotaguard/core/logger"
)

// Checker is the rate limit decision contract consumed by middleware and
// instrumentation decorators.
type Checker interface {
	// Check consumes one slot for identity and reports the outcome.
	Check(ctx context.Context, identity string) (*Result, error)
	// Profile returns the limiter's named configuration.
	Profile() Profile
}

// Limiter evaluates a sliding window rate limit against a shared store,
// degrading to an in-process fallback when the store is unreachable.
//
// A store failure never surfaces to the caller as an error: the affected
// check is answered by the fallback limiter and the degradation is logged.
// Accuracy drops to per-instance counting for the duration of the outage.
type Limiter struct {
	profile      Profile
	store        Store
	fallback     Store
	storeTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithFallback sets the in-process store used when the shared store fails.
func WithFallback(store Store) Option {
	return func(l *Limiter) {
		if store != nil {
			l.fallback = store
		}
	}
}

// WithStoreTimeout bounds each shared store call. On expiry the check is
// answered by the fallback.
func WithStoreTimeout(timeout time.Duration) Option {
	return func(l *Limiter) {
		if timeout > 0 {
			l.storeTimeout = timeout
		}
	}
}

// WithLogger sets the logger used to report store degradation.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithTimeSource overrides the wall clock. Intended for tests.
func WithTimeSource(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a limiter for the given profile. When no fallback is
// configured, a fresh MemoryStore is used; callers that want the fallback
// swept in the background should pass their own via WithFallback.
func New(store Store, profile Profile, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, ErrInvalidConfig
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	l := &Limiter{
		profile:      profile,
		store:        store,
		storeTimeout: 150 * time.Millisecond,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.fallback == nil {
		l.fallback = NewMemoryStore()
	}

	return l, nil
}

// Profile returns the limiter's named configuration.
func (l *Limiter) Profile() Profile {
	return l.profile
}

// Check consumes one slot for identity within the profile's window.
// The returned error is reserved for caller mistakes (empty identity);
// store outages are absorbed by the fallback path.
func (l *Limiter) Check(ctx context.Context, identity string) (*Result, error) {
	if identity == "" {
		return nil, ErrEmptyKey
	}

	key := l.profile.Key(identity)
	cfg := l.profile.Config()
	now := l.now()

	storeCtx, cancel := context.WithTimeout(ctx, l.storeTimeout)
	tr, err := l.store.Take(storeCtx, key, cfg, now)
	cancel()

	degraded := false
	if err != nil {
		// Single-check fallback, no retry against the shared store.
		l.logger.WarnContext(ctx, "rate limit store unavailable, using in-process fallback",
			logger.Profile(l.profile.Name),
			logger.LimitKey(key),
			logger.Error(err),
		)
		tr, err = l.fallback.Take(ctx, key, cfg, now)
		if err != nil {
			return nil, err
		}
		degraded = true
	}

	res := l.result(tr, cfg)
	res.degraded = degraded
	return res, nil
}

func (l *Limiter) result(tr TakeResult, cfg Config) *Result {
	res := &Result{
		Limit:   cfg.Limit,
		ResetAt: tr.ResetAt,
		allowed: tr.Recorded,
	}
	if tr.Recorded {
		if remaining := cfg.Limit - tr.Count - 1; remaining > 0 {
			res.Remaining = remaining
		}
	}
	return res
}
