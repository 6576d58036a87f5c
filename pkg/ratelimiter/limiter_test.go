package ratelimiter_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/quotaguard/pkg/ratelimiter"
)

// failingStore simulates a shared store outage.
type failingStore struct {
	calls int
}

func (fs *failingStore) Take(ctx context.Context, key string, cfg ratelimiter.Config, now time.Time) (ratelimiter.TakeResult, error) {
	fs.calls++
	return ratelimiter.TakeResult{}, ratelimiter.ErrStoreUnavailable
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires a store", func(t *testing.T) {
		t.Parallel()

		_, err := ratelimiter.New(nil, ratelimiter.ProfileAPI)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	})

	t.Run("rejects invalid profile", func(t *testing.T) {
		t.Parallel()

		_, err := ratelimiter.New(ratelimiter.NewMemoryStore(), ratelimiter.Profile{Name: "bad"})
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	})

	t.Run("exposes the profile", func(t *testing.T) {
		t.Parallel()

		limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), ratelimiter.ProfileAuth)
		require.NoError(t, err)
		assert.Equal(t, ratelimiter.ProfileAuth, limiter.Profile())
	})
}

func TestLimiterCheck(t *testing.T) {
	t.Parallel()

	t.Run("allows exactly limit checks then denies", func(t *testing.T) {
		t.Parallel()

		profile := ratelimiter.Profile{Name: "test", Limit: 5, Window: time.Minute}
		limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), profile)
		require.NoError(t, err)

		for i := range profile.Limit {
			res, err := limiter.Check(context.Background(), "client-1")
			require.NoError(t, err)
			assert.True(t, res.Allowed(), "check %d should be allowed", i+1)
			assert.Equal(t, profile.Limit-i-1, res.Remaining)
		}

		res, err := limiter.Check(context.Background(), "client-1")
		require.NoError(t, err)
		assert.False(t, res.Allowed())
		assert.Equal(t, 0, res.Remaining)
		assert.Equal(t, profile.Limit, res.Limit)
		assert.Positive(t, res.RetryAfter())
	})

	t.Run("allows again after the window passes", func(t *testing.T) {
		t.Parallel()

		now := time.Now()
		clock := now
		profile := ratelimiter.Profile{Name: "test", Limit: 2, Window: time.Minute}
		limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), profile,
			ratelimiter.WithTimeSource(func() time.Time { return clock }),
		)
		require.NoError(t, err)

		for range profile.Limit {
			res, err := limiter.Check(context.Background(), "client-1")
			require.NoError(t, err)
			require.True(t, res.Allowed())
		}

		res, err := limiter.Check(context.Background(), "client-1")
		require.NoError(t, err)
		require.False(t, res.Allowed())

		clock = now.Add(profile.Window + time.Second)
		res, err = limiter.Check(context.Background(), "client-1")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	})

	t.Run("identities are independent", func(t *testing.T) {
		t.Parallel()

		profile := ratelimiter.Profile{Name: "test", Limit: 1, Window: time.Minute}
		limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), profile)
		require.NoError(t, err)

		res, err := limiter.Check(context.Background(), "alice")
		require.NoError(t, err)
		require.True(t, res.Allowed())

		res, err = limiter.Check(context.Background(), "alice")
		require.NoError(t, err)
		require.False(t, res.Allowed())

		res, err = limiter.Check(context.Background(), "bob")
		require.NoError(t, err)
		assert.True(t, res.Allowed(), "a throttled identity must not affect others")
	})

	t.Run("profiles count independently via key namespace", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore()

		api, err := ratelimiter.New(store, ratelimiter.Profile{Name: "api", Limit: 1, Window: time.Minute})
		require.NoError(t, err)
		auth, err := ratelimiter.New(store, ratelimiter.Profile{Name: "auth", Limit: 1, Window: time.Minute})
		require.NoError(t, err)

		res, err := api.Check(context.Background(), "client-1")
		require.NoError(t, err)
		require.True(t, res.Allowed())

		res, err = auth.Check(context.Background(), "client-1")
		require.NoError(t, err)
		assert.True(t, res.Allowed(), "exhausting one profile must not affect another")
	})

	t.Run("rejects empty identity", func(t *testing.T) {
		t.Parallel()

		limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), ratelimiter.ProfileAPI)
		require.NoError(t, err)

		_, err = limiter.Check(context.Background(), "")
		assert.ErrorIs(t, err, ratelimiter.ErrEmptyKey)
	})
}

func TestLimiterFallback(t *testing.T) {
	t.Parallel()

	t.Run("store failure falls back without error", func(t *testing.T) {
		t.Parallel()

		store := &failingStore{}
		profile := ratelimiter.Profile{Name: "test", Limit: 2, Window: time.Minute}
		limiter, err := ratelimiter.New(store, profile,
			ratelimiter.WithFallback(ratelimiter.NewMemoryStore()),
		)
		require.NoError(t, err)

		res, err := limiter.Check(context.Background(), "client-1")
		require.NoError(t, err, "a store outage must not surface as a check error")
		assert.True(t, res.Allowed())
	})

	t.Run("degraded results are marked and logged with structured fields", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		profile := ratelimiter.Profile{Name: "test", Limit: 2, Window: time.Minute}
		limiter, err := ratelimiter.New(&failingStore{}, profile,
			ratelimiter.WithFallback(ratelimiter.NewMemoryStore()),
			ratelimiter.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		)
		require.NoError(t, err)

		res, err := limiter.Check(context.Background(), "client-1")
		require.NoError(t, err)
		assert.True(t, res.Degraded())

		out := buf.String()
		assert.Contains(t, out, "profile=test")
		assert.Contains(t, out, "limit_key=ratelimit:test:client-1")
		assert.Contains(t, out, "error=")
	})

	t.Run("healthy store results are not degraded", func(t *testing.T) {
		t.Parallel()

		limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), ratelimiter.ProfileAPI)
		require.NoError(t, err)

		res, err := limiter.Check(context.Background(), "client-1")
		require.NoError(t, err)
		assert.False(t, res.Degraded())
	})

	t.Run("fallback enforces the same limit shape", func(t *testing.T) {
		t.Parallel()

		profile := ratelimiter.Profile{Name: "test", Limit: 3, Window: time.Minute}
		limiter, err := ratelimiter.New(&failingStore{}, profile,
			ratelimiter.WithFallback(ratelimiter.NewMemoryStore()),
		)
		require.NoError(t, err)

		for i := range profile.Limit {
			res, err := limiter.Check(context.Background(), "client-1")
			require.NoError(t, err)
			assert.True(t, res.Allowed())
			assert.Equal(t, profile.Limit-i-1, res.Remaining)
			assert.Equal(t, profile.Limit, res.Limit)
		}

		res, err := limiter.Check(context.Background(), "client-1")
		require.NoError(t, err)
		assert.False(t, res.Allowed())
		assert.Equal(t, 0, res.Remaining)
		assert.False(t, res.ResetAt.IsZero())
	})

	t.Run("each failed check hits the store once", func(t *testing.T) {
		t.Parallel()

		store := &failingStore{}
		limiter, err := ratelimiter.New(store, ratelimiter.ProfileAPI,
			ratelimiter.WithFallback(ratelimiter.NewMemoryStore()),
		)
		require.NoError(t, err)

		for range 3 {
			_, err := limiter.Check(context.Background(), "client-1")
			require.NoError(t, err)
		}
		assert.Equal(t, 3, store.calls, "fallback must not retry the shared store")
	})
}

func TestLimiterStoreTimeout(t *testing.T) {
	t.Parallel()

	slow := storeFunc(func(ctx context.Context, key string, cfg ratelimiter.Config, now time.Time) (ratelimiter.TakeResult, error) {
		select {
		case <-ctx.Done():
			return ratelimiter.TakeResult{}, ctx.Err()
		case <-time.After(time.Second):
			return ratelimiter.TakeResult{Recorded: true, ResetAt: now.Add(cfg.Window)}, nil
		}
	})

	limiter, err := ratelimiter.New(slow, ratelimiter.ProfileAPI,
		ratelimiter.WithStoreTimeout(10*time.Millisecond),
		ratelimiter.WithFallback(ratelimiter.NewMemoryStore()),
	)
	require.NoError(t, err)

	start := time.Now()
	res, err := limiter.Check(context.Background(), "client-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Less(t, time.Since(start), 500*time.Millisecond, "slow store must be cut off by the timeout")
}

// storeFunc adapts a function to the Store interface.
type storeFunc func(ctx context.Context, key string, cfg ratelimiter.Config, now time.Time) (ratelimiter.TakeResult, error)

func (f storeFunc) Take(ctx context.Context, key string, cfg ratelimiter.Config, now time.Time) (ratelimiter.TakeResult, error) {
	return f(ctx, key, cfg, now)
}

func TestResultRetryAfter(t *testing.T) {
	t.Parallel()

	profile := ratelimiter.Profile{Name: "test", Limit: 1, Window: time.Minute}
	limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), profile)
	require.NoError(t, err)

	allowed, err := limiter.Check(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Zero(t, allowed.RetryAfter())

	denied, err := limiter.Check(context.Background(), "client-1")
	require.NoError(t, err)
	retry := denied.RetryAfter()
	assert.Positive(t, retry)
	assert.LessOrEqual(t, retry, profile.Window)
}

func TestProfileKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ratelimit:api:1.2.3.4", ratelimiter.ProfileAPI.Key("1.2.3.4"))
	assert.Equal(t, "ratelimit:auth:1.2.3.4", ratelimiter.ProfileAuth.Key("1.2.3.4"))
}

func TestPredefinedProfiles(t *testing.T) {
	t.Parallel()

	for _, profile := range []ratelimiter.Profile{
		ratelimiter.ProfileAuth,
		ratelimiter.ProfileAPI,
		ratelimiter.ProfileAI,
		ratelimiter.ProfilePayment,
		ratelimiter.ProfileUpload,
	} {
		assert.NoError(t, profile.Validate(), "profile %s", profile.Name)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     ratelimiter.Config
		wantErr error
	}{
		{"valid", ratelimiter.Config{Limit: 10, Window: time.Minute}, nil},
		{"zero limit", ratelimiter.Config{Limit: 0, Window: time.Minute}, ratelimiter.ErrInvalidConfig},
		{"negative limit", ratelimiter.Config{Limit: -1, Window: time.Minute}, ratelimiter.ErrInvalidConfig},
		{"zero window", ratelimiter.Config{Limit: 10, Window: 0}, ratelimiter.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.wantErr))
			}
		})
	}
}
