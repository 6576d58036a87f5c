package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings with environment variable mapping.
// Both redis:// and rediss:// (TLS) URL schemes are supported.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// Connect creates a Redis client, retrying transient failures, and verifies
// connectivity with a ping before returning. A returned client is known
// reachable at that moment; runtime outages are the rate limiter's fallback
// problem, not this function's.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToParseRedisConnString, err)
	}

	if cfg.ConnectTimeout > 0 {
		opts.DialTimeout = cfg.ConnectTimeout
	}

	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	client := redis.NewClient(opts)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx := ctx
		if cfg.ConnectTimeout > 0 {
			var cancel context.CancelFunc
			pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
			lastErr = client.Ping(pingCtx).Err()
			cancel()
		} else {
			lastErr = client.Ping(pingCtx).Err()
		}
		if lastErr == nil {
			return client, nil
		}

		if attempt < attempts {
			select {
			case <-ctx.Done():
				_ = client.Close()
				return nil, errors.Join(ErrRedisNotReady, ctx.Err(), lastErr)
			case <-time.After(cfg.RetryInterval * time.Duration(attempt)):
			}
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("%w: %v", ErrRedisNotReady, lastErr)
}

// Healthcheck returns a probe function that verifies Redis connectivity
// with a ping. Suitable for readiness endpoints.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrHealthcheckFailed, err)
		}
		return nil
	}
}
