package ratelimiter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a shared Redis sorted set per key, with one
// member per event scored by its millisecond timestamp. All instances of the
// service count against the same sets, which is what makes the limits hold
// across a multi-instance deployment.
//
// The prune-count-insert sequence spans two pipelines and is not atomic:
// concurrent checks for the same key can each observe a count below the
// limit and both record. The over-admission is bounded by the number of
// in-flight checks and self-corrects on the next window, which is acceptable
// for abuse prevention but not for billing-accurate counters.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a store backed by the given Redis client.
func NewRedisStore(client redis.UniversalClient) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: redis client is required", ErrInvalidConfig)
	}
	return &RedisStore{client: client}, nil
}

// Take implements Store. Any Redis failure is reported as ErrStoreUnavailable
// so callers can distinguish outage from misuse.
func (rs *RedisStore) Take(ctx context.Context, key string, cfg Config, now time.Time) (TakeResult, error) {
	if key == "" {
		return TakeResult{}, ErrEmptyKey
	}
	if err := cfg.Validate(); err != nil {
		return TakeResult{}, err
	}

	windowStart := now.Add(-cfg.Window)

	pipe := rs.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(windowStart.UnixMilli(), 10))
	countCmd := pipe.ZCard(ctx, key)
	oldestCmd := pipe.ZRangeWithScores(ctx, key, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return TakeResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	count := int(countCmd.Val())

	resetAt := now.Add(cfg.Window)
	if members := oldestCmd.Val(); len(members) > 0 {
		oldest := time.UnixMilli(int64(members[0].Score))
		resetAt = oldest.Add(cfg.Window)
	}

	res := TakeResult{Count: count, ResetAt: resetAt}
	if count >= cfg.Limit {
		return res, nil
	}

	// Member must be unique even when two events land on the same
	// millisecond, otherwise ZAdd would overwrite instead of append.
	member := strconv.FormatInt(now.UnixMilli(), 10) + ":" + uuid.NewString()

	record := rs.client.TxPipeline()
	record.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: member})
	// Keys with no traffic for a full window carry no live events; let Redis
	// reclaim them.
	record.PExpire(ctx, key, cfg.Window+time.Second)
	if _, err := record.Exec(ctx); err != nil {
		return TakeResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	res.Recorded = true
	return res, nil
}

// Reset removes all recorded events for a key. Administrative override.
func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
