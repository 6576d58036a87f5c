package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/quotaguard/core/feature"
	"github.com/dmitrymomot/quotaguard/integration/database/pg"
)

// DB is the subset of pgx pool behavior the store needs. *pgxpool.Pool
// satisfies it.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PGStore implements Store on an append-only usage_events table. Events are
// never updated or deleted by this module; window membership is decided at
// read time by created_at, which is what lets one table serve fixed and
// rolling windows alike.
type PGStore struct {
	db  DB
	now func() time.Time
}

// PGStoreOption configures a PGStore.
type PGStoreOption func(*PGStore)

// WithPGStoreTimeSource overrides the wall clock. Intended for tests.
func WithPGStoreTimeSource(now func() time.Time) PGStoreOption {
	return func(s *PGStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPGStore creates a store backed by a Postgres pool.
func NewPGStore(db DB, opts ...PGStoreOption) (*PGStore, error) {
	if db == nil {
		return nil, errors.New("usage: database connection is required")
	}

	s := &PGStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// querier returns the transaction placed in ctx via pg.WithTx when the
// caller opened one, otherwise the pool. pgx.Tx nests through savepoints,
// so ConsumeBelow works the same on both.
func (s *PGStore) querier(ctx context.Context) DB {
	if tx, ok := pg.TxFromContext(ctx); ok {
		return tx
	}
	return s.db
}

const countSinceQuery = `
SELECT count(*)::int, min(created_at)
FROM usage_events
WHERE user_id = $1 AND feature_key = $2 AND created_at >= $3`

// CountSince implements Store.
func (s *PGStore) CountSince(ctx context.Context, userID string, key feature.Key, since time.Time) (int, time.Time, error) {
	if userID == "" {
		return 0, time.Time{}, ErrEmptyUserID
	}

	var (
		count  int
		oldest *time.Time
	)
	err := s.querier(ctx).QueryRow(ctx, countSinceQuery, userID, key.String(), since).Scan(&count, &oldest)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: count %s/%s: %v", ErrStoreFailure, userID, key, err)
	}

	if oldest == nil {
		return count, time.Time{}, nil
	}
	return count, *oldest, nil
}

const consumeInsertQuery = `
INSERT INTO usage_events (user_id, feature_key, created_at)
VALUES ($1, $2, $3)`

// ConsumeBelow implements Store. The count and the conditional insert run in
// one transaction serialized per (user, feature) by an advisory lock, so two
// concurrent calls at count limit-1 admit exactly one. The lock keys on the
// user-feature pair only; different users or features never contend.
//
// Inside an ambient transaction (pg.WithTx) the statements join it through a
// savepoint; the advisory lock is then held until that transaction ends.
func (s *PGStore) ConsumeBelow(ctx context.Context, userID string, key feature.Key, since time.Time, limit int) (int, time.Time, bool, error) {
	if userID == "" {
		return 0, time.Time{}, false, ErrEmptyUserID
	}

	tx, err := s.querier(ctx).Begin(ctx)
	if err != nil {
		return 0, time.Time{}, false, fmt.Errorf("%w: begin: %v", ErrStoreFailure, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	lockKey := userID + "/" + key.String()
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return 0, time.Time{}, false, fmt.Errorf("%w: lock %s: %v", ErrStoreFailure, lockKey, err)
	}

	var (
		count     int
		oldestPtr *time.Time
	)
	if err := tx.QueryRow(ctx, countSinceQuery, userID, key.String(), since).Scan(&count, &oldestPtr); err != nil {
		return 0, time.Time{}, false, fmt.Errorf("%w: count %s/%s: %v", ErrStoreFailure, userID, key, err)
	}

	var oldest time.Time
	if oldestPtr != nil {
		oldest = *oldestPtr
	}

	if count >= limit {
		if err := tx.Commit(ctx); err != nil {
			return 0, time.Time{}, false, fmt.Errorf("%w: commit: %v", ErrStoreFailure, err)
		}
		return count, oldest, false, nil
	}

	now := s.now()
	if _, err := tx.Exec(ctx, consumeInsertQuery, userID, key.String(), now); err != nil {
		return 0, time.Time{}, false, fmt.Errorf("%w: record %s/%s: %v", ErrStoreFailure, userID, key, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, time.Time{}, false, fmt.Errorf("%w: commit: %v", ErrStoreFailure, err)
	}

	if oldest.IsZero() {
		oldest = now
	}
	return count + 1, oldest, true, nil
}
