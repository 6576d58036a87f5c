package usage_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/quotaguard/core/feature"
	"github.com/dmitrymomot/quotaguard/core/usage"
	"github.com/dmitrymomot/quotaguard/integration/database/pg"
)

// countRow plays the count/min(created_at) aggregate row.
type countRow struct {
	count  int
	oldest *time.Time
}

func (r countRow) Scan(dest ...any) error {
	*(dest[0].(*int)) = r.count
	*(dest[1].(**time.Time)) = r.oldest
	return nil
}

// ambientTx covers the pgx.Tx surface the store touches; the embedded
// interface panics on anything else. Begin hands out a savepoint view that
// records statements back here.
type ambientTx struct {
	pgx.Tx
	row       countRow
	execSQL   []string
	commits   int
	rollbacks int
}

func (tx *ambientTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return tx.row
}

func (tx *ambientTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return &savepointTx{parent: tx}, nil
}

type savepointTx struct {
	pgx.Tx
	parent *ambientTx
}

func (tx *savepointTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return tx.parent.row
}

func (tx *savepointTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tx.parent.execSQL = append(tx.parent.execSQL, sql)
	return pgconn.CommandTag{}, nil
}

func (tx *savepointTx) Commit(ctx context.Context) error {
	tx.parent.commits++
	return nil
}

func (tx *savepointTx) Rollback(ctx context.Context) error {
	tx.parent.rollbacks++
	return pgx.ErrTxClosed
}

// failDB fails the test when the store bypasses the ambient transaction.
type failDB struct{ t *testing.T }

func (db failDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.t.Fatal("expected the ambient transaction to serve the query")
	return nil
}

func (db failDB) Begin(ctx context.Context) (pgx.Tx, error) {
	db.t.Fatal("expected the ambient transaction to host the consume")
	return nil, nil
}

func TestPGStoreAmbientTx(t *testing.T) {
	t.Parallel()

	since := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("CountSince queries through the ambient transaction", func(t *testing.T) {
		t.Parallel()

		oldest := since.Add(2 * time.Hour)
		tx := &ambientTx{row: countRow{count: 4, oldest: &oldest}}
		store, err := usage.NewPGStore(failDB{t: t})
		require.NoError(t, err)

		count, got, err := store.CountSince(pg.WithTx(context.Background(), tx), "user-1", feature.KeyAIMessage, since)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
		assert.Equal(t, oldest, got)
	})

	t.Run("ConsumeBelow runs inside the ambient transaction", func(t *testing.T) {
		t.Parallel()

		tx := &ambientTx{row: countRow{count: 1}}
		store, err := usage.NewPGStore(failDB{t: t})
		require.NoError(t, err)

		count, _, consumed, err := store.ConsumeBelow(pg.WithTx(context.Background(), tx), "user-1", feature.KeyAIMessage, since, 3)
		require.NoError(t, err)
		assert.True(t, consumed)
		assert.Equal(t, 2, count)
		assert.Equal(t, 1, tx.commits, "the savepoint must be released")
		require.Len(t, tx.execSQL, 2)
		assert.Contains(t, tx.execSQL[0], "pg_advisory_xact_lock")
		assert.Contains(t, tx.execSQL[1], "INSERT INTO usage_events")
	})

	t.Run("ConsumeBelow at the cap never inserts", func(t *testing.T) {
		t.Parallel()

		oldest := since.Add(time.Hour)
		tx := &ambientTx{row: countRow{count: 3, oldest: &oldest}}
		store, err := usage.NewPGStore(failDB{t: t})
		require.NoError(t, err)

		count, gotOldest, consumed, err := store.ConsumeBelow(pg.WithTx(context.Background(), tx), "user-1", feature.KeyAIMessage, since, 3)
		require.NoError(t, err)
		assert.False(t, consumed)
		assert.Equal(t, 3, count)
		assert.Equal(t, oldest, gotOldest)
		require.Len(t, tx.execSQL, 1, "only the advisory lock statement runs")
		assert.Contains(t, tx.execSQL[0], "pg_advisory_xact_lock")
	})
}
