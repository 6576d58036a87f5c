package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/quotaguard/core/subscription"
	"github.com/dmitrymomot/quotaguard/integration/database/pg"
)

// fakeTx covers the one pgx.Tx method the resolver touches; the embedded
// interface panics on anything else.
type fakeTx struct {
	pgx.Tx
	row pgx.Row
}

func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return f.row
}

// subscriptionRow plays one subscriptions table row.
type subscriptionRow struct {
	userID string
	tier   string
	period string
	status string
	start  time.Time
	order  uuid.UUID
	amount decimal.Decimal
}

func (r subscriptionRow) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.userID
	*(dest[1].(*string)) = r.tier
	*(dest[2].(*string)) = r.period
	*(dest[3].(*string)) = r.status
	*(dest[4].(*time.Time)) = r.start
	*(dest[5].(*uuid.UUID)) = r.order
	*(dest[6].(*decimal.Decimal)) = r.amount
	return nil
}

// poolStub fails the test when a query bypasses the ambient transaction.
type poolStub struct{ t *testing.T }

func (p poolStub) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	p.t.Fatal("expected the ambient transaction to serve the query")
	return nil
}

func TestPGResolverAmbientTx(t *testing.T) {
	t.Parallel()

	resolver, err := subscription.NewPGResolver(poolStub{t: t})
	require.NoError(t, err)

	tx := &fakeTx{row: subscriptionRow{
		userID: "user-1",
		tier:   "pro",
		period: "monthly",
		status: "active",
		start:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		order:  uuid.New(),
		amount: decimal.RequireFromString("29.99"),
	}}

	rec, err := resolver.Resolve(pg.WithTx(context.Background(), tx), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, subscription.TierPro, rec.Tier)
	assert.True(t, rec.Active())
}
