package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/quotaguard/integration/database/pg"
)

// Resolver looks up the subscription that governs a user's access. The
// quota enforcer and the unlock scheduler both depend on this interface,
// never on a concrete store.
type Resolver interface {
	// Resolve returns the user's current subscription record.
	// Returns ErrNotFound when the user has no subscription at all.
	Resolve(ctx context.Context, userID string) (*Record, error)
}

// RowQuerier is the subset of pgx connection behavior the resolver needs.
// Both *pgxpool.Pool and *pgx.Conn satisfy it.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGResolver resolves subscriptions from the billing-owned subscriptions
// table. This module never writes to it.
type PGResolver struct {
	db RowQuerier
}

// NewPGResolver creates a resolver backed by a Postgres pool or connection.
func NewPGResolver(db RowQuerier) (*PGResolver, error) {
	if db == nil {
		return nil, errors.New("subscription: database connection is required")
	}
	return &PGResolver{db: db}, nil
}

const resolveQuery = `
SELECT user_id, tier, billing_period, status, start_date, order_id, amount
FROM subscriptions
WHERE user_id = $1
ORDER BY start_date DESC
LIMIT 1`

// Resolve implements Resolver. When a user has several subscription rows
// (renewals, tier changes), the most recently started one governs. A
// transaction placed in ctx via pg.WithTx serves the query instead of the
// pool, so the lookup sees the caller's uncommitted writes.
func (r *PGResolver) Resolve(ctx context.Context, userID string) (*Record, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	db := r.db
	if tx, ok := pg.TxFromContext(ctx); ok {
		db = tx
	}

	var (
		rec       Record
		rawTier   string
		rawPeriod string
		rawStatus string
	)
	err := db.QueryRow(ctx, resolveQuery, userID).Scan(
		&rec.UserID, &rawTier, &rawPeriod, &rawStatus,
		&rec.StartDate, &rec.OrderID, &rec.Amount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("subscription: resolve user %s: %w", userID, err)
	}

	if rec.Tier, err = ParseTier(rawTier); err != nil {
		return nil, fmt.Errorf("subscription: user %s: %w", userID, err)
	}
	if rec.Status, err = ParseStatus(rawStatus); err != nil {
		return nil, fmt.Errorf("subscription: user %s: %w", userID, err)
	}
	rec.BillingPeriod = BillingPeriod(rawPeriod)

	return &rec, nil
}
