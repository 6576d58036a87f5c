package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type txCtxKey struct{}

// WithTx returns a context carrying an open transaction. Store methods that
// receive this context run their statements on tx instead of the pool, so a
// quota consume or a subscription lookup commits or rolls back together
// with the caller's own writes. A nil tx leaves the context unchanged.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txCtxKey{}, tx)
}

// TxFromContext returns the transaction stored by WithTx, if any.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx)
	return tx, ok
}
