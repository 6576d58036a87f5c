// Package pg provides PostgreSQL connection management with migrations and
// health checking for the subscription and usage tables.
//
// It wraps the pgx driver with retry logic on connect, pool tuning through
// environment-mapped configuration, and goose-based schema migrations.
//
// # Usage
//
//	cfg := pg.Config{
//		ConnectionString: os.Getenv("PG_CONN_URL"),
//		RetryAttempts:    3,
//		RetryInterval:    5 * time.Second,
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, logger); err != nil {
//		log.Fatal(err)
//	}
//
// Connect retries transient failures with a linear backoff and verifies
// connectivity with a ping before returning, so a returned pool is known
// good. Healthcheck produces a probe function for readiness endpoints:
//
//	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
//		if err := pg.Healthcheck(pool)(r.Context()); err != nil {
//			http.Error(w, "Database unhealthy", http.StatusServiceUnavailable)
//			return
//		}
//		w.WriteHeader(http.StatusOK)
//	})
//
// # Migrations
//
// Migrate applies goose SQL migrations from a directory on disk; MigrateFS
// does the same from an embedded filesystem. Goose does not speak pgx
// natively, so both borrow database/sql connections from the pool through
// the stdlib adapter for the duration of the run.
//
// # Error Classification
//
// Helpers classify common failure shapes so callers do not string-match:
// IsNotFoundError, IsDuplicateKeyError, IsForeignKeyViolationError,
// IsTxClosedError.
//
// # Transactions in Context
//
// WithTx and TxFromContext pass an open pgx.Tx through a context, which lets
// store methods participate in a caller-owned transaction without changing
// their signatures. The usage store and the subscription resolver both honor
// it:
//
//	tx, err := pool.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer tx.Rollback(ctx)
//
//	decision, err := enforcer.CheckAndConsume(pg.WithTx(ctx, tx), userID, key)
//	if err != nil {
//		return err
//	}
//	if !decision.Allowed {
//		return fmt.Errorf("quota denied: %s", decision.Reason)
//	}
//	// ... caller's own writes on tx ...
//	return tx.Commit(ctx)
package pg
