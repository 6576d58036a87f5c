package pg

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies pending schema migrations from cfg.MigrationsPath using
// goose. The pool is temporarily adapted to database/sql because goose does
// not speak pgx natively; the adapter borrows connections from the same pool
// rather than opening new ones.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, logger *slog.Logger) error {
	if cfg.MigrationsPath == "" {
		return ErrMigrationPathNotProvided
	}

	info, err := os.Stat(cfg.MigrationsPath)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrMigrationsDirNotFound, cfg.MigrationsPath)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close() //nolint:errcheck // closing the adapter, not the pool

	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}
	goose.SetLogger(gooseLogger{logger: logger})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToApplyMigrations, err)
	}

	if err := goose.UpContext(ctx, db, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToApplyMigrations, err)
	}
	return nil
}

// MigrateFS applies migrations from an fs.FS (typically an embed.FS), which
// lets binaries carry their schema with them.
func MigrateFS(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir string, cfg Config, logger *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close() //nolint:errcheck // closing the adapter, not the pool

	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}
	goose.SetLogger(gooseLogger{logger: logger})
	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToApplyMigrations, err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToApplyMigrations, err)
	}
	return nil
}

// gooseLogger adapts slog to goose's logger interface.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	if l.logger != nil {
		l.logger.Error(fmt.Sprintf(format, v...))
	}
	os.Exit(1)
}

func (l gooseLogger) Printf(format string, v ...any) {
	if l.logger != nil {
		l.logger.Info(fmt.Sprintf(format, v...))
	}
}
