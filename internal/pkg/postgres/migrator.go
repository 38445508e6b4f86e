package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/tern/v2/migrate"

	"gh-pr-stats/migrations"
	"gh-pr-stats/internal/pkg/logger"
)

const versionTable = "cache_schema_version"

// Migrator brings the cache schema up to date on startup.
type Migrator struct {
	pool    *pgxpool.Pool
	logger  *logger.Logger
	timeout time.Duration
}

func NewMigrator(pool *pgxpool.Pool, timeout time.Duration, log *logger.Logger) *Migrator {
	return &Migrator{
		pool:    pool,
		logger:  log.Component("postgres/migrator"),
		timeout: timeout,
	}
}

func (m *Migrator) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	migrator, err := migrate.NewMigrator(ctx, conn.Conn(), versionTable)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err = migrator.LoadMigrations(migrations.Files); err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	from, err := migrator.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	if err = migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	to, err := migrator.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("get final version: %w", err)
	}

	if to == from {
		m.logger.Debug("cache schema up to date", "version", to)
	} else {
		m.logger.Info("cache schema migrated", "from_version", from, "to_version", to)
	}
	return nil
}
