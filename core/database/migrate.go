package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/t0pa/plansync/core/logger"
)

// Migrate applies every .sql file in lexical order, tracking applied
// versions in schema_migrations. Files are expected to be idempotent-safe
// but are still applied exactly once.
func Migrate(ctx context.Context, db IDatabase, migrations fs.FS) error {
	err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	entries, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(entries)

	for _, name := range entries {
		var applied bool
		err := db.GetContext(ctx, &applied,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, name)
		if err != nil {
			return fmt.Errorf("failed to check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		body, err := fs.ReadFile(migrations, name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		if err := db.ExecContext(ctx, string(body)); err != nil {
			logger.Error("Database:Migrate", "migration", name, "error", err)
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}

		if err := db.ExecContext(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}

		logger.Info("Database:Migrate:Applied", "migration", name)
	}

	return nil
}
