package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/migrate"
)

//go:embed migrations
var migrationFS embed.FS

// newMigrator discovers the embedded migrations for the database's dialect.
// Statements inside a file are separated by --bun:split lines; .tx. files
// run in a transaction.
func newMigrator(ctx context.Context, db *bun.DB) (*migrate.Migrator, error) {
	dir, err := migrationsDir(db.Dialect().Name())
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(migrationFS, dir)
	if err != nil {
		return nil, err
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(sub); err != nil {
		return nil, fmt.Errorf("discover migrations: %w", err)
	}

	m := migrate.NewMigrator(db, migrations, migrate.WithMarkAppliedOnSuccess(true))
	if err := m.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migration tables: %w", err)
	}
	return m, nil
}

// Migrate applies every migration that has not been applied yet and returns
// their names.
func Migrate(ctx context.Context, db *bun.DB) ([]string, error) {
	m, err := newMigrator(ctx, db)
	if err != nil {
		return nil, err
	}
	group, err := m.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return groupNames(group), nil
}

// Rollback reverts the most recently applied group of migrations and returns
// their names.
func Rollback(ctx context.Context, db *bun.DB) ([]string, error) {
	m, err := newMigrator(ctx, db)
	if err != nil {
		return nil, err
	}
	group, err := m.Rollback(ctx)
	if err != nil {
		return nil, fmt.Errorf("rollback: %w", err)
	}
	return groupNames(group), nil
}

func groupNames(group *migrate.MigrationGroup) []string {
	if group == nil || group.IsZero() {
		return []string{}
	}
	out := make([]string, 0, len(group.Migrations))
	for _, m := range group.Migrations {
		out = append(out, m.String())
	}
	return out
}

func migrationsDir(name dialect.Name) (string, error) {
	switch name {
	case dialect.PG:
		return "migrations/postgres", nil
	case dialect.SQLite:
		return "migrations/sqlite", nil
	default:
		return "", fmt.Errorf("no migrations for dialect %s", name)
	}
}
