package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a database migration.
type Migration struct {
	Version    int
	Name       string
	Statements []string
}

// migrations is the list of all migrations in order.
var migrations = []Migration{
	{
		Version:    1,
		Name:       "create_negotiations_table",
		Statements: []string{createNegotiationsSQL},
	},
	{
		Version:    2,
		Name:       "index_negotiations_by_created_at",
		Statements: []string{createNegotiationsCreatedAtIndexSQL},
	},
}

// Migrate applies pending migrations and returns the ones it ran.
func Migrate(ctx context.Context, conn *sql.DB) ([]Migration, error) {
	if _, err := conn.ExecContext(ctx, createSchemaVersionSQL); err != nil {
		return nil, fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := CurrentVersion(ctx, conn)
	if err != nil {
		return nil, err
	}

	var applied []Migration
	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		if err := apply(ctx, conn, migration); err != nil {
			return applied, err
		}
		applied = append(applied, migration)
	}

	return applied, nil
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(ctx context.Context, conn *sql.DB) (int, error) {
	var version int
	err := conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// LatestVersion returns the version the schema reaches after Migrate.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

func apply(ctx context.Context, conn *sql.DB, migration Migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
	}

	for _, stmt := range migration.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
	}

	return nil
}
