// Package db opens the negotiation store and keeps its schema current.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// Open connects to the store and applies pending migrations.
// An empty sqlite3 DSN resolves to DefaultDSN.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch driver {
	case DriverSQLite, "":
		conn, err = openSQLite(dsn)
	case DriverMySQL:
		conn, err = openMySQL(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q (use %s or %s)", driver, DriverSQLite, DriverMySQL)
	}
	if err != nil {
		return nil, err
	}

	if _, err := Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return conn, nil
}

func openSQLite(dsn string) (*sql.DB, error) {
	if dsn == "" {
		def, err := DefaultDSN()
		if err != nil {
			return nil, err
		}
		dsn = def
	}

	dsn, err := ExpandHome(dsn)
	if err != nil {
		return nil, err
	}

	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps writes serialized and :memory: databases shared.
	conn.SetMaxOpenConns(1)

	return conn, nil
}

func openMySQL(dsn string) (*sql.DB, error) {
	normalized, err := NormalizeMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(DriverMySQL, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return conn, nil
}

// NormalizeMySQLDSN enables parseTime so DATETIME columns scan into time.Time.
func NormalizeMySQLDSN(dsn string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("mysql requires a DSN (e.g. user:pass@tcp(localhost:3306)/haggle)")
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql DSN: %w", err)
	}
	cfg.ParseTime = true

	return cfg.FormatDSN(), nil
}

// DefaultDSN returns the path to the default SQLite database file.
func DefaultDSN() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".haggle", "haggle.db"), nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
