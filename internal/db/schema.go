package db

import "strings"

// Schema statements. They are written to run unchanged on SQLite and MySQL,
// so every statement is executed on its own.
const (
	createSchemaVersionSQL = `CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

	// Only agreed negotiations are stored. conversation holds the plain
	// transcript; transcript holds the JSON form used by show and replay.
	createNegotiationsSQL = `CREATE TABLE IF NOT EXISTS negotiations (
	id VARCHAR(32) PRIMARY KEY,
	item TEXT NOT NULL,
	buyer_max DOUBLE NOT NULL,
	seller_min DOUBLE NOT NULL,
	final_price DOUBLE NOT NULL,
	conversation TEXT NOT NULL,
	transcript TEXT,
	summary TEXT,
	analysis TEXT,
	created_at DATETIME NOT NULL
)`

	createNegotiationsCreatedAtIndexSQL = `CREATE INDEX idx_negotiations_created_at ON negotiations (created_at)`
)

// GetSchemaStatements returns every statement of the current schema in order.
func GetSchemaStatements() []string {
	stmts := []string{createSchemaVersionSQL}
	for _, m := range migrations {
		stmts = append(stmts, m.Statements...)
	}
	return stmts
}

// GetSchemaSQL returns the current schema as one script.
// Tests load it to stay in step with production.
func GetSchemaSQL() string {
	return strings.Join(GetSchemaStatements(), ";\n") + ";\n"
}
