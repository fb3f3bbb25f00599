// Package history provides a SQLite-backed ledger of ingest runs, so past
// batch validations stay auditable after db.json has been rebuilt.
package history

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  DATETIME NOT NULL,
	sources     TEXT NOT NULL DEFAULT '[]',
	valid_count INTEGER NOT NULL DEFAULT 0,
	error_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_errors (
	run_id   TEXT NOT NULL,
	position INTEGER NOT NULL,
	message  TEXT NOT NULL,
	UNIQUE(run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_run_errors_run ON run_errors(run_id);
`

// Ledger defines the ingest-run bookkeeping operations. Consumers should
// depend on this interface rather than the concrete *DB type.
type Ledger interface {
	RecordRun(run Run, messages []string) error
	ListRuns(limit int) ([]Run, error)
	RunErrors(runID string) ([]string, error)
	Close() error
}

var _ Ledger = (*DB)(nil)

// DB wraps a sql.DB with ledger-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite ledger and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
