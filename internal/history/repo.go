package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run represents one recorded ingest run.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	Sources    []string  `json:"sources"`
	ValidCount int       `json:"valid_count"`
	ErrorCount int       `json:"error_count"`
}

// NewRun stamps a fresh run with a unique ID and the current time.
func NewRun(sources []string, validCount, errorCount int) Run {
	return Run{
		ID:         uuid.NewString(),
		StartedAt:  time.Now(),
		Sources:    sources,
		ValidCount: validCount,
		ErrorCount: errorCount,
	}
}

// RecordRun inserts a run and its rejection messages within a transaction.
func (db *DB) RecordRun(run Run, messages []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("history: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	sourcesJSON, _ := json.Marshal(run.Sources)

	_, err = tx.Exec(`
		INSERT INTO runs (id, started_at, sources, valid_count, error_count)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UTC(), string(sourcesJSON), run.ValidCount, run.ErrorCount)
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}

	if len(messages) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO run_errors (run_id, position, message) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("history: prepare error insert: %w", err)
		}
		defer stmt.Close()
		for i, msg := range messages {
			if _, err := stmt.Exec(run.ID, i+1, msg); err != nil {
				return fmt.Errorf("history: insert error line: %w", err)
			}
		}
	}

	return tx.Commit()
}

// ListRuns returns up to limit runs, most recent first. A non-positive
// limit returns every recorded run.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(`
		SELECT id, started_at, sources, valid_count, error_count
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var sourcesJSON string
		if err := rows.Scan(&r.ID, &r.StartedAt, &sourcesJSON, &r.ValidCount, &r.ErrorCount); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &r.Sources); err != nil {
			r.Sources = nil
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunErrors returns the rejection messages of one run in recorded order.
func (db *DB) RunErrors(runID string) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT message FROM run_errors WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: run errors: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}
