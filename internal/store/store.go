// Package store persists the flight database as a JSON array-of-objects
// document and the rejection list as plain text, and can watch the
// database file for rebuilds.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/tarmac/internal/models"
)

// SaveDB writes the full record collection to path. The write is atomic:
// tmp file → fsync → rename, so readers never observe a partial database.
func SaveDB(path string, flights []models.Flight) error {
	if flights == nil {
		flights = []models.Flight{}
	}
	return WriteJSON(path, flights)
}

// WriteJSON atomically writes v as an indented JSON document.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", path, err)
	}
	return writeAtomic(path, append(data, '\n'))
}

// LoadDB reads the record collection back. A document whose top-level
// shape is not an array is rejected outright.
func LoadDB(path string) ([]models.Flight, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read db: %w", err)
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("store: %s: expected JSON database to be a list of flights", path)
	}
	var flights []models.Flight
	if err := json.Unmarshal(trimmed, &flights); err != nil {
		return nil, fmt.Errorf("store: parse db %s: %w", path, err)
	}
	return flights, nil
}

// SaveErrors writes each rejection diagnostic as one line of text.
func SaveErrors(path string, errs []models.RowError) error {
	var buf bytes.Buffer
	for _, e := range errs {
		buf.WriteString(e.String())
		buf.WriteByte('\n')
	}
	return writeAtomic(path, buf.Bytes())
}

func writeAtomic(path string, content []byte) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("store: resolve path: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tarmac-tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("store: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("store: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	success = true
	return nil
}
