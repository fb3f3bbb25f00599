// Package testutil provides shared test helpers for building schedule
// fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/tarmac/internal/models"
)

// TempCSV writes content to a fresh file under a temp dir and returns its path.
func TempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Row builds a RawRow from alternating name, value pairs.
func Row(t *testing.T, pairs ...string) models.RawRow {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatal("Row needs name, value pairs")
	}
	var header, record []string
	for i := 0; i < len(pairs); i += 2 {
		header = append(header, pairs[i])
		record = append(record, pairs[i+1])
	}
	return models.NewRawRow(header, record)
}

// ValidRow returns a row that passes every validation rule.
func ValidRow(t *testing.T) models.RawRow {
	t.Helper()
	return Row(t,
		"flight_id", "AA100",
		"origin", "JFK",
		"destination", "LAX",
		"departure_datetime", "2025-11-20 08:00",
		"arrival_datetime", "2025-11-20 11:00",
		"price", "199.99",
	)
}
