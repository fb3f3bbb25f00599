package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/tarmac/internal/models"
)

func sampleFlights() []models.Flight {
	return []models.Flight{
		{
			FlightID:    "AA100",
			Origin:      "JFK",
			Destination: "LAX",
			Departure:   "2025-11-20 08:00",
			Arrival:     "2025-11-20 11:00",
			Price:       199.99,
			Extra:       map[string]string{"airline": "Delta"},
		},
		{
			FlightID:    "UA200",
			Origin:      "SFO",
			Destination: "ORD",
			Departure:   "2025-11-21 09:30",
			Arrival:     "2025-11-21 15:45",
			Price:       249,
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	if err := SaveDB(path, sampleFlights()); err != nil {
		t.Fatalf("SaveDB: %v", err)
	}
	got, err := LoadDB(path)
	if err != nil {
		t.Fatalf("LoadDB: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d flights, want 2", len(got))
	}
	if got[0].FlightID != "AA100" || got[0].Extra["airline"] != "Delta" {
		t.Errorf("first flight = %+v", got[0])
	}
	if got[1].Price != 249 {
		t.Errorf("second price = %v", got[1].Price)
	}
}

func TestSaveDB_EmptyIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if err := SaveDB(path, nil); err != nil {
		t.Fatalf("SaveDB: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty db = %q, want []", data)
	}
}

func TestLoadDB_RejectsNonArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(path, []byte(`{"flights": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadDB(path)
	if err == nil {
		t.Fatal("object-shaped db should be rejected")
	}
	if !strings.Contains(err.Error(), "expected JSON database to be a list of flights") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadDB_MissingFile(t *testing.T) {
	_, err := LoadDB(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveErrors_OneLineEach(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.txt")
	row := models.NewRawRow([]string{"flight_id"}, []string{"X"})
	errs := []models.RowError{
		{File: "a.csv", Line: 2, Reason: "flight_id must be 2-8 alphanumeric characters", Row: row},
		{File: "b.csv", Reason: "file not found: b.csv"},
	}

	if err := SaveErrors(path, errs); err != nil {
		t.Fatalf("SaveErrors: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %v", lines)
	}
	if !strings.HasPrefix(lines[0], "a.csv:2: ") {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[1] != "file not found: b.csv" {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestWriteAtomic_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "db.json")
	if err := SaveDB(path, sampleFlights()); err != nil {
		t.Fatalf("SaveDB: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("db not written: %v", err)
	}
}
