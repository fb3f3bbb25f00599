package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/tarmac/internal/testutil"
)

const sampleCSV = `flight_id,origin,destination,departure_datetime,arrival_datetime,price
AA100,JFK,LAX,2025-11-20 08:00,2025-11-20 11:00,199.99
BB200,,SFO,2025-11-21 09:00,2025-11-21 12:00,149.50
CC300,SEA,DEN,2025-11-22 15:00,2025-11-22 14:00,99.00
`

func TestFile_MixedRows(t *testing.T) {
	path := testutil.TempCSV(t, "flights.csv", sampleCSV)

	flights, rowErrs, err := File(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(flights) != 1 {
		t.Fatalf("valid flights = %d, want 1", len(flights))
	}
	if flights[0].FlightID != "AA100" {
		t.Errorf("flight_id = %q", flights[0].FlightID)
	}

	if len(rowErrs) != 2 {
		t.Fatalf("errors = %d, want 2", len(rowErrs))
	}
	if rowErrs[0].Line != 3 || !strings.Contains(rowErrs[0].Reason, "missing required field 'origin'") {
		t.Errorf("first error = %+v", rowErrs[0])
	}
	if rowErrs[1].Line != 4 || rowErrs[1].Reason != "arrival_datetime must be after departure_datetime" {
		t.Errorf("second error = %+v", rowErrs[1])
	}
}

func TestFile_ExtraColumnsSurvive(t *testing.T) {
	path := testutil.TempCSV(t, "flights.csv",
		"flight_id,origin,destination,departure_datetime,arrival_datetime,price,airline\n"+
			"AA100,JFK,LAX,2025-11-20 08:00,2025-11-20 11:00,199.99,Delta\n")

	flights, rowErrs, err := File(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("errors = %v", rowErrs)
	}
	if flights[0].Extra["airline"] != "Delta" {
		t.Errorf("airline = %q", flights[0].Extra["airline"])
	}
}

func TestFile_EmptyFile(t *testing.T) {
	path := testutil.TempCSV(t, "empty.csv", "")
	flights, rowErrs, err := File(path)
	if err != nil || len(flights) != 0 || len(rowErrs) != 0 {
		t.Errorf("empty file: %v %v %v", flights, rowErrs, err)
	}
}

func TestFiles_UnreadableSourceContinues(t *testing.T) {
	good := testutil.TempCSV(t, "good.csv", sampleCSV)
	missing := filepath.Join(t.TempDir(), "missing.csv")

	flights, rowErrs := Files([]string{missing, good})
	if len(flights) != 1 {
		t.Fatalf("flights = %d, want 1 from the readable source", len(flights))
	}
	if len(rowErrs) != 3 {
		t.Fatalf("errors = %d, want synthetic + 2 row errors", len(rowErrs))
	}
	if rowErrs[0].String() != "file not found: "+missing {
		t.Errorf("synthetic error = %q", rowErrs[0].String())
	}
	// Remaining errors keep source-then-line order.
	if rowErrs[1].File != good || rowErrs[1].Line != 3 {
		t.Errorf("second error = %+v", rowErrs[1])
	}
}

func TestDiscoverDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.CSV", "notes.txt", "c.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	paths, err := DiscoverDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v", paths)
	}
	want := []string{"a.CSV", "b.csv", "c.csv"}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, p, want[i])
		}
	}
}

func TestDiscoverDir_NotADirectory(t *testing.T) {
	file := testutil.TempCSV(t, "f.csv", "x")
	if _, err := DiscoverDir(file); err == nil {
		t.Error("expected error for non-directory")
	}
}

func TestShow_DumpsNonBlankLines(t *testing.T) {
	path := testutil.TempCSV(t, "flights.csv", "header\n\nrow1\n")
	var out, errOut strings.Builder
	Show(&out, &errOut, []string{path})

	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr: %q", errOut.String())
	}
	got := out.String()
	if !strings.Contains(got, path+": Line 1: header") || !strings.Contains(got, path+": Line 3: row1") {
		t.Errorf("show output = %q", got)
	}
	if strings.Contains(got, "Line 2") {
		t.Error("blank lines should be skipped")
	}
}
