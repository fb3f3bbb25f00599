// Package ingest reads delimited schedule files and feeds each row through
// the record validator, accumulating accepted flights and rejection
// diagnostics in source order.
package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/tarmac/internal/models"
	"github.com/starford/tarmac/internal/validate"
)

// Files parses every path in order. A row that fails validation becomes one
// RowError and processing continues with the next row; a source that cannot
// be read becomes one file-level RowError and processing continues with the
// next source. Flights and errors keep source-then-line order.
func Files(paths []string) ([]models.Flight, []models.RowError) {
	var flights []models.Flight
	var rowErrs []models.RowError

	for _, p := range paths {
		fl, errs, err := File(p)
		if err != nil {
			reason := fmt.Sprintf("%s: error reading file: %v", p, err)
			if errors.Is(err, os.ErrNotExist) {
				reason = fmt.Sprintf("file not found: %s", p)
			}
			rowErrs = append(rowErrs, models.RowError{File: p, Reason: reason})
			continue
		}
		flights = append(flights, fl...)
		rowErrs = append(rowErrs, errs...)
	}
	return flights, rowErrs
}

// File parses a single CSV file whose first line is a header naming the
// columns. Data rows are numbered from 2 to match the source line they
// came from.
func File(path string) ([]models.Flight, []models.RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // short and long rows are the validator's problem
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var flights []models.Flight
	var rowErrs []models.RowError

	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		row := models.NewRawRow(header, record)
		flight, verr := validate.Record(row)
		if verr != nil {
			rowErrs = append(rowErrs, models.RowError{
				File:   path,
				Line:   line,
				Reason: verr.Error(),
				Row:    row,
			})
			continue
		}
		flights = append(flights, *flight)
	}
	return flights, rowErrs, nil
}

// DiscoverDir returns the .csv files (case-insensitive suffix) directly
// under dir, sorted by name.
func DiscoverDir(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("ingest: stat dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ingest: not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ingest: read dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Show dumps the raw non-blank lines of each source to w, prefixed with
// file and line number. Read failures go to errw and do not stop the dump.
func Show(w, errw io.Writer, paths []string) {
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			fmt.Fprintf(errw, "Error reading %s for --show: %v\n", p, err)
			continue
		}
		sc := bufio.NewScanner(f)
		for i := 1; sc.Scan(); i++ {
			line := sc.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			fmt.Fprintf(w, "%s: Line %d: %s\n", p, i, line)
		}
		if err := sc.Err(); err != nil {
			fmt.Fprintf(errw, "Error reading %s for --show: %v\n", p, err)
		}
		f.Close()
	}
}
