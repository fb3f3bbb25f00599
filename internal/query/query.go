// Package query evaluates declarative filter requests against an in-memory
// flight record set.
//
// A request combines case-insensitive equality filters with at most one of
// each datetime-range clause; every present clause must hold (logical AND).
// Range clauses key on the stored departure_datetime / arrival_datetime
// fields and are inclusive at both bounds.
package query

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/starford/tarmac/internal/models"
	"github.com/starford/tarmac/internal/timefmt"
)

// Spec is one declarative filter request.
type Spec struct {
	Name             string         `json:"name,omitempty"`
	Filter           map[string]any `json:"filter,omitempty"`
	DepartureBetween []string       `json:"departure_between,omitempty"`
	ArrivalBefore    *string        `json:"arrival_before,omitempty"`
	ArrivalAfter     *string        `json:"arrival_after,omitempty"`
}

// Result is the named, counted match set for one Spec.
type Result struct {
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Results []models.Flight `json:"results"`
}

// Batch is the ordered result envelope for one query run.
type Batch struct {
	Queries []Result `json:"queries"`
}

// Evaluate applies spec to the full record set and returns the matches in
// original record order. A malformed range bound, or a stored record whose
// datetime no longer parses, is a fatal error for the run, not a skip.
func Evaluate(flights []models.Flight, spec Spec) (Result, error) {
	res := flights

	for field, want := range spec.Filter {
		expected := strings.ToLower(stringify(want))
		var kept []models.Flight
		for _, f := range res {
			if strings.ToLower(f.Field(field)) == expected {
				kept = append(kept, f)
			}
		}
		res = kept
	}

	if spec.DepartureBetween != nil {
		if len(spec.DepartureBetween) != 2 {
			return Result{}, fmt.Errorf("departure_between must be a [start, end] pair")
		}
		start, err := timefmt.Parse(spec.DepartureBetween[0])
		if err != nil {
			return Result{}, fmt.Errorf("departure_between: %v", err)
		}
		end, err := timefmt.Parse(spec.DepartureBetween[1])
		if err != nil {
			return Result{}, fmt.Errorf("departure_between: %v", err)
		}
		var kept []models.Flight
		for _, f := range res {
			dep, err := timefmt.Parse(f.Departure)
			if err != nil {
				return Result{}, fmt.Errorf("record %s: %s: %v", f.FlightID, models.FieldDeparture, err)
			}
			if !dep.Before(start) && !dep.After(end) {
				kept = append(kept, f)
			}
		}
		res = kept
	}

	if spec.ArrivalBefore != nil {
		end, err := timefmt.Parse(*spec.ArrivalBefore)
		if err != nil {
			return Result{}, fmt.Errorf("arrival_before: %v", err)
		}
		var kept []models.Flight
		for _, f := range res {
			arr, err := timefmt.Parse(f.Arrival)
			if err != nil {
				return Result{}, fmt.Errorf("record %s: %s: %v", f.FlightID, models.FieldArrival, err)
			}
			if !arr.After(end) {
				kept = append(kept, f)
			}
		}
		res = kept
	}

	if spec.ArrivalAfter != nil {
		start, err := timefmt.Parse(*spec.ArrivalAfter)
		if err != nil {
			return Result{}, fmt.Errorf("arrival_after: %v", err)
		}
		var kept []models.Flight
		for _, f := range res {
			arr, err := timefmt.Parse(f.Arrival)
			if err != nil {
				return Result{}, fmt.Errorf("record %s: %s: %v", f.FlightID, models.FieldArrival, err)
			}
			if !arr.Before(start) {
				kept = append(kept, f)
			}
		}
		res = kept
	}

	if res == nil {
		res = []models.Flight{}
	}
	return Result{Name: spec.Name, Count: len(res), Results: res}, nil
}

// Run evaluates every spec in input order. Names default to q1, q2, ...
// by position. The first failing query aborts the whole batch.
func Run(flights []models.Flight, specs []Spec) (Batch, error) {
	batch := Batch{Queries: make([]Result, 0, len(specs))}
	for i, spec := range specs {
		if spec.Name == "" {
			spec.Name = fmt.Sprintf("q%d", i+1)
		}
		r, err := Evaluate(flights, spec)
		if err != nil {
			return Batch{}, fmt.Errorf("query %q: %w", spec.Name, err)
		}
		batch.Queries = append(batch.Queries, r)
	}
	return batch, nil
}

// LoadSpecs reads a query document: a JSON array of query objects.
func LoadSpecs(path string) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("query: read %s: %w", path, err)
	}
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	if trimmed == "" || trimmed[0] != '[' {
		return nil, fmt.Errorf("query: %s: queries JSON must be a list of query objects", path)
	}
	var specs []Spec
	if err := json.Unmarshal([]byte(trimmed), &specs); err != nil {
		return nil, fmt.Errorf("query: parse %s: %w", path, err)
	}
	return specs, nil
}

// stringify renders a JSON filter value the way it would compare as text.
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
