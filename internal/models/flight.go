// Package models defines the domain types for tarmac.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Canonical schedule column names.
const (
	FieldFlightID    = "flight_id"
	FieldOrigin      = "origin"
	FieldDestination = "destination"
	FieldDeparture   = "departure_datetime"
	FieldArrival     = "arrival_datetime"
	FieldPrice       = "price"
)

// RequiredFields lists the canonical columns every schedule row must carry,
// in the order presence failures are reported.
var RequiredFields = []string{
	FieldFlightID,
	FieldOrigin,
	FieldDestination,
	FieldDeparture,
	FieldArrival,
	FieldPrice,
}

// Flight is one validated, canonical schedule record. The datetime fields
// hold the canonical "YYYY-MM-DD HH:MM" rendering. Extra carries any
// additional non-empty source columns keyed by their original header name.
// A Flight is never mutated after validation.
type Flight struct {
	FlightID    string
	Origin      string
	Destination string
	Departure   string
	Arrival     string
	Price       float64
	Extra       map[string]string
}

// Field returns the text form of a named field for filter comparison.
// The empty string stands in for a missing field.
func (f *Flight) Field(name string) string {
	switch name {
	case FieldFlightID:
		return f.FlightID
	case FieldOrigin:
		return f.Origin
	case FieldDestination:
		return f.Destination
	case FieldDeparture:
		return f.Departure
	case FieldArrival:
		return f.Arrival
	case FieldPrice:
		return strconv.FormatFloat(f.Price, 'f', -1, 64)
	}
	return f.Extra[name]
}

// MarshalJSON flattens the record into a single JSON object: the six
// canonical fields in schema order, then extra fields sorted by name.
func (f Flight) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(name string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	for _, pair := range []struct {
		name  string
		value any
	}{
		{FieldFlightID, f.FlightID},
		{FieldOrigin, f.Origin},
		{FieldDestination, f.Destination},
		{FieldDeparture, f.Departure},
		{FieldArrival, f.Arrival},
		{FieldPrice, f.Price},
	} {
		if err := writeField(pair.name, pair.value); err != nil {
			return nil, err
		}
	}

	extras := make([]string, 0, len(f.Extra))
	for k := range f.Extra {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	for _, k := range extras {
		if err := writeField(k, f.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a record from its flattened object form. Unknown
// keys land in Extra; non-string extra values keep their raw JSON text.
func (f *Flight) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	asString := func(name string) (string, error) {
		msg, ok := raw[name]
		if !ok {
			return "", nil
		}
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return "", fmt.Errorf("models: field %q: %w", name, err)
		}
		return s, nil
	}

	var err error
	if f.FlightID, err = asString(FieldFlightID); err != nil {
		return err
	}
	if f.Origin, err = asString(FieldOrigin); err != nil {
		return err
	}
	if f.Destination, err = asString(FieldDestination); err != nil {
		return err
	}
	if f.Departure, err = asString(FieldDeparture); err != nil {
		return err
	}
	if f.Arrival, err = asString(FieldArrival); err != nil {
		return err
	}
	if msg, ok := raw[FieldPrice]; ok {
		if err := json.Unmarshal(msg, &f.Price); err != nil {
			return fmt.Errorf("models: field %q: %w", FieldPrice, err)
		}
	}

	f.Extra = nil
	for k, msg := range raw {
		if IsCanonical(k) {
			continue
		}
		// Unmarshal treats null as a no-op for a string target, so the
		// null check has to come first or null extras turn into "".
		trimmed := bytes.TrimSpace(msg)
		if string(trimmed) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			// Keep the raw JSON text so loaded extras stay filterable.
			s = string(trimmed)
		}
		if f.Extra == nil {
			f.Extra = make(map[string]string)
		}
		f.Extra[k] = s
	}
	return nil
}

// IsCanonical reports whether name is one of the six schema fields.
func IsCanonical(name string) bool {
	for _, f := range RequiredFields {
		if name == f {
			return true
		}
	}
	return false
}

// RawRow is one unvalidated source row: a header-name→text view of a CSV
// line that preserves column order for diagnostics.
type RawRow struct {
	names  []string
	values map[string]string
}

// NewRawRow zips a header with one record. Cells beyond the header are
// ignored; missing trailing cells are simply absent from the row.
func NewRawRow(header, record []string) RawRow {
	r := RawRow{values: make(map[string]string, len(header))}
	for i, name := range header {
		if _, dup := r.values[name]; dup {
			continue
		}
		r.names = append(r.names, name)
		if i < len(record) {
			r.values[name] = record[i]
		}
	}
	return r
}

// Get returns the raw value for a field and whether the field was present.
func (r RawRow) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Fields returns the field names in source column order.
func (r RawRow) Fields() []string {
	return r.names
}

// String renders the row for diagnostics, in source column order.
func (r RawRow) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			b.WriteString(", ")
		}
		v, ok := r.values[name]
		if !ok {
			fmt.Fprintf(&b, "%s: <absent>", name)
			continue
		}
		fmt.Fprintf(&b, "%s: %q", name, v)
	}
	b.WriteByte('}')
	return b.String()
}

// RowError is a rejection diagnostic tied to a source location. Line 0
// marks a file-level failure whose Reason already names the source.
type RowError struct {
	File   string
	Line   int
	Reason string
	Row    RawRow
}

func (e RowError) String() string {
	if e.Line == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s:%d: %s -- %s", e.File, e.Line, e.Reason, e.Row)
}
