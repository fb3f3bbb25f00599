// Package timefmt implements the strict schedule timestamp grammar shared
// by the validator and the query evaluator.
package timefmt

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layout is the only accepted lexical form: minute resolution, 24-hour
// clock, zero-padded, single space separator, no timezone.
const Layout = "2006-01-02 15:04"

// shapeRe pins the digit widths; time.Parse alone would accept unpadded
// components.
var shapeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`)

// Parse trims surrounding whitespace and parses s under the exact
// YYYY-MM-DD HH:MM grammar. ISO-8601 variants (T separator, seconds,
// zone offsets) are rejected.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}
	if !shapeRe.MatchString(s) {
		return time.Time{}, formatErr(s)
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		// Shape was right but the calendar value was not (month 13, Feb 30, hour 24).
		return time.Time{}, formatErr(s)
	}
	return t, nil
}

// Format renders t in the canonical layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

func formatErr(s string) error {
	return fmt.Errorf("invalid datetime format (expected 'YYYY-MM-DD HH:MM'): %s", s)
}
