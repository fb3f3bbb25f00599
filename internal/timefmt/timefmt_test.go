package timefmt

import (
	"strings"
	"testing"
)

func TestParse_Canonical(t *testing.T) {
	got, err := Parse("2025-11-20 08:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Format(got) != "2025-11-20 08:00" {
		t.Errorf("re-render = %q, want input back", Format(got))
	}
}

func TestParse_TrimsWhitespace(t *testing.T) {
	got, err := Parse("  2025-11-20 08:00  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Format(got) != "2025-11-20 08:00" {
		t.Errorf("re-render = %q", Format(got))
	}
}

func TestParse_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"iso T separator", "2025-11-20T08:00"},
		{"seconds", "2025-11-20 08:00:00"},
		{"unpadded month", "2025-1-20 08:00"},
		{"unpadded hour", "2025-11-20 8:00"},
		{"trailing text", "2025-11-20 08:00 UTC"},
		{"date only", "2025-11-20"},
		{"month 13", "2025-13-01 08:00"},
		{"feb 30", "2025-02-30 08:00"},
		{"hour 24", "2025-11-20 24:00"},
		{"minute 60", "2025-11-20 08:60"},
		{"garbage", "not a datetime"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tc.input)
			}
			if !strings.Contains(err.Error(), "invalid datetime format (expected 'YYYY-MM-DD HH:MM')") {
				t.Errorf("error = %v, want format message", err)
			}
			if !strings.Contains(err.Error(), strings.TrimSpace(tc.input)) {
				t.Errorf("error %v should include the offending text", err)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	for _, input := range []string{"", "   "} {
		_, err := Parse(input)
		if err == nil {
			t.Fatalf("Parse(%q) should fail", input)
		}
		if err.Error() != "empty datetime" {
			t.Errorf("error = %q, want \"empty datetime\"", err.Error())
		}
	}
}
