package core

import "testing"

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2025 || int(d.Month()) != 3 || d.Day() != 9 {
		t.Fatalf("got %s", d)
	}

	for _, bad := range []string{"", "2025-13-01", "09/03/2025", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("ParseDate(%q) expected error", bad)
		}
	}
}

func TestDateEqualIsDayGranular(t *testing.T) {
	a := NewDate(2025, 3, 9)
	b := NewDate(2025, 3, 9)
	if !a.Equal(b) {
		t.Fatal("same day should compare equal")
	}
	if a.Equal(NewDate(2025, 3, 10)) {
		t.Fatal("different days should not compare equal")
	}
}

func TestDateString(t *testing.T) {
	if got := NewDate(2025, 1, 2).String(); got != "2025-01-02" {
		t.Fatalf("got %q", got)
	}
}
