package model

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		d, err := ParseDate("2024-06-01")
		if err != nil {
			t.Fatalf("ParseDate: %v", err)
		}
		want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		if !d.Equal(want) {
			t.Errorf("ParseDate = %v, want %v", d, want)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		for _, s := range []string{"06/01/2024", "2024-6-1", "yesterday", ""} {
			_, err := ParseDate(s)
			if err == nil {
				t.Errorf("ParseDate(%q) = nil error, want ErrBadDate", s)
				continue
			}
			var badDate *ErrBadDate
			if !errors.As(err, &badDate) {
				t.Errorf("ParseDate(%q) error = %T, want *ErrBadDate", s, err)
			}
		}
	})
}

func TestFormatDateRoundTrip(t *testing.T) {
	d := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	got := FormatDate(d)
	if got != "2024-01-31" {
		t.Errorf("FormatDate = %q, want %q", got, "2024-01-31")
	}
	back, err := ParseDate(got)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}
