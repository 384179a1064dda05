package ingest

import (
	"testing"
	"time"

	"github.com/quantpulse/polygon-data/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestWindowPolicyNext(t *testing.T) {
	start := "2024-01-01"
	migration := "2024-06-01"

	tests := []struct {
		name           string
		last           string // "" = never fetched
		wantFrom       string
		wantTo         string
		wantTimespan   string
		wantMultiplier int
	}{
		{
			name:           "never fetched starts at epoch",
			last:           "",
			wantFrom:       "2024-01-01",
			wantTo:         "2024-06-01",
			wantTimespan:   "minute",
			wantMultiplier: 10,
		},
		{
			name:           "before boundary extends to boundary",
			last:           "2024-03-15",
			wantFrom:       "2024-03-15",
			wantTo:         "2024-06-01",
			wantTimespan:   "minute",
			wantMultiplier: 10,
		},
		{
			name:           "at boundary advances one day",
			last:           "2024-06-01",
			wantFrom:       "2024-06-02",
			wantTo:         "2024-06-02",
			wantTimespan:   "day",
			wantMultiplier: 1,
		},
		{
			name:           "past boundary advances one day",
			last:           "2024-07-10",
			wantFrom:       "2024-07-11",
			wantTo:         "2024-07-11",
			wantTimespan:   "day",
			wantMultiplier: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := WindowPolicy{
				StartDate:     date(t, start),
				MigrationDate: date(t, migration),
			}

			var last *time.Time
			if tt.last != "" {
				d := date(t, tt.last)
				last = &d
			}

			w := p.Next(last)
			if got := model.FormatDate(w.From); got != tt.wantFrom {
				t.Errorf("From = %s, want %s", got, tt.wantFrom)
			}
			if got := model.FormatDate(w.To); got != tt.wantTo {
				t.Errorf("To = %s, want %s", got, tt.wantTo)
			}
			if w.Timespan != tt.wantTimespan {
				t.Errorf("Timespan = %s, want %s", w.Timespan, tt.wantTimespan)
			}
			if w.Multiplier != tt.wantMultiplier {
				t.Errorf("Multiplier = %d, want %d", w.Multiplier, tt.wantMultiplier)
			}
		})
	}
}

func TestWindowPolicyStartAtBoundary(t *testing.T) {
	// When the epoch and the boundary coincide there is no fine-grained
	// historical range: a fresh entity goes straight to daily windows.
	p := WindowPolicy{
		StartDate:     date(t, "2024-06-01"),
		MigrationDate: date(t, "2024-06-01"),
	}

	w := p.Next(nil)
	if got := model.FormatDate(w.From); got != "2024-06-02" {
		t.Errorf("From = %s, want 2024-06-02", got)
	}
	if got := model.FormatDate(w.To); got != "2024-06-02" {
		t.Errorf("To = %s, want 2024-06-02", got)
	}
	if w.Timespan != "day" || w.Multiplier != 1 {
		t.Errorf("granularity = %d/%s, want 1/day", w.Multiplier, w.Timespan)
	}
}
