package ingest

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/quantpulse/polygon-data/internal/store"
)

// RowFailure records one row that could not be persisted.
type RowFailure struct {
	Key    string
	Detail string
}

// CycleReport accumulates per-row outcomes for one cycle. Conflicts are
// expected under at-least-once delivery and reported separately from
// failures.
type CycleReport struct {
	ID        uuid.UUID
	Kind      string
	Succeeded []string
	Conflicts []string
	Failures  []RowFailure
}

func newCycleReport(kind string) *CycleReport {
	return &CycleReport{ID: uuid.New(), Kind: kind}
}

// Record classifies one row outcome into the report.
func (r *CycleReport) Record(key string, o store.Outcome) {
	switch o.Status {
	case store.StatusSuccess:
		r.Succeeded = append(r.Succeeded, key)
	case store.StatusConflict:
		r.Conflicts = append(r.Conflicts, key)
	default:
		detail := "persistence failure"
		if o.Err != nil {
			detail = o.Err.Error()
		}
		r.Failures = append(r.Failures, RowFailure{Key: key, Detail: detail})
	}
}

// Log emits a one-line summary plus one line per failed row.
func (r *CycleReport) Log(logger *slog.Logger) {
	logger.Info("cycle report",
		"cycle", r.Kind,
		"cycle_id", r.ID,
		"succeeded", len(r.Succeeded),
		"conflicts", len(r.Conflicts),
		"failures", len(r.Failures),
	)
	for _, f := range r.Failures {
		logger.Warn("row not persisted",
			"cycle", r.Kind,
			"cycle_id", r.ID,
			"key", f.Key,
			"detail", f.Detail,
		)
	}
}
