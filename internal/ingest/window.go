package ingest

import "time"

// Bucket granularities. Historical windows before the migration boundary
// are fetched at ten-minute resolution; later windows advance one day at
// a time at daily resolution.
const (
	fineTimespan   = "minute"
	fineMultiplier = 10

	coarseTimespan   = "day"
	coarseMultiplier = 1
)

// Window is a fetch request with inclusive date bounds [From, To] at the
// given bucket granularity.
type Window struct {
	From       time.Time
	To         time.Time
	Timespan   string
	Multiplier int
}

// WindowPolicy decides how far to extend an entity's coverage per cycle.
type WindowPolicy struct {
	// StartDate anchors entities that have no coverage yet.
	StartDate time.Time
	// MigrationDate splits the fine-grained historical range from the
	// day-by-day incremental range.
	MigrationDate time.Time
}

// Next computes the window following the given coverage date. A nil last
// means the entity has never been fetched and starts at StartDate.
func (p WindowPolicy) Next(last *time.Time) Window {
	from := p.StartDate
	if last != nil {
		from = *last
	}
	if from.Before(p.MigrationDate) {
		return Window{
			From:       from,
			To:         p.MigrationDate,
			Timespan:   fineTimespan,
			Multiplier: fineMultiplier,
		}
	}
	from = from.AddDate(0, 0, 1)
	return Window{
		From:       from,
		To:         from,
		Timespan:   coarseTimespan,
		Multiplier: coarseMultiplier,
	}
}
