// Package ingest contains the two recurring cycles that keep the local
// dataset converging on upstream: discovery walks the paginated
// reference-tickers listing one page per cycle, and backfill extends one
// entity's aggregate coverage by one date window per cycle.
//
// Both cycles are designed to be safely re-run: transport failures abort
// a cycle before any durable state changes, and duplicate rows are
// absorbed by unique constraints and classified as conflicts rather than
// errors.
package ingest
