// Package store implements PostgreSQL persistence for tickers and
// aggregation buckets.
//
// Writes are idempotent: inserts that hit a uniqueness constraint are
// classified as conflicts, not failures, so re-ingesting the same data is
// always safe. Lookups report missing rows as ErrNotFound rather than an
// empty result.
package store
