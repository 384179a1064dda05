package state

import (
	"context"
	"time"
)

// Well-known keys. The schema is shared with any other process pointed at
// the same store, so the literal names are part of the external contract.
const (
	// KeyNextTickersURL holds the continuation cursor for reference-data
	// pagination (an absolute next_url).
	KeyNextTickersURL = "next_tickers_url"

	// KeyLastTickersURL is a presence flag marking discovery as exhausted.
	// It carries a TTL so discovery re-opens for newly listed tickers.
	KeyLastTickersURL = "last_tickers_url"

	// KeyComputedAggregations holds a JSON object mapping ticker symbol to
	// the last successfully backfilled to_date (YYYY-MM-DD).
	KeyComputedAggregations = "computed_aggregations"

	// KeyTickersWithoutAggs is a list of symbols confirmed to have no
	// aggregate data upstream.
	KeyTickersWithoutAggs = "ticker_without_aggs"
)

// Store is durable key/value + list storage for cursors and coverage state.
//
// Get reports a missing key as ok == false with a nil error; storage
// failures are errors. All writes are atomic per key, nothing more — the
// read-modify-write sequences built on top are not transactional.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// PushList appends an element to a list-valued key.
	PushList(ctx context.Context, key, element string) error
	// ListRange returns all elements of a list-valued key; a missing key
	// is an empty list.
	ListRange(ctx context.Context, key string) ([]string, error)
}
