// Package coverage tracks per-ticker backfill progress on top of the
// state store: which date each ticker has been backfilled through, and
// which tickers are known to have no data upstream.
package coverage
