// Package export renders stored aggregation buckets into CSV artifacts
// consumed by the downstream prediction worker. Each export writes one
// file per ticker and date range, newest bucket first, and announces the
// finished artifact on the bus.
package export
