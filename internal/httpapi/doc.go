// Package httpapi exposes the service over HTTP: CRUD on reference
// tickers, aggregation range queries with inclusive date bounds, and CSV
// export of a ticker's buckets.
package httpapi
