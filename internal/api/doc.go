// Package api implements the Polygon REST client.
//
// Two endpoints are wrapped:
//   - /v3/reference/tickers — cursor-paginated reference data; pages are
//     fetched by absolute URL because pagination echoes a next_url.
//   - /v2/aggs/ticker/... — aggregate bars for one symbol and date window.
//
// Requests carry a bearer token and retry with exponential backoff on
// 5xx/429 responses.
package api
