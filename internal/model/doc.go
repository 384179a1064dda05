// Package model defines the domain types shared across ingestd.
//
// Two families of types exist:
//   - Reference data: Ticker
//   - Time-series data: Aggregation
//
// WorkUnit is the transient description of one backfill step.
package model
