// Package state provides the durable key/value + list store backing the
// discovery cursor and backfill coverage bookkeeping.
//
// The production implementation is Redis; an in-memory implementation
// backs tests. Components never hold process-wide store state — they take
// a Store and operate on the documented keys.
package state
