// Package bus carries completion events from the export path to the
// downstream prediction worker.
//
// Delivery is fire-and-forget over Redis pub/sub: a successful Publish
// acknowledges the publish attempt only, and the listen loop stops when
// its context is cancelled.
package bus
