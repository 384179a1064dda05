package bus

import "context"

// Event is the completion message published when an export artifact is
// ready for downstream consumption.
type Event struct {
	FileName string `json:"file_name"`
	Ticker   string `json:"ticker"`
}

// Publisher emits completion events. Publish returns once the publish
// attempt is acknowledged by the transport; it says nothing about whether
// any consumer processed the event (at-most-once, no retry).
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Handler processes one received event.
type Handler func(ctx context.Context, ev Event)

// Subscriber consumes completion events. Listen blocks, invoking the
// handler per event, until the context is cancelled.
type Subscriber interface {
	Listen(ctx context.Context, h Handler) error
}
