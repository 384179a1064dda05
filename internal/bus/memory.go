package bus

import (
	"context"
	"sync"
)

// MemoryBus is an in-process bus for tests and local runs.
type MemoryBus struct {
	mu   sync.Mutex
	subs []chan Event

	// Published records every event accepted by Publish, in order.
	published []Event
}

// NewMemoryBus creates an empty in-memory bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

// Publish delivers the event to all active listeners and records it.
func (b *MemoryBus) Publish(_ context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, ev)
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default: // slow listener, drop — pub/sub has no delivery guarantee
		}
	}
	return nil
}

// Published returns a copy of every event published so far.
func (b *MemoryBus) Published() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.published))
	copy(out, b.published)
	return out
}

// Listen consumes events until the context is cancelled.
func (b *MemoryBus) Listen(ctx context.Context, h Handler) error {
	ch := make(chan Event, 16)

	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		for i, c := range b.subs {
			if c == ch {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-ch:
			h(ctx, ev)
		}
	}
}
