package events

import (
	"context"
	"sync"
)

// Handler consumes one event. Handlers must tolerate redundant deliveries:
// the bus makes no deduplication guarantees.
type Handler func(ctx context.Context, ev Event)

// Bus is a synchronous in-process publish/subscribe hub. Subscriptions are
// wired at startup; Publish dispatches inline so a mutation's invalidation
// runs before the call returns.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]Handler)}
}

// Subscribe registers h for every event of the given type.
func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventType] = append(b.subs[eventType], h)
}

// Publish dispatches ev to all subscribers of its type.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	handlers := b.subs[ev.Type]
	b.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, ev)
	}
}
