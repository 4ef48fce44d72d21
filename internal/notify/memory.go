package notify

import (
	"context"
	"log/slog"
	"sync"
)

const hubBuffer = 64

// Hub fans events out to subscribers in the same process. It backs
// single-instance deployments that run without a broker.
type Hub struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Publish never blocks: a subscriber whose buffer is full misses the event
// and catches up on its next poll.
func (h *Hub) Publish(ctx context.Context, event Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		select {
		case ch <- event:
		default:
			slog.WarnContext(ctx, "dropping change event for slow subscriber", "subscriber", id, "type", event.Type)
		}
	}
	return nil
}

func (h *Hub) Close() error {
	return nil
}

func (h *Hub) Subscriber() Subscriber {
	return &hubSubscriber{hub: h}
}

func (h *Hub) register() (int, chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan Event, hubBuffer)
	h.subs[id] = ch
	return id, ch
}

func (h *Hub) unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

type hubSubscriber struct {
	hub *Hub
}

func (s *hubSubscriber) Subscribe(ctx context.Context, handler Handler) error {
	id, ch := s.hub.register()
	defer s.hub.unregister(id)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-ch:
			if err := handler(ctx, event); err != nil {
				slog.ErrorContext(ctx, "change event handler failed", "type", event.Type, "order_id", event.OrderID, "error", err)
			}
		}
	}
}

func (s *hubSubscriber) Close() error {
	return nil
}
