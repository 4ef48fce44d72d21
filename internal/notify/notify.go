// Package notify carries order change events between storefront instances.
// Delivery is at-least-once and events carry no state: consumers treat every
// event as a cue to re-pull from the store.
package notify

import (
	"context"
	"time"
)

type EventType string

const (
	EventOrderPlaced  EventType = "order.placed"
	EventOrderUpdated EventType = "order.updated"
	EventOrderDeleted EventType = "order.deleted"
)

const (
	TableOrders     = "orders"
	TableOrderItems = "order_items"
)

type Event struct {
	Type       EventType `json:"type"`
	Table      string    `json:"table"`
	OrderID    int64     `json:"order_id"`
	SessionID  string    `json:"session_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Handler func(ctx context.Context, event Event) error

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Subscriber delivers events to handler until ctx is done. Handler errors
// are logged and do not stop the subscription.
type Subscriber interface {
	Subscribe(ctx context.Context, handler Handler) error
	Close() error
}
