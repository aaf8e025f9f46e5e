// Package events carries order change notifications from the services to
// whoever is listening: the kitchen board websocket, the message broker and
// the revenue cache.
package events

import (
	"context"
	"time"

	"orderdesk/entity"
)

type Type string

const (
	OrderCreated Type = "created"
	OrderUpdated Type = "updated"
	OrderDeleted Type = "deleted"
)

type OrderEvent struct {
	Type    Type          `json:"type"`
	OrderID uint          `json:"orderId"`
	Order   *entity.Order `json:"order,omitempty"` // nil for deletes
	At      time.Time     `json:"at"`
}

func New(t Type, orderID uint, o *entity.Order) OrderEvent {
	return OrderEvent{Type: t, OrderID: orderID, Order: o, At: time.Now().UTC()}
}

// Publisher receives events after the change is committed. Implementations
// must not block for long; failures are theirs to log.
type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent)
}

type PublisherFunc func(ctx context.Context, ev OrderEvent)

func (f PublisherFunc) Publish(ctx context.Context, ev OrderEvent) { f(ctx, ev) }

// Fanout delivers each event to every publisher in order.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev OrderEvent) {
	for _, p := range f {
		if p != nil {
			p.Publish(ctx, ev)
		}
	}
}

// Nop drops events.
var Nop Publisher = PublisherFunc(func(context.Context, OrderEvent) {})
