// Package publisher emits the order service's events.
package publisher

import (
	"context"

	"github.com/Chauhan48/event-driven-orders-microservice/internal/eventlog"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/models"
)

// OrderPublisher appends order lifecycle events to the orders topic.
type OrderPublisher struct {
	log eventlog.Log
}

func NewOrderPublisher(log eventlog.Log) *OrderPublisher {
	return &OrderPublisher{log: log}
}

// PublishOrderCreated announces a freshly accepted order and returns the
// event's stream ID.
func (p *OrderPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) (string, error) {
	event := models.OrderCreatedEvent{
		OrderID: order.OrderID,
		Items:   order.Items,
	}
	return p.log.Append(ctx, eventlog.TopicOrders, event.Fields())
}
