package consumer

import (
	"context"

	"go.uber.org/zap"

	"github.com/Chauhan48/event-driven-orders-microservice/internal/eventlog"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/models"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/store"
)

// OrderUpdatesConsumer folds order_updates events into the order store.
// Status application is unconditional (no transition validation), and
// updates for orders this process never created are dropped silently.
type OrderUpdatesConsumer struct {
	store  *store.OrderStore
	logger *zap.Logger
}

func NewOrderUpdatesConsumer(store *store.OrderStore, logger *zap.Logger) *OrderUpdatesConsumer {
	return &OrderUpdatesConsumer{store: store, logger: logger}
}

// Handle processes one order_updates event.
func (c *OrderUpdatesConsumer) Handle(_ context.Context, ev eventlog.Event) error {
	event, err := models.DecodeStatusUpdate(ev.Fields)
	if err != nil {
		c.logger.Debug("skipping event", zap.String("eventId", ev.ID))
		return nil
	}

	if !c.store.ApplyStatus(event.OrderID, event.Status) {
		c.logger.Debug("update for unknown order dropped",
			zap.String("orderId", event.OrderID),
			zap.String("status", string(event.Status)))
		return nil
	}

	c.logger.Info("order status updated",
		zap.String("orderId", event.OrderID),
		zap.String("status", string(event.Status)))
	return nil
}
