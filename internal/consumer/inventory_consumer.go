package consumer

import (
	"context"

	"go.uber.org/zap"

	"github.com/Chauhan48/event-driven-orders-microservice/internal/eventlog"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/models"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/store"
)

// InventoryConsumer reserves stock for created orders. The check and
// decrement are atomic inside the ledger, and handling is single-threaded
// per the orders topic's loop, so stock never goes negative.
type InventoryConsumer struct {
	ledger *store.Ledger
	log    eventlog.Log
	logger *zap.Logger
}

func NewInventoryConsumer(ledger *store.Ledger, log eventlog.Log, logger *zap.Logger) *InventoryConsumer {
	return &InventoryConsumer{ledger: ledger, log: log, logger: logger}
}

// Handle processes one orders-topic event. The ledger is mutated before
// the outcome events are appended, so a downstream consumer always
// observes the post-reservation state.
func (c *InventoryConsumer) Handle(ctx context.Context, ev eventlog.Event) error {
	event, err := models.DecodeOrderCreated(ev.Fields)
	if err != nil {
		c.logger.Debug("skipping event", zap.String("eventId", ev.ID))
		return nil
	}

	c.logger.Info("processing order",
		zap.String("orderId", event.OrderID),
		zap.Strings("items", event.Items))

	outcome := models.EventInventoryFailed
	status := models.StatusInventoryFailed
	if c.ledger.Reserve(event.Items) {
		outcome = models.EventInventoryReserved
		status = models.StatusInventoryReserved
		c.logger.Info("inventory reserved",
			zap.String("orderId", event.OrderID),
			zap.Any("stock", c.ledger.Snapshot()))
	} else {
		c.logger.Warn("inventory reservation failed",
			zap.String("orderId", event.OrderID))
	}

	fields := models.InventoryEvent{Type: outcome, OrderID: event.OrderID}.Fields()
	if _, err := c.log.Append(ctx, eventlog.TopicInventory, fields); err != nil {
		return err
	}

	update := models.StatusUpdateEvent{OrderID: event.OrderID, Status: status}.Fields()
	_, err = c.log.Append(ctx, eventlog.TopicOrderUpdates, update)
	return err
}
