package consumer

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/Chauhan48/event-driven-orders-microservice/internal/eventlog"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/models"
)

// PaymentConsumer charges orders whose inventory was reserved. Approval
// is a stand-in business rule: a draw against successRate, independent of
// the order's contents. A failed payment does not restock inventory.
type PaymentConsumer struct {
	log         eventlog.Log
	successRate float64
	rng         *rand.Rand
	logger      *zap.Logger
}

func NewPaymentConsumer(log eventlog.Log, successRate float64, logger *zap.Logger) *PaymentConsumer {
	return &PaymentConsumer{
		log:         log,
		successRate: successRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      logger,
	}
}

// Handle processes one inventory-topic event. InventoryFailed events are
// ignored: a failed reservation never reaches payment.
func (c *PaymentConsumer) Handle(ctx context.Context, ev eventlog.Event) error {
	event, err := models.DecodeInventoryEvent(ev.Fields)
	if err != nil {
		c.logger.Debug("skipping event", zap.String("eventId", ev.ID))
		return nil
	}
	if event.Type != models.EventInventoryReserved {
		return nil
	}

	c.logger.Info("processing payment", zap.String("orderId", event.OrderID))

	outcome := models.EventPaymentFailed
	status := models.StatusPaymentFailed
	if c.rng.Float64() < c.successRate {
		outcome = models.EventPaymentCompleted
		status = models.StatusPaymentCompleted
		c.logger.Info("payment completed", zap.String("orderId", event.OrderID))
	} else {
		c.logger.Warn("payment failed", zap.String("orderId", event.OrderID))
	}

	fields := models.PaymentEvent{Type: outcome, OrderID: event.OrderID}.Fields()
	if _, err := c.log.Append(ctx, eventlog.TopicPayments, fields); err != nil {
		return err
	}

	update := models.StatusUpdateEvent{OrderID: event.OrderID, Status: status}.Fields()
	_, err = c.log.Append(ctx, eventlog.TopicOrderUpdates, update)
	return err
}
