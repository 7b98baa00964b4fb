package consumer

import (
	"context"

	"go.uber.org/zap"

	"github.com/Chauhan48/event-driven-orders-microservice/internal/eventlog"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/models"
)

// NotificationSender delivers the customer-facing notification for a
// finished order. The RabbitMQ publisher in internal/messaging is the
// production implementation.
type NotificationSender interface {
	Send(ctx context.Context, orderID string, succeeded bool) error
}

// NotificationConsumer reacts to payment outcomes: it notifies the
// customer and appends the order's terminal status. Notification delivery
// is best-effort; a send failure never blocks the status update.
type NotificationConsumer struct {
	log    eventlog.Log
	sender NotificationSender
	logger *zap.Logger
}

// NewNotificationConsumer accepts a nil sender, in which case the
// notification is log-only.
func NewNotificationConsumer(log eventlog.Log, sender NotificationSender, logger *zap.Logger) *NotificationConsumer {
	return &NotificationConsumer{log: log, sender: sender, logger: logger}
}

// Handle processes one payments-topic event.
func (c *NotificationConsumer) Handle(ctx context.Context, ev eventlog.Event) error {
	event, err := models.DecodePaymentEvent(ev.Fields)
	if err != nil {
		c.logger.Debug("skipping event", zap.String("eventId", ev.ID))
		return nil
	}

	succeeded := event.Type == models.EventPaymentCompleted
	status := models.StatusFailed
	if succeeded {
		status = models.StatusCompleted
		c.logger.Info("sending order confirmation", zap.String("orderId", event.OrderID))
	} else {
		c.logger.Warn("sending payment failure notice", zap.String("orderId", event.OrderID))
	}

	if c.sender != nil {
		if err := c.sender.Send(ctx, event.OrderID, succeeded); err != nil {
			c.logger.Error("notification delivery failed",
				zap.String("orderId", event.OrderID),
				zap.Error(err))
		}
	}

	update := models.StatusUpdateEvent{OrderID: event.OrderID, Status: status}.Fields()
	_, err = c.log.Append(ctx, eventlog.TopicOrderUpdates, update)
	return err
}
