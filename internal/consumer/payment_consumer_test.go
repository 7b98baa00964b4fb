package consumer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Chauhan48/event-driven-orders-microservice/internal/eventlog"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/models"
)

func inventoryEvent(eventType, orderID string) eventlog.Event {
	return eventlog.Event{
		ID:     "1-0",
		Fields: models.InventoryEvent{Type: eventType, OrderID: orderID}.Fields(),
	}
}

func TestPaymentAlwaysSucceedsAtRateOne(t *testing.T) {
	log := eventlog.NewMemoryLog()
	c := NewPaymentConsumer(log, 1.0, zap.NewNop())

	require.NoError(t, c.Handle(context.Background(), inventoryEvent(models.EventInventoryReserved, "o1")))

	payments := readAll(t, log, eventlog.TopicPayments)
	require.Len(t, payments, 1)
	require.Equal(t, models.EventPaymentCompleted, payments[0].Fields["type"])
	require.Equal(t, "o1", payments[0].Fields["orderId"])

	updates := readAll(t, log, eventlog.TopicOrderUpdates)
	require.Len(t, updates, 1)
	require.Equal(t, string(models.StatusPaymentCompleted), updates[0].Fields["status"])
}

func TestPaymentAlwaysFailsAtRateZero(t *testing.T) {
	log := eventlog.NewMemoryLog()
	c := NewPaymentConsumer(log, 0.0, zap.NewNop())

	require.NoError(t, c.Handle(context.Background(), inventoryEvent(models.EventInventoryReserved, "o1")))

	payments := readAll(t, log, eventlog.TopicPayments)
	require.Len(t, payments, 1)
	require.Equal(t, models.EventPaymentFailed, payments[0].Fields["type"])

	updates := readAll(t, log, eventlog.TopicOrderUpdates)
	require.Equal(t, string(models.StatusPaymentFailed), updates[0].Fields["status"])
}

func TestPaymentIgnoresInventoryFailed(t *testing.T) {
	log := eventlog.NewMemoryLog()
	c := NewPaymentConsumer(log, 1.0, zap.NewNop())

	require.NoError(t, c.Handle(context.Background(), inventoryEvent(models.EventInventoryFailed, "o1")))

	require.Empty(t, readAll(t, log, eventlog.TopicPayments))
	require.Empty(t, readAll(t, log, eventlog.TopicOrderUpdates))
}

func TestPaymentSkipsMalformedEvents(t *testing.T) {
	log := eventlog.NewMemoryLog()
	c := NewPaymentConsumer(log, 1.0, zap.NewNop())

	malformed := eventlog.Event{ID: "1-0", Fields: map[string]string{"type": "InventoryReserved"}}
	require.NoError(t, c.Handle(context.Background(), malformed))

	require.Empty(t, readAll(t, log, eventlog.TopicPayments))
}
