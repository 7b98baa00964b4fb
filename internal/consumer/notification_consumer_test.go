package consumer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Chauhan48/event-driven-orders-microservice/internal/eventlog"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/models"
)

type fakeSender struct {
	sent []struct {
		orderID   string
		succeeded bool
	}
	err error
}

func (f *fakeSender) Send(_ context.Context, orderID string, succeeded bool) error {
	f.sent = append(f.sent, struct {
		orderID   string
		succeeded bool
	}{orderID, succeeded})
	return f.err
}

func paymentEvent(eventType, orderID string) eventlog.Event {
	return eventlog.Event{
		ID:     "1-0",
		Fields: models.PaymentEvent{Type: eventType, OrderID: orderID}.Fields(),
	}
}

func TestNotificationCompletesOrder(t *testing.T) {
	log := eventlog.NewMemoryLog()
	sender := &fakeSender{}
	c := NewNotificationConsumer(log, sender, zap.NewNop())

	require.NoError(t, c.Handle(context.Background(), paymentEvent(models.EventPaymentCompleted, "o1")))

	require.Len(t, sender.sent, 1)
	require.True(t, sender.sent[0].succeeded)
	require.Equal(t, "o1", sender.sent[0].orderID)

	updates := readAll(t, log, eventlog.TopicOrderUpdates)
	require.Len(t, updates, 1)
	require.Equal(t, string(models.StatusCompleted), updates[0].Fields["status"])
}

func TestNotificationFailsOrder(t *testing.T) {
	log := eventlog.NewMemoryLog()
	sender := &fakeSender{}
	c := NewNotificationConsumer(log, sender, zap.NewNop())

	require.NoError(t, c.Handle(context.Background(), paymentEvent(models.EventPaymentFailed, "o1")))

	require.Len(t, sender.sent, 1)
	require.False(t, sender.sent[0].succeeded)

	updates := readAll(t, log, eventlog.TopicOrderUpdates)
	require.Equal(t, string(models.StatusFailed), updates[0].Fields["status"])
}

func TestNotificationSendFailureStillUpdatesStatus(t *testing.T) {
	log := eventlog.NewMemoryLog()
	sender := &fakeSender{err: errors.New("broker down")}
	c := NewNotificationConsumer(log, sender, zap.NewNop())

	require.NoError(t, c.Handle(context.Background(), paymentEvent(models.EventPaymentCompleted, "o1")))

	updates := readAll(t, log, eventlog.TopicOrderUpdates)
	require.Len(t, updates, 1)
	require.Equal(t, string(models.StatusCompleted), updates[0].Fields["status"])
}

func TestNotificationNilSenderIsLogOnly(t *testing.T) {
	log := eventlog.NewMemoryLog()
	c := NewNotificationConsumer(log, nil, zap.NewNop())

	require.NoError(t, c.Handle(context.Background(), paymentEvent(models.EventPaymentCompleted, "o1")))

	updates := readAll(t, log, eventlog.TopicOrderUpdates)
	require.Len(t, updates, 1)
}

func TestNotificationSkipsMalformedEvents(t *testing.T) {
	log := eventlog.NewMemoryLog()
	sender := &fakeSender{}
	c := NewNotificationConsumer(log, sender, zap.NewNop())

	malformed := eventlog.Event{ID: "1-0", Fields: map[string]string{"type": "Refund", "orderId": "o1"}}
	require.NoError(t, c.Handle(context.Background(), malformed))

	require.Empty(t, sender.sent)
	require.Empty(t, readAll(t, log, eventlog.TopicOrderUpdates))
}
