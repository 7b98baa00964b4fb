package models

import (
	"encoding/json"
	"errors"
)

// Event type tags carried in the "type" field of each topic.
const (
	EventOrderCreated      = "OrderCreated"
	EventInventoryReserved = "InventoryReserved"
	EventInventoryFailed   = "InventoryFailed"
	EventPaymentCompleted  = "PaymentCompleted"
	EventPaymentFailed     = "PaymentFailed"
)

// ErrUnknownEvent marks a payload whose shape doesn't match any known
// event variant. Consumers skip such events; the cursor has already moved.
var ErrUnknownEvent = errors.New("unknown event shape")

// OrderCreatedEvent is appended to the orders topic when an order is
// accepted. Items travel JSON-encoded inside the flat field map.
type OrderCreatedEvent struct {
	OrderID string
	Items   []string
}

// Fields encodes the event for appending.
func (e OrderCreatedEvent) Fields() map[string]string {
	items, _ := json.Marshal(e.Items)
	return map[string]string{
		"type":    EventOrderCreated,
		"orderId": e.OrderID,
		"items":   string(items),
	}
}

// DecodeOrderCreated narrows a raw orders-topic payload.
func DecodeOrderCreated(fields map[string]string) (OrderCreatedEvent, error) {
	if fields["type"] != EventOrderCreated || fields["orderId"] == "" {
		return OrderCreatedEvent{}, ErrUnknownEvent
	}
	var items []string
	if err := json.Unmarshal([]byte(fields["items"]), &items); err != nil {
		return OrderCreatedEvent{}, ErrUnknownEvent
	}
	return OrderCreatedEvent{OrderID: fields["orderId"], Items: items}, nil
}

// InventoryEvent is the outcome of a reservation attempt, appended to the
// inventory topic.
type InventoryEvent struct {
	Type    string // InventoryReserved or InventoryFailed
	OrderID string
}

func (e InventoryEvent) Fields() map[string]string {
	return map[string]string{"type": e.Type, "orderId": e.OrderID}
}

// DecodeInventoryEvent narrows a raw inventory-topic payload.
func DecodeInventoryEvent(fields map[string]string) (InventoryEvent, error) {
	t := fields["type"]
	if (t != EventInventoryReserved && t != EventInventoryFailed) || fields["orderId"] == "" {
		return InventoryEvent{}, ErrUnknownEvent
	}
	return InventoryEvent{Type: t, OrderID: fields["orderId"]}, nil
}

// PaymentEvent is the outcome of a payment attempt, appended to the
// payments topic.
type PaymentEvent struct {
	Type    string // PaymentCompleted or PaymentFailed
	OrderID string
}

func (e PaymentEvent) Fields() map[string]string {
	return map[string]string{"type": e.Type, "orderId": e.OrderID}
}

// DecodePaymentEvent narrows a raw payments-topic payload.
func DecodePaymentEvent(fields map[string]string) (PaymentEvent, error) {
	t := fields["type"]
	if (t != EventPaymentCompleted && t != EventPaymentFailed) || fields["orderId"] == "" {
		return PaymentEvent{}, ErrUnknownEvent
	}
	return PaymentEvent{Type: t, OrderID: fields["orderId"]}, nil
}

// StatusUpdateEvent is appended to order_updates by every service that
// moves an order along its lifecycle.
type StatusUpdateEvent struct {
	OrderID string
	Status  Status
}

func (e StatusUpdateEvent) Fields() map[string]string {
	return map[string]string{"orderId": e.OrderID, "status": string(e.Status)}
}

// DecodeStatusUpdate narrows a raw order_updates payload. Statuses outside
// the closed enum are rejected like any other malformed shape.
func DecodeStatusUpdate(fields map[string]string) (StatusUpdateEvent, error) {
	if fields["orderId"] == "" {
		return StatusUpdateEvent{}, ErrUnknownEvent
	}
	status, ok := ParseStatus(fields["status"])
	if !ok {
		return StatusUpdateEvent{}, ErrUnknownEvent
	}
	return StatusUpdateEvent{OrderID: fields["orderId"], Status: status}, nil
}
