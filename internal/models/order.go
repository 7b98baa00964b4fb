package models

import "time"

// Status is an order's lifecycle state. The normal flow is
// CREATED → INVENTORY_RESERVED → PAYMENT_COMPLETED → COMPLETED, with
// INVENTORY_FAILED and PAYMENT_FAILED/FAILED as the failure branches.
// Transitions are advisory: the order service applies whatever status
// arrives on order_updates without validating the previous value.
type Status string

const (
	StatusCreated           Status = "CREATED"
	StatusInventoryReserved Status = "INVENTORY_RESERVED"
	StatusInventoryFailed   Status = "INVENTORY_FAILED"
	StatusPaymentCompleted  Status = "PAYMENT_COMPLETED"
	StatusPaymentFailed     Status = "PAYMENT_FAILED"
	StatusCompleted         Status = "COMPLETED"
	StatusFailed            Status = "FAILED"
)

// ParseStatus maps a raw string onto the closed status set.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusCreated, StatusInventoryReserved, StatusInventoryFailed,
		StatusPaymentCompleted, StatusPaymentFailed, StatusCompleted, StatusFailed:
		return st, true
	}
	return "", false
}

// Terminal reports whether no further status change follows.
func (s Status) Terminal() bool {
	return s == StatusInventoryFailed || s == StatusCompleted || s == StatusFailed
}

// Order is owned exclusively by the order service's in-memory store. The
// other services only ever emit status events that the order service
// folds in later.
type Order struct {
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Items     []string  `json:"items"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateOrderRequest is the POST /orders body.
type CreateOrderRequest struct {
	UserID string   `json:"userId" binding:"required"`
	Items  []string `json:"items" binding:"required"`
}
