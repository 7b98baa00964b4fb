// Package store holds the in-memory state each service owns: the order
// service's order records and the inventory service's stock ledger. Both
// are rebuilt by replaying topics after a restart, so nothing here is
// persisted.
package store

import (
	"sync"

	"github.com/Chauhan48/event-driven-orders-microservice/internal/models"
)

// OrderStore is the order service's record of every order it has
// accepted. The HTTP handlers and the order_updates consumer loop access
// it concurrently, so every operation takes the lock; a reader sees a
// fully written order or none at all.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string]models.Order)}
}

// Put stores or replaces an order.
func (s *OrderStore) Put(o models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.OrderID] = o
}

// Get returns the order, if known.
func (s *OrderStore) Get(orderID string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	return o, ok
}

// ApplyStatus overwrites the order's status unconditionally and reports
// whether the order was known. Updates for unknown orders are dropped
// without creating a record.
func (s *OrderStore) ApplyStatus(orderID string, status models.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return false
	}
	o.Status = status
	s.orders[orderID] = o
	return true
}

// Len returns the number of stored orders.
func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
