// Package handlers contains the order service's HTTP surface.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Chauhan48/event-driven-orders-microservice/internal/models"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/publisher"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/store"
)

type OrderHandler struct {
	store     *store.OrderStore
	publisher *publisher.OrderPublisher
	logger    *zap.Logger
}

func NewOrderHandler(store *store.OrderStore, pub *publisher.OrderPublisher, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{store: store, publisher: pub, logger: logger}
}

// HealthCheck returns server status.
func (h *OrderHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "order-service"})
}

// CreateOrder accepts a new order, stores it with status CREATED and
// publishes OrderCreated to kick off the saga.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := models.Order{
		OrderID:   "order_" + uuid.NewString(),
		UserID:    req.UserID,
		Items:     req.Items,
		Status:    models.StatusCreated,
		CreatedAt: time.Now().UTC(),
	}

	h.store.Put(order)

	if _, err := h.publisher.PublishOrderCreated(c.Request.Context(), &order); err != nil {
		h.logger.Error("failed to publish OrderCreated",
			zap.String("orderId", order.OrderID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	h.logger.Info("order created",
		zap.String("orderId", order.OrderID),
		zap.String("userId", order.UserID))
	c.JSON(http.StatusCreated, order)
}

// GetOrder returns one order by ID.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID := c.Param("orderId")

	order, ok := h.store.Get(orderID)
	if !ok {
		h.logger.Warn("order not found", zap.String("orderId", orderID))
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}
