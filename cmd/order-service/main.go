package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Chauhan48/event-driven-orders-microservice/internal/config"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/consumer"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/discovery"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/eventlog"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/handlers"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/logger"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/publisher"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/store"
)

const (
	serviceName = "order-service"
	serviceID   = "order-service-1"
)

func main() {
	cfg := config.Load()
	log := logger.New(serviceName)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eventLog, err := eventlog.NewRedisLog(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer eventLog.Close()

	orders := store.NewOrderStore()
	orderPublisher := publisher.NewOrderPublisher(eventLog)
	orderHandler := handlers.NewOrderHandler(orders, orderPublisher, log)

	// Fold status updates into the order store alongside the HTTP
	// surface. The bounded block keeps the loop responsive to shutdown.
	updates := consumer.NewOrderUpdatesConsumer(orders, log)
	loop := consumer.NewLoop(eventLog, eventlog.TopicOrderUpdates, updates.Handle, log,
		consumer.WithBlock(cfg.OrderUpdatesBlock),
		consumer.WithBatchSize(cfg.ReadBatchSize))
	go loop.Run(ctx)

	router := gin.Default()
	router.GET("/health", orderHandler.HealthCheck)
	router.POST("/orders", orderHandler.CreateOrder)
	router.GET("/orders/:orderId", orderHandler.GetOrder)

	consul, err := discovery.NewConsulClient(cfg.ConsulAddr, log)
	if err != nil {
		log.Warn("Consul unavailable, skipping registration", zap.Error(err))
		consul = nil
	} else if err := consul.Register(discovery.ServiceConfig{
		Name: serviceName,
		ID:   serviceID,
		Port: cfg.OrderServicePort,
		Tags: []string{"api", "orders"},
	}); err != nil {
		log.Warn("failed to register with Consul", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.OrderServicePort),
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	log.Info("order service started", zap.Int("port", cfg.OrderServicePort))

	<-ctx.Done()
	log.Info("shutting down")
	if consul != nil {
		consul.Deregister(serviceID)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
