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
	"github.com/Chauhan48/event-driven-orders-microservice/internal/logger"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/store"
)

const (
	serviceName = "inventory-service"
	serviceID   = "inventory-service-1"
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

	ledger := store.NewLedger(cfg.InventorySeed)
	log.Info("initial inventory", zap.Any("stock", ledger.Snapshot()))

	inventory := consumer.NewInventoryConsumer(ledger, eventLog, log)
	loop := consumer.NewLoop(eventLog, eventlog.TopicOrders, inventory.Handle, log,
		consumer.WithBatchSize(cfg.ReadBatchSize))
	go loop.Run(ctx)

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
	})
	router.GET("/inventory", func(c *gin.Context) {
		c.JSON(http.StatusOK, ledger.Snapshot())
	})

	consul, err := discovery.NewConsulClient(cfg.ConsulAddr, log)
	if err != nil {
		log.Warn("Consul unavailable, skipping registration", zap.Error(err))
		consul = nil
	} else if err := consul.Register(discovery.ServiceConfig{
		Name: serviceName,
		ID:   serviceID,
		Port: cfg.InventoryServicePort,
		Tags: []string{"worker", "inventory"},
	}); err != nil {
		log.Warn("failed to register with Consul", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.InventoryServicePort),
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	log.Info("inventory service started", zap.Int("port", cfg.InventoryServicePort))

	<-ctx.Done()
	log.Info("shutting down")
	if consul != nil {
		consul.Deregister(serviceID)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
