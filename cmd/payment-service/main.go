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
)

const (
	serviceName = "payment-service"
	serviceID   = "payment-service-1"
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

	payments := consumer.NewPaymentConsumer(eventLog, cfg.PaymentSuccessRate, log)
	loop := consumer.NewLoop(eventLog, eventlog.TopicInventory, payments.Handle, log,
		consumer.WithBatchSize(cfg.ReadBatchSize))
	go loop.Run(ctx)

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
	})

	consul, err := discovery.NewConsulClient(cfg.ConsulAddr, log)
	if err != nil {
		log.Warn("Consul unavailable, skipping registration", zap.Error(err))
		consul = nil
	} else if err := consul.Register(discovery.ServiceConfig{
		Name: serviceName,
		ID:   serviceID,
		Port: cfg.PaymentServicePort,
		Tags: []string{"worker", "payments"},
	}); err != nil {
		log.Warn("failed to register with Consul", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.PaymentServicePort),
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	log.Info("payment service started",
		zap.Int("port", cfg.PaymentServicePort),
		zap.Float64("successRate", cfg.PaymentSuccessRate))

	<-ctx.Done()
	log.Info("shutting down")
	if consul != nil {
		consul.Deregister(serviceID)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
