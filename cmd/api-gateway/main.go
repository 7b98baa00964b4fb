package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Chauhan48/event-driven-orders-microservice/internal/config"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/discovery"
	"github.com/Chauhan48/event-driven-orders-microservice/internal/logger"
)

const orderService = "order-service"

// Gateway fronts the order service, resolving it through Consul with a
// periodic refresh and a static fallback for Consul-less setups.
type Gateway struct {
	consul   *discovery.ConsulClient
	fallback string
	logger   *zap.Logger

	mu      sync.RWMutex
	proxy   *httputil.ReverseProxy
	current string
}

func NewGateway(consul *discovery.ConsulClient, fallback string, logger *zap.Logger) *Gateway {
	g := &Gateway{consul: consul, fallback: fallback, logger: logger}
	g.refresh()
	return g
}

func (g *Gateway) refresh() {
	target := g.fallback
	if g.consul != nil {
		if resolved, err := g.consul.GetServiceURL(orderService); err == nil {
			target = resolved
		} else {
			g.logger.Warn("order service not in Consul, using fallback", zap.Error(err))
		}
	}
	g.setTarget(target)
}

func (g *Gateway) setTarget(serviceURL string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == serviceURL {
		return
	}

	target, err := url.Parse(serviceURL)
	if err != nil {
		g.logger.Error("invalid service URL", zap.String("url", serviceURL), zap.Error(err))
		return
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		g.logger.Error("proxy error", zap.Error(err))
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"error": "service unavailable"}`)
	}

	g.proxy = proxy
	g.current = serviceURL
	g.logger.Info("route updated", zap.String("target", serviceURL))
}

func (g *Gateway) watch(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.refresh()
		}
	}
}

// ProxyOrders forwards order traffic to the current order-service target.
func (g *Gateway) ProxyOrders(c *gin.Context) {
	g.mu.RLock()
	proxy := g.proxy
	g.mu.RUnlock()
	if proxy == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "order-service unavailable"})
		return
	}
	proxy.ServeHTTP(c.Writer, c.Request)
}

// HealthCheck probes the proxied service.
func (g *Gateway) HealthCheck(c *gin.Context) {
	g.mu.RLock()
	target := g.current
	g.mu.RUnlock()

	status := "healthy"
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(target + "/health")
	if err != nil || resp.StatusCode != http.StatusOK {
		status = "degraded"
	}
	if resp != nil {
		resp.Body.Close()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"service": "api-gateway",
		"target":  target,
	})
}

func main() {
	cfg := config.Load()
	log := logger.New("api-gateway")
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consul, err := discovery.NewConsulClient(cfg.ConsulAddr, log)
	if err != nil {
		log.Warn("Consul unavailable, using static routes", zap.Error(err))
		consul = nil
	}

	fallback := fmt.Sprintf("http://localhost:%d", cfg.OrderServicePort)
	gateway := NewGateway(consul, fallback, log)
	go gateway.watch(ctx)

	router := gin.Default()
	router.GET("/health", gateway.HealthCheck)
	router.Any("/orders", gateway.ProxyOrders)
	router.Any("/orders/*path", gateway.ProxyOrders)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.GatewayPort),
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	log.Info("api gateway started", zap.Int("port", cfg.GatewayPort))

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}
