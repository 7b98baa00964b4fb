package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, 3001, cfg.OrderServicePort)
	require.InDelta(t, 0.7, cfg.PaymentSuccessRate, 1e-9)
	require.Equal(t, map[string]int{"item1": 10, "item2": 5, "item3": 8, "item4": 0}, cfg.InventorySeed)
	require.Equal(t, 5*time.Second, cfg.OrderUpdatesBlock)
	require.Equal(t, int64(10), cfg.ReadBatchSize)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("PAYMENT_SUCCESS_RATE", "0.25")
	t.Setenv("INVENTORY_SEED", "widget=3,gadget=0")
	t.Setenv("ORDER_UPDATES_BLOCK_MS", "250")

	cfg := Load()

	require.Equal(t, "redis:6380", cfg.RedisAddr)
	require.InDelta(t, 0.25, cfg.PaymentSuccessRate, 1e-9)
	require.Equal(t, map[string]int{"widget": 3, "gadget": 0}, cfg.InventorySeed)
	require.Equal(t, 250*time.Millisecond, cfg.OrderUpdatesBlock)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PAYMENT_SUCCESS_RATE", "lots")
	t.Setenv("ORDER_SERVICE_PORT", "eighty")

	cfg := Load()

	require.InDelta(t, 0.7, cfg.PaymentSuccessRate, 1e-9)
	require.Equal(t, 3001, cfg.OrderServicePort)
}

func TestParseSeedSkipsBadEntries(t *testing.T) {
	seed := parseSeed("item1=10, item2=5,broken,neg=-1,alsobad=x")
	require.Equal(t, map[string]int{"item1": 10, "item2": 5}, seed)
}
