package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	require.Equal(t, 10, cfg.Redis.PoolSize)
	require.Equal(t, 2, cfg.Redis.MinIdleConns)
	require.Equal(t, 90, cfg.AuditRetentionDays)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CAMPUSGATE_ADDR", ":9090")
	t.Setenv("REDIS_POOL_SIZE", "25")
	t.Setenv("REDIS_MIN_IDLE_CONNS", "5")
	t.Setenv("DENIED_ATTEMPT_LIMIT", "3")

	cfg := FromEnv()

	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, 25, cfg.Redis.PoolSize)
	require.Equal(t, 5, cfg.Redis.MinIdleConns)
	require.Equal(t, 3, cfg.DeniedAttemptLimit)
}
