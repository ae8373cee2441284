// Package config builds runtime configuration from environment variables so
// main stays lean. Every knob has a development default; production
// deployments override via the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures all server-level configuration.
type Config struct {
	Addr string

	// DatabaseURL selects the PostgreSQL backend when set; the server runs
	// on in-memory stores otherwise (dev and test environments).
	DatabaseURL string

	Redis RedisConfig

	// PlateConfidenceThreshold is the minimum recognition confidence at
	// which a plate candidate is accepted. Below it the reading is treated
	// as no plate supplied.
	PlateConfidenceThreshold float64

	// AlertRetryBudget bounds delivery retries per alert before it is left
	// persisted-but-undelivered.
	AlertRetryBudget int

	// AlertWebhookURL enables the webhook notifier when set; alerts are
	// logged locally otherwise.
	AlertWebhookURL string

	JWTSigningKey string

	// AuditRetentionDays is the default cutoff for the log cleanup
	// maintenance operation.
	AuditRetentionDays int

	// DeniedAttemptWindow and DeniedAttemptLimit configure the brute-force
	// guard: more than Limit denied attempts for one person ID within
	// Window makes further attempts invalid.
	DeniedAttemptWindow time.Duration
	DeniedAttemptLimit  int
}

// RedisConfig configures the optional registry cache.
type RedisConfig struct {
	URL          string
	TTL          time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:                     envString("CAMPUSGATE_ADDR", ":8080"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		PlateConfidenceThreshold: envFloat("PLATE_CONFIDENCE_THRESHOLD", 0.7),
		AlertRetryBudget:         envInt("ALERT_RETRY_BUDGET", 3),
		AlertWebhookURL:          os.Getenv("ALERT_WEBHOOK_URL"),
		JWTSigningKey:            envString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		AuditRetentionDays:       envInt("AUDIT_RETENTION_DAYS", 90),
		DeniedAttemptWindow:      envDuration("DENIED_ATTEMPT_WINDOW", 15*time.Minute),
		DeniedAttemptLimit:       envInt("DENIED_ATTEMPT_LIMIT", 5),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			TTL:          envDuration("REGISTRY_CACHE_TTL", 5*time.Minute),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
