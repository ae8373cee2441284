// Package redis owns the connection to the registry cache backend. The cache
// itself lives in internal/registry/cache; this package only dials, tunes the
// pool, and exposes a health probe for the readiness endpoint.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"campusgate/internal/platform/config"
)

// Client wraps go-redis with the health probe the transport layer expects.
type Client struct {
	*redis.Client
}

// New dials Redis per cfg and verifies the connection with a ping. An empty
// URL means the cache is not configured; callers get nil, nil and fall back
// to direct registry reads.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
