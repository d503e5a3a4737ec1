package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/haitham-akram/prestige-designs-sub004/internal/config"
	"github.com/haitham-akram/prestige-designs-sub004/internal/logger"

	"github.com/redis/go-redis/v9"
)

var (
	client *redis.Client
	prefix string
)

// Init connects the shared redis client. Returns false when redis is
// disabled in config; callers fall back to in-process behavior.
func Init(cfg *config.RedisConfig) (bool, error) {
	if cfg == nil || !cfg.Enabled {
		return false, nil
	}
	c := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return false, fmt.Errorf("redis ping: %w", err)
	}
	client = c
	prefix = cfg.Prefix
	logger.Infow("redis connected", "addr", c.Options().Addr, "db", cfg.DB)
	return true, nil
}

// Enabled reports whether the shared client is available.
func Enabled() bool {
	return client != nil
}

// Client returns the shared client, or nil when disabled.
func Client() *redis.Client {
	return client
}

// Key builds a namespaced cache key.
func Key(parts ...string) string {
	key := prefix
	for _, part := range parts {
		if key != "" {
			key += ":"
		}
		key += part
	}
	return key
}

// Close releases the shared client.
func Close() {
	if client != nil {
		_ = client.Close()
		client = nil
	}
}
