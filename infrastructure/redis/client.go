package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"spendtrack-backend/infrastructure/config"
)

// NewClient creates the shared Redis client from configuration.
//
// The client owns its connection pool and is constructed once at startup,
// then passed by handle to the cache service and rate limiter. Unless lazy
// connect is enabled, a failed ping at startup is fatal: a misconfigured
// store address is a deployment error, not a per-request condition.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		MaxRetries:   cfg.RedisMaxRetries,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if !cfg.RedisLazyConnect {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr(), err)
		}
	}

	return client, nil
}
