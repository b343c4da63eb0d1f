// Package cache provides the shared Redis-backed cache used to memoize
// computed API responses and to back the distributed rate limiter.
//
// Every operation is defensive: a store fault, timeout, or malformed payload
// degrades to a cache miss (or the operation's zero value), never to a
// request failure. The cache is a performance optimization, not a
// correctness dependency for its callers.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"spendtrack-backend/pkg/observability"
)

// TTL tiers, picked per data volatility. Callers choose a tier explicitly;
// there is no automatic inference.
const (
	TTLShort    = 5 * time.Minute
	TTLMedium   = 30 * time.Minute // default
	TTLLong     = 1 * time.Hour
	TTLVeryLong = 24 * time.Hour
)

// Service wraps the shared Redis client with typed get/set, TTL policy and
// defensive error handling.
type Service struct {
	client  *redis.Client
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewService creates a cache service on top of the shared Redis client
func NewService(client *redis.Client, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// WithMetrics arms hit/miss counting. A nil metrics handle is a no-op, so
// callers that don't publish telemetry skip this.
func (s *Service) WithMetrics(metrics *observability.Metrics) *Service {
	s.metrics = metrics
	return s
}

// Get reads the payload stored under key and deserializes it into dest.
// Returns false on a miss, a store fault, or a malformed payload; the caller
// cannot distinguish these cases and must recompute.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) bool {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("cache get failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		s.metrics.IncrCounter(observability.MetricCacheMiss, 1)
		return false
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		// A corrupt entry is treated as a miss, same as a store fault
		s.logger.Warn("cache payload malformed",
			zap.String("key", key),
			zap.Error(err),
		)
		s.metrics.IncrCounter(observability.MetricCacheMiss, 1)
		return false
	}

	s.metrics.IncrCounter(observability.MetricCacheHit, 1)
	return true
}

// Set serializes value and writes it under key with the given TTL.
// Returns false on any failure without raising.
func (s *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) bool {
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache set serialization failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}

	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		s.logger.Warn("cache set failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}

	return true
}

// Delete removes a single key. Deleting an absent key is not an error.
func (s *Service) Delete(ctx context.Context, key string) bool {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("cache delete failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return true
}

// DeletePattern removes every key matching the glob pattern in one batch and
// returns the number of keys deleted. Returns 0 if nothing matched or the
// store errored.
func (s *Service) DeletePattern(ctx context.Context, pattern string) int {
	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		s.logger.Warn("cache pattern scan failed",
			zap.String("pattern", pattern),
			zap.Error(err),
		)
		return 0
	}

	if len(keys) == 0 {
		return 0
	}

	deleted, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		s.logger.Warn("cache pattern delete failed",
			zap.String("pattern", pattern),
			zap.Int("matched", len(keys)),
			zap.Error(err),
		)
		return 0
	}

	return int(deleted)
}

// Exists reports whether key is present in the store
func (s *Service) Exists(ctx context.Context, key string) bool {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		s.logger.Warn("cache exists failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return n > 0
}

// TTL returns the remaining lifetime of key in seconds, or -1 when the key
// has no expiry or does not exist. Callers cannot distinguish those two
// cases from the return value alone; this mirrors the store's semantics.
func (s *Service) TTL(ctx context.Context, key string) int64 {
	d, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		s.logger.Warn("cache ttl failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return -1
	}

	if d < 0 {
		return -1
	}
	return int64(d.Seconds())
}

// Increment atomically increments the counter at key, applying ttlIfNew only
// when this call created the key (post-increment value of 1). The increment
// itself is Redis's native INCR, so concurrent callers on the same key never
// lose updates; emulating it with a read-then-write would reintroduce that
// race. Returns 0 on a store fault.
func (s *Service) Increment(ctx context.Context, key string, ttlIfNew time.Duration) int64 {
	value, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Warn("cache increment failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return 0
	}

	if value == 1 && ttlIfNew > 0 {
		// TTL is applied once, at window creation, and never refreshed on
		// later hits, so the key self-expires exactly ttlIfNew after its
		// first increment.
		if err := s.client.Expire(ctx, key, ttlIfNew).Err(); err != nil {
			s.logger.Warn("cache increment expire failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	return value
}
