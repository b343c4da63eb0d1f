// Package ratelimit implements a distributed fixed-window rate limiter on
// top of the shared Redis cache, so limits hold across all API instances.
//
// Time is partitioned into contiguous windows of fixed size starting at
// epoch 0; a request's window is determined purely by wall-clock time. A
// burst straddling a window boundary can therefore admit up to twice the
// limit across the boundary. That imprecision is inherent to the
// fixed-window algorithm and accepted here in exchange for a single atomic
// store round trip per check.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"spendtrack-backend/infrastructure/cache"
)

// Result is the outcome of a rate-limit check. Exceeding the limit is a
// normal control-flow outcome carried in Allowed, never an error.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
	TotalHits int64
}

// Limiter tracks fixed-window hit counters per opaque subject key. It is
// identity-agnostic; callers construct subject keys from whatever principal
// they rate-limit (user ID, client IP, API key).
type Limiter struct {
	cache  *cache.Service
	logger *zap.Logger

	// injectable for window-boundary tests
	now func() time.Time
}

// NewLimiter creates a limiter over the shared cache service
func NewLimiter(cacheService *cache.Service, logger *zap.Logger) *Limiter {
	return &Limiter{
		cache:  cacheService,
		logger: logger,
		now:    time.Now,
	}
}

// Check records a hit for subjectKey in the current window and returns the
// resulting decision. This is the only mutating rate-limit operation.
//
// On a store fault the limiter fails open: the request is allowed with the
// full limit remaining and a reset time synthesized from the local clock.
// An unavailable rate-limit store must not become a denial-of-service
// vector against legitimate traffic.
func (l *Limiter) Check(ctx context.Context, subjectKey string, limit int, window time.Duration) Result {
	windowStart := l.windowStart(window)
	resetTime := windowStart.Add(window)
	key := windowKey(subjectKey, windowStart)

	ttl := time.Duration(math.Ceil(window.Seconds())) * time.Second

	hits := l.cache.Increment(ctx, key, ttl)
	if hits == 0 {
		// INCR never yields zero, so this is a store fault
		l.logger.Warn("rate limit store unavailable, failing open",
			zap.String("subject", subjectKey),
		)
		return Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: resetTime,
		}
	}

	return l.result(hits, limit, resetTime)
}

// Info returns the current window's standing for subjectKey without
// consuming quota. An absent counter reads as zero hits.
func (l *Limiter) Info(ctx context.Context, subjectKey string, limit int, window time.Duration) Result {
	windowStart := l.windowStart(window)
	resetTime := windowStart.Add(window)
	key := windowKey(subjectKey, windowStart)

	var hits int64
	l.cache.Get(ctx, key, &hits)

	return l.result(hits, limit, resetTime)
}

// Reset clears every window tracked for subjectKey. Returns true iff at
// least one window was deleted.
func (l *Limiter) Reset(ctx context.Context, subjectKey string) bool {
	pattern := fmt.Sprintf("rate_limit:%s:*", subjectKey)
	return l.cache.DeletePattern(ctx, pattern) > 0
}

// windowStart truncates the current time to the containing window boundary
func (l *Limiter) windowStart(window time.Duration) time.Time {
	nowMs := l.now().UnixMilli()
	windowMs := window.Milliseconds()
	return time.UnixMilli(nowMs - nowMs%windowMs)
}

func (l *Limiter) result(hits int64, limit int, resetTime time.Time) Result {
	remaining := limit - int(hits)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   hits <= int64(limit),
		Limit:     limit,
		Remaining: remaining,
		ResetTime: resetTime,
		TotalHits: hits,
	}
}

// windowKey builds the composite counter key for a subject's window. The
// window start is embedded so counters from different windows never collide
// and expired windows simply age out of the store.
func windowKey(subjectKey string, windowStart time.Time) string {
	return fmt.Sprintf("rate_limit:%s:%d", subjectKey, windowStart.UnixMilli())
}
