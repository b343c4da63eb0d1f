package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"spendtrack-backend/infrastructure/cache"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLimiter(cache.NewService(client, zap.NewNop()), zap.NewNop()), mr
}

func TestLimiter_Check_CountsDownThenDenies(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t)

	const limit = 5
	window := time.Minute

	for i := 0; i < limit; i++ {
		result := limiter.Check(ctx, "user:u1", limit, window)
		assert.True(t, result.Allowed, "request %d within limit", i+1)
		assert.Equal(t, limit, result.Limit)
		assert.Equal(t, limit-i-1, result.Remaining)
		assert.Equal(t, int64(i+1), result.TotalHits)
	}

	denied := limiter.Check(ctx, "user:u1", limit, window)
	assert.False(t, denied.Allowed)
	assert.Equal(t, 0, denied.Remaining)
	assert.Equal(t, int64(limit+1), denied.TotalHits)
}

func TestLimiter_Check_SubjectsAreIndependent(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t)

	for i := 0; i < 3; i++ {
		limiter.Check(ctx, "user:u1", 3, time.Minute)
	}
	assert.False(t, limiter.Check(ctx, "user:u1", 3, time.Minute).Allowed)
	assert.True(t, limiter.Check(ctx, "user:u2", 3, time.Minute).Allowed)
}

func TestLimiter_Check_NewWindowResetsQuota(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t)

	window := time.Minute
	base := time.UnixMilli(1_700_000_030_000) // 50s into a minute window
	limiter.now = func() time.Time { return base }

	for i := 0; i < 2; i++ {
		limiter.Check(ctx, "user:u1", 2, window)
	}
	assert.False(t, limiter.Check(ctx, "user:u1", 2, window).Allowed)

	// Cross into the next window; the counter key changes
	limiter.now = func() time.Time { return base.Add(20 * time.Second) }

	result := limiter.Check(ctx, "user:u1", 2, window)
	assert.True(t, result.Allowed)
	assert.Equal(t, int64(1), result.TotalHits)
}

func TestLimiter_Check_ResetTimeIsWindowEnd(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t)

	window := time.Minute
	now := time.UnixMilli(1_700_000_050_000) // window spans [040_000, 100_000)
	limiter.now = func() time.Time { return now }

	result := limiter.Check(ctx, "user:u1", 10, window)

	expectedReset := time.UnixMilli(1_700_000_100_000)
	assert.Equal(t, expectedReset.Unix(), result.ResetTime.Unix())
}

func TestLimiter_Check_FailsOpenOnStoreFault(t *testing.T) {
	ctx := context.Background()
	limiter, mr := newTestLimiter(t)
	mr.Close()

	result := limiter.Check(ctx, "user:u1", 5, time.Minute)
	assert.True(t, result.Allowed)
	assert.Equal(t, 5, result.Limit)
	assert.Equal(t, 5, result.Remaining)
	assert.False(t, result.ResetTime.IsZero())
}

func TestLimiter_Info_DoesNotConsumeQuota(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t)

	limiter.Check(ctx, "user:u1", 5, time.Minute)
	limiter.Check(ctx, "user:u1", 5, time.Minute)

	for i := 0; i < 3; i++ {
		info := limiter.Info(ctx, "user:u1", 5, time.Minute)
		assert.True(t, info.Allowed)
		assert.Equal(t, 3, info.Remaining)
		assert.Equal(t, int64(2), info.TotalHits)
	}
}

func TestLimiter_Info_AbsentCounterReadsAsZero(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t)

	info := limiter.Info(ctx, "user:unseen", 5, time.Minute)
	assert.True(t, info.Allowed)
	assert.Equal(t, 5, info.Remaining)
	assert.Equal(t, int64(0), info.TotalHits)
}

func TestLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newTestLimiter(t)

	for i := 0; i < 3; i++ {
		limiter.Check(ctx, "user:u1", 3, time.Minute)
	}
	require.False(t, limiter.Check(ctx, "user:u1", 3, time.Minute).Allowed)

	assert.True(t, limiter.Reset(ctx, "user:u1"))
	assert.True(t, limiter.Check(ctx, "user:u1", 3, time.Minute).Allowed)

	// Nothing left to clear
	assert.True(t, limiter.Reset(ctx, "user:u1"))
	assert.False(t, limiter.Reset(ctx, "user:u1"))
}
