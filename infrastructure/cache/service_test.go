package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewService(client, zap.NewNop()), mr
}

func TestService_GetSet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	stored := testPayload{Name: "groceries", Count: 3}
	require.True(t, svc.Set(ctx, "user:u1:summary", stored, TTLMedium))

	var loaded testPayload
	require.True(t, svc.Get(ctx, "user:u1:summary", &loaded))
	assert.Equal(t, stored, loaded)
}

func TestService_Get_Miss(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	var loaded testPayload
	assert.False(t, svc.Get(ctx, "user:absent:summary", &loaded))
}

func TestService_Get_MalformedPayloadIsMiss(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)

	require.NoError(t, mr.Set("expense:e1", "{not json"))

	var loaded testPayload
	assert.False(t, svc.Get(ctx, "expense:e1", &loaded))
}

func TestService_Set_Expires(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)

	require.True(t, svc.Set(ctx, "user:u1", testPayload{Name: "a"}, TTLShort))

	var loaded testPayload
	require.True(t, svc.Get(ctx, "user:u1", &loaded))

	mr.FastForward(TTLShort + time.Second)
	assert.False(t, svc.Get(ctx, "user:u1", &loaded))
}

func TestService_Delete_AbsentKeyIsNotAnError(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	assert.True(t, svc.Delete(ctx, "user:never-existed"))
}

func TestService_DeletePattern(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.True(t, svc.Set(ctx, "user:u1:expenses:1:20", []string{"a"}, TTLMedium))
	require.True(t, svc.Set(ctx, "user:u1:expenses:2:20", []string{"b"}, TTLMedium))
	require.True(t, svc.Set(ctx, "user:u1:categories", []string{"c"}, TTLMedium))
	require.True(t, svc.Set(ctx, "user:u2:expenses:1:20", []string{"d"}, TTLMedium))

	deleted := svc.DeletePattern(ctx, "user:u1:expenses*")
	assert.Equal(t, 2, deleted)

	// Unrelated keys survive
	assert.True(t, svc.Exists(ctx, "user:u1:categories"))
	assert.True(t, svc.Exists(ctx, "user:u2:expenses:1:20"))
}

func TestService_DeletePattern_NoMatches(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	assert.Equal(t, 0, svc.DeletePattern(ctx, "user:absent*"))
}

func TestService_TTL(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)

	require.True(t, svc.Set(ctx, "with-ttl", testPayload{}, TTLLong))
	require.NoError(t, mr.Set("no-ttl", "{}"))

	assert.Equal(t, int64(TTLLong.Seconds()), svc.TTL(ctx, "with-ttl"))
	assert.Equal(t, int64(-1), svc.TTL(ctx, "no-ttl"))
	assert.Equal(t, int64(-1), svc.TTL(ctx, "absent"))
}

func TestService_Increment_SetsTTLOnlyOnFirstHit(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)

	assert.Equal(t, int64(1), svc.Increment(ctx, "counter", time.Minute))

	mr.FastForward(30 * time.Second)
	assert.Equal(t, int64(2), svc.Increment(ctx, "counter", time.Minute))

	// TTL was not refreshed by the second hit, so the key expires one
	// minute after the first
	mr.FastForward(31 * time.Second)
	assert.False(t, svc.Exists(ctx, "counter"))
}

func TestService_Increment_Concurrent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			svc.Increment(ctx, "shared", time.Minute)
		}()
	}
	wg.Wait()

	var total int64
	require.True(t, svc.Get(ctx, "shared", &total))
	assert.Equal(t, int64(goroutines), total)
}

func TestService_StoreFault_SafeDefaults(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)

	require.True(t, svc.Set(ctx, "key", testPayload{Name: "x"}, TTLMedium))
	mr.Close()

	var loaded testPayload
	assert.False(t, svc.Get(ctx, "key", &loaded))
	assert.False(t, svc.Set(ctx, "key", testPayload{}, TTLMedium))
	assert.False(t, svc.Delete(ctx, "key"))
	assert.Equal(t, 0, svc.DeletePattern(ctx, "key*"))
	assert.False(t, svc.Exists(ctx, "key"))
	assert.Equal(t, int64(-1), svc.TTL(ctx, "key"))
	assert.Equal(t, int64(0), svc.Increment(ctx, "key", time.Minute))
}
