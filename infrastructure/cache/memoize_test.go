package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoize_ComputesOnceThenServesFromCache(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	calls := 0
	compute := func(context.Context) (testPayload, error) {
		calls++
		return testPayload{Name: "computed", Count: calls}, nil
	}

	first, err := Memoize(ctx, svc, "memo:key", TTLMedium, compute)
	require.NoError(t, err)

	second, err := Memoize(ctx, svc, "memo:key", TTLMedium, compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestMemoize_ComputeErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	boom := errors.New("upstream failed")
	_, err := Memoize(ctx, svc, "memo:key", TTLMedium, func(context.Context) (testPayload, error) {
		return testPayload{}, boom
	})
	require.ErrorIs(t, err, boom)

	assert.False(t, svc.Exists(ctx, "memo:key"))
}

func TestMemoize_StoreFaultDegradesToCompute(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)
	mr.Close()

	calls := 0
	for i := 0; i < 2; i++ {
		got, err := Memoize(ctx, svc, "memo:key", TTLMedium, func(context.Context) (testPayload, error) {
			calls++
			return testPayload{Name: "fresh"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh", got.Name)
	}
	assert.Equal(t, 2, calls)
}
