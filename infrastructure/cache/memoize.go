package cache

import (
	"context"
	"time"
)

// Memoize wraps a computation with a cache check: get, on miss compute, set,
// return. The wrapping is an explicit composition step rather than hidden
// control flow, so call sites show exactly where caching happens.
//
// A compute error is returned as-is and nothing is cached. Cache faults on
// either side degrade to running the computation.
func Memoize[T any](ctx context.Context, svc *Service, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	var cached T
	if svc.Get(ctx, key, &cached) {
		return cached, nil
	}

	result, err := compute(ctx)
	if err != nil {
		return result, err
	}

	svc.Set(ctx, key, result, ttl)
	return result, nil
}
