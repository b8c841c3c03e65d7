// Package cache implements the application's cache-aside layer: a TTL
// key/value store contract, Redis and in-process implementations, the
// key namespace shared by every cached read, and a generic GetOrSet
// helper.
//
// The layer fails open by design: a store error on read is treated as a
// miss and a store error on write is dropped, so data correctness never
// depends on cache availability. Invalidation is explicit; a fixed TTL
// bounds staleness whenever an invalidation call is missed.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is the store contract consumed by services. Delete on an absent
// key is a no-op, not an error. DeletePattern removes every key matching
// a glob such as "listings_*".
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
}

// GetOrSet returns the cached value under key, or invokes producer on a
// miss, stores the result with the given TTL, and returns it.
//
// A producer error propagates unchanged and nothing is cached. Store
// errors are swallowed: an unreadable entry is a forced miss and a failed
// Set is not retried.
//
// Concurrent misses on the same key each invoke producer; there is no
// in-flight deduplication, so a hot key can stampede the backing store
// for the duration of one fetch.
func GetOrSet[T any](ctx context.Context, c Cache, key string, ttl time.Duration, producer func(context.Context) (T, error)) (T, error) {
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		// Undecodable entry: drop it and refetch.
		_ = c.Delete(ctx, key)
	}

	value, err := producer(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if data, err := json.Marshal(value); err == nil {
		_ = c.Set(ctx, key, data, ttl)
	}

	return value, nil
}
