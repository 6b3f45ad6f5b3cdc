// Package cache is the TTL cache shared by the request handlers. Every
// feature keeps a short-lived per-user entry (revisions, routine logs,
// achievements, competitions, nutrition plans) that the matching write
// endpoint invalidates.
//
// Two implementations exist: the in-memory cache for a single instance
// and tests, and a Redis-backed one for deployments that need the
// entries shared across instances.
package cache

import (
	"context"
	"time"
)

// Cache stores JSON-serializable values under string keys with a TTL.
type Cache interface {
	// Get unmarshals the cached value into dest and reports whether the
	// key was present and unexpired. A miss is not an error.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// GetOrSet returns the cached value for key, loading and storing it on a
// miss. Loader errors are returned without touching the cache.
func GetOrSet[T any](ctx context.Context, c Cache, key string, ttl time.Duration, loader func() (T, error)) (T, error) {
	var cached T
	hit, err := c.Get(ctx, key, &cached)
	if err == nil && hit {
		return cached, nil
	}

	value, err := loader()
	if err != nil {
		return value, err
	}
	if setErr := c.Set(ctx, key, value, ttl); setErr != nil {
		// A failed cache write must not fail the request.
		return value, nil
	}
	return value, nil
}
