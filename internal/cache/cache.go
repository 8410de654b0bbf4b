// Package cache defines the read-side cache port used in front of the
// simple list endpoints, plus its Redis implementation. The port is
// passed into consumers explicitly; nothing in this package is a
// module-level singleton.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-value cache keyed by string.
type Cache interface {
	// Get returns the cached value, or ok=false on a miss. A backend
	// failure is an error, not a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}
