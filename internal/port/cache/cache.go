// Package cache defines the port interface for key-value caching.
package cache

import (
	"context"
	"time"
)

// Cache is the port interface for key-value caching with per-key expiry.
//
// A miss and an expired key are indistinguishable to callers: both report
// found == false. Implementations that cannot reach their backend return an
// error; callers that must degrade gracefully wrap the implementation rather
// than branching on availability themselves.
type Cache interface {
	// Get retrieves the value stored under key. found is false on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key for the given TTL. A ttl <= 0 means the
	// implementation's default expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. deleted is false when the key was absent.
	Delete(ctx context.Context, key string) (deleted bool, err error)

	// Exists reports whether key is present and unexpired.
	Exists(ctx context.Context, key string) (bool, error)

	// ClearPattern removes every key matching the glob pattern and returns
	// the number of keys removed.
	ClearPattern(ctx context.Context, pattern string) (int, error)
}
