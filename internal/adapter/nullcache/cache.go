// Package nullcache implements the cache port as a no-op.
//
// It is selected at construction time when caching is disabled or the
// backend is unreachable at startup, so call sites never branch on cache
// availability: every Get is a miss, every mutation reports "nothing done".
package nullcache

import (
	"context"
	"errors"
	"time"
)

// ErrDisabled reports that the value was not stored because caching is off.
// Callers observe it only as a false "stored" result, never as a failure.
var ErrDisabled = errors.New("cache disabled")

// Cache is a cache that stores nothing.
type Cache struct{}

// New creates a null cache.
func New() *Cache {
	return &Cache{}
}

// Get always misses.
func (*Cache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set drops the value and reports that nothing was stored.
func (*Cache) Set(context.Context, string, []byte, time.Duration) error {
	return ErrDisabled
}

// Delete reports that nothing was removed.
func (*Cache) Delete(context.Context, string) (bool, error) {
	return false, nil
}

// Exists reports absence.
func (*Cache) Exists(context.Context, string) (bool, error) {
	return false, nil
}

// ClearPattern clears nothing.
func (*Cache) ClearPattern(context.Context, string) (int, error) {
	return 0, nil
}
