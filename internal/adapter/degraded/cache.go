// Package degraded decorates a cache with graceful degradation.
//
// Backend failures are logged at warning level and converted into the
// neutral result for each operation (miss, false, zero), so a flapping or
// dead backend slows the service down but never makes it incorrect. A
// circuit breaker stops hammering a backend that keeps failing; while the
// circuit is open every operation short-circuits to its neutral result.
package degraded

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kordesk/sentrychat/internal/port/cache"
	"github.com/kordesk/sentrychat/internal/resilience"
)

// ErrUnavailable reports that a Set was dropped because the backend is
// unreachable. Callers observe it only as a false "stored" result.
var ErrUnavailable = errors.New("cache backend unavailable")

// Cache wraps a backend cache with degrade-to-miss semantics.
type Cache struct {
	backend    cache.Cache
	breaker    *resilience.Breaker
	defaultTTL time.Duration
	log        *slog.Logger
}

// New wraps backend. defaultTTL applies when a caller passes ttl <= 0.
func New(backend cache.Cache, breaker *resilience.Breaker, defaultTTL time.Duration, log *slog.Logger) *Cache {
	return &Cache{backend: backend, breaker: breaker, defaultTTL: defaultTTL, log: log}
}

// Get returns a miss when the backend errors or the circuit is open.
func (c *Cache) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	callErr := c.breaker.Execute(func() error {
		var getErr error
		value, found, getErr = c.backend.Get(ctx, key)
		return getErr
	})
	if callErr != nil {
		c.warn("get", key, callErr)
		return nil, false, nil
	}
	return value, found, nil
}

// Set stores the value, reporting ErrUnavailable instead of the backend
// error when the write is dropped.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	callErr := c.breaker.Execute(func() error {
		return c.backend.Set(ctx, key, value, ttl)
	})
	if callErr != nil {
		c.warn("set", key, callErr)
		return ErrUnavailable
	}
	return nil
}

// Delete reports false when the backend errors.
func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	var deleted bool
	callErr := c.breaker.Execute(func() error {
		var delErr error
		deleted, delErr = c.backend.Delete(ctx, key)
		return delErr
	})
	if callErr != nil {
		c.warn("delete", key, callErr)
		return false, nil
	}
	return deleted, nil
}

// Exists reports false when the backend errors.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	var ok bool
	callErr := c.breaker.Execute(func() error {
		var exErr error
		ok, exErr = c.backend.Exists(ctx, key)
		return exErr
	})
	if callErr != nil {
		c.warn("exists", key, callErr)
		return false, nil
	}
	return ok, nil
}

// ClearPattern reports zero when the backend errors.
func (c *Cache) ClearPattern(ctx context.Context, pattern string) (int, error) {
	var cleared int
	callErr := c.breaker.Execute(func() error {
		var clearErr error
		cleared, clearErr = c.backend.ClearPattern(ctx, pattern)
		return clearErr
	})
	if callErr != nil {
		c.warn("clear_pattern", pattern, callErr)
		return 0, nil
	}
	return cleared, nil
}

func (c *Cache) warn(op, key string, err error) {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		c.log.Warn("cache circuit open, degrading to miss", "op", op, "key", key)
		return
	}
	c.log.Warn("cache backend error, degrading to miss", "op", op, "key", key, "error", err)
}
