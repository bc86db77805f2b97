// Package rediscache implements the cache port using Redis as remote backend.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client as a remote cache.
type Cache struct {
	rdb        *redis.Client
	defaultTTL time.Duration
}

// New creates a Redis-backed cache. defaultTTL applies when Set is called
// with ttl <= 0.
func New(addr string, defaultTTL time.Duration) *Cache {
	return &Cache{
		rdb:        redis.NewClient(&redis.Options{Addr: addr}),
		defaultTTL: defaultTTL,
	}
}

// Ping verifies the backend is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Get retrieves a value from Redis.
func (c *Cache) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return data, true, nil
}

// Set stores a value in Redis with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a key from Redis.
func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis del: %w", err)
	}
	return n > 0, nil
}

// Exists reports whether the key is present.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// ClearPattern removes all keys matching the glob pattern using SCAN,
// never KEYS, so large keyspaces do not block the server.
func (c *Cache) ClearPattern(ctx context.Context, pattern string) (int, error) {
	var (
		cursor  uint64
		cleared int
	)
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return cleared, fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return cleared, fmt.Errorf("redis del: %w", err)
			}
			cleared += int(n)
		}
		cursor = next
		if cursor == 0 {
			return cleared, nil
		}
	}
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
