// Package ristretto implements the cache port using dgraph-io/ristretto as
// an in-process L1 cache.
package ristretto

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache wraps a ristretto cache as an in-process L1 cache.
//
// Ristretto does not expose key iteration, so a side index of live keys is
// kept for ClearPattern. The index may briefly contain keys ristretto has
// already evicted; deleting an absent key is a no-op, so that is harmless.
type Cache struct {
	c *ristretto.Cache[string, []byte]

	mu   sync.Mutex
	keys map[string]struct{}
}

// New creates a ristretto-backed cache. maxCostBytes is the maximum total
// size of cached values in bytes.
func New(maxCostBytes int64) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCostBytes / 100 * 10, // ~10x expected items
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, keys: make(map[string]struct{})}, nil
}

// Get retrieves a value from the cache.
func (c *Cache) Get(_ context.Context, key string) (value []byte, found bool, err error) {
	val, ok := c.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores a value in the cache with the given TTL.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.c.SetWithTTL(key, value, int64(len(value)), ttl)
	c.mu.Lock()
	c.keys[key] = struct{}{}
	c.mu.Unlock()
	return nil
}

// Delete removes a value from the cache.
func (c *Cache) Delete(_ context.Context, key string) (bool, error) {
	_, existed := c.c.Get(key)
	c.c.Del(key)
	c.mu.Lock()
	delete(c.keys, key)
	c.mu.Unlock()
	return existed, nil
}

// Exists reports whether the key is present and unexpired.
func (c *Cache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.c.Get(key)
	return ok, nil
}

// ClearPattern removes all keys matching the glob pattern.
func (c *Cache) ClearPattern(_ context.Context, pattern string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cleared := 0
	for key := range c.keys {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return cleared, err
		}
		if !matched {
			continue
		}
		c.c.Del(key)
		delete(c.keys, key)
		cleared++
	}
	return cleared, nil
}

// Wait blocks until pending writes are visible. Ristretto applies Sets
// asynchronously; tests call this before asserting on Gets.
func (c *Cache) Wait() {
	c.c.Wait()
}

// Close shuts down the cache and releases resources.
func (c *Cache) Close() {
	c.c.Close()
}
