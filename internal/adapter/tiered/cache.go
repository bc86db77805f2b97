// Package tiered implements a two-level (L1 + L2) cache adapter.
package tiered

import (
	"context"
	"time"

	"github.com/kordesk/sentrychat/internal/port/cache"
)

// Cache combines an L1 (in-process) and L2 (remote) cache.
// Get checks L1 first, then L2 (backfilling L1 on L2 hit).
// Mutations operate on both levels.
type Cache struct {
	l1       cache.Cache
	l2       cache.Cache
	l1Expire time.Duration
}

// New creates a tiered cache with the given L1 and L2 backends.
// l1Expire controls how long L2 backfill entries live in L1.
func New(l1, l2 cache.Cache, l1Expire time.Duration) *Cache {
	return &Cache{l1: l1, l2: l2, l1Expire: l1Expire}
}

// Get checks L1, then L2. On L2 hit, backfills L1.
func (c *Cache) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	val, found, err := c.l1.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if found {
		return val, true, nil
	}

	val, found, err = c.l2.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if found {
		// Backfill L1
		_ = c.l1.Set(ctx, key, val, c.l1Expire)
		return val, true, nil
	}

	return nil, false, nil
}

// Set writes to both L1 and L2. L1 entries are capped at l1Expire so a
// short remote TTL is never outlived locally by more than that window.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	l1TTL := ttl
	if l1TTL <= 0 || l1TTL > c.l1Expire {
		l1TTL = c.l1Expire
	}
	if err := c.l1.Set(ctx, key, value, l1TTL); err != nil {
		return err
	}
	return c.l2.Set(ctx, key, value, ttl)
}

// Delete removes from both levels. It reports removal if either level held
// the key.
func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	inL1, err := c.l1.Delete(ctx, key)
	if err != nil {
		return false, err
	}
	inL2, err := c.l2.Delete(ctx, key)
	if err != nil {
		return inL1, err
	}
	return inL1 || inL2, nil
}

// Exists reports presence in either level.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := c.l1.Exists(ctx, key)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return c.l2.Exists(ctx, key)
}

// ClearPattern clears matching keys from both levels. The count reported is
// the remote one, since L1 holds a subset of L2.
func (c *Cache) ClearPattern(ctx context.Context, pattern string) (int, error) {
	if _, err := c.l1.ClearPattern(ctx, pattern); err != nil {
		return 0, err
	}
	return c.l2.ClearPattern(ctx, pattern)
}
