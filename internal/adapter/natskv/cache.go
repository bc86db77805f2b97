// Package natskv implements the cache port using NATS JetStream KV as
// remote backend.
package natskv

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Cache wraps a NATS JetStream KeyValue store as a remote cache.
type Cache struct {
	kv jetstream.KeyValue
}

// New creates a NATS KV-backed cache. Per-key TTLs are approximated by the
// bucket-level TTL, so the bucket should be created with the default cache
// TTL as its MaxAge.
func New(kv jetstream.KeyValue) *Cache {
	return &Cache{kv: kv}
}

// encodeKey maps cache keys onto the NATS KV key charset. Namespace colons
// become dots, which keeps glob patterns working unchanged.
func encodeKey(key string) string {
	return strings.ReplaceAll(key, ":", ".")
}

// Get retrieves a value from the NATS KV store.
func (c *Cache) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	entry, err := c.kv.Get(ctx, encodeKey(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return entry.Value(), true, nil
}

// Set stores a value in the NATS KV store. TTL is managed at bucket level.
func (c *Cache) Set(ctx context.Context, key string, value []byte, _ time.Duration) error {
	_, err := c.kv.Put(ctx, encodeKey(key), value)
	return err
}

// Delete removes a value from the NATS KV store.
func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	err := c.kv.Purge(ctx, encodeKey(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Exists reports whether the key is present in the KV store.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.kv.Get(ctx, encodeKey(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ClearPattern removes all keys matching the glob pattern.
func (c *Cache) ClearPattern(ctx context.Context, pattern string) (int, error) {
	lister, err := c.kv.ListKeys(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = lister.Stop() }()

	encoded := encodeKey(pattern)
	cleared := 0
	for key := range lister.Keys() {
		matched, err := path.Match(encoded, key)
		if err != nil {
			return cleared, err
		}
		if !matched {
			continue
		}
		if err := c.kv.Purge(ctx, key); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
			return cleared, err
		}
		cleared++
	}
	return cleared, nil
}
