package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// GetJSON reads key and unmarshals it into v. Returns false on a miss, a
// backend error, or a corrupt entry; the caller treats all three as a miss.
func GetJSON(ctx context.Context, c Cache, key string, v any) bool {
	data, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("cache entry corrupt, treating as miss", "key", key, "error", err)
		return false
	}
	return true
}

// SetJSON marshals v and stores it under key. Serialization failure is a
// false return, never a panic or a propagated error.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) bool {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("cache value not serializable", "key", key, "error", err)
		return false
	}
	return c.Set(ctx, key, data, ttl) == nil
}
