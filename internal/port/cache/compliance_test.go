package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/kordesk/sentrychat/internal/port/cache"
)

// RunComplianceTests runs the standard compliance test suite against any
// Cache implementation backed by reachable storage.
func RunComplianceTests(t *testing.T, c cache.Cache) {
	t.Helper()
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		if err := c.Set(ctx, "compliance-key", []byte("compliance-val"), time.Minute); err != nil {
			t.Fatal(err)
		}
		val, found, err := c.Get(ctx, "compliance-key")
		if err != nil {
			t.Fatal(err)
		}
		if !found {
			t.Fatal("expected found after Set")
		}
		if string(val) != "compliance-val" {
			t.Fatalf("expected compliance-val, got %s", val)
		}
	})

	t.Run("GetMiss", func(t *testing.T) {
		_, found, err := c.Get(ctx, "nonexistent-key")
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Fatal("expected miss for nonexistent key")
		}
	})

	t.Run("ExistsAfterSet", func(t *testing.T) {
		if err := c.Set(ctx, "exists-key", []byte("v"), time.Minute); err != nil {
			t.Fatal(err)
		}
		ok, err := c.Exists(ctx, "exists-key")
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("expected Exists true after Set")
		}
		ok, err = c.Exists(ctx, "never-set")
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatal("expected Exists false for absent key")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		_ = c.Set(ctx, "del-key", []byte("del-val"), time.Minute)
		deleted, err := c.Delete(ctx, "del-key")
		if err != nil {
			t.Fatal(err)
		}
		if !deleted {
			t.Fatal("expected Delete to report removal")
		}
		_, found, err := c.Get(ctx, "del-key")
		if err != nil {
			t.Fatal(err)
		}
		if found {
			t.Fatal("expected miss after Delete")
		}
	})

	t.Run("DeleteNonexistent", func(t *testing.T) {
		deleted, err := c.Delete(ctx, "never-existed")
		if err != nil {
			t.Fatal("Delete of nonexistent key should not error")
		}
		if deleted {
			t.Fatal("Delete of nonexistent key should report false")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		_ = c.Set(ctx, "ow-key", []byte("v1"), time.Minute)
		_ = c.Set(ctx, "ow-key", []byte("v2"), time.Minute)
		val, found, err := c.Get(ctx, "ow-key")
		if err != nil {
			t.Fatal(err)
		}
		if !found {
			t.Fatal("expected found after overwrite")
		}
		if string(val) != "v2" {
			t.Fatalf("expected v2 after overwrite, got %s", val)
		}
	})

	t.Run("ClearPattern", func(t *testing.T) {
		_ = c.Set(ctx, "clear:a", []byte("1"), time.Minute)
		_ = c.Set(ctx, "clear:b", []byte("2"), time.Minute)
		_ = c.Set(ctx, "keep:c", []byte("3"), time.Minute)

		n, err := c.ClearPattern(ctx, "clear:*")
		if err != nil {
			t.Fatal(err)
		}
		if n != 2 {
			t.Fatalf("expected 2 cleared, got %d", n)
		}
		if _, found, _ := c.Get(ctx, "keep:c"); !found {
			t.Fatal("non-matching key should survive ClearPattern")
		}
	})
}
