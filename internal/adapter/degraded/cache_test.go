package degraded_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kordesk/sentrychat/internal/adapter/degraded"
	"github.com/kordesk/sentrychat/internal/resilience"
)

// faultyCache fails every operation until healed.
type faultyCache struct {
	failing bool
	data    map[string][]byte
}

var errBackend = errors.New("backend down")

func newFaultyCache() *faultyCache {
	return &faultyCache{data: make(map[string][]byte)}
}

func (f *faultyCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if f.failing {
		return nil, false, errBackend
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *faultyCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if f.failing {
		return errBackend
	}
	f.data[key] = value
	return nil
}

func (f *faultyCache) Delete(_ context.Context, key string) (bool, error) {
	if f.failing {
		return false, errBackend
	}
	_, ok := f.data[key]
	delete(f.data, key)
	return ok, nil
}

func (f *faultyCache) Exists(_ context.Context, key string) (bool, error) {
	if f.failing {
		return false, errBackend
	}
	_, ok := f.data[key]
	return ok, nil
}

func (f *faultyCache) ClearPattern(_ context.Context, _ string) (int, error) {
	if f.failing {
		return 0, errBackend
	}
	n := len(f.data)
	f.data = make(map[string][]byte)
	return n, nil
}

func newDegraded(backend *faultyCache, maxFailures int) *degraded.Cache {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	breaker := resilience.NewBreaker(maxFailures, time.Minute)
	return degraded.New(backend, breaker, time.Hour, log)
}

func TestHealthyBackendPassesThrough(t *testing.T) {
	backend := newFaultyCache()
	c := newDegraded(backend, 3)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	val, found, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if !found || string(val) != "v" {
		t.Fatalf("expected v, got found=%v val=%s", found, val)
	}
}

func TestFailingBackendDegradesToMiss(t *testing.T) {
	backend := newFaultyCache()
	backend.failing = true
	c := newDegraded(backend, 10)
	ctx := context.Background()

	_, found, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get must never surface backend errors, got %v", err)
	}
	if found {
		t.Fatal("expected miss")
	}

	deleted, err := c.Delete(ctx, "k")
	if err != nil || deleted {
		t.Fatalf("Delete must degrade to (false, nil), got (%v, %v)", deleted, err)
	}

	ok, err := c.Exists(ctx, "k")
	if err != nil || ok {
		t.Fatalf("Exists must degrade to (false, nil), got (%v, %v)", ok, err)
	}

	n, err := c.ClearPattern(ctx, "*")
	if err != nil || n != 0 {
		t.Fatalf("ClearPattern must degrade to (0, nil), got (%d, %v)", n, err)
	}
}

func TestFailedSetReportsUnavailable(t *testing.T) {
	backend := newFaultyCache()
	backend.failing = true
	c := newDegraded(backend, 10)

	err := c.Set(context.Background(), "k", []byte("v"), time.Minute)
	if !errors.Is(err, degraded.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestDefaultTTLApplied(t *testing.T) {
	backend := newFaultyCache()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	var captured time.Duration
	spy := &ttlSpy{inner: backend, captured: &captured}
	c := degraded.New(spy, resilience.NewBreaker(3, time.Minute), time.Hour, log)

	if err := c.Set(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if captured != time.Hour {
		t.Fatalf("expected default TTL 1h, got %v", captured)
	}
}

type ttlSpy struct {
	inner    *faultyCache
	captured *time.Duration
}

func (s *ttlSpy) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, key)
}

func (s *ttlSpy) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	*s.captured = ttl
	return s.inner.Set(ctx, key, value, ttl)
}

func (s *ttlSpy) Delete(ctx context.Context, key string) (bool, error) {
	return s.inner.Delete(ctx, key)
}

func (s *ttlSpy) Exists(ctx context.Context, key string) (bool, error) {
	return s.inner.Exists(ctx, key)
}

func (s *ttlSpy) ClearPattern(ctx context.Context, pattern string) (int, error) {
	return s.inner.ClearPattern(ctx, pattern)
}

func TestBreakerShortCircuitsAfterFailures(t *testing.T) {
	backend := newFaultyCache()
	backend.failing = true
	c := newDegraded(backend, 2)
	ctx := context.Background()

	// Two failures trip the breaker.
	_, _, _ = c.Get(ctx, "k")
	_, _, _ = c.Get(ctx, "k")

	// The backend heals, but the open circuit keeps degrading to misses
	// until its timeout elapses.
	backend.failing = false
	backend.data["k"] = []byte("v")

	_, found, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("open circuit must degrade to miss without touching the backend")
	}
}
