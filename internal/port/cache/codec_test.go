package cache_test

import (
	"context"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/kordesk/sentrychat/internal/port/cache"
)

// memCache is a simple in-memory cache for testing.
type memCache struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	delete(m.data, key)
	return ok, nil
}

func (m *memCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *memCache) ClearPattern(_ context.Context, pattern string) (int, error) {
	n := 0
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

func TestInMemoryCompliance(t *testing.T) {
	RunComplianceTests(t, newMemCache())
}

func TestSetJSONThenGetJSON(t *testing.T) {
	m := newMemCache()
	ctx := context.Background()

	type payload struct {
		Answer string `json:"answer"`
	}
	if !cache.SetJSON(ctx, m, "k", payload{Answer: "42"}, time.Minute) {
		t.Fatal("SetJSON reported failure")
	}

	var out payload
	if !cache.GetJSON(ctx, m, "k", &out) {
		t.Fatal("GetJSON missed after SetJSON")
	}
	if out.Answer != "42" {
		t.Errorf("unexpected value: %+v", out)
	}
}

func TestGetJSONMiss(t *testing.T) {
	var out map[string]string
	if cache.GetJSON(context.Background(), newMemCache(), "absent", &out) {
		t.Fatal("expected miss")
	}
}

func TestGetJSONCorruptEntryIsMiss(t *testing.T) {
	m := newMemCache()
	m.data["k"] = []byte("{broken")

	var out map[string]string
	if cache.GetJSON(context.Background(), m, "k", &out) {
		t.Fatal("corrupt entry must read as a miss")
	}
}

func TestGetJSONBackendErrorIsMiss(t *testing.T) {
	m := newMemCache()
	m.getErr = errors.New("backend down")

	var out map[string]string
	if cache.GetJSON(context.Background(), m, "k", &out) {
		t.Fatal("backend error must read as a miss")
	}
}

func TestSetJSONUnserializableIsFalse(t *testing.T) {
	if cache.SetJSON(context.Background(), newMemCache(), "k", make(chan int), time.Minute) {
		t.Fatal("unserializable value must report failure")
	}
}

func TestSetJSONBackendErrorIsFalse(t *testing.T) {
	m := newMemCache()
	m.setErr = errors.New("backend down")
	if cache.SetJSON(context.Background(), m, "k", "v", time.Minute) {
		t.Fatal("backend error must report failure")
	}
}
