// Package session tracks short-lived session tokens in process memory.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

// tokenBytes is the entropy of a session ID. 32 bytes = 256 bits, encoded
// to 43 URL-safe characters.
const tokenBytes = 32

// Session is a live session record. Expiry is computed from CreatedAt, not
// LastAccessedAt: a session's total lifetime is bounded regardless of
// activity. Sessions are capability tokens with a hard ceiling, not
// idle-timeout cookies.
type Session struct {
	Owner          string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// Registry is an in-memory session store. One instance per process, wired
// explicitly at startup; construct fresh instances in tests for isolation.
//
// Expired entries are reaped lazily on the next Validate for that ID.
// Sessions are low-cardinality and short-lived, so unreaped entries consume
// bounded memory until they are hit again or the process restarts.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	lifetime time.Duration
	now      func() time.Time // for testing
}

// NewRegistry creates a registry whose sessions live for lifetime,
// measured from creation.
func NewRegistry(lifetime time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Create registers a new session for owner and returns its ID: a
// cryptographically unguessable 256-bit token. Collisions are treated as
// negligible, not handled.
func (r *Registry) Create(owner string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	id := base64.RawURLEncoding.EncodeToString(buf)

	now := r.now()
	r.mu.Lock()
	r.sessions[id] = &Session{
		Owner:          owner,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	r.mu.Unlock()

	return id, nil
}

// Validate reports whether id identifies a live session. An expired session
// is removed and reported invalid; a live one has its LastAccessedAt
// updated. LastAccessedAt never extends the lifetime.
func (r *Registry) Validate(id string) bool {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	if now.Sub(s.CreatedAt) > r.lifetime {
		delete(r.sessions, id)
		return false
	}
	s.LastAccessedAt = now
	return true
}

// End removes the session unconditionally. Unknown IDs are a no-op.
func (r *Registry) End(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of tracked sessions, including any not yet reaped.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Reset drops all sessions. Teardown hook for tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
}
