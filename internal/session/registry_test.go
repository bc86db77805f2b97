package session

import (
	"testing"
	"time"
)

func TestCreateThenValidate(t *testing.T) {
	r := NewRegistry(time.Hour)

	id, err := r.Create("10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("expected non-empty session ID")
	}
	if !r.Validate(id) {
		t.Fatal("fresh session must validate")
	}
}

func TestTokenLengthAndUniqueness(t *testing.T) {
	r := NewRegistry(time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := r.Create("owner")
		if err != nil {
			t.Fatal(err)
		}
		// 32 bytes base64url without padding = 43 chars
		if len(id) != 43 {
			t.Fatalf("expected 43-char token, got %d", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate session ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestValidateUnknownID(t *testing.T) {
	r := NewRegistry(time.Hour)
	if r.Validate("no-such-session") {
		t.Fatal("unknown ID must not validate")
	}
}

func TestExpiredSessionIsPurged(t *testing.T) {
	r := NewRegistry(time.Hour)
	now := time.Now()
	r.now = func() time.Time { return now }

	id, err := r.Create("owner")
	if err != nil {
		t.Fatal(err)
	}

	now = now.Add(time.Hour + time.Second)

	if r.Validate(id) {
		t.Fatal("expired session must not validate")
	}
	// Purged, not merely marked: a second call also fails and the entry is gone.
	if r.Validate(id) {
		t.Fatal("second validate on purged session must fail")
	}
	if r.Len() != 0 {
		t.Fatalf("expected purged registry, got %d entries", r.Len())
	}
}

func TestExpiryIsAbsoluteNotSliding(t *testing.T) {
	r := NewRegistry(time.Hour)
	now := time.Now()
	r.now = func() time.Time { return now }

	id, _ := r.Create("owner")

	// Touch the session every 10 minutes; activity must not extend the
	// lifetime ceiling.
	for i := 0; i < 6; i++ {
		now = now.Add(10 * time.Minute)
		r.Validate(id)
	}

	now = now.Add(time.Minute)
	if r.Validate(id) {
		t.Fatal("session must expire an hour after creation regardless of activity")
	}
}

func TestValidateUpdatesLastAccessed(t *testing.T) {
	r := NewRegistry(time.Hour)
	now := time.Now()
	r.now = func() time.Time { return now }

	id, _ := r.Create("owner")
	created := r.sessions[id].CreatedAt

	now = now.Add(5 * time.Minute)
	if !r.Validate(id) {
		t.Fatal("expected valid session")
	}

	s := r.sessions[id]
	if !s.LastAccessedAt.Equal(now) {
		t.Errorf("expected last access %v, got %v", now, s.LastAccessedAt)
	}
	if !s.CreatedAt.Equal(created) {
		t.Error("CreatedAt must not change on validation")
	}
}

func TestEndIsIdempotent(t *testing.T) {
	r := NewRegistry(time.Hour)

	id, _ := r.Create("owner")
	r.End(id)
	if r.Validate(id) {
		t.Fatal("ended session must not validate")
	}
	// Unknown and repeated ends are no-ops.
	r.End(id)
	r.End("never-existed")
}

func TestReset(t *testing.T) {
	r := NewRegistry(time.Hour)
	id, _ := r.Create("owner")
	r.Reset()
	if r.Validate(id) {
		t.Fatal("reset must drop all sessions")
	}
	if r.Len() != 0 {
		t.Fatal("expected empty registry after reset")
	}
}
