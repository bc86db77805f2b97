package service

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message is one exchange turn in a conversation.
type Message struct {
	Role    string    `json:"role"` // "user" | "assistant"
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Conversation groups the exchanges of one user around one topic.
type Conversation struct {
	ID        string    `json:"id"`
	Owner     string    `json:"-"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// ConversationStore keeps conversations in memory. Durable conversation
// storage is out of scope; restarts drop history.
type ConversationStore struct {
	mu    sync.Mutex
	byID  map[string]*Conversation
	now   func() time.Time
	newID func() string
}

// NewConversationStore creates an empty store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		byID:  make(map[string]*Conversation),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create starts a conversation for owner and returns a snapshot of it.
func (s *ConversationStore) Create(owner, title string) Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	conv := &Conversation{
		ID:        s.newID(),
		Owner:     owner,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.byID[conv.ID] = conv
	return snapshot(conv)
}

// Get returns a snapshot of the conversation if it exists and belongs to
// owner. Conversations are never visible across owners.
func (s *ConversationStore) Get(owner, id string) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.byID[id]
	if !ok || conv.Owner != owner {
		return Conversation{}, false
	}
	return snapshot(conv), true
}

// Append adds a message to the conversation. Unknown IDs are ignored so a
// dropped conversation never fails the query path.
func (s *ConversationStore) Append(id, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.byID[id]
	if !ok {
		return
	}
	now := s.now()
	conv.Messages = append(conv.Messages, Message{Role: role, Content: content, At: now})
	conv.UpdatedAt = now
}

// List returns snapshots of all conversations owned by owner, newest first.
func (s *ConversationStore) List(owner string) []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Conversation, 0)
	for _, conv := range s.byID {
		if conv.Owner == owner {
			out = append(out, snapshot(conv))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Len reports the number of stored conversations.
func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// snapshot copies a conversation so callers never share mutable state with
// the store.
func snapshot(conv *Conversation) Conversation {
	out := *conv
	out.Messages = append([]Message(nil), conv.Messages...)
	return out
}

