// Package service holds the application services behind the HTTP surface:
// the query pipeline, the conversation store, and the report coordinator.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/kordesk/sentrychat/internal/port/cache"
	"github.com/kordesk/sentrychat/internal/port/llm"
)

var (
	// ErrInvalidQuery marks questions rejected by validation.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrConversationNotFound marks references to conversations the caller
	// does not own or that never existed.
	ErrConversationNotFound = errors.New("conversation not found")
)

const (
	maxQuestionLen = 2000
	maxTitleLen    = 50
)

var scriptPattern = regexp.MustCompile(`(?i)<\s*script`)

// cachedAnswer is the persisted cache record for one answered question.
type cachedAnswer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// QueryResult is the outcome of one query, ready to render.
type QueryResult struct {
	Answer         string
	Sources        []string
	ConversationID string
	Cached         bool
}

// QueryService answers user questions, caching answers per user and
// recording the exchange in a conversation.
type QueryService struct {
	agent         llm.Agent
	cache         cache.Cache
	conversations *ConversationStore
	log           *slog.Logger
}

// NewQueryService wires the query pipeline.
func NewQueryService(agent llm.Agent, c cache.Cache, conversations *ConversationStore, log *slog.Logger) *QueryService {
	return &QueryService{
		agent:         agent,
		cache:         c,
		conversations: conversations,
		log:           log,
	}
}

// Ask validates the question, answers it from cache or the model, and
// appends the exchange to the conversation. An empty conversationID starts
// a new conversation titled after the question.
func (s *QueryService) Ask(ctx context.Context, userID, question, conversationID string) (*QueryResult, error) {
	question = strings.TrimSpace(question)
	if err := validateQuestion(question); err != nil {
		return nil, err
	}

	if conversationID == "" {
		conv := s.conversations.Create(userID, titleFrom(question))
		conversationID = conv.ID
	} else if _, ok := s.conversations.Get(userID, conversationID); !ok {
		return nil, ErrConversationNotFound
	}

	key := cache.QueryKey(userID, question)
	var hit cachedAnswer
	if cache.GetJSON(ctx, s.cache, key, &hit) {
		s.log.Debug("query answered from cache", "user_id", userID)
		s.record(conversationID, question, hit.Answer)
		return &QueryResult{
			Answer:         hit.Answer,
			Sources:        hit.Sources,
			ConversationID: conversationID,
			Cached:         true,
		}, nil
	}

	answer, err := s.agent.Query(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("agent query: %w", err)
	}

	s.record(conversationID, question, answer.Text)
	cache.SetJSON(ctx, s.cache, key, cachedAnswer{Answer: answer.Text, Sources: answer.Sources}, 0)

	return &QueryResult{
		Answer:         answer.Text,
		Sources:        answer.Sources,
		ConversationID: conversationID,
	}, nil
}

// Conversations exposes the underlying store for listing endpoints.
func (s *QueryService) Conversations() *ConversationStore {
	return s.conversations
}

func (s *QueryService) record(conversationID, question, answer string) {
	s.conversations.Append(conversationID, "user", question)
	s.conversations.Append(conversationID, "assistant", answer)
}

func validateQuestion(question string) error {
	switch {
	case question == "":
		return fmt.Errorf("%w: question is empty", ErrInvalidQuery)
	case len(question) > maxQuestionLen:
		return fmt.Errorf("%w: question exceeds %d characters", ErrInvalidQuery, maxQuestionLen)
	case scriptPattern.MatchString(question):
		return fmt.Errorf("%w: question contains markup", ErrInvalidQuery)
	}
	return nil
}

func titleFrom(question string) string {
	if len(question) > maxTitleLen {
		return question[:maxTitleLen]
	}
	return question
}
