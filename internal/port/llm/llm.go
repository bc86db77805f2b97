// Package llm defines the port interface for the language model backend.
package llm

import "context"

// Answer is the result of a chat query.
type Answer struct {
	Text    string
	Sources []string
}

// Agent answers chat questions about the project. Implementations wrap an
// inference backend; calls are expensive and may take many seconds.
type Agent interface {
	Query(ctx context.Context, question string) (*Answer, error)
}
