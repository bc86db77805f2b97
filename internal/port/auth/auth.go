// Package auth defines the port interface for credential verification.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidCredentials is returned when a presented credential does not
// resolve to a known user.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier resolves a bearer credential to a user identity. The credential
// format is owned by the adapter; the core consumes only the resolved ID.
type Verifier interface {
	Verify(ctx context.Context, credential string) (userID string, err error)
}
