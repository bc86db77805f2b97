// Package apikey implements the auth port with static bcrypt-hashed keys.
package apikey

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/kordesk/sentrychat/internal/port/auth"
)

// Verifier checks presented API keys against configured bcrypt hashes.
type Verifier struct {
	// hashes maps user ID to the bcrypt hash of that user's key.
	hashes map[string]string
}

// New creates a verifier from a userID -> bcrypt-hash map.
func New(hashes map[string]string) *Verifier {
	return &Verifier{hashes: hashes}
}

// Verify returns the user ID owning the presented key. Every configured
// hash is checked; bcrypt comparison dominates the cost, so the small
// linear scan is irrelevant.
func (v *Verifier) Verify(_ context.Context, credential string) (string, error) {
	for userID, hash := range v.hashes {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential)) == nil {
			return userID, nil
		}
	}
	return "", auth.ErrInvalidCredentials
}
