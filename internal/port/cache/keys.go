package cache

import (
	"crypto/md5" //nolint:gosec // key derivation only, not a security boundary
	"encoding/hex"
	"fmt"
)

// Key generators own key construction per logical namespace so that keys
// from different namespaces can never collide.

// maxQuestionKeyLen bounds the question text folded into a query key so key
// material stays constant-size regardless of input length.
const maxQuestionKeyLen = 100

// QueryKey returns the cache key for a query result. The key is a hash of
// the caller identity and the first 100 characters of the question, so
// equal questions from the same user share an entry.
func QueryKey(userID, question string) string {
	if len(question) > maxQuestionKeyLen {
		question = question[:maxQuestionKeyLen]
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%s", userID, question))) //nolint:gosec
	return "query:" + hex.EncodeToString(sum[:])
}

// SessionKey returns the cache key for a session record.
func SessionKey(sessionID string) string {
	return "session:" + sessionID
}

// ReportKey returns the singleton cache key for the project report.
func ReportKey() string {
	return "security_report"
}
