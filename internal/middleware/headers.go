package middleware

import (
	"net/http"

	"github.com/kordesk/sentrychat/internal/config"
)

// SecurityHeaders returns middleware that attaches the fixed,
// configuration-derived header set to every response, regardless of route
// or outcome.
func SecurityHeaders(debug bool) func(http.Handler) http.Handler {
	headers := config.SecurityHeaders(debug)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for name, value := range headers {
				w.Header().Set(name, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
