// Package middleware provides HTTP middleware for sentrychat.
package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/kordesk/sentrychat/internal/config"
)

// Admission returns middleware that rejects requests before they reach any
// session or cache logic: unknown Host headers get a 400, oversized bodies
// a 413. Rejections are terminal for the current request only; the check is
// re-evaluated independently for the next one. A panic inside the check
// degrades to a generic 500 instead of propagating.
//
// onReject, when non-nil, is invoked with the rejection reason. Metrics hook.
func Admission(sec config.Security, onReject func(reason string)) func(http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, status int, message, reason string) {
		if onReject != nil {
			onReject(reason)
		}
		writeReject(w, status, message)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("admission check panicked", "panic", rec)
					reject(w, http.StatusInternalServerError, "internal server error", "panic")
				}
			}()

			host := stripPort(r.Host)
			if !sec.IsAllowedHost(host) {
				slog.Warn("invalid host header", "host", host)
				reject(w, http.StatusBadRequest, "invalid host header", "invalid_host")
				return
			}

			if r.ContentLength > sec.MaxRequestSize {
				slog.Warn("request too large", "content_length", r.ContentLength)
				reject(w, http.StatusRequestEntityTooLarge, "request too large", "oversize")
				return
			}

			// Declared length passed; enforce the ceiling on the actual body too.
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, sec.MaxRequestSize)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// stripPort removes the :port suffix from a Host header value.
func stripPort(hostport string) string {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		// No port present.
		return strings.TrimSpace(hostport)
	}
	return host
}

func writeReject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
