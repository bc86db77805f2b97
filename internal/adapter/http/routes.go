package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kordesk/sentrychat/internal/port/auth"
)

// MountRoutes registers all API routes on the given chi router. rateLimit,
// when non-nil, is applied to the query endpoint only; polling the report
// and reading conversations stay unthrottled.
func MountRoutes(r chi.Router, h *Handlers, verifier auth.Verifier, rateLimit func(http.Handler) http.Handler) {
	r.Get("/health", h.HandleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(verifier))

			if rateLimit != nil {
				r.With(rateLimit).Post("/query", h.HandleQuery)
			} else {
				r.Post("/query", h.HandleQuery)
			}
			r.Get("/report", h.HandleReport)
			r.Get("/conversations", h.HandleListConversations)
			r.Get("/conversations/{id}", h.HandleGetConversation)
			r.Delete("/session", h.HandleEndSession)
		})
	})
}
