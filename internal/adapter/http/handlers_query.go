package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const sessionCookieName = "session_id"

type queryRequest struct {
	Question       string `json:"question"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type queryResponse struct {
	Answer         string   `json:"answer"`
	Sources        []string `json:"sources,omitempty"`
	ConversationID string   `json:"conversation_id"`
	Cached         bool     `json:"cached"`
}

// HandleQuery answers a chat question for the authenticated user, creating
// or touching their session along the way.
func (h *Handlers) HandleQuery(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())

	if !h.admitSession(w, r, userID) {
		return
	}

	req, ok := readJSON[queryRequest](w, r)
	if !ok {
		return
	}

	res, err := h.queries.Ask(r.Context(), userID, req.Question, req.ConversationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.metrics.Queries.Add(r.Context(), 1)
	if res.Cached {
		h.metrics.CacheHits.Add(r.Context(), 1)
	} else {
		h.metrics.CacheMisses.Add(r.Context(), 1)
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Answer:         res.Answer,
		Sources:        res.Sources,
		ConversationID: res.ConversationID,
		Cached:         res.Cached,
	})
}

// admitSession enforces the session protocol: a presented cookie must
// identify a live session or the request fails with 401 and the cookie is
// cleared; with no cookie a fresh session is created and set. Reports
// whether the request may proceed.
func (h *Handlers) admitSession(w http.ResponseWriter, r *http.Request, userID string) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil {
		if h.sessions.Validate(cookie.Value) {
			return true
		}
		h.clearSessionCookie(w)
		writeError(w, http.StatusUnauthorized, "invalid or expired session")
		return false
	}

	id, err := h.sessions.Create(userID)
	if err != nil {
		writeServiceError(w, err)
		return false
	}
	h.setSessionCookie(w, id)
	return true
}

// HandleEndSession terminates the caller's session. Ending an unknown or
// already-ended session succeeds the same way.
func (h *Handlers) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		h.sessions.End(cookie.Value)
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleListConversations returns the caller's conversations, newest first.
func (h *Handlers) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	list := h.queries.Conversations().List(UserID(r.Context()))
	writeJSON(w, http.StatusOK, map[string]any{"conversations": list})
}

// HandleGetConversation returns one conversation with its messages.
func (h *Handlers) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.queries.Conversations().Get(UserID(r.Context()), chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.sessionLifetime.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
