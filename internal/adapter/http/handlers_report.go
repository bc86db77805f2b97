package http

import (
	"encoding/json"
	"net/http"

	"github.com/kordesk/sentrychat/internal/service"
)

type reportResponse struct {
	Status  string          `json:"status"`
	Report  json.RawMessage `json:"report,omitempty"`
	Message string          `json:"message,omitempty"`
}

// HandleReport serves the project report: cached results immediately, with
// the in-flight and just-triggered cases answered 202 so clients poll.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	res := h.reports.Fetch(r.Context())
	switch res.Status {
	case service.ReportReady:
		writeJSON(w, http.StatusOK, reportResponse{Status: res.Status, Report: res.Report})
	case service.ReportError:
		writeJSON(w, http.StatusOK, reportResponse{Status: res.Status, Message: res.Message})
	case service.ReportStarted:
		h.metrics.ReportRuns.Add(r.Context(), 1)
		writeJSON(w, http.StatusAccepted, reportResponse{Status: res.Status})
	default: // generating
		writeJSON(w, http.StatusAccepted, reportResponse{Status: res.Status})
	}
}
