// Package http provides the HTTP handlers and middleware for sentrychat.
package http

import (
	"context"
	"time"

	"github.com/kordesk/sentrychat/internal/adapter/otel"
	"github.com/kordesk/sentrychat/internal/service"
	"github.com/kordesk/sentrychat/internal/session"
)

// HealthCheck probes one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// Handlers bundles the application services behind the HTTP surface.
type Handlers struct {
	queries         *service.QueryService
	reports         *service.ReportCoordinator
	sessions        *session.Registry
	metrics         *otel.Metrics
	sessionLifetime time.Duration
	checks          map[string]HealthCheck
}

// NewHandlers creates the handler set. sessionLifetime becomes the session
// cookie's Max-Age.
func NewHandlers(
	queries *service.QueryService,
	reports *service.ReportCoordinator,
	sessions *session.Registry,
	metrics *otel.Metrics,
	sessionLifetime time.Duration,
) *Handlers {
	return &Handlers{
		queries:         queries,
		reports:         reports,
		sessions:        sessions,
		metrics:         metrics,
		sessionLifetime: sessionLifetime,
		checks:          make(map[string]HealthCheck),
	}
}

// AddHealthCheck registers a named dependency probe for the health endpoint.
func (h *Handlers) AddHealthCheck(name string, check HealthCheck) {
	h.checks[name] = check
}
