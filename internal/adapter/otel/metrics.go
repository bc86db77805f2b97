package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "sentrychat"

// Metrics holds all sentrychat metric instruments. Without an installed
// meter provider the instruments are no-ops, so recording is always safe.
type Metrics struct {
	Queries             metric.Int64Counter
	CacheHits           metric.Int64Counter
	CacheMisses         metric.Int64Counter
	ReportRuns          metric.Int64Counter
	AdmissionRejections metric.Int64Counter
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Queries, err = meter.Int64Counter("sentrychat.queries",
		metric.WithDescription("Number of chat queries answered"))
	if err != nil {
		return nil, err
	}

	m.CacheHits, err = meter.Int64Counter("sentrychat.cache.hits",
		metric.WithDescription("Number of query answers served from cache"))
	if err != nil {
		return nil, err
	}

	m.CacheMisses, err = meter.Int64Counter("sentrychat.cache.misses",
		metric.WithDescription("Number of query answers computed by the model"))
	if err != nil {
		return nil, err
	}

	m.ReportRuns, err = meter.Int64Counter("sentrychat.report.runs",
		metric.WithDescription("Number of report computations started"))
	if err != nil {
		return nil, err
	}

	m.AdmissionRejections, err = meter.Int64Counter("sentrychat.admission.rejections",
		metric.WithDescription("Number of requests rejected before handling"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// CountRejection records one admission rejection with its reason.
func (m *Metrics) CountRejection(reason string) {
	m.AdmissionRejections.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("reason", reason)))
}
