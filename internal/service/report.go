package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/kordesk/sentrychat/internal/port/cache"
)

// reportSchemaVersion is bumped whenever the report payload shape changes,
// so stale cached reports from an older build are recognizable.
const reportSchemaVersion = 2

// Report fetch statuses surfaced to pollers.
const (
	ReportReady      = "ready"
	ReportStarted    = "started"
	ReportGenerating = "generating"
	ReportError      = "error"
)

// ReportGenerator produces the expensive report payload.
type ReportGenerator interface {
	Generate(ctx context.Context) (any, error)
}

// GeneratorFunc adapts a function to the ReportGenerator interface.
type GeneratorFunc func(ctx context.Context) (any, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context) (any, error) {
	return f(ctx)
}

// reportRecord is the persisted cache record for a finished computation.
type reportRecord struct {
	Status  string `json:"status"` // "success" | "error"
	Version int    `json:"version,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ReportResult is the outcome of a fetch, ready to render.
type ReportResult struct {
	Status  string
	Report  json.RawMessage // full cached record, set when Status == ready
	Message string          // set when Status == error
}

// ReportCoordinator ensures the report computation runs at most once
// concurrently process-wide while serving cached results to all callers.
//
// The exclusivity lock is a weighted semaphore acquired without blocking:
// a failed TryAcquire is how concurrent triggers become "generating"
// responses instead of queued waiters. Finished results (success or error)
// live in the cache, so they survive across requests and across process
// restarts within their TTL; "running" exists only as the held lock.
type ReportCoordinator struct {
	cache    cache.Cache
	gen      ReportGenerator
	lock     *semaphore.Weighted
	ttl      time.Duration // for success records
	errorTTL time.Duration // shorter, so failures are retried sooner
	log      *slog.Logger

	// completed, when set, is invoked after each generation finishes and
	// its record is written. Test hook.
	completed func()
}

// NewReportCoordinator wires a coordinator. ttl covers success records;
// errorTTL covers failure records and should be much shorter.
func NewReportCoordinator(c cache.Cache, gen ReportGenerator, ttl, errorTTL time.Duration, log *slog.Logger) *ReportCoordinator {
	return &ReportCoordinator{
		cache:    c,
		gen:      gen,
		lock:     semaphore.NewWeighted(1),
		ttl:      ttl,
		errorTTL: errorTTL,
		log:      log,
	}
}

// Fetch implements the report protocol: cached record if present, else
// trigger-or-report-progress, always returning immediately.
func (rc *ReportCoordinator) Fetch(ctx context.Context) ReportResult {
	data, found, err := rc.cache.Get(ctx, cache.ReportKey())
	if err == nil && found {
		var rec reportRecord
		if unmarshalErr := json.Unmarshal(data, &rec); unmarshalErr == nil {
			if rec.Status == "error" {
				return ReportResult{Status: ReportError, Message: rec.Message}
			}
			return ReportResult{Status: ReportReady, Report: json.RawMessage(data)}
		}
		rc.log.Warn("report cache record corrupt, regenerating")
	}

	if !rc.lock.TryAcquire(1) {
		// Another computation is already running; do not wait for it.
		return ReportResult{Status: ReportGenerating}
	}

	go rc.generate()
	return ReportResult{Status: ReportStarted}
}

// generate runs the computation out-of-band so it never occupies a request
// handler, and releases the lock on every exit path. Once started it runs
// to completion; subsequent requests cannot cancel it.
func (rc *ReportCoordinator) generate() {
	// LIFO: the panic handler runs first, then the lock release, then the
	// completion hook, so observers of completed see the lock already free.
	if rc.completed != nil {
		defer rc.completed()
	}
	defer rc.lock.Release(1)
	defer func() {
		if rec := recover(); rec != nil {
			rc.log.Error("report generation panicked", "panic", rec)
			rc.writeRecord(reportRecord{Status: "error", Message: "internal error"}, rc.errorTTL)
		}
	}()

	// Detached from any request context: the triggering request has long
	// since been answered with "started".
	ctx := context.Background()

	rc.log.Info("report generation started")
	data, err := rc.gen.Generate(ctx)
	if err != nil {
		rc.log.Error("report generation failed", "error", err)
		rc.writeRecord(reportRecord{Status: "error", Message: err.Error()}, rc.errorTTL)
		return
	}

	rc.writeRecord(reportRecord{
		Status:  "success",
		Version: reportSchemaVersion,
		Data:    data,
	}, rc.ttl)
	rc.log.Info("report generation completed")
}

func (rc *ReportCoordinator) writeRecord(rec reportRecord, ttl time.Duration) {
	if !cache.SetJSON(context.Background(), rc.cache, cache.ReportKey(), rec, ttl) {
		// With the cache degraded the result is simply lost; the next
		// fetch recomputes. Correctness is unaffected.
		rc.log.Warn("report record not cached")
	}
}
