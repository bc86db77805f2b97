package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/kordesk/sentrychat/internal/adapter/apikey"
	"github.com/kordesk/sentrychat/internal/adapter/degraded"
	schttp "github.com/kordesk/sentrychat/internal/adapter/http"
	"github.com/kordesk/sentrychat/internal/adapter/natskv"
	"github.com/kordesk/sentrychat/internal/adapter/nullcache"
	"github.com/kordesk/sentrychat/internal/adapter/ollama"
	scotel "github.com/kordesk/sentrychat/internal/adapter/otel"
	"github.com/kordesk/sentrychat/internal/adapter/rediscache"
	"github.com/kordesk/sentrychat/internal/adapter/ristretto"
	"github.com/kordesk/sentrychat/internal/adapter/tiered"
	"github.com/kordesk/sentrychat/internal/config"
	"github.com/kordesk/sentrychat/internal/logger"
	"github.com/kordesk/sentrychat/internal/middleware"
	"github.com/kordesk/sentrychat/internal/port/cache"
	"github.com/kordesk/sentrychat/internal/resilience"
	"github.com/kordesk/sentrychat/internal/scanner"
	"github.com/kordesk/sentrychat/internal/service"
	"github.com/kordesk/sentrychat/internal/session"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"cache_enabled", cfg.Cache.Enabled,
		"cache_backend", cfg.Cache.Backend,
	)

	ctx := context.Background()

	// --- Metrics ---
	shutdownMetrics, err := scotel.InitMetrics(ctx, cfg.Metrics, cfg.Logging.Service)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownMetrics(shutdownCtx); err != nil {
			slog.Warn("metrics shutdown failed", "error", err)
		}
	}()

	metrics, err := scotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metric instruments: %w", err)
	}

	// --- Cache ---
	store, cacheProbe, closeCache := buildCache(ctx, cfg, log)
	defer closeCache()

	// --- LLM ---
	llmClient := ollama.NewClient(cfg.Ollama.URL, cfg.Ollama.Model, cfg.Ollama.Timeout)
	llmClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	// --- Services ---
	sessions := session.NewRegistry(cfg.Session.Lifetime)
	queries := service.NewQueryService(llmClient, store, service.NewConversationStore(), log)

	projectScanner := scanner.New(cfg.Scanner.RootPath)
	reports := service.NewReportCoordinator(
		store,
		service.GeneratorFunc(func(ctx context.Context) (any, error) {
			return projectScanner.Generate(ctx)
		}),
		cfg.Cache.DefaultTTL,
		cfg.Report.ErrorTTL,
		log,
	)

	verifier := apikey.New(cfg.Auth.Keys)

	// --- HTTP ---
	handlers := schttp.NewHandlers(queries, reports, sessions, metrics, cfg.Session.Lifetime)
	if cacheProbe != nil {
		handlers.AddHealthCheck("cache", cacheProbe)
	}
	handlers.AddHealthCheck("llm", func(ctx context.Context) error {
		_, err := llmClient.Health(ctx)
		return err
	})

	r := chi.NewRouter()

	// Admission runs before everything else; a rejected request never
	// reaches session or cache logic.
	r.Use(middleware.SecurityHeaders(cfg.Server.Debug))
	r.Use(middleware.Admission(cfg.Security, metrics.CountRejection))
	r.Use(middleware.RequestID)
	r.Use(schttp.Logger)
	r.Use(scotel.HTTPMiddleware(cfg.Logging.Service))

	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	schttp.MountRoutes(r, handlers, verifier, limiter.Handler)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// buildCache assembles the cache store from config: the configured backend
// behind the degrade-gracefully wrapper, optionally fronted by an
// in-process L1. A disabled or unreachable backend selects the null store
// so the service runs uncached rather than failing startup.
func buildCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (cache.Cache, schttp.HealthCheck, func()) {
	noop := func() {}

	if !cfg.Cache.Enabled {
		slog.Info("cache disabled, running without caching")
		return nullcache.New(), nil, noop
	}

	var backend cache.Cache
	var probe schttp.HealthCheck
	var closeFn func()

	switch cfg.Cache.Backend {
	case "nats":
		nc, err := nats.Connect(cfg.Cache.Addr)
		if err != nil {
			slog.Warn("nats unreachable, running without caching", "error", err)
			return nullcache.New(), nil, noop
		}
		js, err := jetstream.New(nc)
		if err != nil {
			nc.Close()
			slog.Warn("jetstream unavailable, running without caching", "error", err)
			return nullcache.New(), nil, noop
		}
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket: cfg.Cache.NATSBucket,
			TTL:    cfg.Cache.DefaultTTL,
		})
		if err != nil {
			nc.Close()
			slog.Warn("kv bucket unavailable, running without caching", "error", err)
			return nullcache.New(), nil, noop
		}
		backend = natskv.New(kv)
		probe = func(ctx context.Context) error {
			_, err := backend.Exists(ctx, "health-probe")
			return err
		}
		closeFn = nc.Close
		slog.Info("nats cache connected", "addr", cfg.Cache.Addr, "bucket", cfg.Cache.NATSBucket)

	default: // redis
		rc := rediscache.New(cfg.Cache.Addr, cfg.Cache.DefaultTTL)
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			slog.Warn("redis unreachable, running without caching", "error", err)
			return nullcache.New(), nil, noop
		}
		backend = rc
		probe = func(ctx context.Context) error { return rc.Ping(ctx) }
		closeFn = func() { _ = rc.Close() }
		slog.Info("redis cache connected", "addr", cfg.Cache.Addr)
	}

	if cfg.Cache.L1Enabled {
		l1, err := ristretto.New(cfg.Cache.L1MaxSizeMB << 20)
		if err != nil {
			slog.Warn("l1 cache unavailable, using backend only", "error", err)
		} else {
			backend = tiered.New(l1, backend, cfg.Cache.L1TTL)
			slog.Info("l1 cache enabled", "max_size_mb", cfg.Cache.L1MaxSizeMB)
		}
	}

	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	return degraded.New(backend, breaker, cfg.Cache.DefaultTTL, log), probe, closeFn
}
