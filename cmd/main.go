package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/replay/internal/adapters/http/api"
	"github.com/okian/replay/internal/adapters/http/site"
	"github.com/okian/replay/internal/adapters/http/swagger"
	service "github.com/okian/replay/internal/app"
	"github.com/okian/replay/internal/config"
	"github.com/okian/replay/internal/domain/cost"
	"github.com/okian/replay/pkg/logger"
	"github.com/okian/replay/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since the logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Create and start the service with configuration options
	svc := service.New(
		service.WithLogger(log),
		service.WithCorpusDir(cfg.CorpusDir),
		service.WithNearBallRadius(cfg.NearBallRadius),
		service.WithDTWRadius(cfg.DTWRadius),
		service.WithMaxDistance(cfg.MaxDistance),
		service.WithTopN(cfg.TopN),
		service.WithHybridCandidates(cfg.HybridCandidates),
		service.WithHybridWeights(cfg.HybridDTWWeight, cfg.HybridLexicalWeight),
		service.WithDocFreqBounds(cfg.MinDocFreq, cfg.MaxDocRatio),
		service.WithFeatureWeights(cfg.FeatureWeights),
		service.WithOptionalFeatures(map[string]bool{
			cost.FeaturePass:     cfg.UsePassType,
			cost.FeatureShot:     cfg.UseShotType,
			cost.FeaturePressure: cfg.UsePressureType,
		}),
		service.WithScanWorkers(cfg.ScanWorkers),
		service.WithBuildOnStart(cfg.BuildOnStart),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register Swagger UI under /swagger
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency. The
	// service rebuilds its index on demand, so the reindex route comes up.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	// Embedded browser UI at the root; specific API paths take precedence.
	site.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Average pause over the life of the process
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics publishes corpus and pool gauges from the service
// stats snapshot. Index gauges only move once a build has happened.
func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()

	if n, ok := stats["matches"].(int); ok {
		metrics.UpdateCorpusMatches(n)
	}
	if n, ok := stats["sequences"].(int); ok {
		metrics.UpdateCorpusSequences(n)
	}
	if n, ok := stats["events"].(int); ok {
		metrics.UpdateCorpusEvents(n)
	}
	if n, ok := stats["event_vocabulary"].(int); ok {
		metrics.UpdateEventVocabulary(n)
	}
	if n, ok := stats["sequence_vocabulary"].(int); ok {
		metrics.UpdateSequenceVocabulary(n)
	}
	if n, ok := stats["scan_pool_capacity"].(int); ok {
		metrics.UpdateScanPoolCapacity(n)
	}
	if n, ok := stats["scan_pool_running"].(int); ok {
		metrics.UpdateScanPoolRunning(n)
	}
}
