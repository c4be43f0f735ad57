package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/wask/internal/adapters/http/api"
	"github.com/okian/wask/internal/adapters/http/site"
	"github.com/okian/wask/internal/adapters/http/swagger"
	"github.com/okian/wask/internal/adapters/repository"
	app "github.com/okian/wask/internal/app"
	"github.com/okian/wask/internal/config"
	"github.com/okian/wask/internal/domain/submission"
	"github.com/okian/wask/pkg/logger"
	"github.com/okian/wask/pkg/metrics"
)

// HTTP server timeout constants.
const (
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 15 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "wask stopped with error", logger.Error(err))
		_ = logger.Sync()
		stop()
		os.Exit(1) //nolint:gocritic // stop is called explicitly above
	}
	_ = logger.Sync()
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> .env -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return err
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(
		metrics.WithNamespace(cfg.Metrics.Namespace),
		metrics.WithSubsystem(cfg.Metrics.Subsystem),
		metrics.WithConstLabels(cfg.Metrics.ConstLabels),
		metrics.WithHistogramBuckets(cfg.Metrics.LatencyBucketsMS),
	)

	store, err := repository.Open(ctx, repository.Settings{
		Driver:   cfg.Store.Driver,
		Path:     cfg.Store.Path,
		DSN:      cfg.Store.DSN,
		RedisURL: cfg.Store.RedisURL,
	}, repository.WithLogger(log.Named("store")), repository.WithRedisPrefix(cfg.Store.RedisPrefix))
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithStore(store),
		app.WithDriverName(cfg.Store.Driver),
		app.WithLogger(log.Named("service")),
	)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, log),
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutMS) * time.Millisecond,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutMS) * time.Millisecond,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("driver", cfg.Store.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newHandler builds the full route table on one router.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) http.Handler {
	r := api.NewRouter(log.Named("http"), cfg.HTTP.CORSOrigins)

	swagger.Register(ctx, r)
	site.Register(ctx, r, svc, log.Named("site"))

	normalizer := submission.New(
		submission.WithDefaultName(cfg.DefaultName),
		submission.WithStrict(cfg.Submit.Strict),
	)
	api.NewServer(svc, svc,
		api.WithNormalizer(normalizer),
		api.WithLogger(log.Named("api")),
	).Register(ctx, r)
	return r
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

// startServiceMetricsUpdater keeps the records gauge fresh between writes.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
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
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()
	if total, ok := stats["totalRecords"].(int); ok {
		metrics.UpdateRecordsTotal(total)
	}
}
