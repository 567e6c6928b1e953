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

	"github.com/okian/prizeboard/internal/adapters/http/api"
	"github.com/okian/prizeboard/internal/adapters/http/site"
	"github.com/okian/prizeboard/internal/adapters/http/swagger"
	"github.com/okian/prizeboard/internal/adapters/source"
	app "github.com/okian/prizeboard/internal/app"
	"github.com/okian/prizeboard/internal/config"
	"github.com/okian/prizeboard/internal/domain/query"
	"github.com/okian/prizeboard/pkg/logger"
	"github.com/okian/prizeboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if cfg.LogFormat != logger.FormatText {
		if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
			os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
			os.Exit(1)
		}
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := svc.Stop(context.Background()); err != nil {
			log.Warn(ctx, "service stop", logger.Error(err))
		}
	}()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go reloadOnSignal(ctx, svc, hup, log)

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc, cfg, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
}

// newService builds the service from configuration. A snapshot path takes
// precedence over the CSV paths.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	opts := []app.Option{
		app.WithLogger(log),
		app.WithWorkerCount(cfg.BatchWorkers),
		app.WithQueueSize(cfg.BatchQueueSize),
		app.WithFacadeOptions(
			query.WithMinCareerYears(cfg.MinCareerYears),
			query.WithMinPlayersPerGameType(cfg.MinPlayersPerGameType),
			query.WithTopGamesLimit(cfg.TopGamesLimit),
			query.WithTopCountriesLimit(cfg.TopCountriesLimit),
		),
	}
	if cfg.SnapshotPath != "" {
		opts = append(opts, app.WithSnapshot(cfg.SnapshotPath))
	} else {
		opts = append(opts, app.WithFiles(source.Files{
			Tournaments: cfg.TournamentsPath,
			Players:     cfg.PlayersPath,
			Games:       cfg.GamesPath,
			Countries:   cfg.CountriesPath,
		}))
	}
	return app.New(opts...)
}

// newMux registers the dashboard, the API docs and the JSON API.
func newMux(ctx context.Context, svc *app.Service, cfg *config.Config, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(svc, api.WithMaxLimit(cfg.MaxQueryLimit), api.WithLogger(log)).Register(mux)
	return mux
}

// reloadOnSignal reloads the dataset each time sig fires. A failed reload
// keeps the previous dataset.
func reloadOnSignal(ctx context.Context, svc *app.Service, sig <-chan os.Signal, log logger.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			log.Info(ctx, "reloading dataset")
			if err := svc.Reload(ctx); err != nil {
				log.Error(ctx, "reload failed; keeping previous dataset", logger.Error(err))
			}
		}
	}
}

// startSystemMetricsUpdater periodically records memory and goroutine gauges.
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

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
