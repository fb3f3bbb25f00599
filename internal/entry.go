package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/starford/tarmac/internal/api"
	"github.com/starford/tarmac/internal/history"
	"github.com/starford/tarmac/internal/metrics"
	"github.com/starford/tarmac/internal/sse"
	"github.com/starford/tarmac/internal/store"
)

// Run starts the serve mode with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("db_path", cfg.Store.Path),
		slog.Bool("watch", cfg.Store.Watch),
		slog.String("log_level", cfg.App.LogLevel.String()))

	m := metrics.New(prometheus.DefaultRegisterer, "tarmac")
	svc := api.NewService(cfg.Store.Path, m)

	// Initial load. A missing or broken store is not fatal: the watcher
	// picks it up once a parse run produces it.
	if n, err := svc.Reload(); err != nil {
		logger.Warn("initial store load failed", slog.String("error", err.Error()))
	} else {
		logger.Info("store loaded", slog.Int("flights", n))
	}

	// Open the ingest-run ledger when configured and expose it read-only
	// through the API.
	var ledger history.Ledger
	if cfg.History.Path != "" {
		db, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("open history ledger: %w", err)
		}
		defer db.Close()
		ledger = db
		logger.Info("history ledger opened", slog.String("path", cfg.History.Path))
	}

	broker := sse.NewBroker()
	defer broker.Close()

	apiRouter := api.NewRouter(svc, ledger, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the database file and reload the snapshot on rebuilds.
	if cfg.Store.Watch {
		g.Go(func() error {
			return store.Watch(gCtx, cfg.Store.Path, logger, func() {
				n, err := svc.Reload()
				if err != nil {
					logger.Warn("store reload failed", slog.String("error", err.Error()))
					return
				}
				logger.Info("store reloaded", slog.Int("flights", n))
				broker.PublishStoreReloaded(cfg.Store.Path, n)
			})
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
