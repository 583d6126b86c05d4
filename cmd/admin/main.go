package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autoadmin/internal/backend"
	"autoadmin/internal/config"
	"autoadmin/internal/logging"
	"autoadmin/internal/metrics"
	"autoadmin/internal/paypal"
	"autoadmin/internal/refresh"
	"autoadmin/internal/session"
	"autoadmin/internal/web"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := baseLogger.With().Str("component", "admin-main").Logger()

	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := initSessionStore(ctx, cfg, &logger)

	httpClient := &http.Client{Timeout: cfg.Backend.Timeout()}
	apiClient := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithHTTPClient(httpClient),
		backend.WithLogger(baseLogger.With().Str("component", "backend").Logger()),
	)

	refresher := refresh.New(apiClient, cfg.Refresh.Interval(), cfg.Refresh.Pages,
		baseLogger.With().Str("component", "refresh").Logger())
	if cfg.Refresh.Enabled {
		go refresher.Run(ctx)
	} else {
		// One warm snapshot so exports and sidebar badges have data.
		go refresher.RefreshNow(ctx)
	}

	server, err := web.NewServer(cfg,
		baseLogger.With().Str("component", "web").Logger(),
		apiClient, sessions, refresher, paypal.NewClient(apiClient))
	if err != nil {
		return err
	}

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("web server stopped")
			stop()
		}
	}()

	logger.Info().
		Int("port", cfg.HTTP.Port).
		Str("backend", cfg.Backend.BaseURL).
		Bool("auth", cfg.Auth.Enabled).
		Msg("admin panel started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("web server shutdown failed")
	}

	logger.Info().Msg("admin panel stopped")
	return nil
}

// initSessionStore prefers Redis with an in-memory fallback. Without a
// configured Redis address sessions are memory-only.
func initSessionStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) session.Store {
	memory := session.NewMemoryStore()
	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, using in-memory sessions")
		return memory
	}

	client := session.NewRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := session.Ping(pingCtx, client); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, starting on memory fallback")
	}

	primary := session.NewRedisStore(client, cfg.Auth.SessionTTL())
	return session.NewFailoverStore(primary, memory, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
