package main

import (
	"context"
	"errors"
	"journey-route-service/internal/adapters/cache"
	"journey-route-service/internal/adapters/repositories"
	"journey-route-service/internal/adapters/routing"
	"journey-route-service/internal/api"
	"journey-route-service/internal/config"
	"journey-route-service/internal/platform/db"
	"journey-route-service/internal/platform/metrics"
	"journey-route-service/internal/platform/obs"
	"journey-route-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// main is the application composition root.
// It wires concrete adapters (OSRM, Postgres, gcache) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := obs.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("setup logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector()

	fetcher, err := routing.NewOSRMSegmentFetcher(
		cfg.RoutingBaseURL,
		routing.WithRateLimit(cfg.RoutingRateLimit),
		routing.WithMetrics(collector),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create segment fetcher")
	}

	// Each caller session gets its own segment cache and supersede scope.
	sessions := services.NewSessionRegistry(cfg.SessionCacheSize, cfg.SessionIdleTTL, func() *services.RouteOrchestrator {
		return services.NewRouteOrchestrator(
			fetcher,
			cache.NewSegmentCache(cfg.SegmentCacheSize, cfg.SegmentCacheTTL),
			services.WithMaxParallel(cfg.MaxParallelFetches),
			services.WithMaxStops(cfg.MaxStops),
			services.WithResolveTimeout(cfg.ResolveTimeout),
			services.WithResolveMetrics(collector),
		)
	})

	deps := api.RouterDeps{Sessions: sessions}
	if cfg.MetricsEnabled {
		deps.Metrics = collector.Handler()
	}

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		defer conn.Close()
		deps.Repo = repositories.NewPostgresJourneyRepository(conn)
	} else {
		log.Warn().Msg("DATABASE_URL not set; stored journeys are disabled")
	}

	// Timeouts are tuned for cold-cache resolves (external API latency and retries).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("routing_base_url", cfg.RoutingBaseURL).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
