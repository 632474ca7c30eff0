package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YakovA/db-israel/internal/api"
	"github.com/YakovA/db-israel/internal/cache"
	"github.com/YakovA/db-israel/internal/config"
	"github.com/YakovA/db-israel/internal/marketwatch"
	"github.com/YakovA/db-israel/internal/polygon"
	"github.com/YakovA/db-israel/internal/ratelimit"
	"github.com/YakovA/db-israel/internal/service"
	"github.com/YakovA/db-israel/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.Debug)
	slog.SetDefault(logger)

	// Outbound rate limits for the two upstreams
	limiter := ratelimit.New()
	limiter.Set(ratelimit.UpstreamPolygon, cfg.PolygonRPS)
	limiter.Set(ratelimit.UpstreamMarketwatch, cfg.MwatchRPS)

	timeout := time.Duration(cfg.HTTPTimeout) * time.Second
	quotes := polygon.NewQuoteFetcher(cfg.PolygonAPIKey, cfg.PolygonURL, timeout, limiter, logger)
	pages := marketwatch.NewPageFetcher(cfg.MwatchURL, timeout, limiter, logger)

	stocks := store.New()
	ttlCache := cache.New(time.Duration(cfg.CacheTTL)*time.Second, cfg.CacheMaxItems)
	svc := service.New(quotes, pages, stocks, ttlCache, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewServer(svc, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	// Graceful shutdown on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// newLogger mirrors the debug flag onto the log format: human-readable text
// at debug level for development, JSON at info level otherwise.
func newLogger(debug bool) *slog.Logger {
	if debug {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
