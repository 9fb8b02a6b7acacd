// Command forecast runs the summit forecast batch pipeline.
//
// By default it serves POST /run alongside health, readiness, and metrics
// endpoints. With -once it runs a single batch and exits, which suits cron
// schedulers; the exit status is non-zero when the run fails or any peak fails.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/summit-forecast-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/summit-forecast-etl/internal/adapter/kafka"
	"github.com/couchcryptid/summit-forecast-etl/internal/adapter/openweather"
	"github.com/couchcryptid/summit-forecast-etl/internal/adapter/store"
	"github.com/couchcryptid/summit-forecast-etl/internal/config"
	"github.com/couchcryptid/summit-forecast-etl/internal/domain"
	"github.com/couchcryptid/summit-forecast-etl/internal/observability"
	"github.com/couchcryptid/summit-forecast-etl/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
)

func main() {
	once := flag.Bool("once", false, "run one batch and exit")
	flag.Parse()
	os.Exit(run(*once))
}

// run returns the process exit code so deferred cleanup runs before exit.
func run(once bool) int {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	db, err := store.Open(cfg.DBDriver, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}()

	if cfg.DBMigrate {
		if err := db.Migrate(); err != nil {
			logger.Error("failed to migrate database", "error", err)
			return 1
		}
	}

	var fetcher pipeline.Fetcher = openweather.NewClient(cfg.OpenWeatherBaseURL, cfg.ProviderTimeout, metrics, logger)
	if cfg.ProviderCacheSize > 0 {
		fetcher = openweather.NewCachedFetcher(fetcher, cfg.ProviderCacheSize, cfg.ProviderCacheTTL)
		logger.Info("provider cache enabled", "size", cfg.ProviderCacheSize, "ttl", cfg.ProviderCacheTTL)
	}

	// Publishing is feature-flagged via KAFKA_BROKERS.
	var publisher pipeline.Publisher
	if cfg.PublishEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("forecast event publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("forecast event publishing disabled")
	}

	p := pipeline.New(db, fetcher, db, publisher, pipeline.Options{
		APIKey:         cfg.OpenWeatherAPIKey,
		MaxConcurrency: cfg.MaxConcurrency,
		RunTimeout:     cfg.RunTimeout,
		Model:          domain.DefaultHazardModel(),
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if once {
		return runOnce(ctx, p, logger)
	}
	serve(ctx, cfg, p, db, logger)
	return 0
}

func runOnce(ctx context.Context, p *pipeline.Pipeline, logger *slog.Logger) int {
	summary, err := p.Run(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		return 1
	}
	if err := summary.Err(); err != nil {
		logger.Warn("run completed with failures", "processed", summary.Processed, "total", summary.Total, "error", err)
		return 2
	}
	return 0
}

func serve(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, db *store.Store, logger *slog.Logger) {
	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:       cfg.HTTPAddr,
		Ready:      db,
		Runner:     p,
		Forecasts:  db,
		NotFound:   store.ErrNotFound,
		CORSOrigin: cfg.CORSAllowOrigin,
		RunTimeout: cfg.RunTimeout,
	}, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
