package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"interest-feed/internal/infra/adapter/persistence/postgres"
	"interest-feed/internal/infra/db"
	"interest-feed/internal/infra/enricher"
	"interest-feed/internal/infra/firehose"
	workerPkg "interest-feed/internal/infra/worker"
	pkgConfig "interest-feed/internal/pkg/config"
	"interest-feed/internal/pkg/throttle"
	"interest-feed/internal/usecase/enrich"
	"interest-feed/internal/usecase/ingest"
	"interest-feed/pkg/config"
)

func main() {
	logger := initLogger()

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load worker configuration (fail-open strategy)
	configMetrics := pkgConfig.NewMetrics("worker")
	workerConfig := workerPkg.LoadConfigFromEnv(logger, configMetrics)
	if err := workerConfig.Validate(); err != nil {
		logger.Error("invalid worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("firehose_url", workerConfig.FirehoseURL),
		slog.Duration("refresh_interval", workerConfig.RefreshInterval),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort))

	startMetricsServer(ctx, logger, workerConfig.MetricsPort)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	userRepo := postgres.NewFeedUserRepo(database)
	postRepo := postgres.NewPostRepo(database)
	matchRepo := postgres.NewMatchRepo(database)
	cursorRepo := postgres.NewCursorRepo(database)

	// Keyword refresher: periodically re-derives interest keywords for users
	// whose profile description changed since it was last indexed.
	extractor := createExtractor(logger)
	refresher := enrich.NewService(userRepo, extractor, logger, enrich.NewPrometheusMetrics())
	refresher.CycleTimeout = workerConfig.RefreshInterval

	scheduler, err := refresher.Start(ctx, workerConfig.RefreshInterval)
	if err != nil {
		logger.Error("failed to start keyword refresher", slog.Any("error", err))
		os.Exit(1)
	}
	defer scheduler.Stop()
	logger.Info("keyword refresher started",
		slog.Duration("interval", workerConfig.RefreshInterval))

	// Firehose ingest: classify stream events, persist posts, and record
	// matches against every indexed user's keywords.
	ingestSvc := ingest.NewService(postRepo, userRepo, matchRepo, logger, ingest.NewPrometheusMetrics())
	subscriber := firehose.NewSubscriber(
		workerConfig.FirehoseURL, ingestSvc, cursorRepo, logger, firehose.NewMetrics())

	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	if err := subscriber.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Error("firehose subscriber stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker shutting down")
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and applies migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// createExtractor creates a keyword extractor based on the ENRICHER_TYPE
// environment variable. All API-backed extractors share one throttled caller
// so the external call budget holds process-wide.
func createExtractor(logger *slog.Logger) enricher.Extractor {
	enricherType := os.Getenv("ENRICHER_TYPE")
	if enricherType == "" {
		enricherType = "claude"
	}

	caller, err := throttle.NewCaller(
		int64(config.GetEnvInt("ENRICHER_MAX_CONCURRENT", 3)),
		float64(config.GetEnvInt("ENRICHER_MAX_PER_SECOND", 10)))
	if err != nil {
		logger.Error("failed to create throttled caller", slog.Any("error", err))
		os.Exit(1)
	}

	switch enricherType {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when ENRICHER_TYPE=claude")
			os.Exit(1)
		}
		ext, err := enricher.NewClaude(apiKey, caller)
		if err != nil {
			logger.Error("failed to create Claude extractor", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Using Claude API for keyword extraction", slog.String("type", "claude"))
		return ext
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY is required when ENRICHER_TYPE=openai")
			os.Exit(1)
		}
		ext, err := enricher.NewOpenAI(apiKey, caller)
		if err != nil {
			logger.Error("failed to create OpenAI extractor", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Using OpenAI API for keyword extraction", slog.String("type", "openai"))
		return ext
	case "none":
		logger.Warn("keyword extraction disabled, users will not be enriched")
		return enricher.NewNoOp()
	default:
		logger.Error("Invalid ENRICHER_TYPE",
			slog.String("type", enricherType),
			slog.String("expected", "claude, openai, or none"))
		os.Exit(1)
		return nil
	}
}
