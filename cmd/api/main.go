package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	hhttp "interest-feed/internal/handler/http"
	hfeed "interest-feed/internal/handler/http/feed"
	"interest-feed/internal/handler/http/requestid"
	"interest-feed/internal/infra/adapter/persistence/postgres"
	"interest-feed/internal/infra/bluesky"
	"interest-feed/internal/infra/db"
	pkgConfig "interest-feed/internal/pkg/config"
	feedUC "interest-feed/internal/usecase/feed"
	"interest-feed/pkg/config"
)

func main() {
	logger := initLogger()
	feedConfig := loadFeedConfig(logger)
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()
	handler := setupServer(logger, database, feedConfig, version)

	runServer(logger, handler, version)
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

// loadFeedConfig loads the published feed's identity from environment
// variables. PUBLISHER_DID and FEEDGEN_HOSTNAME have no sensible defaults, so
// the server refuses to start without them.
func loadFeedConfig(logger *slog.Logger) hfeed.Config {
	hostname := os.Getenv("FEEDGEN_HOSTNAME")
	if hostname == "" {
		logger.Error("FEEDGEN_HOSTNAME must be set")
		os.Exit(1)
	}
	publisherDID := os.Getenv("PUBLISHER_DID")
	if publisherDID == "" {
		logger.Error("PUBLISHER_DID must be set")
		os.Exit(1)
	}
	if err := pkgConfig.ValidateDID(publisherDID); err != nil {
		logger.Error("invalid PUBLISHER_DID", slog.Any("error", err))
		os.Exit(1)
	}
	return hfeed.Config{
		ServiceDID:   config.GetEnvString("SERVICE_DID", "did:web:"+hostname),
		PublisherDID: publisherDID,
		FeedRkey:     config.GetEnvString("FEED_RKEY", "interests"),
		Hostname:     hostname,
	}
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, feedConfig hfeed.Config, version string) http.Handler {
	matchRepo := postgres.NewMatchRepo(database)
	userRepo := postgres.NewFeedUserRepo(database)

	appview := bluesky.NewClient(
		bluesky.WithBaseURL(config.GetEnvString("APPVIEW_URL", bluesky.DefaultAppviewURL)))

	feedSvc := feedUC.NewService(matchRepo, userRepo, appview, logger)

	mux := http.NewServeMux()
	hfeed.Register(mux, feedSvc, feedConfig, logger)

	mux.Handle("/health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, mux)
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: Request ID -> Rate Limit -> Recovery -> Logging -> Body Limit -> Metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	// Skeleton requests fan out to the appview for profile upserts, so one
	// hot client is capped well below the appview call budget.
	rateLimiter := hhttp.NewRateLimiter(
		config.GetEnvInt("RATE_LIMIT_PER_MINUTE", 300), 1*time.Minute)

	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = rateLimiter.Limit(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf(":%d", config.GetEnvInt("PORT", 8080))
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
