package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/smb_suite/internal/adapters/clients"
	"github.com/SscSPs/smb_suite/internal/core/services"
	"github.com/SscSPs/smb_suite/internal/handlers"
	"github.com/SscSPs/smb_suite/internal/middleware"
	"github.com/SscSPs/smb_suite/internal/platform/config"
	"github.com/SscSPs/smb_suite/internal/repositories/database/pgsql"
	"github.com/SscSPs/smb_suite/internal/utils"
	"github.com/SscSPs/smb_suite/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title SMB Suite Backend API
// @version 1.0
// @description Display currency, exchange rate and billing services for the SMB suite.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	level.Set(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogHost, logger)
	defer posthogClient.Close()

	feed := pgsql.NewChangeFeed(dbPool, logger)
	repos := pgsql.NewRepositoryProvider(dbPool, feed)

	external := services.ExternalClients{
		RateFetcher:     clients.NewExchangeRateClient(cfg.ExchangeRatesURL, cfg.ExchangeRatesAPIKey, cfg.ExchangeRatesTimeout),
		PaymentProvider: clients.NewPaymentProviderClient(cfg.PaymentProviderURL, cfg.PaymentProviderAPIKey, 15*time.Second),
		Events:          posthogClient,
	}
	if cfg.PaymentVerifyURL != "" {
		external.RemoteVerifier = clients.NewVerifyPaymentClient(cfg.PaymentVerifyURL, cfg.PaymentVerifyAPIKey, 15*time.Second)
		logger.Info("Payment verification runs remotely", slog.String("url", cfg.PaymentVerifyURL))
	}
	serviceContainer, background := services.NewServiceContainer(cfg, repos, external)

	go func() {
		if err := feed.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Change feed stopped", slog.String("error", err.Error()))
		}
	}()
	background.Start(ctx, services.Intervals{
		RateRefresh:       cfg.ExchangeRatesRefreshInterval,
		SubscriptionSweep: cfg.SubscriptionSweepInterval,
		Housekeeping:      cfg.HousekeepingInterval,
	})

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	limiters, err := newRouteLimiters(cfg)
	if err != nil {
		logger.Error("Invalid rate limit configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	handlers.RegisterRoutes(r, cfg, serviceContainer, limiters)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	background.Close()
	logger.Info("Shutdown complete")
}

func newRouteLimiters(cfg *config.Config) (handlers.RouteLimiters, error) {
	apiRate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return handlers.RouteLimiters{}, err
	}
	webhookRate, err := limiter.NewRateFromFormatted(cfg.WebhookRateLimit)
	if err != nil {
		return handlers.RouteLimiters{}, err
	}
	return handlers.RouteLimiters{
		API:     limiter.New(memory.NewStore(), apiRate),
		Webhook: limiter.New(memory.NewStore(), webhookRate),
	}, nil
}

// runMigrations applies all pending migrations from ./migrations.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}

	// Check for dirty migrations after running Up.
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
