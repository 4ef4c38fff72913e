package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jonatasvm/backendGB/internal/adapters/artifact"
	"github.com/Jonatasvm/backendGB/internal/adapters/events/kafka"
	"github.com/Jonatasvm/backendGB/internal/adapters/storage/gdrive"
	portsrepo "github.com/Jonatasvm/backendGB/internal/core/ports/repositories"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"github.com/Jonatasvm/backendGB/internal/core/services"
	"github.com/Jonatasvm/backendGB/internal/handlers"
	"github.com/Jonatasvm/backendGB/internal/middleware"
	"github.com/Jonatasvm/backendGB/internal/platform/config"
	"github.com/Jonatasvm/backendGB/internal/repositories/database/pgsql"
	"github.com/Jonatasvm/backendGB/internal/repositories/memory"
	"github.com/Jonatasvm/backendGB/internal/utils"
	"github.com/Jonatasvm/backendGB/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Ledger Backend API
// @version 1.0
// @description Construction payment ledger: entries, allocation groups, status and exports.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	adapters, closeAdapters := setupAdapters(ctx, cfg, logger)
	defer closeAdapters()

	serviceContainer := services.NewServiceContainer(cfg, repos, adapters)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to configure rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(corsConfig(cfg)),
		middleware.RateLimit(rateLimiter),
		middleware.PosthogMiddleware(posthogClient),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", slog.String("error", err.Error()))
	}
}

func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage")
		return memory.NewStore().Provider(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}

	repos, err := pgsql.NewRepositoryProvider(ctx, dbPool, logger)
	if err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return repos, func() { database.ClosePgxPool(dbPool) }, nil
}

func setupAdapters(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.Adapters, func()) {
	adapters := services.Adapters{
		Writers: artifact.Writers(),
	}

	var storage portssvc.FileStorage = gdrive.Disabled{}
	if cfg.GDriveCredentialsFile != "" {
		uploader, err := gdrive.NewUploader(ctx, cfg.GDriveCredentialsFile, cfg.GDriveRootFolderID, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Drive storage, attachments disabled", slog.String("error", err.Error()))
		} else {
			storage = uploader
		}
	} else {
		logger.Info("GDRIVE_CREDENTIALS_FILE not set, attachments disabled")
	}
	adapters.Storage = storage

	var publisher portssvc.EventPublisher = kafka.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers)
		logger.Info("Publishing posting events to Kafka", slog.Any("brokers", cfg.KafkaBrokers), slog.String("topic", cfg.KafkaTopic))
	}
	adapters.Publisher = publisher

	return adapters, func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", slog.String("error", err.Error()))
		}
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsCfg.ExposeHeaders = []string{"Content-Disposition", handlers.HeaderExportBatchID, handlers.HeaderExportRowCount, "X-Request-ID"}
	corsCfg.AllowCredentials = true
	return corsCfg
}
