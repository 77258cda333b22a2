package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/meeting-notes/pkg/validator"

	"github.com/johnquangdev/meeting-notes/internal/adapter/handler"
	"github.com/johnquangdev/meeting-notes/internal/adapter/repository"
	"github.com/johnquangdev/meeting-notes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/docstore"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/kv"
	"github.com/johnquangdev/meeting-notes/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-notes/internal/usecase/export"
	"github.com/johnquangdev/meeting-notes/internal/usecase/generation"
	"github.com/johnquangdev/meeting-notes/internal/usecase/workspace"
	pkgai "github.com/johnquangdev/meeting-notes/pkg/ai"
	"github.com/johnquangdev/meeting-notes/pkg/config"
	"github.com/johnquangdev/meeting-notes/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize persistence
	appLogger.Info("📦 Initializing persistence...", zap.String("backend", cfg.Backend.Type))
	repo, closeRepo, err := newRepository(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize persistence", zap.Error(err))
	}
	defer closeRepo()

	// Initialize the meeting store
	store := workspace.NewStore(repo, appLogger)
	loadCtx, cancelLoad := context.WithTimeout(ctx, 30*time.Second)
	err = store.Load(loadCtx)
	cancelLoad()
	if err != nil {
		appLogger.Fatal("Failed to load meetings", zap.Error(err))
	}
	if err := store.Watch(ctx); err != nil {
		appLogger.Fatal("Failed to watch remote changes", zap.Error(err))
	}

	// Initialize content generation
	appLogger.Info("🤖 Initializing content generation...", zap.String("provider", cfg.Generation.Provider))
	gateway := generation.NewService(newCompleter(cfg), cfg.Generation.MaxRetries, appLogger)
	assistant := workspace.NewAssistant(store, gateway, appLogger)

	// Initialize exports
	exportService, err := newExportService(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	// Setup router with handlers
	router := handler.NewRouter(cfg,
		handler.NewWorkspaceHandler(store, appLogger),
		handler.NewAIHandler(assistant, appLogger),
		handler.NewExportHandler(exportService, store, appLogger),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		appLogger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("🛑 Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("❌ Server forced to shutdown", zap.Error(err))
		return
	}

	appLogger.Info("✅ Server stopped gracefully")
}

// newRepository builds the configured persistence backend. The returned
// func releases its connections.
func newRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repositories.MeetingRepository, func(), error) {
	if cfg.Backend.Type == config.BackendLocal {
		store, err := kv.NewFileStore(cfg.Backend.DataDir)
		if err != nil {
			return nil, nil, err
		}
		log.Info("✅ Local store ready", zap.String("path", store.Path()))
		return repository.NewLocalMeetingRepository(store, log), func() {}, nil
	}

	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() {
		if err := database.CloseDB(db); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Database.AutoMigrate {
		log.Info("🔄 Applying schema migrations...")
		if err := database.Migrate(db, log); err != nil {
			closeAll()
			return nil, nil, err
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		log.Info("📦 Connecting to Redis...")
		rdb, err := cache.NewRedisClient(cfg)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		redisClient = rdb
		closers = append(closers, func() { _ = rdb.Close() })
	} else {
		log.Warn("⚠️  Redis disabled; changes are only seen by this process")
	}

	docs := docstore.NewPostgresStore(db, redisClient, cache.ChangeChannel(cfg.Backend.AppID), log)
	if err := docs.Start(ctx); err != nil {
		closeAll()
		return nil, nil, err
	}

	return repository.NewRemoteMeetingRepository(docs, cfg.Backend.AppID, log), closeAll, nil
}

func newCompleter(cfg *config.Config) pkgai.Completer {
	if cfg.Generation.Provider == config.ProviderGroq {
		return pkgai.NewGroqClient(&cfg.Generation.Groq)
	}
	return pkgai.NewMockClient(cfg.Generation.Latency)
}

func newExportService(ctx context.Context, cfg *config.Config, log *zap.Logger) (*export.Service, error) {
	if !cfg.Storage.Enabled {
		log.Info("Object storage disabled; exports are served as downloads")
		return export.NewService(nil, "", log), nil
	}

	client, err := storage.NewMinIOClient(ctx, &cfg.Storage)
	if err != nil {
		return nil, err
	}
	log.Info("✅ Object storage ready", zap.String("bucket", cfg.Storage.BucketName))
	return export.NewService(client, cfg.Backend.AppID, log), nil
}
