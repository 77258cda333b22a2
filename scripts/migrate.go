package main

import (
	"flag"
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-notes/pkg/config"
	"github.com/johnquangdev/meeting-notes/pkg/logger"
)

// Applies or rolls back the documents schema used by the remote backend.
//
//	go run ./scripts -direction up
//	go run ./scripts -direction down -limit 1
//	go run ./scripts -direction status
func main() {
	direction := flag.String("direction", "up", "up, down or status")
	limit := flag.Int("limit", 0, "maximum number of migrations to apply (0 = all)")
	flag.Parse()

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

	// Initialize database using GORM
	db, err := database.NewPostgresDB(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	// Get the underlying SQL database connection from GORM
	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Fatal("Failed to get database connection", zap.Error(err))
	}

	switch *direction {
	case "up", "down":
		dir := migrate.Up
		if *direction == "down" {
			dir = migrate.Down
		}
		appLogger.Info("🔄 Applying migrations...", zap.String("direction", *direction), zap.Int("limit", *limit))
		n, err := migrate.ExecMax(sqlDB, "postgres", database.MigrationSource(), dir, *limit)
		if err != nil {
			appLogger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		appLogger.Info("✅ Migrations applied", zap.Int("count", n))
	case "status":
		records, err := migrate.GetMigrationRecords(sqlDB, "postgres")
		if err != nil {
			appLogger.Fatal("Failed to read migration records", zap.Error(err))
		}
		for _, r := range records {
			appLogger.Info("applied", zap.String("id", r.Id), zap.Time("applied_at", r.AppliedAt))
		}
		if len(records) == 0 {
			appLogger.Info("No migrations applied yet")
		}
	default:
		appLogger.Error("Unknown direction", zap.String("direction", *direction))
		os.Exit(2)
	}
}
