package main

import (
	"log/slog"
	"os"

	"github.com/candorhq/candor/repository"
	"github.com/candorhq/candor/services"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Setup structured logging with JSON format
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Load configuration
	config := services.LoadConfig()

	// Initialize the entity store: postgres when configured, in-memory otherwise
	var (
		repos  *repository.Repositories
		gormDB *gorm.DB
	)
	if config.Database.URL != "" {
		db, err := gorm.Open(postgres.Open(config.Database.URL), &gorm.Config{
			Logger: logger.Default.LogMode(gormLogLevel(config.Database.LogLevel)),
		})
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}

		sqlDB, err := db.DB()
		if err != nil {
			slog.Error("Failed to get database handle", "error", err)
			os.Exit(1)
		}
		sqlDB.SetMaxIdleConns(config.Database.MaxIdleConns)
		sqlDB.SetMaxOpenConns(config.Database.MaxOpenConns)

		if err := repository.AutoMigrate(db); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}

		repos = repository.NewGormRepositories(db)
		gormDB = db
		slog.Info("Connected to database")
	} else {
		repos = repository.NewMemoryRepositories()
		slog.Warn("Database URL not configured, using in-memory store")
	}

	// Initialize server and services
	server := services.NewServer(config, repos)
	server.SetDatabase(gormDB)
	if err := server.InitializeServices(); err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	// Seed demo data if configured
	if config.Database.Seed {
		seeder := services.NewDatabaseSeeder(repos,
			server.SessionService(), server.ReportService(),
			server.CommentService(), server.ShareService())
		if err := seeder.SeedDatabase(); err != nil {
			slog.Error("Failed to seed database", "error", err)
		}
	}

	server.Start()
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
