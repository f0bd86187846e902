// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/estim-games/estim-api/internal/config"
	"github.com/estim-games/estim-api/internal/infrastructure/database/postgres"
	"github.com/estim-games/estim-api/internal/infrastructure/database/redis"
	"github.com/estim-games/estim-api/internal/interfaces/http"
	"github.com/estim-games/estim-api/internal/pkg/auth"
	"github.com/estim-games/estim-api/internal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrusLogger := logger.New(cfg)
	logrusLogger.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to database
	db, err := postgres.NewConnection(cfg, logrusLogger)
	if err != nil {
		logrusLogger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis only when something needs it
	var redisClient *redis.Client
	if cfg.UsesRedis() {
		redisClient, err = redis.NewConnection(cfg, logrusLogger)
		if err != nil {
			logrusLogger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	}

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB(), auth.NewPasswordManager(cfg.Security.BcryptCost), logrusLogger)

	if err := migration.RunAutoMigrations(); err != nil {
		logrusLogger.Fatalf("Database migration failed: %v", err)
	}

	if _, failed := migration.CreateIndexes(); failed > 0 {
		logrusLogger.Warnf("Warning: %d indexes could not be created", failed)
	}

	// Seed initial data in development
	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(context.Background()); err != nil {
			logrusLogger.Warnf("Warning: Data seeding failed: %v", err)
		}
		if _, err := migration.GetTableInfo(); err != nil {
			logrusLogger.Warnf("Warning: Could not read table info: %v", err)
		}
	}

	logrusLogger.Info("✅ All systems operational!")

	server := http.NewServer(cfg, db, redisClient, logrusLogger)

	go func() {
		if err := server.Start(); err != nil {
			logrusLogger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrusLogger.Info("👋 Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logrusLogger.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	logrusLogger.Info("✅ Server shutdown completed")
}
