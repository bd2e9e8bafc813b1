package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"headstone-api/config"
	"headstone-api/internal/app"
	"headstone-api/internal/cache"
	"headstone-api/internal/database"
	"headstone-api/internal/logging"
	"headstone-api/internal/mailer"
	"headstone-api/internal/metrics"
	"headstone-api/internal/server"
	"headstone-api/internal/storage"
	"headstone-api/internal/storage/memory"
	"headstone-api/internal/storage/postgres"

	_ "headstone-api/docs" // Registers the OpenAPI document for /swagger

	"go.uber.org/zap"
)

// @title           Headstone Restoration API
// @version         1.0
// @description     Field-service back end for headstone restoration: scheduling, dashboards, customer email and record keeping.

// @host      localhost:8080
// @BasePath  /api
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "headstone-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]func(ctx context.Context) error{}

	// --- Storage ---
	var store storage.Store
	switch cfg.DB.Driver {
	case "memory":
		logger.Warn("Using the in-memory store: data is lost on restart")
		store = memory.NewStore(time.Now)
	default:
		dbPool, err := database.NewConnectionPool(ctx, cfg.DB, logger)
		if err != nil {
			return err
		}
		defer dbPool.Close()
		if cfg.DB.Migrate {
			if err := database.Migrate(ctx, dbPool, logger); err != nil {
				return err
			}
		}
		store = postgres.NewStore(dbPool, logger)
		checks["database"] = dbPool.Ping
	}

	// --- Read-model cache ---
	var readCache cache.Cache
	if cfg.Redis.Enabled {
		redisClient, err := database.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		readCache = cache.NewRedisCache(redisClient, "headstone:")
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		readCache = cache.NewMemoryCache(cfg.Cache.DashboardTTL)
	}

	application, err := app.New(cfg, logger, app.Deps{
		Store:        store,
		Cache:        readCache,
		Sender:       mailer.New(cfg.Email, logger),
		Metrics:      metrics.New(),
		Now:          time.Now,
		HealthChecks: checks,
	})
	if err != nil {
		return err
	}

	srv := server.NewServer(application)

	// --- Graceful Shutdown Handling ---
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("Application gracefully stopped")
	return nil
}
