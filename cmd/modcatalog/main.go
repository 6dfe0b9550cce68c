package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cragline/modcatalog/internal/api"
	"github.com/cragline/modcatalog/internal/catalog"
	"github.com/cragline/modcatalog/internal/config"
	"github.com/cragline/modcatalog/internal/difficulty"
	"github.com/cragline/modcatalog/internal/gamebanana"
	"github.com/cragline/modcatalog/internal/refresh"
	"github.com/cragline/modcatalog/internal/storage"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting modcatalog",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Run database migrations
	slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
	if err := storage.MigrateFromDSN(initCtx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize database repository
	repo, err := storage.NewPostgresRepository(initCtx, storage.PostgresConfig{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: int32(cfg.Database.MaxOpenConns),
		MaxIdleConns: int32(cfg.Database.MaxIdleConns),
	})
	if err != nil {
		slog.Error("failed to create database repository", "error", err)
		os.Exit(1)
	}
	slog.Info("database connected successfully")

	// Load the default difficulty tree
	defaults := difficulty.NewDefaultLoader()
	if cfg.Difficulty.DefaultTreePath != "" {
		if err := defaults.LoadFromFile(cfg.Difficulty.DefaultTreePath); err != nil {
			slog.Warn("failed to load default difficulty tree, using built-in",
				"path", cfg.Difficulty.DefaultTreePath, "error", err)
		}
	}

	// GameBanana identity lookup, cached in Redis
	gbClient := gamebanana.NewClient(cfg.GameBanana.BaseURL, gamebanana.WithTimeout(cfg.GameBanana.Timeout))
	resolver, err := gamebanana.NewCachedResolver(gbClient, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CacheTTL)
	if err != nil {
		slog.Error("failed to create gamebanana resolver", "error", err)
		os.Exit(1)
	}

	// Initialize catalog service and seed the default tree
	svc := catalog.New(repo, resolver, defaults)
	if err := svc.SeedDefaults(initCtx); err != nil {
		slog.Error("failed to seed default difficulties", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start publisher refresh worker
	if cfg.Refresh.Enabled {
		refresher := refresh.NewRefresher(svc, cfg.Refresh.Interval)
		refresher.Start(ctx)
	}

	// Setup HTTP server
	server := api.NewServer(cfg.Server, svc, repo)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if err := resolver.Close(); err != nil {
		slog.Error("resolver close error", "error", err)
	}

	if err := repo.Close(); err != nil {
		slog.Error("repository close error", "error", err)
	}

	slog.Info("modcatalog stopped")
}
