package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/reviewlens/reviewlens/internal/cache"
	"github.com/reviewlens/reviewlens/internal/core/cachekey"
	corecfg "github.com/reviewlens/reviewlens/internal/core/config"
	"github.com/reviewlens/reviewlens/internal/core/storage/sqlite"
	"github.com/reviewlens/reviewlens/internal/maintenance"
	"github.com/reviewlens/reviewlens/internal/migrations"
	"github.com/reviewlens/reviewlens/internal/reviews"
	"github.com/reviewlens/reviewlens/internal/server"
)

func main() {
	configPath := flag.String("config", "reviewlens.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"database", cfg.Database.Path,
		"provider", cfg.Sources.Provider,
		"cache_ttl", cfg.Cache.TTL,
		"stale_fallback", cfg.Cache.StaleFallback)

	// 2. Initialize Storage (SQLite)
	store, err := sqlite.Open(cfg.Database.Path, cfg.Database.MaxOpenConns)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(store.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	if err := store.ValidateSchema(context.Background()); err != nil {
		slog.Error("Review store schema is not usable", "error", err)
		os.Exit(1)
	}

	// 3. Initialize Sources
	sources, err := cfg.Sources.BuildSources()
	if err != nil {
		slog.Error("Failed to initialize review sources", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Cache + Aggregation
	cacheSvc := cache.NewService(store, cachekey.NewPolicy(cfg.Cache.TTLDuration()))
	reviewSvc := reviews.NewService(cacheSvc, sources, reviews.Config{
		Limit:           cfg.Sources.Limit,
		DefaultMaxPages: cfg.Sources.DefaultMaxPages,
		StaleFallback:   cfg.Cache.StaleFallback,
		MaxStaleAge:     cfg.Cache.MaxStaleAgeDuration(),
	})

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), store, cfg.Server.Mode)
	reviews.NewHandler(reviewSvc, cacheSvc).RegisterRoutes(srv.Engine)

	// 6. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	schedulerDone := make(chan struct{})
	if interval := cfg.Cache.CleanupIntervalDuration(); interval > 0 {
		scheduler := maintenance.NewScheduler(interval, cacheSvc)
		go func() {
			defer close(schedulerDone)
			if err := scheduler.Start(ctx); err != nil {
				slog.Error("Scheduler stopped with error", "error", err)
			}
		}()
	} else {
		close(schedulerDone)
		slog.Info("Cache cleanup scheduler disabled by config")
	}

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	// The scheduler's final cleanup must finish before the store closes.
	cancel()
	<-schedulerDone

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
