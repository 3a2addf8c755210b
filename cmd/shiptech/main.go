// Package main is the entry point for the smart ship technology
// comparison server. It loads configuration, connects to services, sets
// up routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shiptech/internal/cache"
	"shiptech/internal/config"
	"shiptech/internal/database"
	"shiptech/internal/handlers"
	"shiptech/internal/router"
	"shiptech/internal/session"
	"shiptech/internal/storage"
	"shiptech/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if admins already exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions + comparison payload cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark session cookies as Secure.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Initialize data stores.
	adminStore := store.NewAdminStore(db)
	companyStore := store.NewCompanyStore(db)
	categoryStore := store.NewCategoryStore(db)
	technologyStore := store.NewTechnologyStore(db)
	changeLogStore := store.NewChangeLogStore(db)

	// Connect to S3-compatible object storage. Optional: the app works
	// without it, with image uploads disabled.
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, image uploads disabled")
	}

	// Cache for the assembled comparison payload.
	viewCache := cache.NewViewCache(valkeyClient, cache.DefaultViewTTL)

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(sessionStore, adminStore)
	publicHandlers := handlers.NewPublic(companyStore, categoryStore, technologyStore, adminStore, changeLogStore, viewCache)
	adminHandlers := handlers.NewAdmin(companyStore, categoryStore, technologyStore, changeLogStore, storageClient, viewCache)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, adminStore, authHandlers, publicHandlers, adminHandlers)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
