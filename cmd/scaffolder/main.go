// Package main is the entry point for the Scaffolder server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scaffolder/internal/builder"
	"scaffolder/internal/cache"
	"scaffolder/internal/config"
	"scaffolder/internal/database"
	"scaffolder/internal/handlers"
	"scaffolder/internal/imaging"
	"scaffolder/internal/middleware"
	"scaffolder/internal/publish"
	"scaffolder/internal/router"
	"scaffolder/internal/session"
	"scaffolder/internal/storage"
	"scaffolder/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
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

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions, builder state, listing cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark session cookies as Secure
	// (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	templateStore := store.NewTemplateStore(db)
	screenshotStore := store.NewScreenshotStore(db)
	marketplaceStore := store.NewMarketplaceStore(db, templateStore)
	publishLogStore := store.NewPublishLogStore(db)

	// Connect to S3-compatible object storage (optional — screenshots and
	// bundle exports are disabled without it).
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3BucketPublic, cfg.S3BucketPrivate, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected",
				"endpoint", cfg.S3Endpoint,
				"public_bucket", cfg.S3BucketPublic,
				"private_bucket", cfg.S3BucketPrivate,
			)
		}
	} else {
		slog.Warn("s3 storage not configured — screenshot uploads disabled")
	}

	// libvips powers screenshot re-encoding.
	imaging.Startup(0)
	defer imaging.Shutdown()

	// Builder sessions and the marketplace listing cache live in Valkey.
	stateStore := builder.NewStateStore(valkeyClient, builder.DefaultStateTTL)
	listingCache := cache.NewListingCache(valkeyClient, cache.DefaultListingTTL)

	// The publish pipeline promotes drafts into marketplace snapshots.
	pipeline := publish.NewPipeline(marketplaceStore)

	// Rate limit login attempts per client IP.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()

	// Create handler groups with their dependencies.
	deps := router.Deps{
		Sessions:     sessionStore,
		CSRF:         middleware.NewCSRF(!cfg.IsDev()),
		LoginLimiter: loginLimiter,
		Auth:         handlers.NewAuth(sessionStore, userStore),
		Templates:    handlers.NewTemplates(templateStore),
		Builder:      handlers.NewBuilder(stateStore, templateStore, pipeline, listingCache, storageClient),
		Screenshots:  handlers.NewScreenshots(screenshotStore, templateStore, storageClient),
		Marketplace:  handlers.NewMarketplace(marketplaceStore, publishLogStore, screenshotStore, listingCache, storageClient),
		Admin:        handlers.NewAdmin(userStore),
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(deps)

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// screenshot uploads, which re-encode images before responding.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
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

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
