// Package main is the entry point for the OnlyStudies portal server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onlystudies/internal/cache"
	"onlystudies/internal/config"
	"onlystudies/internal/database"
	"onlystudies/internal/handlers"
	"onlystudies/internal/middleware"
	"onlystudies/internal/render"
	"onlystudies/internal/router"
	"onlystudies/internal/session"
	"onlystudies/internal/store"
)

func main() {
	// Structured logger — outputs text with debug level; production
	// deployments can filter at the collector.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables (and .env if present).
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

	// Connect to Valkey (sessions + full-page cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize session store backed by Valkey.
	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Initialize the HTML template renderer.
	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	blogStore := store.NewBlogStore(db)
	forumStore := store.NewForumStore(db)
	notificationStore := store.NewNotificationStore(db)

	// Full-page HTML cache for anonymous traffic.
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	// Seed development data (no-op if data already exists). The seed
	// publishes blog posts, so any blog pages cached by a previous run
	// are stale afterwards.
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
		pageCache.InvalidateBlog(context.Background())
	}

	// Rate limiter for credential endpoints: 10 attempts per minute per IP.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer authLimiter.Stop()

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(renderer, sessionStore, userStore)
	siteHandlers := handlers.NewSite(renderer, categoryStore, blogStore, forumStore, pageCache)
	blogHandlers := handlers.NewBlog(renderer, blogStore, pageCache)
	forumHandlers := handlers.NewForum(renderer, forumStore, categoryStore, notificationStore)
	apiHandlers := handlers.NewAPI(blogStore, notificationStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, authLimiter, authHandlers, siteHandlers, blogHandlers, forumHandlers, apiHandlers, !cfg.IsDev())

	// Create the HTTP server with sensible timeouts.
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

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
