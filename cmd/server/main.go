package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"cartshare/internal/config"
	"cartshare/internal/database"
	"cartshare/internal/handlers"
	"cartshare/internal/repository"
	"cartshare/internal/security"
	"cartshare/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()
	configureLogging(cfg)

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.WithField("type", cfg.DatabaseType).Info("Database connection established")

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Info("Migrations completed")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	listRepo := repository.NewListRepository(db)
	itemRepo := repository.NewItemRepository(db)
	inviteRepo := repository.NewInviteRepository(db)

	// Initialize services
	listService := service.NewListService(db, listRepo)
	itemService := service.NewItemService(db, itemRepo, listRepo)
	inviteService := service.NewInviteService(db, inviteRepo, listRepo, userRepo)

	// Initialize handlers
	limiter := security.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	middleware := handlers.NewMiddleware(userRepo, limiter)
	listHandler := handlers.NewListHandler(listService, itemService)
	itemHandler := handlers.NewItemHandler(itemService)
	inviteHandler := handlers.NewInviteHandler(inviteService)

	// Setup routes
	mux := http.NewServeMux()

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// List routes
	mux.HandleFunc("GET /api/lists", middleware.RequireActor(listHandler.Index))
	mux.HandleFunc("POST /api/lists", middleware.RequireActor(middleware.RateLimit(listHandler.Create)))
	mux.HandleFunc("GET /api/lists/{id}", middleware.RequireActor(listHandler.Show))
	mux.HandleFunc("POST /api/lists/{id}/archive", middleware.RequireActor(middleware.RateLimit(listHandler.Archive)))
	mux.HandleFunc("DELETE /api/lists/{id}", middleware.RequireActor(middleware.RateLimit(listHandler.Delete)))

	// Item routes
	mux.HandleFunc("POST /api/lists/{id}/items", middleware.RequireActor(middleware.RateLimit(itemHandler.Create)))
	mux.HandleFunc("PATCH /api/items/{id}", middleware.RequireActor(middleware.RateLimit(itemHandler.Update)))
	mux.HandleFunc("DELETE /api/items/{id}", middleware.RequireActor(middleware.RateLimit(itemHandler.Delete)))

	// Invite routes
	mux.HandleFunc("GET /api/invites", middleware.RequireActor(inviteHandler.Index))
	mux.HandleFunc("POST /api/lists/{id}/invites", middleware.RequireActor(middleware.RateLimit(inviteHandler.Create)))
	mux.HandleFunc("POST /api/invites/{id}/accept", middleware.RequireActor(middleware.RateLimit(inviteHandler.Accept)))
	mux.HandleFunc("POST /api/invites/{id}/decline", middleware.RequireActor(middleware.RateLimit(inviteHandler.Decline)))
	mux.HandleFunc("POST /api/invites/{id}/cancel", middleware.RequireActor(middleware.RateLimit(inviteHandler.Cancel)))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background sweep of resolved invites past retention
	if cfg.InviteRetention > 0 {
		go pruneResolvedInvites(inviteService, cfg.InviteRetention)
	}

	go func() {
		log.WithField("addr", addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Shutdown error")
	}
}

// configureLogging applies the log level and format from config
func configureLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// pruneResolvedInvites periodically removes accepted, declined and
// cancelled invites older than retention. Pending invites are left alone.
func pruneResolvedInvites(inviteService *service.InviteService, retention time.Duration) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := inviteService.PruneTerminal(retention); err != nil {
			log.WithError(err).Error("Failed to prune resolved invites")
		}
	}
}
