package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/wayfind/api/internal/config"
	"github.com/forgo/wayfind/api/internal/database"
	"github.com/forgo/wayfind/api/internal/handler"
	"github.com/forgo/wayfind/api/internal/jobs"
	"github.com/forgo/wayfind/api/internal/middleware"
	"github.com/forgo/wayfind/api/internal/repository"
	"github.com/forgo/wayfind/api/internal/service"
	"github.com/forgo/wayfind/api/internal/upload"
	"github.com/forgo/wayfind/api/pkg/token"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize token service
	tokenService, err := token.NewService(token.Config{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Lifetime: time.Duration(cfg.JWT.ExpirationMins) * time.Minute,
	})
	if err != nil {
		slog.Error("failed to initialize token service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize image storage and cleanup
	uploadStore, err := upload.NewStore(cfg.Upload.Dir)
	if err != nil {
		slog.Error("failed to initialize upload store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reaper := jobs.NewCleanupReaper(uploadStore, cfg.Upload.CleanupInterval, logger)
	reaper.Start()
	defer reaper.Stop()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	placeRepo := repository.NewPlaceRepository(db)

	// Initialize services
	geocoder := service.NewHTTPGeocoder(service.HTTPGeocoderConfig{
		BaseURL:   cfg.Geocoder.BaseURL,
		UserAgent: cfg.Geocoder.UserAgent,
		Timeout:   cfg.Geocoder.Timeout,
	})
	authService := service.NewAuthService(userRepo, tokenService)
	placeService := service.NewPlaceService(placeRepo, userRepo, geocoder, reaper)

	// Initialize handlers
	userHandler := handler.NewUserHandler(authService, uploadStore, reaper)
	placeHandler := handler.NewPlaceHandler(placeService, uploadStore, reaper)
	healthHandler := handler.NewHealthHandler(db)

	// Create router and register routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)

	// User endpoints (public)
	mux.HandleFunc("POST /users/signup", userHandler.Signup)
	mux.HandleFunc("POST /users/login", userHandler.Login)
	mux.HandleFunc("GET /users", userHandler.List)

	// Place endpoints (public reads)
	mux.HandleFunc("GET /places/{id}", placeHandler.Get)
	mux.HandleFunc("GET /places/user/{uid}", placeHandler.ListByUser)

	// Place endpoints (protected mutations)
	authMiddleware := middleware.Auth(tokenService)
	mux.Handle("POST /places", authMiddleware(http.HandlerFunc(placeHandler.Create)))
	mux.Handle("PATCH /places/{id}", authMiddleware(http.HandlerFunc(placeHandler.Update)))
	mux.Handle("DELETE /places/{id}", authMiddleware(http.HandlerFunc(placeHandler.Delete)))

	// Static serving of stored images
	mux.Handle("GET /uploads/images/", http.StripPrefix("/uploads/images/",
		http.FileServer(http.Dir(uploadStore.Root()))))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", slog.String("error", err.Error()))
	}

	slog.Info("server stopped")
}
