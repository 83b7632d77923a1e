package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/store-rating-backend/config"
	"github.com/ikkim/store-rating-backend/internal/app/controller"
	"github.com/ikkim/store-rating-backend/internal/app/repository"
	"github.com/ikkim/store-rating-backend/internal/app/service"
	"github.com/ikkim/store-rating-backend/internal/db"
	"github.com/ikkim/store-rating-backend/internal/middleware"
	"github.com/ikkim/store-rating-backend/internal/router"
	"github.com/ikkim/store-rating-backend/pkg/logger"
	"github.com/ikkim/store-rating-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
	})

	logger.Info("Starting Store Rating Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
		"db_driver":   cfg.Database.Driver,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Token blacklist (optional)
	var (
		revoker     service.TokenRevoker
		revocations middleware.RevocationChecker
	)
	if cfg.Redis.Enabled {
		client, err := redis.Connect(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer client.Close()

		blacklist := redis.NewTokenBlacklist(client)
		revoker = blacklist
		revocations = blacklist
	} else {
		logger.Warn("Redis disabled, logout will not revoke tokens")
	}

	// Initialize repositories
	conn := db.GetDB()
	userRepo := repository.NewUserRepository(conn)
	storeRepo := repository.NewStoreRepository(conn)
	ratingRepo := repository.NewRatingRepository(conn)

	// Initialize services
	authService := service.NewAuthService(
		conn,
		userRepo,
		storeRepo,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.Expiry,
		cfg.JWT.BcryptCost,
	)
	storeService := service.NewStoreService(conn, storeRepo, ratingRepo)
	ratingService := service.NewRatingService(ratingRepo, storeRepo)
	adminService := service.NewAdminService(conn, userRepo, storeRepo, ratingRepo)

	// Initialize controllers
	userController := controller.NewUserController(authService)
	storeController := controller.NewStoreController(storeService)
	ratingController := controller.NewRatingController(ratingService)
	adminController := controller.NewAdminController(adminService, storeService, ratingService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, userRepo, revocations)

	// Setup router
	r := router.NewRouter(
		userController,
		storeController,
		ratingController,
		adminController,
		authMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
