// File: app/app.go
package app

import (
	"context"
	"med-transcribe-api/config"
	"med-transcribe-api/db"
	"med-transcribe-api/handler"
	"med-transcribe-api/logger"
	"med-transcribe-api/repository"
	"med-transcribe-api/router"
	"med-transcribe-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error applying migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	cfg := config.AppConfig

	// --- Wiring All Layers Together ---
	hasher, err := service.NewCredentialHasher(cfg.Security.PasswordHasher)
	if err != nil {
		logger.Log.Fatalf("Invalid security configuration: %v", err)
	}
	passwordService := service.NewPasswordService(hasher)

	tokenService, err := service.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.Algorithm,
		time.Duration(cfg.JWT.AccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLDays)*24*time.Hour,
	)
	if err != nil {
		logger.Log.Fatalf("Invalid JWT configuration: %v", err)
	}

	lockoutService := service.NewLockoutService(redisClient,
		cfg.Security.MaxFailedAttempts, cfg.Security.LockoutPeriodSeconds, cfg.Security.StoreTimeoutSeconds)

	rateLimitService, err := service.NewRateLimitService(redisClient,
		cfg.RateLimits, cfg.DefaultRateLimit, cfg.Security.StoreTimeoutSeconds)
	if err != nil {
		logger.Log.Fatalf("Invalid rate limit configuration: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	auditRepo := repository.NewAuditRepository(database)
	auditService := service.NewAuditService(auditRepo)

	authService := service.NewAuthService(userRepo, passwordService, tokenService, lockoutService, auditService)
	authHandler := handler.NewAuthHandler(authService)

	r := router.NewRouter(authHandler, tokenService, rateLimitService)

	// --- Start the Server with Graceful Shutdown ---
	port := cfg.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
