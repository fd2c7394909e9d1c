package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bilalmirza74/fides/internal/cache"
	"github.com/bilalmirza74/fides/internal/config"
	"github.com/bilalmirza74/fides/internal/dao"
	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/router"
	"github.com/bilalmirza74/fides/internal/scheduler"
	"github.com/bilalmirza74/fides/internal/service"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Set Gin to release mode by default (can be overridden by GIN_MODE env var)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
	}).Info("Starting Consent Preference API Server...")

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Set log level from config
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	logger.WithFields(logrus.Fields{
		"config_path": configPath,
		"log_level":   logger.GetLevel().String(),
	}).Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.Initialize(&cfg.Database.Consent, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}

	// Verify database connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		logger.WithError(err).Fatal("Database health check failed")
	}

	logger.Info("Database connection established successfully")

	// Initialize DAOs
	consentRequestDAO := dao.NewConsentRequestDAO(db)
	identityDAO := dao.NewProvidedIdentityDAO(db)
	noticeHistoryDAO := dao.NewNoticeHistoryDAO(db)
	preferenceDAO := dao.NewPreferenceDAO(db)
	privacyRequestDAO := dao.NewPrivacyRequestDAO(db)
	policyDAO := dao.NewPolicyDAO(db)

	logger.Info("DAOs initialized successfully")

	// Verification code store and async execution queue
	codeStore := cache.NewVerificationCodeStore(
		cfg.Security.VerificationCodeTTL,
		cfg.Security.IdentityVerificationAttemptLimit,
		logger,
	)
	taskScheduler := scheduler.New(cfg.Scheduler.Workers, cfg.Scheduler.QueueSize, logger)

	// Initialize services
	preferenceService := service.NewPreferenceService(db, noticeHistoryDAO, preferenceDAO, logger)

	privacyRequestService := service.NewPrivacyRequestService(
		db,
		policyDAO,
		privacyRequestDAO,
		consentRequestDAO,
		preferenceDAO,
		taskScheduler,
		logger,
	)

	consentService := service.NewConsentService(
		consentRequestDAO,
		identityDAO,
		codeStore,
		preferenceService,
		privacyRequestService,
		&cfg.Security,
		logger,
	)

	logger.Info("Services initialized successfully")

	// Setup router
	ginRouter := router.SetupRouter(cfg, db, consentService, preferenceService, logger)

	// Configure HTTP server
	serverAddr := cfg.Server.GetServerAddress()
	server := &http.Server{
		Addr:           serverAddr,
		Handler:        ginRouter,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start server in a goroutine
	go func() {
		logger.WithFields(logrus.Fields{
			"hostname": cfg.Server.Hostname,
			"port":     cfg.Server.Port,
			"addr":     serverAddr,
		}).Info("Starting HTTP server...")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithField("address", serverAddr).Info("✓ Server is running")
	logger.Info("Press Ctrl+C to stop the server")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	if err := taskScheduler.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("Scheduler did not drain in time")
	}

	if err := db.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close database")
	}

	logger.Info("Server exited gracefully")
}
