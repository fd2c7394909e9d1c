package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bilalmirza74/fides/internal/config"
	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/handlers"
	"github.com/bilalmirza74/fides/internal/middleware"
	"github.com/bilalmirza74/fides/internal/service"
)

// Scopes gating the preference listing endpoints
const (
	ScopeHistoricalPreferenceRead = "privacy-preference-history:read"
	ScopeCurrentPreferenceRead    = "current-privacy-preference:read"
)

// SetupRouter configures all API routes
func SetupRouter(
	cfg *config.Config,
	db *database.DB,
	consentService *service.ConsentService,
	preferenceService *service.PreferenceService,
	logger *logrus.Logger,
) *gin.Engine {
	router := gin.Default()

	if cfg.CORS.Enabled {
		router.Use(middleware.CORSMiddleware(&cfg.CORS))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.HealthCheck(ctx); err != nil {
			c.JSON(503, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Create handlers
	consentHandler := handlers.NewConsentHandler(consentService, logger)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceService, logger)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Subject-facing consent request routes, gated by the verification
		// code rather than a bearer token
		v1.POST("/consent-request", consentHandler.CreateConsentRequest)
		v1.PATCH("/consent-request/:consentRequestId/privacy-preferences", consentHandler.SavePrivacyPreferences)
		v1.POST("/consent-request/:consentRequestId/privacy-preferences/verify", consentHandler.VerifyConsentRequest)

		// Operator-facing listing routes
		v1.GET("/historical-privacy-preferences",
			middleware.RequireScope(cfg.Security.JWTSigningKey, ScopeHistoricalPreferenceRead, logger),
			preferenceHandler.GetHistoricalPreferences)
		v1.GET("/current-privacy-preferences",
			middleware.RequireScope(cfg.Security.JWTSigningKey, ScopeCurrentPreferenceRead, logger),
			preferenceHandler.GetCurrentPreferences)
	}

	return router
}
