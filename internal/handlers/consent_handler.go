package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/service"
	"github.com/bilalmirza74/fides/internal/utils"
)

// ConsentHandler serves the consent request workflow endpoints
type ConsentHandler struct {
	consentService *service.ConsentService
	logger         *logrus.Logger
}

// NewConsentHandler creates a new consent handler
func NewConsentHandler(consentService *service.ConsentService, logger *logrus.Logger) *ConsentHandler {
	return &ConsentHandler{
		consentService: consentService,
		logger:         logger,
	}
}

// CreateConsentRequest handles POST /api/v1/consent-request
func (h *ConsentHandler) CreateConsentRequest(c *gin.Context) {
	var payload models.CreateConsentRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	request, err := h.consentService.CreateConsentRequest(c.Request.Context(), payload.Identity.Email)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendCreatedResponse(c, models.CreateConsentRequestResponse{
		ConsentRequestID: request.ConsentRequestID,
	})
}

// SavePrivacyPreferences handles PATCH /api/v1/consent-request/:consentRequestId/privacy-preferences
func (h *ConsentHandler) SavePrivacyPreferences(c *gin.Context) {
	consentRequestID := c.Param("consentRequestId")

	var req models.SavePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	responses, err := h.consentService.SavePrivacyPreferences(c.Request.Context(), consentRequestID, &req)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, responses)
}

// VerifyConsentRequest handles POST /api/v1/consent-request/:consentRequestId/privacy-preferences/verify
func (h *ConsentHandler) VerifyConsentRequest(c *gin.Context) {
	consentRequestID := c.Param("consentRequestId")

	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	page, size := utils.ParsePageParams(c)
	items, total, err := h.consentService.VerifyAndListPreferences(c.Request.Context(), consentRequestID, req.Code, page, size)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, utils.NewPage(items, total, page, size))
}
