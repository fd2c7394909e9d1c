package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/service"
	"github.com/bilalmirza74/fides/internal/serviceerror"
	"github.com/bilalmirza74/fides/internal/utils"
	pkgutils "github.com/bilalmirza74/fides/pkg/utils"
)

// PreferenceHandler serves the privacy preference listing endpoints
type PreferenceHandler struct {
	preferenceService *service.PreferenceService
	logger            *logrus.Logger
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(preferenceService *service.PreferenceService, logger *logrus.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceService: preferenceService,
		logger:            logger,
	}
}

// GetHistoricalPreferences handles GET /api/v1/historical-privacy-preferences
func (h *PreferenceHandler) GetHistoricalPreferences(c *gin.Context) {
	lt, ok := parseTimestampQuery(c, "request_timestamp_lt")
	if !ok {
		return
	}
	gt, ok := parseTimestampQuery(c, "request_timestamp_gt")
	if !ok {
		return
	}

	page, size := utils.ParsePageParams(c)
	params := &models.HistoricalSearchParams{
		RequestTimestampLT: lt,
		RequestTimestampGT: gt,
		Page:               page,
		Size:               size,
	}

	items, total, err := h.preferenceService.ListHistorical(c.Request.Context(), params)
	if err != nil {
		sendListingError(c, err)
		return
	}

	utils.SendOKResponse(c, utils.NewPage(items, total, page, size))
}

// GetCurrentPreferences handles GET /api/v1/current-privacy-preferences
func (h *PreferenceHandler) GetCurrentPreferences(c *gin.Context) {
	lt, ok := parseTimestampQuery(c, "updated_lt")
	if !ok {
		return
	}
	gt, ok := parseTimestampQuery(c, "updated_gt")
	if !ok {
		return
	}

	page, size := utils.ParsePageParams(c)
	params := &models.CurrentSearchParams{
		UpdatedLT: lt,
		UpdatedGT: gt,
		Page:      page,
		Size:      size,
	}

	items, total, err := h.preferenceService.ListCurrent(c.Request.Context(), params)
	if err != nil {
		sendListingError(c, err)
		return
	}

	utils.SendOKResponse(c, utils.NewPage(items, total, page, size))
}

// sendListingError maps listing failures. Filter violations, such as an
// upper timestamp bound at or before the lower bound, are bad requests.
func sendListingError(c *gin.Context, err error) {
	if errors.Is(err, serviceerror.ErrValidation) {
		utils.SendBadRequestError(c, "Invalid filter", err.Error())
		return
	}
	utils.SendServiceError(c, err)
}

// parseTimestampQuery reads an optional timestamp query parameter as epoch
// millis. Writes a validation error response and returns false when the
// value does not parse.
func parseTimestampQuery(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	t, err := pkgutils.ParseTimestampParam(raw)
	if err != nil {
		utils.SendValidationError(c, "invalid value for "+name+": "+raw)
		return nil, false
	}

	millis := pkgutils.TimeToMillis(t)
	return &millis, true
}
