package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/serviceerror"
)

// SendSuccessResponse sends a successful JSON response
func SendSuccessResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SendErrorResponse sends an error JSON response
func SendErrorResponse(c *gin.Context, statusCode int, errCode, message, details string) {
	c.JSON(statusCode, models.NewErrorResponse(errCode, message, details))
}

// SendCreatedResponse sends a 201 Created response
func SendCreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SendOKResponse sends a 200 OK response
func SendOKResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendBadRequestError sends a 400 Bad Request error
func SendBadRequestError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeBadRequest, message, details)
}

// SendUnauthorizedError sends a 401 Unauthorized error
func SendUnauthorizedError(c *gin.Context, message string) {
	SendErrorResponse(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, message, "")
}

// SendForbiddenError sends a 403 Forbidden error
func SendForbiddenError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusForbidden, models.ErrCodeForbidden, message, details)
}

// SendNotFoundError sends a 404 Not Found error
func SendNotFoundError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusNotFound, models.ErrCodeNotFound, message, details)
}

// SendInternalServerError sends a 500 Internal Server Error
func SendInternalServerError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusInternalServerError, models.ErrCodeInternalError, message, details)
}

// SendValidationError sends a 422 validation error response
func SendValidationError(c *gin.Context, details string) {
	SendErrorResponse(c, http.StatusUnprocessableEntity, models.ErrCodeUnprocessableEntity, "Validation failed", details)
}

// SendServiceError maps a service error to its HTTP response. The error code
// chosen here determines the status via models.HTTPStatusForErrorCode;
// unrecognized errors fall through to 500 with a generic message.
func SendServiceError(c *gin.Context, err error) {
	var errCode, message, details string
	switch {
	case errors.Is(err, serviceerror.ErrValidation):
		errCode, message, details = models.ErrCodeUnprocessableEntity, "Validation failed", err.Error()
	case errors.Is(err, serviceerror.ErrCodeExpired):
		errCode, message, details = models.ErrCodeBadRequest, "Verification code expired", err.Error()
	case errors.Is(err, serviceerror.ErrInvalidNotice):
		errCode, message, details = models.ErrCodeBadRequest, "Invalid privacy notice", err.Error()
	case errors.Is(err, serviceerror.ErrPolicyNotFound):
		errCode, message, details = models.ErrCodePolicyNotFound, "Policy not found", err.Error()
	case errors.Is(err, serviceerror.ErrIncorrectCode):
		errCode, message, details = models.ErrCodeVerificationFailed, "Incorrect identification code", err.Error()
	case errors.Is(err, serviceerror.ErrAttemptLimit):
		errCode, message, details = models.ErrCodeVerificationFailed, "Verification attempt limit exceeded", err.Error()
	case errors.Is(err, serviceerror.ErrIdentityMissing):
		errCode, message, details = models.ErrCodeIdentityMissing, "Provided identity missing", err.Error()
	case errors.Is(err, serviceerror.ErrNotFound):
		errCode, message, details = models.ErrCodeNotFound, "Resource not found", err.Error()
	default:
		errCode, message, details = models.ErrCodeInternalError, "Internal server error", ""
	}
	SendErrorResponse(c, models.HTTPStatusForErrorCode(errCode), errCode, message, details)
}
