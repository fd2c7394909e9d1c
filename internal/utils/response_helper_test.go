package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/bilalmirza74/fides/internal/serviceerror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSendServiceError_StatusByErrorCode(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", serviceerror.ErrValidation, http.StatusUnprocessableEntity},
		{"code expired", serviceerror.ErrCodeExpired, http.StatusBadRequest},
		{"invalid notice", serviceerror.ErrInvalidNotice, http.StatusBadRequest},
		{"policy not found", serviceerror.ErrPolicyNotFound, http.StatusBadRequest},
		{"incorrect code", serviceerror.ErrIncorrectCode, http.StatusForbidden},
		{"attempt limit", serviceerror.ErrAttemptLimit, http.StatusForbidden},
		{"identity missing", serviceerror.ErrIdentityMissing, http.StatusNotFound},
		{"not found", serviceerror.ErrNotFound, http.StatusNotFound},
		{"unrecognized", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			SendServiceError(c, tc.err)

			assert.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestSendServiceError_AnnotatedErrorKeepsMapping(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := serviceerror.Annotate(serviceerror.ErrPolicyNotFound, "policy with key %s does not exist", "default")
	SendServiceError(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "POLICY_NOT_FOUND")
	assert.Contains(t, w.Body.String(), "default")
}
