package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestRouter(signingKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	r := gin.New()
	r.GET("/protected", RequireScope(signingKey, "current-privacy-preference:read", logger), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString("subject")})
	})
	return r
}

func mintToken(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func getProtected(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireScope_ExpiredToken(t *testing.T) {
	r := authTestRouter("key")
	token := mintToken(t, "key", jwt.MapClaims{
		"sub":   "user-1",
		"roles": []string{"owner"},
		"exp":   time.Now().Add(-time.Minute).Unix(),
	})

	w := getProtected(r, token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireScope_WrongSigningKey(t *testing.T) {
	r := authTestRouter("key")
	token := mintToken(t, "other-key", jwt.MapClaims{
		"sub":   "user-1",
		"roles": []string{"owner"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	w := getProtected(r, token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireScope_ScopeGranted(t *testing.T) {
	r := authTestRouter("key")
	token := mintToken(t, "key", jwt.MapClaims{
		"sub":    "user-1",
		"scopes": []string{"current-privacy-preference:read"},
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	w := getProtected(r, token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestRequireScope_RoleWithoutReadAccess(t *testing.T) {
	r := authTestRouter("key")
	token := mintToken(t, "key", jwt.MapClaims{
		"sub":   "user-1",
		"roles": []string{"viewer_and_approver"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	w := getProtected(r, token)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
