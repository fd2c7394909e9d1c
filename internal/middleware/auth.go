package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/bilalmirza74/fides/internal/utils"
)

// Roles that grant the preference read scopes without carrying them
// explicitly in the token
var rolesWithReadAccess = map[string]bool{
	"owner":       true,
	"contributor": true,
}

// AccessTokenClaims are the claims this service reads from a bearer token
type AccessTokenClaims struct {
	Scopes []string `json:"scopes"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// RequireScope returns a middleware that authenticates the bearer token and
// authorizes the given scope. Tokens are HMAC-signed with the configured
// key. A role with implied read access satisfies any read scope; other
// roles must carry the scope explicitly.
func RequireScope(signingKey, scope string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.SendUnauthorizedError(c, "Missing bearer token")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims := &AccessTokenClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(signingKey), nil
		})
		if err != nil || !token.Valid {
			logger.WithError(err).Debug("Rejected bearer token")
			utils.SendUnauthorizedError(c, "Invalid bearer token")
			c.Abort()
			return
		}

		if !hasScope(claims, scope) {
			utils.SendForbiddenError(c, "Insufficient permissions", "token does not grant scope "+scope)
			c.Abort()
			return
		}

		c.Set("subject", claims.Subject)
		c.Next()
	}
}

func hasScope(claims *AccessTokenClaims, scope string) bool {
	for _, role := range claims.Roles {
		if rolesWithReadAccess[role] {
			return true
		}
	}
	for _, s := range claims.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
