// middlewares/auth_middleware.go
package middlewares

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"mealtracker/utils"

	"github.com/gin-gonic/gin"
)

// TokenParser resolves a bearer token to the email it was issued for.
type TokenParser interface {
	Subject(token string) (string, error)
}

// BearerToken returns the token from "Authorization: Bearer <token>", or "".
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// requestToken also reads ?token= on websocket upgrades, since browsers
// cannot set headers on a websocket handshake.
func requestToken(c *gin.Context) string {
	if t := BearerToken(c); t != "" {
		return t
	}
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return c.Query("token")
	}
	return ""
}

func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := requestToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		email, err := tokens.Subject(tokenString)
		if errors.Is(err, utils.ErrMissingSecret) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured: JWT_SECRET not set"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("email", email)
		c.Next()
	}
}

// APIKeyMiddleware guards account creation and login with a shared secret,
// sent either as a bearer token or in X-API-Key.
func APIKeyMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server misconfigured: missing API_SECRET"})
			return
		}

		provided := BearerToken(c)
		if provided == "" {
			provided = c.GetHeader("X-API-Key")
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
