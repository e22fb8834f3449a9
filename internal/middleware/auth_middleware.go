package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/model"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

type TokenParser interface {
	ParseToken(token string) (string, error)
}

// SessionSource reports the process-wide login.
type SessionSource interface {
	Session() model.Session
}

// JWTAuthMiddleware checks the bearer token and stores its user id under
// UserIDKey.
func JWTAuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		userID, err := tokens.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if _, err := uuid.Parse(userID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// RequireSession rejects tokens that belong to anyone but the user currently
// logged in. A logout or a login as someone else invalidates older tokens.
func RequireSession(sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey)
		if userID == "" || sessions.Session().CurrentUserID != userID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session is no longer active"})
			return
		}
		c.Next()
	}
}
