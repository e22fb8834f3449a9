package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/middleware"
	"taskboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const jwtSecret = "test-secret-key"

type fixedSession struct {
	userID string
}

func (s fixedSession) Session() model.Session {
	return model.Session{CurrentUserID: s.userID}
}

func setupRouter(sessionUser string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/protected")
	protected.Use(middleware.JWTAuthMiddleware(auth.NewManager(jwtSecret, time.Hour)))
	protected.GET("/resource", func(c *gin.Context) {
		userID, exists := c.Get(middleware.UserIDKey)
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User ID not found in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Access granted", "user_id": userID})
	})

	session := protected.Group("/session")
	session.Use(middleware.RequireSession(fixedSession{userID: sessionUser}))
	session.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Access granted"})
	})

	return r
}

func generateTestToken(userID string) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(jwtSecret))
	return tokenString
}

func serve(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.NewString()
	router := setupRouter(userID)

	resp := serve(router, "/protected/resource", "Bearer "+generateTestToken(userID))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Access granted")
	assert.Contains(t, resp.Body.String(), userID)
}

func TestJWTAuthMiddleware_NoAuthHeader(t *testing.T) {
	resp := serve(setupRouter(""), "/protected/resource", "")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authorization header is required")
}

func TestJWTAuthMiddleware_InvalidAuthFormat(t *testing.T) {
	resp := serve(setupRouter(""), "/protected/resource", "InvalidFormat token123")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Authorization header format must be Bearer {token}")
}

func TestJWTAuthMiddleware_InvalidToken(t *testing.T) {
	resp := serve(setupRouter(""), "/protected/resource", "Bearer invalid-token")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid or expired token")
}

func TestJWTAuthMiddleware_TokenWithInvalidUserID(t *testing.T) {
	resp := serve(setupRouter(""), "/protected/resource", "Bearer "+generateTestToken("not-a-valid-uuid"))

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid user ID in token")
}

func TestRequireSession(t *testing.T) {
	active := uuid.NewString()
	router := setupRouter(active)

	resp := serve(router, "/protected/session", "Bearer "+generateTestToken(active))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = serve(router, "/protected/session", "Bearer "+generateTestToken(uuid.NewString()))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Session is no longer active")
}
