package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/looking4/internal/app/models/dto"
	"github.com/deniz/looking4/internal/pkg/auth"
)

// ContextUserIDKey is where JWTAuth stores the authenticated user's ID
const ContextUserIDKey = "userID"

// ContextUsernameKey is where JWTAuth stores the authenticated username
const ContextUsernameKey = "username"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Invalid token format"))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			message := "Authentication failed"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(message))
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

// GetUserID extracts the authenticated user's ID from the gin context
func GetUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}
