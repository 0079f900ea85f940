package middleware

import (
	"net/http"
	"strings"

	"campaigndash-be/internal/models"
	"campaigndash-be/internal/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired. The token is parsed exactly once per
// request; downstream handlers read the stored claims.
const (
	ContextUserID = "userID"
	ContextClaims = "claims"
)

// AuthRequired validates the bearer token and stores the session in the
// request context.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Authorization header required"})
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid authorization header format"})
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid or expired token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// AdminRequired gates admin-only routes. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Error: "Admin access required"})
			return
		}
		c.Next()
	}
}

// GetClaims returns the session claims stored by AuthRequired, or nil.
func GetClaims(c *gin.Context) *utils.Claims {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil
	}
	claims, ok := v.(*utils.Claims)
	if !ok {
		return nil
	}
	return claims
}
