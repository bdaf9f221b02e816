// internal/middleware/auth.go
// Authentication middleware validates JWT tokens and sets operator context

package middleware

import (
	"net/http"
	"strings"

	"github.com/SiRipo92/chess-manager/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireAuth validates that a request carries a valid operator
// bearer token.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			c.Abort()
			return
		}

		subject, role, err := auth.ValidateToken(parts[1], secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("operator_id", subject)
		c.Set("operator_role", role)
		c.Set("authenticated", true)
		c.Next()
	}
}

// OptionalAuth checks for authentication but doesn't require it.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set("authenticated", false)
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if subject, role, err := auth.ValidateToken(parts[1], secret); err == nil {
				c.Set("operator_id", subject)
				c.Set("operator_role", role)
				c.Set("authenticated", true)
			}
		}
		c.Next()
	}
}
