// internal/api/auth_handlers.go
// Operator authentication: a single configured credential, no user
// directory.

package api

import (
	"net/http"

	"github.com/SiRipo92/chess-manager/internal/auth"
	"github.com/SiRipo92/chess-manager/internal/config"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HandleLogin checks the supplied credential against the configured
// operator account and issues a bearer token.
func HandleLogin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
			return
		}

		if req.Username != cfg.Auth.OperatorUsername || cfg.Auth.OperatorPasswordHash == "" ||
			!auth.CheckPassword(cfg.Auth.OperatorPasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := auth.GenerateToken(req.Username, "operator", cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "expires_in": cfg.Auth.JWTExpiration.Seconds()})
	}
}
