package handler

import (
	"errors"
	"net/http"

	"github.com/joaop25/NerdStore/internal/identity/gate"
	"github.com/joaop25/NerdStore/internal/logger"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	id, err := h.gate.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, gate.ErrLockedOut):
			// Lockout must stay distinguishable from bad credentials:
			// 403, never 401.
			c.JSON(http.StatusForbidden, gin.H{"error": "account temporarily locked"})
		case errors.Is(err, gate.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		default:
			logger.Error("login failed", map[string]any{
				"error": err.Error(),
			})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	resp, err := h.issuer.Issue(c.Request.Context(), id)
	if err != nil {
		logger.Error("token issuance failed", map[string]any{
			"user_id": id.ID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
