package handler

import (
	"errors"
	"net/http"

	"github.com/joaop25/NerdStore/internal/identity/gate"
	"github.com/joaop25/NerdStore/internal/logger"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	id, err := h.gate.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, gate.ErrRegistrationRejected) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "registration rejected"})
			return
		}
		logger.Error("registration failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
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
