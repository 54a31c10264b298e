package handler

import (
	"github.com/joaop25/NerdStore/internal/identity/gate"
	"github.com/joaop25/NerdStore/internal/identity/token"

	"github.com/gin-gonic/gin"
)

// Handler is the thin HTTP surface over the credential gate and the
// token issuer. Flow: request, gate, then issuer; on any gate failure
// the issuer is never invoked.
type Handler struct {
	gate   *gate.Gate
	issuer *token.Issuer
}

func NewHandler(gate *gate.Gate, issuer *token.Issuer) *Handler {
	return &Handler{
		gate:   gate,
		issuer: issuer,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	grp := r.Group("/api/identity")
	grp.POST("/new-account", h.Register)
	grp.POST("/authenticate", h.Login)
}

// credentialsRequest is the shared body shape for both operations.
type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
