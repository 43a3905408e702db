package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trackbuddy/trackbuddy-backend/internal/service/sandbox"
)

// SandboxHandler exposes the payout simulator's state for inspection.
type SandboxHandler struct {
	provider *sandbox.Provider
}

// NewSandboxHandler creates a sandbox inspection handler.
func NewSandboxHandler(provider *sandbox.Provider) *SandboxHandler {
	return &SandboxHandler{provider: provider}
}

// List returns all simulated payouts.
func (h *SandboxHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"payouts": h.provider.List()})
}

// Get returns one simulated payout by transaction id.
func (h *SandboxHandler) Get(c *gin.Context) {
	payout, ok := h.provider.GetStatus(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "payout not found"})
		return
	}
	c.JSON(http.StatusOK, payout)
}
