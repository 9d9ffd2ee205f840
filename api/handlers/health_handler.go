package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/media-resolve-go/internal/app"
	"github.com/yourusername/media-resolve-go/internal/domain"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// HealthHandler handles health check requests
type HealthHandler struct {
	service *app.ResolveService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service *app.ResolveService) *HealthHandler {
	return &HealthHandler{
		service: service,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Platforms []domain.Platform `json:"platforms"`
	Relay     string            `json:"relay,omitempty"`
	History   bool              `json:"history"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   Version,
		Platforms: h.service.Platforms(),
		Relay:     string(h.service.RelayProvider()),
		History:   h.service.HistoryEnabled(),
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if len(h.service.Platforms()) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "no resolvers registered",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
