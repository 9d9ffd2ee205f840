package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/media-resolve-go/internal/app"
	"github.com/yourusername/media-resolve-go/internal/domain"
	"go.uber.org/zap"
)

const maxHistoryLimit = 500

// HistoryHandler serves the resolution audit trail
type HistoryHandler struct {
	service *app.ResolveService
	logger  *zap.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service *app.ResolveService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  logger,
	}
}

// ListResolutions handles GET /api/v1/resolutions
func (h *HistoryHandler) ListResolutions(c *gin.Context) {
	limit := 50
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	var filter domain.ResolutionFilter
	if p := c.Query("platform"); p != "" {
		filter.Platform = domain.NormalizePlatform(p)
		if !domain.ValidatePlatform(filter.Platform) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown platform"})
			return
		}
	}
	if s := c.Query("success"); s != "" {
		success, err := strconv.ParseBool(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid success filter"})
			return
		}
		filter.Success = &success
	}

	resolutions, err := h.service.History(limit, filter)
	if err != nil {
		h.logger.Error("Failed to list resolutions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resolutions)
}

// GetResolution handles GET /api/v1/resolutions/:id
func (h *HistoryHandler) GetResolution(c *gin.Context) {
	id := c.Param("id")

	resolution, err := h.service.Resolution(id)
	if errors.Is(err, domain.ErrResolutionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "resolution not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to get resolution", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resolution)
}

// GetStats handles GET /api/v1/resolutions/stats
func (h *HistoryHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
