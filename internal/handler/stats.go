package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStats godoc
// @Summary      Get market-wide gold statistics
// @Description  Returns cross-source analytics: extremes, market average, and the most/least changed sources
// @Tags         stats
// @Produce      json
// @Success      200  {object}  domain.MarketStats
// @Failure      502  {object}  map[string]string
// @Router       /api/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-stats")
	defer span.End()

	stats, err := h.boards.GetStats(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetCollectorHealth godoc
// @Summary      Get collector health
// @Description  Passes through the collector's own health report; never cached so staleness is visible
// @Tags         health
// @Produce      json
// @Success      200  {object}  domain.CollectorHealth
// @Failure      502  {object}  map[string]string
// @Router       /api/collector/health [get]
func (h *Handler) GetCollectorHealth(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-collector-health")
	defer span.End()

	health, err := h.boards.GetCollectorHealth(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, health)
}
