package handler

import (
	"net/http"

	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetSources godoc
// @Summary      List tracked gold sources
// @Description  Returns every source the board aggregates, with display names and whether it quotes buy/sell sides
// @Tags         board
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/sources [get]
func (h *Handler) GetSources(c *gin.Context) {
	sources := make([]domain.GoldSource, 0, len(domain.SupportedSources))
	for _, name := range domain.SupportedSources {
		sources = append(sources, domain.Sources[name])
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

// GetBoard godoc
// @Summary      Get the ranked gold price board
// @Description  Returns one summary per source with a unified price, ranked most expensive first
// @Tags         board
// @Produce      json
// @Success      200  {object}  domain.Board
// @Failure      502  {object}  map[string]string
// @Router       /api/board [get]
func (h *Handler) GetBoard(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-board")
	defer span.End()

	board, err := h.boards.GetBoard(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, board)
}

// RefreshBoard godoc
// @Summary      Force a board refresh
// @Description  Bypasses the cache, re-fetches the latest quotes from the collector, and rewrites the cache
// @Tags         board
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/board/refresh [post]
func (h *Handler) RefreshBoard(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh-board")
	defer span.End()

	if err := h.boards.RefreshBoard(ctx); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	board, err := h.boards.GetBoard(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"sources":      len(board.Summaries),
		"refreshed_at": board.RefreshedAt,
	})
}
