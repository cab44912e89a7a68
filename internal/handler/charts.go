package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Mmd4LIFE/goldmarketcap/internal/chart"
	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetLineChart godoc
// @Summary      Get minute-resolution line chart data for a source
// @Description  Returns the source's minute history plus the padded axis domain the chart should be drawn against
// @Tags         charts
// @Produce      json
// @Param        source  path   string  true   "Source name (e.g., tgju, milli)"
// @Param        hours   query  int     false  "Hours of history (default 2, max 168)"  default(2)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/charts/{source}/line [get]
func (h *Handler) GetLineChart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-line-chart")
	defer span.End()

	source := strings.ToLower(c.Param("source"))
	span.SetAttributes(attribute.String("source", source))

	if !domain.IsSupportedSource(source) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "unsupported source: " + source,
			"supported_sources": domain.SupportedSources,
		})
		return
	}

	hours := 0
	if q := c.Query("hours"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 168 {
			hours = n
		}
	}

	history, err := h.boards.GetLineChart(ctx, source, hours)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"source":    history.Source,
		"interval":  history.Interval,
		"has_sides": history.HasSides,
		"points":    history.Points,
	}
	if dom, ok := chart.ComputeLineDomain(history.Points); ok {
		resp["domain"] = dom
	}

	c.JSON(http.StatusOK, resp)
}

// GetCandleChart godoc
// @Summary      Get hour-resolution candlestick data for a source
// @Description  Returns hour candles with the chart axis domain; pass height to also get per-candle pixel geometry
// @Tags         charts
// @Produce      json
// @Param        source      path   string  true   "Source name (e.g., tgju, milli)"
// @Param        hours       query  int     false  "Hours of candles (default 24, max 168)"  default(24)
// @Param        continuity  query  bool    false  "Join each candle's open to the previous close"  default(true)
// @Param        height      query  int     false  "Viewport height in pixels; when set, geometry is included"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/charts/{source}/candles [get]
func (h *Handler) GetCandleChart(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-candle-chart")
	defer span.End()

	source := strings.ToLower(c.Param("source"))
	span.SetAttributes(attribute.String("source", source))

	if !domain.IsSupportedSource(source) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "unsupported source: " + source,
			"supported_sources": domain.SupportedSources,
		})
		return
	}

	hours := 0
	if q := c.Query("hours"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 168 {
			hours = n
		}
	}

	continuity := true
	if q := c.Query("continuity"); q != "" {
		if b, err := strconv.ParseBool(q); err == nil {
			continuity = b
		}
	}

	height := 0
	if q := c.Query("height"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n <= 2000 {
			height = n
		}
	}

	candles, err := h.boards.GetCandleChart(ctx, source, hours, continuity)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"source":    candles.Source,
		"interval":  candles.Interval,
		"has_sides": candles.HasSides,
	}
	if candles.HasSides {
		resp["buy_candles"] = candles.BuyCandles
		resp["sell_candles"] = candles.SellCandles
	} else {
		resp["candles"] = candles.Candles
	}

	// One domain across every series so buy and sell render on the same scale.
	dom, ok := chart.ComputeAxisDomain(candles.Candles, candles.BuyCandles, candles.SellCandles)
	if !ok {
		c.JSON(http.StatusOK, resp)
		return
	}
	resp["domain"] = dom

	if height > 0 {
		if candles.HasSides {
			resp["buy_geometry"] = chart.Layout(candles.BuyCandles, dom, float64(height))
			resp["sell_geometry"] = chart.Layout(candles.SellCandles, dom, float64(height))
		} else {
			resp["geometry"] = chart.Layout(candles.Candles, dom, float64(height))
		}
	}

	c.JSON(http.StatusOK, resp)
}
