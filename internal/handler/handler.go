package handler

import (
	"context"

	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// BoardProvider is the slice of the board service the HTTP layer consumes.
type BoardProvider interface {
	GetBoard(ctx context.Context) (*domain.Board, error)
	RefreshBoard(ctx context.Context) error
	GetLineChart(ctx context.Context, source string, hours int) (*domain.SourceHistory, error)
	GetCandleChart(ctx context.Context, source string, hours int, continuity bool) (*domain.SourceCandles, error)
	GetStats(ctx context.Context) (*domain.MarketStats, error)
	GetCollectorHealth(ctx context.Context) (*domain.CollectorHealth, error)
}

type Handler struct {
	tracer trace.Tracer
	boards BoardProvider
	apiKey string
}

func New(tracer trace.Tracer, boards BoardProvider, apiKey string) *Handler {
	return &Handler{
		tracer: tracer,
		boards: boards,
		apiKey: apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/sources", h.GetSources)
	api.GET("/board", h.GetBoard)
	api.POST("/board/refresh", APIKeyAuth(h.apiKey), h.RefreshBoard)
	api.GET("/charts/:source/line", h.GetLineChart)
	api.GET("/charts/:source/candles", h.GetCandleChart)
	api.GET("/stats", h.GetStats)
	api.GET("/collector/health", h.GetCollectorHealth)
}
