package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"github.com/Mmd4LIFE/goldmarketcap/internal/board"
	"github.com/Mmd4LIFE/goldmarketcap/internal/chart"
	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"
)

const (
	latestCacheTTL = 90 * time.Second
	chartCacheTTL  = 60 * time.Second
	statsCacheTTL  = 60 * time.Second

	defaultHistoryHours = 2
	defaultCandleHours  = 24
)

// CollectorClient is the slice of the collector API the board needs.
type CollectorClient interface {
	FetchLatest(ctx context.Context) (map[string]domain.SourceQuoteSet, error)
	FetchHistory(ctx context.Context, source string, hours int) (*domain.SourceHistory, error)
	FetchHourCandles(ctx context.Context, source string, hours int) (*domain.SourceCandles, error)
	FetchStats(ctx context.Context) (*domain.MarketStats, error)
	FetchHealth(ctx context.Context) (*domain.CollectorHealth, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// BoardService serves the ranked price board and per-source charts. Raw
// collector payloads are cached in Redis; summaries and chart adjustments
// are always recomputed from the raw data so a refresh can never observe a
// half-updated derivation.
type BoardService struct {
	tracer    trace.Tracer
	collector CollectorClient
	redis     RedisClient
}

func NewBoardService(tracer trace.Tracer, collector CollectorClient, redisClient RedisClient) *BoardService {
	return &BoardService{
		tracer:    tracer,
		collector: collector,
		redis:     redisClient,
	}
}

// cachedLatest pins the fetch time next to the payload so the board can
// report when its data was actually collected, not when it was served.
type cachedLatest struct {
	FetchedAt time.Time                        `json:"fetched_at"`
	Latest    map[string]domain.SourceQuoteSet `json:"latest"`
}

// GetBoard returns the ranked board built from the latest quotes. An empty
// board (no usable sources) is a valid result, not an error.
func (s *BoardService) GetBoard(ctx context.Context) (*domain.Board, error) {
	ctx, span := s.tracer.Start(ctx, "board-service.get-board")
	defer span.End()

	if s.redis != nil {
		cached, err := s.getLatestCache(ctx)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if cached != nil {
			return &domain.Board{
				Summaries:   board.Aggregate(cached.Latest),
				RefreshedAt: cached.FetchedAt,
			}, nil
		}
	}

	latest, err := s.fetchAndCacheLatest(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Board{
		Summaries:   board.Aggregate(latest.Latest),
		RefreshedAt: latest.FetchedAt,
	}, nil
}

// RefreshBoard force-fetches the latest quotes and rewrites the cache. The
// poller calls this so interactive reads stay on the cache path.
func (s *BoardService) RefreshBoard(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "board-service.refresh-board")
	defer span.End()

	latest, err := s.fetchAndCacheLatest(ctx)
	if err != nil {
		return err
	}
	log.Printf("Refreshed gold board (%d sources)", len(latest.Latest))
	return nil
}

// GetLineChart returns a source's minute history for line rendering.
func (s *BoardService) GetLineChart(ctx context.Context, source string, hours int) (*domain.SourceHistory, error) {
	ctx, span := s.tracer.Start(ctx, "board-service.get-line-chart")
	defer span.End()

	if !domain.IsSupportedSource(source) {
		return nil, fmt.Errorf("unsupported source: %s", source)
	}
	if hours <= 0 {
		hours = defaultHistoryHours
	}

	key := fmt.Sprintf("gold:history:%s:%d", source, hours)
	if s.redis != nil {
		var cached domain.SourceHistory
		ok, err := s.getJSONCache(ctx, key, &cached)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if ok {
			return &cached, nil
		}
	}

	hist, err := s.collector.FetchHistory(ctx, source, hours)
	if err != nil {
		return nil, err
	}
	if s.redis != nil {
		_ = s.setJSONCache(ctx, key, hist, chartCacheTTL)
	}
	return hist, nil
}

// GetCandleChart returns a source's hour candles. With continuity enabled
// each series is rewritten so candles join seamlessly; the cache always
// holds the raw series and the adjustment is applied per request.
func (s *BoardService) GetCandleChart(ctx context.Context, source string, hours int, continuity bool) (*domain.SourceCandles, error) {
	ctx, span := s.tracer.Start(ctx, "board-service.get-candle-chart")
	defer span.End()

	if !domain.IsSupportedSource(source) {
		return nil, fmt.Errorf("unsupported source: %s", source)
	}
	if hours <= 0 {
		hours = defaultCandleHours
	}

	key := fmt.Sprintf("gold:candles:%s:%d", source, hours)
	var candles *domain.SourceCandles
	if s.redis != nil {
		var cached domain.SourceCandles
		ok, err := s.getJSONCache(ctx, key, &cached)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if ok {
			candles = &cached
		}
	}
	if candles == nil {
		fetched, err := s.collector.FetchHourCandles(ctx, source, hours)
		if err != nil {
			return nil, err
		}
		if s.redis != nil {
			_ = s.setJSONCache(ctx, key, fetched, chartCacheTTL)
		}
		candles = fetched
	}

	if continuity {
		adjusted := *candles
		adjusted.Candles = chart.EnforceContinuity(candles.Candles)
		adjusted.BuyCandles = chart.EnforceContinuity(candles.BuyCandles)
		adjusted.SellCandles = chart.EnforceContinuity(candles.SellCandles)
		return &adjusted, nil
	}
	return candles, nil
}

// GetStats returns the collector's market analytics summary.
func (s *BoardService) GetStats(ctx context.Context) (*domain.MarketStats, error) {
	ctx, span := s.tracer.Start(ctx, "board-service.get-stats")
	defer span.End()

	const key = "gold:stats"
	if s.redis != nil {
		var cached domain.MarketStats
		ok, err := s.getJSONCache(ctx, key, &cached)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if ok {
			return &cached, nil
		}
	}

	stats, err := s.collector.FetchStats(ctx)
	if err != nil {
		return nil, err
	}
	if s.redis != nil {
		_ = s.setJSONCache(ctx, key, stats, statsCacheTTL)
	}
	return stats, nil
}

// GetCollectorHealth reports the collector's own health, uncached so the
// dashboard's health view never lies about staleness.
func (s *BoardService) GetCollectorHealth(ctx context.Context) (*domain.CollectorHealth, error) {
	ctx, span := s.tracer.Start(ctx, "board-service.get-collector-health")
	defer span.End()

	return s.collector.FetchHealth(ctx)
}

func (s *BoardService) fetchAndCacheLatest(ctx context.Context) (*cachedLatest, error) {
	latest, err := s.collector.FetchLatest(ctx)
	if err != nil {
		return nil, err
	}
	entry := &cachedLatest{FetchedAt: time.Now().UTC(), Latest: latest}
	if s.redis != nil {
		if err := s.setJSONCache(ctx, "gold:latest", entry, latestCacheTTL); err != nil {
			log.Printf("redis cache write error: %v", err)
		}
	}
	return entry, nil
}

func (s *BoardService) getLatestCache(ctx context.Context) (*cachedLatest, error) {
	var cached cachedLatest
	ok, err := s.getJSONCache(ctx, "gold:latest", &cached)
	if err != nil || !ok {
		return nil, err
	}
	return &cached, nil
}

func (s *BoardService) setJSONCache(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, key, data, ttl).Err()
}

func (s *BoardService) getJSONCache(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}
