package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"
)

// Client talks to the gold price collector API. The collector scrapes the
// marketplaces and owns persistence and retries; this client only fetches
// and validates.
type Client struct {
	client  *http.Client
	baseURL string
	token   string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewClient creates a client with built-in rate limiting. The collector is
// our own service, so the limit is generous: 60 requests per minute.
func NewClient(baseURL, token string, tracer trace.Tracer) *Client {
	return &Client{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		token:   token,
		tracer:  tracer,
		limiter: NewRateLimiter(60, time.Minute),
	}
}

// FetchLatest fetches the latest quote of every source, keyed by side.
func (c *Client) FetchLatest(ctx context.Context) (map[string]domain.SourceQuoteSet, error) {
	_, span := c.tracer.Start(ctx, "collector.fetch-latest")
	defer span.End()

	body, err := c.doRequest(ctx, c.baseURL+"/api/v1/prices/latest")
	if err != nil {
		return nil, fmt.Errorf("fetch latest prices: %w", err)
	}

	var raw latestResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse latest prices: %w", err)
	}
	return raw.toDomain(), nil
}

// FetchHistory fetches a source's minute-bucket history covering the last
// hours hours.
func (c *Client) FetchHistory(ctx context.Context, source string, hours int) (*domain.SourceHistory, error) {
	_, span := c.tracer.Start(ctx, "collector.fetch-history")
	defer span.End()

	u := fmt.Sprintf("%s/api/v1/prices/%s/history?interval=minute&hours=%d",
		c.baseURL, url.PathEscape(source), hours)
	body, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", source, err)
	}

	var raw historyResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse history for %s: %w", source, err)
	}
	return raw.toDomain()
}

// FetchHourCandles fetches a source's hour-bucket OHLC series covering the
// last hours hours.
func (c *Client) FetchHourCandles(ctx context.Context, source string, hours int) (*domain.SourceCandles, error) {
	_, span := c.tracer.Start(ctx, "collector.fetch-candles")
	defer span.End()

	u := fmt.Sprintf("%s/api/v1/prices/%s/candles?interval=hour&hours=%d",
		c.baseURL, url.PathEscape(source), hours)
	body, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch candles for %s: %w", source, err)
	}

	var raw candlesResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse candles for %s: %w", source, err)
	}
	return raw.toDomain()
}

// FetchStats fetches the collector's market analytics summary.
func (c *Client) FetchStats(ctx context.Context) (*domain.MarketStats, error) {
	_, span := c.tracer.Start(ctx, "collector.fetch-stats")
	defer span.End()

	body, err := c.doRequest(ctx, c.baseURL+"/api/v1/analytics/stats")
	if err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}

	var stats domain.MarketStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("parse stats: %w", err)
	}
	return &stats, nil
}

// FetchHealth fetches the collector's health report.
func (c *Client) FetchHealth(ctx context.Context) (*domain.CollectorHealth, error) {
	_, span := c.tracer.Start(ctx, "collector.fetch-health")
	defer span.End()

	body, err := c.doRequest(ctx, c.baseURL+"/health")
	if err != nil {
		return nil, fmt.Errorf("fetch collector health: %w", err)
	}

	var health domain.CollectorHealth
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("parse collector health: %w", err)
	}
	return &health, nil
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("collector API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
