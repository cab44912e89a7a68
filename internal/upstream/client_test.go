package upstream

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"

	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(t *testing.T, status int, body string, checks func(*http.Request)) *Client {
	t.Helper()
	c := NewClient("http://collector", "secret-token", trace.NewNoopTracerProvider().Tracer("test"))
	c.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if checks != nil {
				checks(req)
			}
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(bytes.NewReader([]byte(body))),
				Header:     make(http.Header),
			}, nil
		}),
	}
	c.limiter = NewRateLimiter(10, time.Millisecond)
	return c
}

func TestClientFetchLatest(t *testing.T) {
	t.Parallel()

	body := `{
		"latest_prices": {
			"tgju": {"default": {"source": "tgju", "currency": "IRT", "price": "21540000.5", "price_direction": "up", "rank_change": 1}},
			"taline": {
				"buy": {"source": "taline", "side": "buy", "currency": "IRT", "price": 21000000},
				"sell": null
			},
			"daric": {"buy": {"source": "daric", "price": {"oops": true}}},
			"ghost": {"spread": {"price": "1"}}
		}
	}`
	c := newTestClient(t, http.StatusOK, body, func(req *http.Request) {
		if !strings.HasSuffix(req.URL.Path, "/api/v1/prices/latest") {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("missing bearer token, got %q", got)
		}
	})

	latest, err := c.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tgju := latest["tgju"][domain.SideDefault]
	if tgju == nil || !tgju.Price.Equal(decimal.RequireFromString("21540000.5")) {
		t.Fatalf("tgju default record: %+v", tgju)
	}
	if tgju.PriceDirection != domain.DirectionUp || tgju.RankChange != 1 {
		t.Fatalf("annotations lost: %+v", tgju)
	}

	taline := latest["taline"]
	if taline[domain.SideBuy] == nil {
		t.Fatal("taline buy record missing")
	}
	if rec, present := taline[domain.SideSell]; !present || rec != nil {
		t.Fatalf("null side must stay present as nil, got present=%v rec=%v", present, rec)
	}

	// Malformed record becomes a nil side, not a failed fetch.
	if rec := latest["daric"][domain.SideBuy]; rec != nil {
		t.Fatalf("malformed record should be dropped, got %+v", rec)
	}
	if _, ok := latest["ghost"]; ok {
		t.Fatal("source with only unknown sides should be dropped")
	}
}

func TestClientFetchHistory(t *testing.T) {
	t.Parallel()

	body := `{
		"source": "taline", "interval": "minute", "has_sides": true,
		"points": [
			{"bucket": "2025-06-01T12:01:00Z", "buy_price": "2000", "sell_price": "2010"},
			{"bucket": "2025-06-01T12:00:00Z", "buy_price": "1990", "sell_price": "2000"},
			{"bucket": "2025-06-01T12:02:00Z"}
		]
	}`
	c := newTestClient(t, http.StatusOK, body, func(req *http.Request) {
		if !strings.Contains(req.URL.Path, "/api/v1/prices/taline/history") {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
		if got := req.URL.Query().Get("interval"); got != "minute" {
			t.Errorf("interval = %q", got)
		}
	})

	hist, err := c.FetchHistory(context.Background(), "taline", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hist.HasSides || hist.Source != "taline" {
		t.Fatalf("unexpected history: %+v", hist)
	}
	// The empty bucket is skipped and points come back ordered.
	if len(hist.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(hist.Points))
	}
	if !hist.Points[0].Bucket.Before(hist.Points[1].Bucket) {
		t.Fatal("points not sorted by bucket")
	}
	if hist.Points[0].Buy == nil || !hist.Points[0].Buy.Equal(decimal.RequireFromString("1990")) {
		t.Fatalf("unexpected first point: %+v", hist.Points[0])
	}
}

func TestClientFetchHistoryShapeMismatch(t *testing.T) {
	t.Parallel()

	// Two-sided flag with average-only points is a contract violation.
	body := `{
		"source": "taline", "interval": "minute", "has_sides": true,
		"points": [{"bucket": "2025-06-01T12:00:00Z", "average_price": "2000"}]
	}`
	c := newTestClient(t, http.StatusOK, body, nil)
	if _, err := c.FetchHistory(context.Background(), "taline", 2); err == nil {
		t.Fatal("expected shape mismatch error")
	}

	body = `{
		"source": "tgju", "interval": "minute", "has_sides": false,
		"points": [{"bucket": "2025-06-01T12:00:00Z", "buy_price": "2000"}]
	}`
	c = newTestClient(t, http.StatusOK, body, nil)
	if _, err := c.FetchHistory(context.Background(), "tgju", 2); err == nil {
		t.Fatal("expected shape mismatch error")
	}
}

func TestClientFetchHourCandles(t *testing.T) {
	t.Parallel()

	body := `{
		"source": "goldika", "interval": "hour", "has_sides": true,
		"buy_candles": [
			{"bucket_start": "2025-06-01T13:00:00Z", "open": "2010", "high": "2030", "low": "2005", "close": "2020"},
			{"bucket_start": "2025-06-01T12:00:00Z", "open": "2000", "high": "2020", "low": "1995", "close": "2010"}
		],
		"sell_candles": [
			{"bucket_start": "2025-06-01T12:00:00Z", "open": "2100", "high": "2120", "low": "2095", "close": "2110"}
		]
	}`
	c := newTestClient(t, http.StatusOK, body, func(req *http.Request) {
		if !strings.Contains(req.URL.Path, "/api/v1/prices/goldika/candles") {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
	})

	sc, err := c.FetchHourCandles(context.Background(), "goldika", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sc.HasSides || len(sc.BuyCandles) != 2 || len(sc.SellCandles) != 1 || len(sc.Candles) != 0 {
		t.Fatalf("unexpected candle set: %+v", sc)
	}
	if !sc.BuyCandles[0].BucketStart.Before(sc.BuyCandles[1].BucketStart) {
		t.Fatal("buy candles not sorted by bucket start")
	}
	if !sc.BuyCandles[0].Open.Equal(decimal.RequireFromString("2000")) {
		t.Fatalf("string decimal not decoded: %+v", sc.BuyCandles[0])
	}
}

func TestClientFetchHourCandlesShapeMismatch(t *testing.T) {
	t.Parallel()

	body := `{
		"source": "tgju", "interval": "hour", "has_sides": false,
		"buy_candles": [{"bucket_start": "2025-06-01T12:00:00Z", "open": "1", "high": "1", "low": "1", "close": "1"}]
	}`
	c := newTestClient(t, http.StatusOK, body, nil)
	if _, err := c.FetchHourCandles(context.Background(), "tgju", 24); err == nil {
		t.Fatal("expected shape mismatch error")
	}
}

func TestClientFetchStats(t *testing.T) {
	t.Parallel()

	body := `{
		"most_expensive": {"source": "daric", "price": "2200"},
		"cheapest": {"source": "tgju", "price": "2100"},
		"market_average": "2150.5",
		"average_change_24h": 0.8,
		"most_changed": {"source": "daric", "change_24h": 2.1}
	}`
	c := newTestClient(t, http.StatusOK, body, func(req *http.Request) {
		if !strings.HasSuffix(req.URL.Path, "/api/v1/analytics/stats") {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
	})

	stats, err := c.FetchStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.MostExpensive == nil || stats.MostExpensive.Source != "daric" {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if !stats.MarketAverage.Equal(decimal.RequireFromString("2150.5")) {
		t.Fatalf("market average = %s", stats.MarketAverage)
	}
	if stats.LeastChanged != nil {
		t.Fatal("absent field must stay nil")
	}
}

func TestClientFetchHealth(t *testing.T) {
	t.Parallel()

	body := `{"status": "healthy", "uptime_seconds": 12.5, "last_collection": "2025-06-01T12:00:00Z"}`
	c := newTestClient(t, http.StatusOK, body, func(req *http.Request) {
		if !strings.HasSuffix(req.URL.Path, "/health") {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
	})

	health, err := c.FetchHealth(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if health.Status != "healthy" || health.LastCollection == nil {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.StatusForbidden, `{"detail": "invalid token"}`, nil)
	_, err := c.FetchLatest(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "invalid token") {
		t.Fatalf("error should carry status and body: %v", err)
	}
}

func TestClientSkipsAuthHeaderWithoutToken(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.StatusOK, `{"status": "healthy", "uptime_seconds": 1}`, func(req *http.Request) {
		if req.Header.Get("Authorization") != "" {
			t.Error("no token configured, no Authorization header expected")
		}
	})
	c.token = ""

	if _, err := c.FetchHealth(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
