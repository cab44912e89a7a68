package upstream

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"
)

// latestResponse defers record decoding so one malformed record can be
// skipped without losing the rest of the payload.
type latestResponse struct {
	LatestPrices map[string]map[string]json.RawMessage `json:"latest_prices"`
}

func (r latestResponse) toDomain() map[string]domain.SourceQuoteSet {
	out := make(map[string]domain.SourceQuoteSet, len(r.LatestPrices))
	for source, sides := range r.LatestPrices {
		set := make(domain.SourceQuoteSet, len(sides))
		for key, raw := range sides {
			side := domain.Side(key)
			if !side.IsValid() {
				log.Printf("collector: skipping unknown side %q for %s", key, source)
				continue
			}
			if string(raw) == "null" {
				set[side] = nil
				continue
			}
			var rec domain.QuoteRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				log.Printf("collector: skipping malformed %s/%s record: %v", source, side, err)
				set[side] = nil
				continue
			}
			set[side] = &rec
		}
		if len(set) == 0 {
			continue
		}
		out[source] = set
	}
	return out
}

type historyResponse struct {
	Source   string                `json:"source"`
	Interval string                `json:"interval"`
	HasSides bool                  `json:"has_sides"`
	Points   []domain.HistoryPoint `json:"points"`
}

// toDomain checks each point against the payload's side flag. The flag is
// the shape tag: a two-sided series carrying average-only points (or the
// reverse) means the collector and this client disagree about the source,
// and the whole payload is rejected rather than charted wrong.
func (r historyResponse) toDomain() (*domain.SourceHistory, error) {
	points := make([]domain.HistoryPoint, 0, len(r.Points))
	for i, p := range r.Points {
		hasSide := p.Buy != nil || p.Sell != nil
		hasAvg := p.Average != nil
		switch {
		case !hasSide && !hasAvg:
			log.Printf("collector: skipping empty history bucket %d for %s", i, r.Source)
			continue
		case r.HasSides && !hasSide:
			return nil, fmt.Errorf("history payload for %s: two-sided flag but point %d carries no side prices", r.Source, i)
		case !r.HasSides && hasSide:
			return nil, fmt.Errorf("history payload for %s: single-sided flag but point %d carries side prices", r.Source, i)
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Bucket.Before(points[j].Bucket) })
	return &domain.SourceHistory{
		Source:   r.Source,
		Interval: r.Interval,
		HasSides: r.HasSides,
		Points:   points,
	}, nil
}

type candleRecord struct {
	BucketStart time.Time       `json:"bucket_start"`
	Open        decimal.Decimal `json:"open"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	Close       decimal.Decimal `json:"close"`
}

type candlesResponse struct {
	Source      string         `json:"source"`
	Interval    string         `json:"interval"`
	HasSides    bool           `json:"has_sides"`
	Candles     []candleRecord `json:"candles"`
	BuyCandles  []candleRecord `json:"buy_candles"`
	SellCandles []candleRecord `json:"sell_candles"`
}

func (r candlesResponse) toDomain() (*domain.SourceCandles, error) {
	if r.HasSides {
		if len(r.Candles) > 0 {
			return nil, fmt.Errorf("candle payload for %s: two-sided flag but a unified series was sent", r.Source)
		}
		if r.BuyCandles == nil && r.SellCandles == nil {
			return nil, fmt.Errorf("candle payload for %s: two-sided flag but no side series", r.Source)
		}
	} else if len(r.BuyCandles) > 0 || len(r.SellCandles) > 0 {
		return nil, fmt.Errorf("candle payload for %s: single-sided flag but side series were sent", r.Source)
	}
	return &domain.SourceCandles{
		Source:      r.Source,
		Interval:    r.Interval,
		HasSides:    r.HasSides,
		Candles:     toCandles(r.Candles),
		BuyCandles:  toCandles(r.BuyCandles),
		SellCandles: toCandles(r.SellCandles),
	}, nil
}

// toCandles converts and re-sorts a series. The collector serves buckets in
// order, but geometry and continuity both assume it, so it is enforced here.
func toCandles(records []candleRecord) []domain.OHLCCandle {
	if len(records) == 0 {
		return nil
	}
	out := make([]domain.OHLCCandle, len(records))
	for i, r := range records {
		out[i] = domain.OHLCCandle{
			BucketStart: r.BucketStart,
			Open:        r.Open,
			High:        r.High,
			Low:         r.Low,
			Close:       r.Close,
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BucketStart.Before(out[j].BucketStart) })
	return out
}
