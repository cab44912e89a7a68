package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side identifies which half of a two-sided market a quote belongs to.
// Single-quote sources publish under SideDefault.
type Side string

const (
	SideBuy     Side = "buy"
	SideSell    Side = "sell"
	SideDefault Side = "default"
)

func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell || s == SideDefault
}

// PriceDirection is the movement of a quote relative to its previous value,
// as computed by the collector. It is carried through unchanged.
type PriceDirection string

const (
	DirectionUp   PriceDirection = "up"
	DirectionDown PriceDirection = "down"
	DirectionNone PriceDirection = "none"
)

// QuoteRecord is one side of one source's latest quote as served by the
// collector API. Prices stay decimal end to end; they are converted to a
// binary float only where chart geometry needs coordinates.
type QuoteRecord struct {
	Source         string            `json:"source"`
	Side           Side              `json:"side,omitempty"`
	Currency       string            `json:"currency"`
	Price          decimal.Decimal   `json:"price"`
	CreatedAt      time.Time         `json:"created_at"`
	PriceDirection PriceDirection    `json:"price_direction"`
	RankChange     int               `json:"rank_change"`
	Sparkline7d    []decimal.Decimal `json:"sparkline_7d,omitempty"`
	Change1h       *float64          `json:"change_1h"`
	Change24h      *float64          `json:"change_24h"`
	Change7d       *float64          `json:"change_7d"`
}

// SourceQuoteSet holds the latest records of a single source keyed by side.
// A nil record means the collector has no current quote for that side.
type SourceQuoteSet map[Side]*QuoteRecord

// SourceSummary is one display row of the price board. Summaries are derived
// from quote sets on every refresh and never stored.
type SourceSummary struct {
	Source       string            `json:"source"`
	DisplayName  string            `json:"display_name"`
	Currency     string            `json:"currency"`
	UnifiedPrice decimal.Decimal   `json:"unified_price"`
	BuyPrice     *decimal.Decimal  `json:"buy_price,omitempty"`
	SellPrice    *decimal.Decimal  `json:"sell_price,omitempty"`
	HasSides     bool              `json:"has_sides"`
	Direction    PriceDirection    `json:"direction"`
	RankChange   int               `json:"rank_change"`
	Sparkline7d  []decimal.Decimal `json:"sparkline_7d,omitempty"`
	Change1h     *float64          `json:"change_1h"`
	Change24h    *float64          `json:"change_24h"`
	Change7d     *float64          `json:"change_7d"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Rank         int               `json:"rank"`
}

// Board is the fully ranked price board.
type Board struct {
	Summaries   []SourceSummary `json:"summaries"`
	RefreshedAt time.Time       `json:"refreshed_at"`
}

// SourceChange names a source together with its 24h percent change.
type SourceChange struct {
	Source    string  `json:"source"`
	Change24h float64 `json:"change_24h"`
}

// MarketStats mirrors the collector's analytics summary.
type MarketStats struct {
	MostExpensive    *QuoteRecord    `json:"most_expensive"`
	Cheapest         *QuoteRecord    `json:"cheapest"`
	MarketAverage    decimal.Decimal `json:"market_average"`
	AverageChange24h *float64        `json:"average_change_24h"`
	MostChanged      *SourceChange   `json:"most_changed"`
	LeastChanged     *SourceChange   `json:"least_changed"`
}

// CollectorHealth mirrors the collector's health endpoint.
type CollectorHealth struct {
	Status         string     `json:"status"`
	UptimeSeconds  float64    `json:"uptime_seconds"`
	LastCollection *time.Time `json:"last_collection"`
}
