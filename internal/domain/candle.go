package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OHLCCandle is one aggregation bucket of a source's price history.
type OHLCCandle struct {
	BucketStart time.Time       `json:"bucket_start"`
	Open        decimal.Decimal `json:"open"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	Close       decimal.Decimal `json:"close"`
}

// HistoryPoint is one minute-bucket of a source's recent history. Two-sided
// sources carry Buy and Sell, single-quote sources carry Average only.
type HistoryPoint struct {
	Bucket  time.Time        `json:"bucket"`
	Buy     *decimal.Decimal `json:"buy_price,omitempty"`
	Sell    *decimal.Decimal `json:"sell_price,omitempty"`
	Average *decimal.Decimal `json:"average_price,omitempty"`
}

// SourceHistory is a source's minute-bucket series for the line chart.
type SourceHistory struct {
	Source   string         `json:"source"`
	Interval string         `json:"interval"`
	HasSides bool           `json:"has_sides"`
	Points   []HistoryPoint `json:"points"`
}

// SourceCandles is a source's hour-bucket OHLC series. Two-sided sources
// split into buy and sell series; single-quote sources fill Candles.
type SourceCandles struct {
	Source      string       `json:"source"`
	Interval    string       `json:"interval"`
	HasSides    bool         `json:"has_sides"`
	Candles     []OHLCCandle `json:"candles,omitempty"`
	BuyCandles  []OHLCCandle `json:"buy_candles,omitempty"`
	SellCandles []OHLCCandle `json:"sell_candles,omitempty"`
}

// GoldSource describes one tracked marketplace.
type GoldSource struct {
	Name        string
	DisplayName string
	TwoSided    bool
}

// Sources maps source names to their metadata.
var Sources = map[string]GoldSource{
	"milli":      {Name: "milli", DisplayName: "Milli", TwoSided: false},
	"taline":     {Name: "taline", DisplayName: "Taline", TwoSided: true},
	"digikala":   {Name: "digikala", DisplayName: "Digikala", TwoSided: false},
	"talasea":    {Name: "talasea", DisplayName: "Talasea", TwoSided: false},
	"tgju":       {Name: "tgju", DisplayName: "TGJU", TwoSided: false},
	"wallgold":   {Name: "wallgold", DisplayName: "Wallgold", TwoSided: false},
	"technogold": {Name: "technogold", DisplayName: "Technogold", TwoSided: false},
	"melligold":  {Name: "melligold", DisplayName: "Melligold", TwoSided: true},
	"daric":      {Name: "daric", DisplayName: "Daric", TwoSided: true},
	"goldika":    {Name: "goldika", DisplayName: "Goldika", TwoSided: true},
	"estjt":      {Name: "estjt", DisplayName: "Estjt", TwoSided: false},
}

// SupportedSources lists all tracked source names.
var SupportedSources = []string{
	"milli", "taline", "digikala", "talasea", "tgju",
	"wallgold", "technogold", "melligold", "daric", "goldika", "estjt",
}

// SupportedIntervals defines the history bucket sizes the collector serves.
var SupportedIntervals = []string{"minute", "hour"}

// DisplayName resolves a source's display name, falling back to the raw name
// for sources the registry does not know.
func DisplayName(source string) string {
	if s, ok := Sources[source]; ok {
		return s.DisplayName
	}
	return source
}

// IsSupportedSource reports whether the source is in the registry.
func IsSupportedSource(source string) bool {
	_, ok := Sources[source]
	return ok
}
