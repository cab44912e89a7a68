package chart

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"
)

// AxisDomain is the value range a chart maps onto its vertical axis.
// It is computed once per chart, not per candle, so every candle in a
// series shares the same scale.
type AxisDomain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

const domainPadding = 0.05

// ComputeAxisDomain scans the extremes of one or more candle series and
// pads them by 5% on each end. Two-sided charts pass both series so buy
// and sell candles share one scale. ok is false when there is nothing to
// scan.
func ComputeAxisDomain(series ...[]domain.OHLCCandle) (AxisDomain, bool) {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	n := 0
	for _, candles := range series {
		for _, c := range candles {
			o := c.Open.InexactFloat64()
			cl := c.Close.InexactFloat64()
			hi = math.Max(hi, math.Max(c.High.InexactFloat64(), math.Max(o, cl)))
			lo = math.Min(lo, math.Min(c.Low.InexactFloat64(), math.Min(o, cl)))
			n++
		}
	}
	if n == 0 {
		return AxisDomain{}, false
	}
	return padDomain(lo, hi), true
}

// ComputeLineDomain is ComputeAxisDomain for minute-history points.
func ComputeLineDomain(points []domain.HistoryPoint) (AxisDomain, bool) {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	n := 0
	for _, p := range points {
		for _, d := range []*decimal.Decimal{p.Buy, p.Sell, p.Average} {
			if d == nil {
				continue
			}
			v := d.InexactFloat64()
			hi = math.Max(hi, v)
			lo = math.Min(lo, v)
			n++
		}
	}
	if n == 0 {
		return AxisDomain{}, false
	}
	return padDomain(lo, hi), true
}

// padDomain widens [lo, hi] by 5% of the range on each side. A flat series
// has no range, so it falls back to 5% of the value itself to keep the
// domain renderable.
func padDomain(lo, hi float64) AxisDomain {
	pad := (hi - lo) * domainPadding
	if pad == 0 {
		pad = math.Abs(hi) * domainPadding
	}
	if pad == 0 {
		pad = 1
	}
	return AxisDomain{Min: lo - pad, Max: hi + pad}
}
