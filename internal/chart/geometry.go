package chart

import (
	"math"

	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"
)

// MinBodyPx is the smallest body a candle may render with. Zero-range
// candles (open == close) still get a visible body.
const MinBodyPx = 2.0

// CandleGeometry is the pixel layout of one candle inside its baseline bar.
// Y grows downward; all values are offsets in the same pixel space as the
// bar that hosts the candle.
type CandleGeometry struct {
	WickTopY    float64 `json:"wick_top_y"`
	WickBottomY float64 `json:"wick_bottom_y"`
	BodyTopY    float64 `json:"body_top_y"`
	BodyBottomY float64 `json:"body_bottom_y"`
	Bullish     bool    `json:"bullish"`
	UpperWick   bool    `json:"upper_wick"`
	LowerWick   bool    `json:"lower_wick"`
	Degenerate  bool    `json:"degenerate,omitempty"`
}

// BodyHeight is the rendered body thickness in pixels.
func (g CandleGeometry) BodyHeight() float64 {
	return g.BodyBottomY - g.BodyTopY
}

// ComputeGeometry lays a candle out inside a bar that runs from the domain
// floor up to the candle's high. barTop is the pixel Y of the bar's top edge
// (where the high sits) and barHeight its pixel height down to domainMin.
// domainMin must be the same floor the bar was sized against, otherwise the
// candle lands at the wrong height.
//
// Candles whose high does not clear the domain floor, or bars with no
// height, cannot be laid out; they come back as a degenerate minimal mark
// rather than an error so one bad bucket never blanks a whole chart.
func ComputeGeometry(c domain.OHLCCandle, barTop, barHeight, domainMin float64) CandleGeometry {
	o := c.Open.InexactFloat64()
	cl := c.Close.InexactFloat64()
	// Collector buckets can carry a high below the open or a low above the
	// close; widen to the true extremes before mapping.
	hi := math.Max(c.High.InexactFloat64(), math.Max(o, cl))
	lo := math.Min(c.Low.InexactFloat64(), math.Min(o, cl))

	bullish := c.Close.Cmp(c.Open) >= 0

	barRange := hi - domainMin
	if barHeight <= 0 || barRange <= 0 {
		return CandleGeometry{
			WickTopY:    barTop,
			WickBottomY: barTop + MinBodyPx,
			BodyTopY:    barTop,
			BodyBottomY: barTop + MinBodyPx,
			Bullish:     bullish,
			Degenerate:  true,
		}
	}

	scale := barHeight / barRange
	y := func(v float64) float64 { return barTop + (hi-v)*scale }

	openY := y(o)
	closeY := y(cl)
	lowY := y(lo)

	bodyTop := math.Min(openY, closeY)
	bodyBottom := math.Max(openY, closeY)
	wickBottom := lowY
	if bodyBottom-bodyTop < MinBodyPx {
		bodyBottom = bodyTop + MinBodyPx
		if bodyBottom > wickBottom {
			wickBottom = bodyBottom
		}
	}

	return CandleGeometry{
		WickTopY:    barTop,
		WickBottomY: wickBottom,
		BodyTopY:    bodyTop,
		BodyBottomY: bodyBottom,
		Bullish:     bullish,
		UpperWick:   bodyTop > barTop,
		LowerWick:   bodyBottom < lowY,
	}
}

// Layout computes the geometry of every candle in a series against a shared
// axis domain and total plot height. Each candle's bar runs from the plot
// baseline (the domain floor) up to that candle's high, so the bar extent
// and the geometry are guaranteed to use the same floor.
func Layout(candles []domain.OHLCCandle, dom AxisDomain, height float64) []CandleGeometry {
	out := make([]CandleGeometry, len(candles))
	for i, c := range candles {
		barTop, barHeight := barExtent(c, dom, height)
		out[i] = ComputeGeometry(c, barTop, barHeight, dom.Min)
	}
	return out
}

// barExtent sizes the baseline bar hosting one candle: top edge at the
// candle's high, bottom edge on the plot baseline.
func barExtent(c domain.OHLCCandle, dom AxisDomain, height float64) (barTop, barHeight float64) {
	span := dom.Max - dom.Min
	if span <= 0 || height <= 0 {
		return 0, 0
	}
	hi := math.Max(c.High.InexactFloat64(), math.Max(c.Open.InexactFloat64(), c.Close.InexactFloat64()))
	if hi > dom.Max {
		hi = dom.Max
	}
	barTop = height * (dom.Max - hi) / span
	return barTop, height - barTop
}
