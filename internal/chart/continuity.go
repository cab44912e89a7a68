package chart

import "github.com/Mmd4LIFE/goldmarketcap/internal/domain"

// EnforceContinuity rewrites a candle series so each candle opens exactly
// where the previous one closed, the way exchange-style charts join bars.
// Collector buckets are built from independent snapshots, so gaps between
// one bucket's close and the next bucket's open are sampling artifacts,
// not market moves.
//
// The first candle is untouched and closes are never altered; when a moved
// open escapes a candle's high/low range the range is widened to admit it.
// The input slice is left as is and applying the adapter twice changes
// nothing.
func EnforceContinuity(candles []domain.OHLCCandle) []domain.OHLCCandle {
	if len(candles) == 0 {
		return nil
	}
	out := make([]domain.OHLCCandle, len(candles))
	copy(out, candles)
	for i := 1; i < len(out); i++ {
		prevClose := out[i-1].Close
		out[i].Open = prevClose
		if prevClose.GreaterThan(out[i].High) {
			out[i].High = prevClose
		}
		if prevClose.LessThan(out[i].Low) {
			out[i].Low = prevClose
		}
	}
	return out
}
