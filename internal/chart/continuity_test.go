package chart

import (
	"testing"

	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"
)

func TestEnforceContinuity_JoinsCandles(t *testing.T) {
	t.Parallel()

	in := []domain.OHLCCandle{
		candle("10", "12", "9", "11"),
		candle("5", "13", "4", "6"),
	}
	out := EnforceContinuity(in)

	if !out[0].Open.Equal(dec("10")) || !out[0].Close.Equal(dec("11")) {
		t.Fatalf("first candle must be untouched: %+v", out[0])
	}
	c1 := out[1]
	if !c1.Open.Equal(dec("11")) {
		t.Fatalf("open = %s, want previous close 11", c1.Open)
	}
	if !c1.High.Equal(dec("13")) || !c1.Low.Equal(dec("4")) {
		t.Fatalf("range must be unaffected when the new open fits: %+v", c1)
	}
	if !c1.Close.Equal(dec("6")) {
		t.Fatalf("close must never change: %s", c1.Close)
	}
}

func TestEnforceContinuity_WidensRange(t *testing.T) {
	t.Parallel()

	out := EnforceContinuity([]domain.OHLCCandle{
		candle("48", "52", "47", "50"),
		candle("40", "45", "35", "44"), // gap down: open 50 above high 45
		candle("60", "62", "58", "61"), // gap up: open 44 below low 58
	})

	if !out[1].Open.Equal(dec("50")) || !out[1].High.Equal(dec("50")) {
		t.Fatalf("high must widen to admit the moved open: %+v", out[1])
	}
	if !out[1].Low.Equal(dec("35")) {
		t.Fatalf("low must be untouched on a gap down: %+v", out[1])
	}
	if !out[2].Open.Equal(dec("44")) || !out[2].Low.Equal(dec("44")) {
		t.Fatalf("low must widen to admit the moved open: %+v", out[2])
	}

	for i, c := range out {
		if c.Low.GreaterThan(c.Open) || c.Open.GreaterThan(c.High) {
			t.Fatalf("candle %d: low <= open <= high broken: %+v", i, c)
		}
	}
}

func TestEnforceContinuity_ChainsAdjustedCloses(t *testing.T) {
	t.Parallel()

	// Closes are never altered, so the chain always follows the original
	// closes even across several gapped candles.
	out := EnforceContinuity([]domain.OHLCCandle{
		candle("10", "12", "9", "11"),
		candle("5", "13", "4", "6"),
		candle("20", "21", "19", "20"),
	})
	if !out[2].Open.Equal(dec("6")) {
		t.Fatalf("candle 2 open = %s, want candle 1 close 6", out[2].Open)
	}
	if !out[2].Low.Equal(dec("6")) {
		t.Fatalf("candle 2 low = %s, want widened to 6", out[2].Low)
	}
	if !out[2].High.Equal(dec("21")) {
		t.Fatalf("candle 2 high = %s, want untouched", out[2].High)
	}
}

func TestEnforceContinuity_Idempotent(t *testing.T) {
	t.Parallel()

	in := []domain.OHLCCandle{
		candle("48", "52", "47", "50"),
		candle("40", "45", "35", "44"),
		candle("60", "62", "58", "61"),
	}
	once := EnforceContinuity(in)
	twice := EnforceContinuity(once)

	for i := range once {
		a, b := once[i], twice[i]
		if !a.Open.Equal(b.Open) || !a.High.Equal(b.High) || !a.Low.Equal(b.Low) || !a.Close.Equal(b.Close) {
			t.Fatalf("candle %d changed on second pass: %+v vs %+v", i, a, b)
		}
	}
}

func TestEnforceContinuity_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []domain.OHLCCandle{
		candle("48", "52", "47", "50"),
		candle("40", "45", "35", "44"),
	}
	_ = EnforceContinuity(in)

	if !in[1].Open.Equal(dec("40")) || !in[1].High.Equal(dec("45")) {
		t.Fatalf("input mutated: %+v", in[1])
	}
}

func TestEnforceContinuity_ShortInputs(t *testing.T) {
	t.Parallel()

	if out := EnforceContinuity(nil); len(out) != 0 {
		t.Fatalf("empty input must stay empty, got %d", len(out))
	}
	single := []domain.OHLCCandle{candle("10", "12", "9", "11")}
	out := EnforceContinuity(single)
	if len(out) != 1 || !out[0].Open.Equal(dec("10")) {
		t.Fatalf("single candle must pass through: %+v", out)
	}
}
