package board

import (
	"log"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"
)

var two = decimal.NewFromInt(2)

// Aggregate builds one ranked summary per source that has at least one
// usable quote. Sources with no usable quote are dropped; individual bad
// records are skipped with a log line, never aborting the whole board.
func Aggregate(latest map[string]domain.SourceQuoteSet) []domain.SourceSummary {
	summaries := make([]domain.SourceSummary, 0, len(latest))
	for source, quotes := range latest {
		s, ok := summarize(source, quotes)
		if !ok {
			continue
		}
		summaries = append(summaries, s)
	}
	return Rank(summaries)
}

// Rank orders summaries by unified price descending and writes 1-based ranks.
// Equal prices fall back to source name ascending, so two refreshes over the
// same prices always produce the same order.
func Rank(summaries []domain.SourceSummary) []domain.SourceSummary {
	ranked := make([]domain.SourceSummary, len(summaries))
	copy(ranked, summaries)
	sort.SliceStable(ranked, func(i, j int) bool {
		c := ranked[i].UnifiedPrice.Cmp(ranked[j].UnifiedPrice)
		if c != 0 {
			return c > 0
		}
		return ranked[i].Source < ranked[j].Source
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// summarize collapses one source's sides into a single row. Priority:
// buy+sell midpoint, then the default quote, then a lone buy, then a lone
// sell. A lone side still counts as sided so the UI keeps its buy/sell
// framing; only default quotes are unsided. ok is false when nothing
// usable remains.
func summarize(source string, quotes domain.SourceQuoteSet) (domain.SourceSummary, bool) {
	buy := usable(source, domain.SideBuy, quotes[domain.SideBuy])
	sell := usable(source, domain.SideSell, quotes[domain.SideSell])
	def := usable(source, domain.SideDefault, quotes[domain.SideDefault])

	switch {
	case buy != nil && sell != nil:
		s := newSummary(source, buy.Price.Add(sell.Price).Div(two), buy)
		s.HasSides = true
		bp, sp := buy.Price, sell.Price
		s.BuyPrice = &bp
		s.SellPrice = &sp
		return s, true
	case def != nil:
		return newSummary(source, def.Price, def), true
	case buy != nil:
		s := newSummary(source, buy.Price, buy)
		s.HasSides = true
		bp := buy.Price
		s.BuyPrice = &bp
		return s, true
	case sell != nil:
		s := newSummary(source, sell.Price, sell)
		s.HasSides = true
		sp := sell.Price
		s.SellPrice = &sp
		return s, true
	default:
		return domain.SourceSummary{}, false
	}
}

// usable filters out absent and malformed records. A gold quote can never be
// zero or negative, so those are collector glitches and get skipped here.
func usable(source string, side domain.Side, r *domain.QuoteRecord) *domain.QuoteRecord {
	if r == nil {
		return nil
	}
	if r.Price.Sign() <= 0 {
		log.Printf("board: skipping %s/%s quote with price %s", source, side, r.Price)
		return nil
	}
	return r
}

// newSummary copies the display annotations from the record that supplied
// the price. The collector computes direction, rank delta and change
// percentages; they pass through untouched.
func newSummary(source string, price decimal.Decimal, from *domain.QuoteRecord) domain.SourceSummary {
	return domain.SourceSummary{
		Source:       source,
		DisplayName:  domain.DisplayName(source),
		Currency:     from.Currency,
		UnifiedPrice: price,
		Direction:    from.PriceDirection,
		RankChange:   from.RankChange,
		Sparkline7d:  from.Sparkline7d,
		Change1h:     from.Change1h,
		Change24h:    from.Change24h,
		Change7d:     from.Change7d,
		UpdatedAt:    from.CreatedAt,
	}
}
