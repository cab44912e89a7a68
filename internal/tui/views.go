package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/Mmd4LIFE/goldmarketcap/internal/chart"
	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
)

var (
	goldColor   = lipgloss.Color("220")
	borderColor = lipgloss.Color("240")
	upColor     = lipgloss.Color("42")
	downColor   = lipgloss.Color("196")
	dimColor    = lipgloss.Color("245")

	titleStyle   = lipgloss.NewStyle().Foreground(goldColor).Bold(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(goldColor)
	helpStyle    = lipgloss.NewStyle().Foreground(dimColor)
	errorStyle   = lipgloss.NewStyle().Foreground(downColor)
	labelStyle   = lipgloss.NewStyle().Foreground(dimColor)
	bullStyle    = lipgloss.NewStyle().Foreground(upColor)
	bearStyle    = lipgloss.NewStyle().Foreground(downColor)
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

func (m AppModel) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteByte('\n')

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteByte('\n')
	}

	switch m.activeView {
	case viewChart:
		b.WriteString(m.chartView())
	case viewStats:
		b.WriteString(m.statsView())
	default:
		b.WriteString(m.boardView())
	}

	b.WriteByte('\n')
	b.WriteString(m.footerView())
	return b.String()
}

func (m AppModel) headerView() string {
	title := titleStyle.Render("GoldMarketCap")
	who := ""
	if m.svc.Username != "" {
		who = labelStyle.Render("  " + m.svc.Username)
	}
	status := ""
	if m.loading {
		status = "  " + m.spinner.View()
	} else if m.board != nil && m.activeView == viewBoard {
		status = labelStyle.Render("  refreshed " + m.board.RefreshedAt.Format("15:04:05"))
	}
	return title + who + status
}

func (m AppModel) footerView() string {
	switch m.activeView {
	case viewChart:
		keys := "esc back · m candles/line · c continuity · r refresh · q quit"
		if m.candles != nil && m.candles.HasSides {
			keys = "esc back · m candles/line · x buy/sell · c continuity · r refresh · q quit"
		}
		return helpStyle.Render(keys)
	case viewStats:
		return helpStyle.Render("esc back · r refresh · q quit")
	default:
		return helpStyle.Render("↑/↓ move · enter chart · s stats · r refresh · q quit")
	}
}

func (m AppModel) boardView() string {
	if m.board == nil {
		if m.loading {
			return labelStyle.Render("loading the gold board...")
		}
		return labelStyle.Render("no data yet")
	}
	if len(m.board.Summaries) == 0 {
		return labelStyle.Render("no gold prices available right now")
	}
	return m.table.View()
}

func (m AppModel) chartView() string {
	title := titleStyle.Render(domain.DisplayName(m.chartSource))
	if m.candles == nil {
		if m.loading {
			return title + "\n" + labelStyle.Render("loading chart...")
		}
		return title + "\n" + labelStyle.Render("no chart data")
	}

	gridHeight := maxInt(5, m.height-8)
	gridWidth := maxInt(20, m.width-2)

	if m.chartMode == modeLine {
		return title + labelStyle.Render("  minute line") + "\n" + m.renderLine(gridWidth, gridHeight)
	}

	series, sideLabel := m.candleSeries()
	label := ""
	if sideLabel != "" {
		label = labelStyle.Render("  " + sideLabel + " side")
	}
	mode := ""
	if !m.continuity {
		mode = labelStyle.Render("  raw opens")
	}
	dom, ok := m.sharedDomain()
	return title + label + mode + "\n" + renderCandleGrid(series, dom, ok, gridWidth, gridHeight)
}

// candleSeries picks which series to draw; two-sided sources toggle with x.
func (m AppModel) candleSeries() ([]domain.OHLCCandle, string) {
	if !m.candles.HasSides {
		return m.candles.Candles, ""
	}
	if m.showSell {
		return m.candles.SellCandles, "sell"
	}
	return m.candles.BuyCandles, "buy"
}

// sharedDomain keeps buy and sell on one scale so flipping sides never
// rescales the axis.
func (m AppModel) sharedDomain() (chart.AxisDomain, bool) {
	return chart.ComputeAxisDomain(m.candles.Candles, m.candles.BuyCandles, m.candles.SellCandles)
}

func renderCandleGrid(candles []domain.OHLCCandle, dom chart.AxisDomain, ok bool, width, height int) string {
	if !ok || len(candles) == 0 {
		return labelStyle.Render("no candles in range")
	}

	maxCols := maxInt(1, width/2)
	if len(candles) > maxCols {
		candles = candles[len(candles)-maxCols:]
	}

	geos := chart.Layout(candles, dom, float64(height-1))

	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("high %s", formatAxisValue(dom.Max))))
	b.WriteByte('\n')
	for y := 0; y < height; y++ {
		for _, g := range geos {
			b.WriteString(cellAt(g, y))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("low  %s", formatAxisValue(dom.Min))))
	return b.String()
}

// cellAt maps one candle's geometry onto terminal row y. Body cells win over
// wick cells where the rounded spans touch.
func cellAt(g chart.CandleGeometry, y int) string {
	bodyTop := int(math.Round(g.BodyTopY))
	bodyBottom := int(math.Round(g.BodyBottomY))
	wickTop := int(math.Round(g.WickTopY))
	wickBottom := int(math.Round(g.WickBottomY))

	style := bearStyle
	if g.Bullish {
		style = bullStyle
	}

	switch {
	case y >= bodyTop && y <= bodyBottom:
		return style.Render("█")
	case y >= wickTop && y <= wickBottom:
		return style.Render("│")
	default:
		return " "
	}
}

func (m AppModel) renderLine(width, height int) string {
	if m.history == nil || len(m.history.Points) == 0 {
		return labelStyle.Render("no history in range")
	}

	dom, ok := chart.ComputeLineDomain(m.history.Points)
	if !ok {
		return labelStyle.Render("no history in range")
	}

	points := m.history.Points
	if len(points) > width {
		points = points[len(points)-width:]
	}

	grid := make([][]rune, height)
	for y := range grid {
		row := make([]rune, len(points))
		for x := range row {
			row[x] = ' '
		}
		grid[y] = row
	}

	span := dom.Max - dom.Min
	for x, p := range points {
		v, ok := m.linePointValue(p)
		if !ok {
			continue
		}
		y := int(math.Round((dom.Max - v) / span * float64(height-1)))
		if y < 0 {
			y = 0
		}
		if y > height-1 {
			y = height - 1
		}
		grid[y][x] = '•'
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("high %s", formatAxisValue(dom.Max))))
	b.WriteByte('\n')
	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("low  %s", formatAxisValue(dom.Min))))
	return b.String()
}

func (m AppModel) linePointValue(p domain.HistoryPoint) (float64, bool) {
	var d *decimal.Decimal
	if m.history.HasSides {
		d = p.Buy
		if m.showSell {
			d = p.Sell
		}
	} else {
		d = p.Average
	}
	if d == nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

func (m AppModel) statsView() string {
	if m.stats == nil {
		if m.loading {
			return labelStyle.Render("loading market stats...")
		}
		return labelStyle.Render("no stats available")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Market stats"))
	b.WriteByte('\n')

	line := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", label)))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	if m.stats.MostExpensive != nil {
		line("Most expensive", fmt.Sprintf("%s  %s", domain.DisplayName(m.stats.MostExpensive.Source), m.stats.MostExpensive.Price.StringFixed(0)))
	}
	if m.stats.Cheapest != nil {
		line("Cheapest", fmt.Sprintf("%s  %s", domain.DisplayName(m.stats.Cheapest.Source), m.stats.Cheapest.Price.StringFixed(0)))
	}
	line("Market average", m.stats.MarketAverage.StringFixed(0))
	if m.stats.AverageChange24h != nil {
		line("Avg 24h change", renderChange(m.stats.AverageChange24h))
	}
	if m.stats.MostChanged != nil {
		c := m.stats.MostChanged.Change24h
		line("Most moved", fmt.Sprintf("%s  %s", domain.DisplayName(m.stats.MostChanged.Source), renderChange(&c)))
	}
	if m.stats.LeastChanged != nil {
		c := m.stats.LeastChanged.Change24h
		line("Least moved", fmt.Sprintf("%s  %s", domain.DisplayName(m.stats.LeastChanged.Source), renderChange(&c)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func boardColumns(width int) []table.Column {
	sparkWidth := maxInt(8, width-62)
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Source", Width: 12},
		{Title: "Price", Width: 14},
		{Title: "", Width: 2},
		{Title: "Δ", Width: 4},
		{Title: "24h", Width: 8},
		{Title: "7d", Width: sparkWidth},
	}
}

func boardRows(board *domain.Board) []table.Row {
	rows := make([]table.Row, 0, len(board.Summaries))
	for _, s := range board.Summaries {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", s.Rank),
			s.DisplayName,
			s.UnifiedPrice.StringFixed(0),
			directionGlyph(s.Direction),
			rankDelta(s.RankChange),
			renderChange(s.Change24h),
			sparkline(s.Sparkline7d, 16),
		})
	}
	return rows
}

func directionGlyph(d domain.PriceDirection) string {
	switch d {
	case domain.DirectionUp:
		return "▲"
	case domain.DirectionDown:
		return "▼"
	default:
		return "·"
	}
}

func rankDelta(change int) string {
	switch {
	case change > 0:
		return fmt.Sprintf("+%d", change)
	case change < 0:
		return fmt.Sprintf("%d", change)
	default:
		return "·"
	}
}

func renderChange(change *float64) string {
	if change == nil {
		return "—"
	}
	return fmt.Sprintf("%+.2f%%", *change)
}

// sparkline compresses values into width block glyphs, keeping the most
// recent samples when there are more values than columns.
func sparkline(values []decimal.Decimal, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo := values[0].InexactFloat64()
	hi := lo
	floats := make([]float64, len(values))
	for i, v := range values {
		f := v.InexactFloat64()
		floats[i] = f
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}

	span := hi - lo
	var b strings.Builder
	for _, f := range floats {
		idx := 0
		if span > 0 {
			idx = int((f - lo) / span * float64(len(sparkBlocks)-1))
		}
		if idx < 0 {
			idx = 0
		}
		if idx > len(sparkBlocks)-1 {
			idx = len(sparkBlocks) - 1
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

func formatAxisValue(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(0)
}
