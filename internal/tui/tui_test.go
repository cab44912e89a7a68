package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Mmd4LIFE/goldmarketcap/internal/chart"
	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

type stubBoards struct {
	board   *domain.Board
	candles *domain.SourceCandles
	history *domain.SourceHistory
	stats   *domain.MarketStats
	err     error

	chartCalls     int
	lastSource     string
	lastContinuity bool
}

func (s *stubBoards) GetBoard(ctx context.Context) (*domain.Board, error) {
	return s.board, s.err
}

func (s *stubBoards) GetLineChart(ctx context.Context, source string, hours int) (*domain.SourceHistory, error) {
	if s.history == nil {
		return &domain.SourceHistory{Source: source, Interval: "minute"}, nil
	}
	return s.history, s.err
}

func (s *stubBoards) GetCandleChart(ctx context.Context, source string, hours int, continuity bool) (*domain.SourceCandles, error) {
	s.chartCalls++
	s.lastSource = source
	s.lastContinuity = continuity
	return s.candles, s.err
}

func (s *stubBoards) GetStats(ctx context.Context) (*domain.MarketStats, error) {
	return s.stats, s.err
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func testBoard(t *testing.T) *domain.Board {
	t.Helper()
	return &domain.Board{
		Summaries: []domain.SourceSummary{
			{Source: "milli", DisplayName: "Milli", UnifiedPrice: dec(t, "21600000"), Rank: 1},
			{Source: "tgju", DisplayName: "TGJU", UnifiedPrice: dec(t, "21400000"), Rank: 2},
		},
		RefreshedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(AppModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNewAppModelDefaults(t *testing.T) {
	m := NewAppModel(Services{Boards: &stubBoards{}})
	if m.activeView != viewBoard {
		t.Error("expected the board view on start")
	}
	if !m.continuity {
		t.Error("continuity should default to on")
	}
	if !m.loading {
		t.Error("model should start in the loading state")
	}
}

func TestBoardLoadedPopulatesView(t *testing.T) {
	m := NewAppModel(Services{Boards: &stubBoards{}})
	m.SetSize(100, 30)

	m, _ = update(t, m, boardLoadedMsg{board: testBoard(t)})
	if m.loading {
		t.Error("loading should clear once the board arrives")
	}

	out := m.View()
	for _, want := range []string{"Milli", "TGJU", "21600000"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestBoardLoadErrorShown(t *testing.T) {
	m := NewAppModel(Services{Boards: &stubBoards{}})
	m.SetSize(100, 30)

	m, _ = update(t, m, boardLoadedMsg{err: errors.New("collector API error 503: down")})
	out := m.View()
	if !strings.Contains(out, "error:") || !strings.Contains(out, "503") {
		t.Errorf("expected the error in view:\n%s", out)
	}
}

func TestEnterOpensChartForSelectedSource(t *testing.T) {
	stub := &stubBoards{}
	m := NewAppModel(Services{Boards: stub})
	m.SetSize(100, 30)
	m, _ = update(t, m, boardLoadedMsg{board: testBoard(t)})

	m, cmd := update(t, m, key("enter"))
	if m.activeView != viewChart {
		t.Fatal("enter should open the chart view")
	}
	if m.chartSource != "milli" {
		t.Fatalf("expected the selected source, got %s", m.chartSource)
	}
	if cmd == nil {
		t.Fatal("expected a fetch command")
	}
}

func TestChartLoadedIgnoresStaleSource(t *testing.T) {
	m := NewAppModel(Services{Boards: &stubBoards{}})
	m.chartSource = "milli"
	m.activeView = viewChart

	m, _ = update(t, m, chartLoadedMsg{
		source:  "tgju",
		candles: &domain.SourceCandles{Source: "tgju", Interval: "hour"},
	})
	if m.candles != nil {
		t.Error("a response for another source should be dropped")
	}
}

func TestContinuityToggleRefetches(t *testing.T) {
	m := NewAppModel(Services{Boards: &stubBoards{}})
	m.activeView = viewChart
	m.chartSource = "tgju"

	m, cmd := update(t, m, key("c"))
	if m.continuity {
		t.Error("c should turn continuity off")
	}
	if cmd == nil {
		t.Fatal("expected a refetch command")
	}
}

func TestSideToggleOnlyInChartView(t *testing.T) {
	m := NewAppModel(Services{Boards: &stubBoards{}})

	m, _ = update(t, m, key("x"))
	if m.showSell {
		t.Error("x should do nothing on the board view")
	}

	m.activeView = viewChart
	m, _ = update(t, m, key("x"))
	if !m.showSell {
		t.Error("x should flip to the sell side in the chart view")
	}
}

func TestEscReturnsToBoard(t *testing.T) {
	m := NewAppModel(Services{Boards: &stubBoards{}})
	m.activeView = viewChart

	m, cmd := update(t, m, key("esc"))
	if m.activeView != viewBoard {
		t.Error("esc should return to the board")
	}
	if cmd == nil {
		t.Error("returning should refetch the board")
	}
}

func TestQuitKey(t *testing.T) {
	m := NewAppModel(Services{Boards: &stubBoards{}})

	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("expected the quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.Quit")
	}
}

func TestWindowResize(t *testing.T) {
	m := NewAppModel(Services{Boards: &stubBoards{}})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Fatalf("expected 120x40, got %dx%d", m.width, m.height)
	}
}

func TestRenderCandleGridPaintsBodyAndWicks(t *testing.T) {
	bucket := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	candles := []domain.OHLCCandle{
		{BucketStart: bucket, Open: dec(t, "40"), High: dec(t, "100"), Low: dec(t, "20"), Close: dec(t, "80")},
		{BucketStart: bucket.Add(time.Hour), Open: dec(t, "80"), High: dec(t, "95"), Low: dec(t, "60"), Close: dec(t, "65")},
	}
	dom, ok := chart.ComputeAxisDomain(candles)
	if !ok {
		t.Fatal("expected a domain")
	}

	out := renderCandleGrid(candles, dom, true, 40, 12)
	if !strings.Contains(out, "█") {
		t.Error("expected body cells in the grid")
	}
	if !strings.Contains(out, "│") {
		t.Error("expected wick cells in the grid")
	}
	if !strings.Contains(out, "high") || !strings.Contains(out, "low") {
		t.Error("expected axis labels around the grid")
	}
}

func TestRenderCandleGridKeepsMostRecent(t *testing.T) {
	bucket := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var candles []domain.OHLCCandle
	for i := 0; i < 50; i++ {
		candles = append(candles, domain.OHLCCandle{
			BucketStart: bucket.Add(time.Duration(i) * time.Hour),
			Open:        dec(t, "50"), High: dec(t, "60"), Low: dec(t, "40"), Close: dec(t, "55"),
		})
	}
	dom, _ := chart.ComputeAxisDomain(candles)

	// 20 columns fit 10 candles at 2 cells each.
	out := renderCandleGrid(candles, dom, true, 20, 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 8 grid rows plus 2 label rows, got %d", len(lines))
	}
}

func TestSparkline(t *testing.T) {
	values := []decimal.Decimal{
		decimal.NewFromInt(1),
		decimal.NewFromInt(5),
		decimal.NewFromInt(10),
	}
	s := sparkline(values, 10)
	runes := []rune(s)
	if len(runes) != 3 {
		t.Fatalf("expected 3 glyphs, got %d", len(runes))
	}
	if runes[0] != '▁' || runes[2] != '█' {
		t.Errorf("expected the lowest and highest blocks at the ends, got %s", s)
	}

	if got := sparkline(nil, 10); got != "" {
		t.Errorf("empty input should render nothing, got %q", got)
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	values := []decimal.Decimal{decimal.NewFromInt(7), decimal.NewFromInt(7)}
	s := sparkline(values, 10)
	for _, r := range s {
		if r != '▁' {
			t.Errorf("flat series should stay on the baseline, got %s", s)
		}
	}
}
