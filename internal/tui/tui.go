package tui

import (
	"context"
	"time"

	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BoardQuerier is the slice of the board service the dashboard consumes.
type BoardQuerier interface {
	GetBoard(ctx context.Context) (*domain.Board, error)
	GetLineChart(ctx context.Context, source string, hours int) (*domain.SourceHistory, error)
	GetCandleChart(ctx context.Context, source string, hours int, continuity bool) (*domain.SourceCandles, error)
	GetStats(ctx context.Context) (*domain.MarketStats, error)
}

type Services struct {
	Boards   BoardQuerier
	Username string
}

type view int

const (
	viewBoard view = iota
	viewChart
	viewStats
)

type chartMode int

const (
	modeCandles chartMode = iota
	modeLine
)

const (
	fetchTimeout    = 15 * time.Second
	autoRefreshTime = 60 * time.Second
)

type boardLoadedMsg struct {
	board *domain.Board
	err   error
}

type chartLoadedMsg struct {
	source  string
	candles *domain.SourceCandles
	history *domain.SourceHistory
	err     error
}

type statsLoadedMsg struct {
	stats *domain.MarketStats
	err   error
}

type refreshTickMsg time.Time

// AppModel owns all dashboard state for one session. Nothing here is shared
// between connections; every SSH session gets its own copy.
type AppModel struct {
	svc Services

	width  int
	height int

	activeView view
	table      table.Model
	spinner    spinner.Model
	loading    bool
	err        error

	board *domain.Board
	stats *domain.MarketStats

	chartSource string
	chartMode   chartMode
	continuity  bool
	showSell    bool
	candles     *domain.SourceCandles
	history     *domain.SourceHistory
}

func NewAppModel(svc Services) AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	t := table.New(
		table.WithColumns(boardColumns(defaultWidth)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(st)

	return AppModel{
		svc:        svc,
		activeView: viewBoard,
		table:      t,
		spinner:    sp,
		loading:    true,
		continuity: true,
	}
}

// SetSize is called before the program starts with the SSH pty size.
func (m *AppModel) SetSize(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	m.width = width
	m.height = height
	m.table.SetColumns(boardColumns(width))
	m.table.SetHeight(maxInt(3, height-6))
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchBoard(), refreshTick())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshTickMsg:
		return m, tea.Batch(m.refreshActiveView(), refreshTick())

	case boardLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.board = msg.board
			m.table.SetRows(boardRows(msg.board))
		}
		return m, nil

	case chartLoadedMsg:
		if msg.source != m.chartSource {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.candles = msg.candles
			m.history = msg.history
		}
		return m, nil

	case statsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.stats = msg.stats
		}
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.refreshActiveView())

	case "s":
		if m.activeView != viewStats {
			m.activeView = viewStats
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.fetchStats())
		}
		return m, nil

	case "b", "esc":
		if m.activeView != viewBoard {
			m.activeView = viewBoard
			m.err = nil
			return m, m.fetchBoard()
		}
		return m, nil

	case "enter":
		if m.activeView == viewBoard && m.board != nil {
			if i := m.table.Cursor(); i >= 0 && i < len(m.board.Summaries) {
				m.activeView = viewChart
				m.chartSource = m.board.Summaries[i].Source
				m.candles = nil
				m.history = nil
				m.loading = true
				m.err = nil
				return m, tea.Batch(m.spinner.Tick, m.fetchChart())
			}
		}
		return m, nil

	case "m":
		if m.activeView == viewChart {
			if m.chartMode == modeCandles {
				m.chartMode = modeLine
			} else {
				m.chartMode = modeCandles
			}
		}
		return m, nil

	case "c":
		if m.activeView == viewChart {
			m.continuity = !m.continuity
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchChart())
		}
		return m, nil

	case "x":
		if m.activeView == viewChart {
			m.showSell = !m.showSell
		}
		return m, nil
	}

	if m.activeView == viewBoard {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AppModel) refreshActiveView() tea.Cmd {
	switch m.activeView {
	case viewChart:
		return m.fetchChart()
	case viewStats:
		return m.fetchStats()
	default:
		return m.fetchBoard()
	}
}

func (m AppModel) fetchBoard() tea.Cmd {
	boards := m.svc.Boards
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		board, err := boards.GetBoard(ctx)
		return boardLoadedMsg{board: board, err: err}
	}
}

func (m AppModel) fetchChart() tea.Cmd {
	boards := m.svc.Boards
	source := m.chartSource
	continuity := m.continuity
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		candles, err := boards.GetCandleChart(ctx, source, 0, continuity)
		if err != nil {
			return chartLoadedMsg{source: source, err: err}
		}
		history, err := boards.GetLineChart(ctx, source, 0)
		if err != nil {
			return chartLoadedMsg{source: source, err: err}
		}
		return chartLoadedMsg{source: source, candles: candles, history: history}
	}
}

func (m AppModel) fetchStats() tea.Cmd {
	boards := m.svc.Boards
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		stats, err := boards.GetStats(ctx)
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(autoRefreshTime, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
