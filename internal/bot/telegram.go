package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"
	"github.com/Mmd4LIFE/goldmarketcap/internal/service"

	tele "gopkg.in/telebot.v3"
)

func StartTelegramBot(boards *service.BoardService) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/gold", func(c tele.Context) error {
		board, err := boards.GetBoard(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching the gold board: %v", err))
		}
		if len(board.Summaries) == 0 {
			return c.Send("No gold prices available right now, try again in a minute")
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Gold board (%d sources)\n", len(board.Summaries))
		for _, s := range board.Summaries {
			sb.WriteString(FormatBoardLine(s))
			sb.WriteByte('\n')
		}
		return c.Send(sb.String())
	})

	b.Handle("/source", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send(fmt.Sprintf("Usage: /source tgju\nSupported: %s", strings.Join(domain.SupportedSources, ", ")))
		}
		source := strings.ToLower(args[0])
		if !domain.IsSupportedSource(source) {
			return c.Send(fmt.Sprintf("Unknown source: %s\nSupported: %s", source, strings.Join(domain.SupportedSources, ", ")))
		}

		board, err := boards.GetBoard(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching %s: %v", source, err))
		}
		for _, s := range board.Summaries {
			if s.Source == source {
				return c.Send(FormatSourceDetail(s))
			}
		}
		return c.Send(fmt.Sprintf("No recent prices from %s", domain.DisplayName(source)))
	})

	b.Handle("/stats", func(c tele.Context) error {
		stats, err := boards.GetStats(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching market stats: %v", err))
		}
		return c.Send(FormatStats(stats))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func FormatBoardLine(s domain.SourceSummary) string {
	line := fmt.Sprintf("%2d. %-12s %s %s", s.Rank, s.DisplayName, s.UnifiedPrice.StringFixed(0), directionArrow(s.Direction))
	if s.Change24h != nil {
		line += fmt.Sprintf(" %+.2f%%", *s.Change24h)
	}
	return line
}

func FormatSourceDetail(s domain.SourceSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (#%d)\n", s.DisplayName, s.Rank)
	fmt.Fprintf(&sb, "Price: %s %s\n", s.UnifiedPrice.StringFixed(0), directionArrow(s.Direction))
	if s.HasSides {
		if s.BuyPrice != nil {
			fmt.Fprintf(&sb, "Buy: %s\n", s.BuyPrice.StringFixed(0))
		}
		if s.SellPrice != nil {
			fmt.Fprintf(&sb, "Sell: %s\n", s.SellPrice.StringFixed(0))
		}
	}
	if s.Change1h != nil {
		fmt.Fprintf(&sb, "1h: %+.2f%%\n", *s.Change1h)
	}
	if s.Change24h != nil {
		fmt.Fprintf(&sb, "24h: %+.2f%%\n", *s.Change24h)
	}
	if s.Change7d != nil {
		fmt.Fprintf(&sb, "7d: %+.2f%%\n", *s.Change7d)
	}
	fmt.Fprintf(&sb, "Updated: %s", s.UpdatedAt.Format("15:04:05 MST"))
	return sb.String()
}

func FormatStats(stats *domain.MarketStats) string {
	var sb strings.Builder
	sb.WriteString("Gold market stats\n")
	if stats.MostExpensive != nil {
		fmt.Fprintf(&sb, "Most expensive: %s at %s\n", domain.DisplayName(stats.MostExpensive.Source), stats.MostExpensive.Price.StringFixed(0))
	}
	if stats.Cheapest != nil {
		fmt.Fprintf(&sb, "Cheapest: %s at %s\n", domain.DisplayName(stats.Cheapest.Source), stats.Cheapest.Price.StringFixed(0))
	}
	fmt.Fprintf(&sb, "Market average: %s\n", stats.MarketAverage.StringFixed(0))
	if stats.AverageChange24h != nil {
		fmt.Fprintf(&sb, "Average 24h change: %+.2f%%\n", *stats.AverageChange24h)
	}
	if stats.MostChanged != nil {
		fmt.Fprintf(&sb, "Most moved: %s (%+.2f%%)\n", domain.DisplayName(stats.MostChanged.Source), stats.MostChanged.Change24h)
	}
	if stats.LeastChanged != nil {
		fmt.Fprintf(&sb, "Least moved: %s (%+.2f%%)\n", domain.DisplayName(stats.LeastChanged.Source), stats.LeastChanged.Change24h)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func directionArrow(d domain.PriceDirection) string {
	switch d {
	case domain.DirectionUp:
		return "▲"
	case domain.DirectionDown:
		return "▼"
	default:
		return "·"
	}
}
