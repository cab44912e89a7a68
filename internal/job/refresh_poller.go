package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Mmd4LIFE/goldmarketcap/internal/domain"
)

// RefreshPoller keeps the board cache warm so interactive reads rarely pay
// for a collector round trip.
type RefreshPoller struct {
	tracer       trace.Tracer
	boards       BoardRefresher
	pollInterval time.Duration
}

type BoardRefresher interface {
	RefreshBoard(ctx context.Context) error
	GetLineChart(ctx context.Context, source string, hours int) (*domain.SourceHistory, error)
	GetCandleChart(ctx context.Context, source string, hours int, continuity bool) (*domain.SourceCandles, error)
}

func NewRefreshPoller(tracer trace.Tracer, boards BoardRefresher, pollIntervalSecs int) *RefreshPoller {
	return &RefreshPoller{
		tracer:       tracer,
		boards:       boards,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start launches the polling goroutines. Blocks until ctx is cancelled.
func (p *RefreshPoller) Start(ctx context.Context) {
	log.Println("Board poller starting...")

	// Tier 1: the board itself, every pollInterval (default 60s).
	go p.pollLoop(ctx, "board", p.pollInterval, func(ctx context.Context) error {
		return p.boards.RefreshBoard(ctx)
	})

	// Tier 2: chart caches, 2 sources every 5 minutes, round-robin.
	go p.pollChartWarmup(ctx)

	<-ctx.Done()
	log.Println("Board poller stopped")
}

func (p *RefreshPoller) pollLoop(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	// Run immediately on start
	if err := fn(ctx); err != nil {
		log.Printf("poller %s initial run error: %v", name, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				log.Printf("poller %s error: %v", name, err)
			}
		}
	}
}

func (p *RefreshPoller) pollChartWarmup(ctx context.Context) {
	// Wait a bit so the first board refresh gets the collector to itself.
	select {
	case <-ctx.Done():
		return
	case <-time.After(10 * time.Second):
	}

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	sourceIndex := 0
	sourcesPerTick := 2

	p.warmChartBatch(ctx, &sourceIndex, sourcesPerTick)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.warmChartBatch(ctx, &sourceIndex, sourcesPerTick)
		}
	}
}

// warmChartBatch primes the line and candle caches for the next count
// sources. Defaults (hours=0) match what the dashboard requests, so the
// entries it warms are the entries readers hit.
func (p *RefreshPoller) warmChartBatch(ctx context.Context, sourceIndex *int, count int) {
	sources := domain.SupportedSources
	for i := 0; i < count; i++ {
		source := sources[*sourceIndex%len(sources)]
		*sourceIndex++

		if _, err := p.boards.GetLineChart(ctx, source, 0); err != nil {
			log.Printf("line chart warmup error for %s: %v", source, err)
		}
		if _, err := p.boards.GetCandleChart(ctx, source, 0, false); err != nil {
			log.Printf("candle chart warmup error for %s: %v", source, err)
		}
	}
}
