package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mmd4LIFE/goldmarketcap/internal/bot"
	"github.com/Mmd4LIFE/goldmarketcap/internal/cache"
	"github.com/Mmd4LIFE/goldmarketcap/internal/config"
	"github.com/Mmd4LIFE/goldmarketcap/internal/handler"
	"github.com/Mmd4LIFE/goldmarketcap/internal/job"
	"github.com/Mmd4LIFE/goldmarketcap/internal/service"
	"github.com/Mmd4LIFE/goldmarketcap/internal/upstream"
	"github.com/Mmd4LIFE/goldmarketcap/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "github.com/Mmd4LIFE/goldmarketcap/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	newCollectorFunc = func(baseURL, token string, tracer trace.Tracer) service.CollectorClient {
		return upstream.NewClient(baseURL, token, tracer)
	}
	newBoardServiceFunc    = service.NewBoardService
	newRefreshPollerFunc   = job.NewRefreshPoller
	startPollerFunc        = func(p *job.RefreshPoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           GoldMarketCap API
// @version         1.0
// @description     Live gold price board aggregated from Iranian gold sources, with OpenTelemetry tracing.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Redis
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx, "goldmarketcap-api")
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Create the collector client and board service
	collector := newCollectorFunc(cfg.CollectorBaseURL, cfg.CollectorAPIToken, tracer)
	boardService := newBoardServiceFunc(tracer, collector, cache.Client)

	// Start the board poller (background goroutines, stopped by ctx cancel)
	poller := newRefreshPollerFunc(tracer, boardService, cfg.BoardPollSecs)
	startPollerFunc(poller, ctx)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(boardService)

	// Create handlers and routes
	h := newHandlerFunc(tracer, boardService, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("goldmarketcap-api"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
