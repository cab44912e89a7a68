package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Mmd4LIFE/goldmarketcap/internal/cache"
	"github.com/Mmd4LIFE/goldmarketcap/internal/config"
	"github.com/Mmd4LIFE/goldmarketcap/internal/db"
	"github.com/Mmd4LIFE/goldmarketcap/internal/repository"
	"github.com/Mmd4LIFE/goldmarketcap/internal/service"
	"github.com/Mmd4LIFE/goldmarketcap/internal/tui"
	"github.com/Mmd4LIFE/goldmarketcap/internal/upstream"
	"github.com/Mmd4LIFE/goldmarketcap/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	gossh "golang.org/x/crypto/ssh"
)

// ctxKey is a typed context key to avoid collisions.
type ctxKey string

const sshUserKey ctxKey = "ssh_user"

var (
	loadEnvFunc        = godotenv.Load
	loadConfigFunc     = config.Load
	initPostgresFunc   = db.InitPostgres
	initRedisFunc      = cache.InitRedis
	initTracerFunc     = tracing.InitTracer
	newSSHUserRepoFunc = repository.NewSSHUserRepository
	newCollectorFunc   = func(baseURL, token string, tracer trace.Tracer) service.CollectorClient {
		return upstream.NewClient(baseURL, token, tracer)
	}
	newBoardServiceFunc = service.NewBoardService
	newWishServerFunc   = wish.NewServer
	setupSignalNotify   = ossignal.Notify
	waitForSignalFunc   = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx, "goldmarketcap-ssh")
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	if db.Pool == nil {
		log.Fatal("DATABASE_URL is required for the SSH dashboard")
	}

	// SSH users live in Postgres; public-key auth checks fingerprints there.
	sshUserRepo := newSSHUserRepoFunc(db.Pool, tracer)
	if err := sshUserRepo.RunMigrations(ctx); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	if cfg.SSHAuthorizedUsers != "" {
		seedAuthorizedUsers(ctx, sshUserRepo, cfg.SSHAuthorizedUsers)
	}

	// Board service backing every session
	collector := newCollectorFunc(cfg.CollectorBaseURL, cfg.CollectorAPIToken, tracer)
	boardService := newBoardServiceFunc(tracer, collector, cache.Client)

	// Build Wish SSH server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			fingerprint := gossh.FingerprintSHA256(key)
			user, err := sshUserRepo.FindByFingerprint(context.Background(), fingerprint)
			if err != nil || user == nil {
				log.Printf("SSH auth denied: fingerprint=%s err=%v", fingerprint, err)
				return false
			}
			ctx.SetValue(sshUserKey, user)
			_ = sshUserRepo.UpdateLastLogin(context.Background(), user.ID)
			log.Printf("SSH auth accepted: user=%s fingerprint=%s", user.Username, fingerprint)
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				user, _ := s.Context().Value(sshUserKey).(*repository.SSHUser)

				username := "unknown"
				if user != nil {
					username = user.Username
				}

				svc := tui.Services{
					Boards:   boardService,
					Username: username,
				}

				model := tui.NewAppModel(svc)
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}

// seedAuthorizedUsers grants access for comma-separated user=fingerprint
// pairs, e.g. SSH_AUTHORIZED_USERS="alice=SHA256:abc...,bob=SHA256:def...".
func seedAuthorizedUsers(ctx context.Context, repo *repository.SSHUserRepository, entries string) {
	for _, entry := range strings.Split(entries, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, fingerprint, ok := strings.Cut(entry, "=")
		if !ok {
			log.Printf("skipping malformed SSH_AUTHORIZED_USERS entry %q", entry)
			continue
		}
		if _, err := repo.Upsert(ctx, strings.TrimSpace(name), strings.TrimSpace(fingerprint)); err != nil {
			log.Printf("failed to seed ssh user %s: %v", name, err)
		}
	}
}
