package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	CollectorBaseURL  string
	CollectorAPIToken string
	TelegramBotToken  string
	DatabaseURL       string
	RedisURL          string
	APIKey            string
	BoardPollSecs     int

	SSHPort            int
	SSHHostKeyPath     string
	SSHAuthorizedUsers string
}

func Load() *Config {
	cfg := &Config{
		CollectorBaseURL:  strings.TrimSpace(os.Getenv("COLLECTOR_BASE_URL")),
		CollectorAPIToken: strings.TrimSpace(os.Getenv("COLLECTOR_API_TOKEN")),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		APIKey:            os.Getenv("API_KEY"),
	}

	if cfg.CollectorBaseURL == "" {
		log.Println("Warning: COLLECTOR_BASE_URL not set, defaulting to http://localhost:8000")
		cfg.CollectorBaseURL = "http://localhost:8000"
	}
	if cfg.CollectorAPIToken == "" {
		log.Println("Warning: COLLECTOR_API_TOKEN not set, collector requests will be unauthenticated")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}

	cfg.BoardPollSecs = 60
	if v := os.Getenv("BOARD_POLL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BoardPollSecs = n
		}
	}

	cfg.SSHPort = 2222
	if v := strings.TrimSpace(os.Getenv("SSH_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 65535 {
			cfg.SSHPort = n
		}
	}

	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/goldmarketcap_ed25519"
	}

	cfg.SSHAuthorizedUsers = strings.TrimSpace(os.Getenv("SSH_AUTHORIZED_USERS"))

	return cfg
}
