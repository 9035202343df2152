// Package config loads dashboard settings from .env files and the
// environment.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the dashboard client.
type Config struct {
	AppMode        string
	APIBaseURL     string
	CacheTTL       time.Duration
	CurrencySymbol string
	StateDir       string
	Passphrase     string
}

// Load reads configuration from a .env file and environment variables.
// APP_MODE picks between the DEV_ and PROD_ API base URLs.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("medbill: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: %q (must be 'dev' or 'prod')", appMode)
	}

	baseURL := apiBaseURL(appMode)
	if baseURL == "" {
		return nil, fmt.Errorf("missing API base URL for mode %q", appMode)
	}

	ttlSeconds, err := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "300"))
	if err != nil || ttlSeconds <= 0 {
		return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS: %q", os.Getenv("CACHE_TTL_SECONDS"))
	}

	return &Config{
		AppMode:        appMode,
		APIBaseURL:     baseURL,
		CacheTTL:       time.Duration(ttlSeconds) * time.Second,
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "$"),
		StateDir:       getEnv("STATE_DIR", defaultStateDir()),
		Passphrase:     os.Getenv("MEDBILL_PASSPHRASE"),
	}, nil
}

func apiBaseURL(mode string) string {
	if mode == "prod" {
		return getEnv("PROD_API_BASE_URL", "")
	}
	return getEnv("DEV_API_BASE_URL", "http://localhost:8000")
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".medbill"
	}
	return filepath.Join(home, ".medbill")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
