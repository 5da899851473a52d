package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars. It is built once
// in main and passed by value into constructors; nothing reads the
// environment after startup.
type Config struct {
	Port            string
	DatabaseURL     string
	AccessSecret    string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ConnectionLimit int32
	CORSOrigins     []string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:          fallback(os.Getenv("PORT"), "9900"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AccessSecret:  strings.TrimSpace(os.Getenv("SECRET_KEY")),
		RefreshSecret: strings.TrimSpace(os.Getenv("REFRESH_SECRET_KEY")),
		CORSOrigins:   parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	cfg.AccessTokenTTL = durationFromEnv("TOKEN_EXPIRATION_MINUTES", 15, time.Minute)
	cfg.RefreshTokenTTL = durationFromEnv("REFRESH_TOKEN_EXPIRATION_HOURS", 168, time.Hour)

	limit := fallback(os.Getenv("CONNECTION_LIMIT"), "10")
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		cfg.ConnectionLimit = int32(n)
	} else {
		cfg.ConnectionLimit = 10
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.AccessSecret == "" {
		return Config{}, errors.New("SECRET_KEY is required")
	}
	if cfg.RefreshSecret == "" {
		return Config{}, errors.New("REFRESH_SECRET_KEY is required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return Config{}, errors.New("SECRET_KEY and REFRESH_SECRET_KEY must differ")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func durationFromEnv(key string, def int, unit time.Duration) time.Duration {
	raw := fallback(os.Getenv(key), strconv.Itoa(def))
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * unit
	}
	return time.Duration(def) * unit
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
