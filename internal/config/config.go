// Package config
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Address   string
	Mode      string
	Interval  time.Duration
	LogLevel  string
	LogFormat string

	ShellBinary  string
	ShellTimeout time.Duration

	DBPath       string
	HistoryLimit int

	JWTSecret      string
	JWTExpiry      time.Duration
	AdminEmail     string
	AdminPassword  string
	AllowedOrigins []string

	ProbeConfigPath string
}

const (
	ModeServe    = "serve"
	ModeSnapshot = "snapshot"
)

// DefaultHistoryLimit keeps six hours of samples at the default interval.
const DefaultHistoryLimit = 4320

func Load() *Config {
	godotenv.Load()

	return &Config{
		Address:   getEnv("HTTP_ADDR", ":3000"),
		Mode:      ModeServe,
		Interval:  getDuration("SCRAPE_INTERVAL", 5*time.Second),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		ShellBinary:  getEnv("SHELL_BINARY", "su"),
		ShellTimeout: getDuration("SHELL_TIMEOUT", 5*time.Second),

		DBPath:       getEnv("DB_PATH", "telemetry.db"),
		HistoryLimit: getInt("HISTORY_LIMIT", DefaultHistoryLimit),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiry:      getDuration("JWT_EXPIRY", 24*time.Hour),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@localhost"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		AllowedOrigins: getList("ALLOWED_ORIGINS"),

		ProbeConfigPath: os.Getenv("PROBE_CONFIG"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
