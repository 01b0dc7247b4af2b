package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Dataset hub
	HubURL     string
	HubTimeout time.Duration

	// Annotation
	Labeller     string
	PairingTable string // optional YAML override for the pairing table

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from a .env file (if present) and environment
// variables, with environment taking precedence.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "framemark"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "annotations"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		HubURL:     getEnv("FRAMEMARK_HUB_URL", "https://hub.framemark.dev"),
		HubTimeout: parseDuration(getEnv("FRAMEMARK_HUB_TIMEOUT", "30s"), 30*time.Second),

		Labeller:     getEnv("FRAMEMARK_LABELLER", defaultLabeller()),
		PairingTable: getEnv("FRAMEMARK_PAIRING_TABLE", ""),

		LogFile:  getEnv("FRAMEMARK_LOG_FILE", "/tmp/framemark.log"),
		LogLevel: parseLogLevel(getEnv("FRAMEMARK_LOG_LEVEL", "INFO")),
	}
}

// defaultLabeller falls back to the OS user when no labeller name is set.
func defaultLabeller() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "anonymous"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
