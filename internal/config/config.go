// Package config loads server settings from the environment.
package config

import (
	"os"
	"time"

	"github.com/studyhub-app/backend/internal/logging"
)

// Config holds everything the server binary needs.
type Config struct {
	// Addr is the listen address, for example ":8484".
	Addr string

	// DataDir holds the SQLite database and uploaded files.
	DataDir string

	// UploadDir is where uploaded files are stored. Defaults to a
	// subdirectory of DataDir.
	UploadDir string

	// ExportDir is where exports are written. Defaults to a
	// subdirectory of DataDir.
	ExportDir string

	// SessionSecret signs session tokens. Empty disables sessions and
	// the API runs open, which is the single-user desktop default.
	SessionSecret string

	// SessionValidity bounds token lifetime.
	SessionValidity time.Duration

	// AIEndpoint, AIAPIKey and AIModel configure the LLM integration.
	// An empty endpoint disables it.
	AIEndpoint string
	AIAPIKey   string
	AIModel    string

	// LogLevel is debug, info, warn or error.
	LogLevel logging.LogLevel
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() *Config {
	cfg := &Config{
		Addr:            envOr("STUDYHUB_ADDR", ":8484"),
		DataDir:         envOr("STUDYHUB_DATA_DIR", "./data"),
		SessionSecret:   os.Getenv("STUDYHUB_SESSION_SECRET"),
		SessionValidity: 24 * time.Hour,
		AIEndpoint:      os.Getenv("STUDYHUB_AI_ENDPOINT"),
		AIAPIKey:        os.Getenv("STUDYHUB_AI_KEY"),
		AIModel:         os.Getenv("STUDYHUB_AI_MODEL"),
		LogLevel:        parseLevel(envOr("STUDYHUB_LOG_LEVEL", "info")),
	}

	cfg.UploadDir = envOr("STUDYHUB_UPLOAD_DIR", cfg.DataDir+"/uploads")
	cfg.ExportDir = envOr("STUDYHUB_EXPORT_DIR", cfg.DataDir+"/exports")

	if v := os.Getenv("STUDYHUB_SESSION_VALIDITY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionValidity = d
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) logging.LogLevel {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
