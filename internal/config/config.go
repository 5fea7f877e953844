package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth for the service's own API. Empty disables auth.
	APIKey string

	// Gemini generation
	GeminiAPIKey        string
	GeminiModel         string
	GeminiFallbackModel string

	// Upload limits
	MaxUploadBytes int64

	// Prompt
	MaxPromptPairs int

	// Rendering depth caps
	TreeMaxDepth  int
	GraphMaxDepth int

	// Session state
	SessionTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("SITEGEN_API_KEY"),

		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiFallbackModel: envOr("GEMINI_FALLBACK_MODEL", "gemini-1.5-flash"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		MaxPromptPairs: envInt("MAX_PROMPT_PAIRS", 50),

		TreeMaxDepth:  envInt("TREE_MAX_DEPTH", 6),
		GraphMaxDepth: envInt("GRAPH_MAX_DEPTH", 4),

		SessionTTL: envDuration("SESSION_TTL", 1*time.Hour),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.MaxPromptPairs <= 0 {
		cfg.MaxPromptPairs = 50
	}
	if cfg.TreeMaxDepth <= 0 {
		cfg.TreeMaxDepth = 6
	}
	if cfg.GraphMaxDepth <= 0 {
		cfg.GraphMaxDepth = 4
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
