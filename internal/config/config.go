package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Embeddings provider
	EmbedBaseURL    string
	EmbedAPIKey     string
	EmbedModel      string
	EmbedDimensions int

	// Keyword tables; empty means the embedded defaults.
	KeywordConfigPath string

	// Outline tuning
	LevelStrategy string // "scoring" or "cluster"

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentDocs  int
	MaxConcurrentPages int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("DOCLENS_API_KEY"),

		EmbedBaseURL:    envOr("EMBED_BASE_URL", "http://localhost:11434"),
		EmbedAPIKey:     os.Getenv("EMBED_API_KEY"),
		EmbedModel:      envOr("EMBED_MODEL", "nomic-embed-text"),
		EmbedDimensions: envInt("EMBED_DIMENSIONS", 768),

		KeywordConfigPath: os.Getenv("KEYWORD_CONFIG_PATH"),

		LevelStrategy: envOr("LEVEL_STRATEGY", "scoring"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentDocs:  envInt("MAX_CONCURRENT_DOCS", 4),
		MaxConcurrentPages: envInt("MAX_CONCURRENT_PAGES", 8),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentDocs <= 0 {
		cfg.MaxConcurrentDocs = 4
	}
	if cfg.MaxConcurrentPages <= 0 {
		cfg.MaxConcurrentPages = 8
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.LevelStrategy != "scoring" && cfg.LevelStrategy != "cluster" {
		cfg.LevelStrategy = "scoring"
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCLENS_API_KEY is required")
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
