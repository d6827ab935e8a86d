package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"chunkd/internal/chunker"
)

type Config struct {
	Port string

	// Auth
	ChunkdAPIKey string

	// Refinement collaborator
	RefineEnabled   bool
	RefineURL       string
	RefineAPIKey    string
	RefineModel     string
	RefineBatchSize int

	// Downstream index sink (optional)
	SinkURL    string
	SinkAPIKey string

	// Worker pool
	WorkerCount         int
	MaxQueueSize        int
	MaxConcurrentRefine int

	// Upload limits
	MaxUploadBytes int64

	// Chunking defaults (per-request overrides allowed)
	Chunking chunker.Config

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	defaults := chunker.DefaultConfig()

	cfg := Config{
		Port: envOr("PORT", "8091"),

		ChunkdAPIKey: os.Getenv("CHUNKD_API_KEY"),

		RefineEnabled:   envBool("REFINE_ENABLED", false),
		RefineURL:       envOr("REFINE_URL", "https://api.anthropic.com/v1/messages"),
		RefineAPIKey:    os.Getenv("REFINE_API_KEY"),
		RefineModel:     envOr("REFINE_MODEL", "claude-sonnet-4-5-20250929"),
		RefineBatchSize: envInt("REFINE_BATCH_SIZE", 8),

		SinkURL:    os.Getenv("SINK_URL"),
		SinkAPIKey: os.Getenv("SINK_API_KEY"),

		WorkerCount:         envInt("WORKER_COUNT", 4),
		MaxQueueSize:        envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentRefine: envInt("MAX_CONCURRENT_REFINE", 5),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		Chunking: chunker.Config{
			TargetSize:      envInt("TARGET_CHUNK_SIZE", defaults.TargetSize),
			MinSize:         envInt("MIN_CHUNK_SIZE", defaults.MinSize),
			MaxSize:         envInt("MAX_CHUNK_SIZE", defaults.MaxSize),
			OverlapRatio:    envFloat("OVERLAP_RATIO", defaults.OverlapRatio),
			Language:        envOr("CHUNK_LANGUAGE", defaults.Language),
			PreserveHeaders: envBool("PRESERVE_HEADERS", defaults.PreserveHeaders),
		},

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentRefine <= 0 {
		cfg.MaxConcurrentRefine = 5
	}
	if cfg.RefineBatchSize <= 0 {
		cfg.RefineBatchSize = 8
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ChunkdAPIKey == "" {
		return fmt.Errorf("CHUNKD_API_KEY is required")
	}
	if c.RefineEnabled && c.RefineAPIKey == "" {
		return fmt.Errorf("REFINE_API_KEY is required when REFINE_ENABLED is set")
	}
	if err := c.Chunking.Validate(); err != nil {
		return fmt.Errorf("chunking defaults: %w", err)
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

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
