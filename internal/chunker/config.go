// Package chunker converts parsed document sections into an ordered
// sequence of size-bounded chunks. The pipeline is synchronous and purely
// computational: build, overlap, reconcile, validate.
package chunker

import (
	"errors"
	"fmt"

	"chunkd/internal/sentence"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid chunking config")

// Config controls chunking behavior. Sizes are byte lengths of the
// logical chunk stream.
type Config struct {
	TargetSize      int     `json:"target_size"`
	MinSize         int     `json:"min_size"`
	MaxSize         int     `json:"max_size"`
	OverlapRatio    float64 `json:"overlap_ratio"`
	Language        string  `json:"language"`
	PreserveHeaders bool    `json:"preserve_headers"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TargetSize:      1000,
		MinSize:         120,
		MaxSize:         2000,
		OverlapRatio:    0.15,
		Language:        "auto",
		PreserveHeaders: true,
	}
}

// Validate rejects an invalid config before any processing happens.
func (c Config) Validate() error {
	if c.MinSize < 1 {
		return fmt.Errorf("%w: min_size must be >= 1, got %d", ErrInvalidConfig, c.MinSize)
	}
	if c.MaxSize < c.MinSize {
		return fmt.Errorf("%w: max_size %d < min_size %d", ErrInvalidConfig, c.MaxSize, c.MinSize)
	}
	if c.TargetSize < c.MinSize || c.TargetSize > c.MaxSize {
		return fmt.Errorf("%w: target_size %d outside [%d, %d]", ErrInvalidConfig, c.TargetSize, c.MinSize, c.MaxSize)
	}
	if c.OverlapRatio < 0 || c.OverlapRatio >= 1 {
		return fmt.Errorf("%w: overlap_ratio %.2f outside [0, 1)", ErrInvalidConfig, c.OverlapRatio)
	}
	if !sentence.Supported(c.Language) {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidConfig, c.Language)
	}
	return nil
}
