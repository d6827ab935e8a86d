package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero min size", func(c *Config) { c.MinSize = 0 }},
		{"max below min", func(c *Config) { c.MaxSize = c.MinSize - 1 }},
		{"target below min", func(c *Config) { c.TargetSize = c.MinSize - 1 }},
		{"target above max", func(c *Config) { c.TargetSize = c.MaxSize + 1 }},
		{"negative overlap", func(c *Config) { c.OverlapRatio = -0.1 }},
		{"overlap of one", func(c *Config) { c.OverlapRatio = 1.0 }},
		{"unknown language", func(c *Config) { c.Language = "xx" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfigZeroOverlapAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OverlapRatio = 0
	assert.NoError(t, cfg.Validate())
}
