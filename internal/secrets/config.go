package secrets

import "math"

const (
	DefaultMinEntropy    = 3.5
	DefaultMaxSecrets    = 100
	DefaultContextRadius = 40

	// maxEntropy is the ceiling for byte-level Shannon entropy.
	maxEntropy       = 8.0
	maxContextRadius = 1024
)

// Config controls one Scanner. The zero value is a disabled scanner.
type Config struct {
	Enabled      bool    `yaml:"enabled" toml:"enabled" json:"enabled"`
	ContextAware bool    `yaml:"context_aware" toml:"context_aware" json:"context_aware"`
	MinEntropy   float64 `yaml:"min_entropy" toml:"min_entropy" json:"min_entropy"`
	MaxSecrets   int     `yaml:"max_secrets" toml:"max_secrets" json:"max_secrets"`
	// ContextRadius is how many bytes either side of a finding, within its
	// line, go into DetectedSecret.Context. Zero disables context.
	ContextRadius int `yaml:"context_radius" toml:"context_radius" json:"context_radius"`
}

// DefaultConfig returns an enabled, context-aware configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		ContextAware:  true,
		MinEntropy:    DefaultMinEntropy,
		MaxSecrets:    DefaultMaxSecrets,
		ContextRadius: DefaultContextRadius,
	}
}

// Clamp replaces out-of-range values with usable ones instead of
// rejecting them.
func (c Config) Clamp() Config {
	switch {
	case math.IsNaN(c.MinEntropy) || c.MinEntropy < 0:
		c.MinEntropy = DefaultMinEntropy
	case c.MinEntropy > maxEntropy:
		c.MinEntropy = maxEntropy
	}
	if c.MaxSecrets <= 0 {
		c.MaxSecrets = DefaultMaxSecrets
	}
	if c.ContextRadius < 0 {
		c.ContextRadius = 0
	}
	if c.ContextRadius > maxContextRadius {
		c.ContextRadius = maxContextRadius
	}
	return c
}
