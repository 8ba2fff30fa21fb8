// Package analyzer is the command risk classifier. A Validator runs every
// risk pattern of a library against a command and escalates the verdict to
// the most severe match.
package analyzer

import (
	"github.com/gzhole/termshield/internal/patterns"
	"github.com/gzhole/termshield/internal/risk"
)

// Match records one risk pattern that fired.
type Match struct {
	ID       string        `json:"id"`
	Pass     patterns.Pass `json:"pass"`
	Category risk.Category `json:"category"`
	Level    risk.Level    `json:"level"`
	Message  string        `json:"message"`
}

// Result is the verdict for one command. Valid is false only when the
// command is blocked under the current configuration.
type Result struct {
	Valid     bool       `json:"valid"`
	RiskLevel risk.Level `json:"risk_level"`
	Warnings  []string   `json:"warnings"`
	Errors    []string   `json:"errors"`
	Matches   []Match    `json:"matches,omitempty"`
}

// Blocked is the inverse of Valid, for readability at call sites.
func (r Result) Blocked() bool { return !r.Valid }

// Config controls one Validator. The zero value is a disabled validator.
type Config struct {
	Enabled bool `yaml:"enabled" toml:"enabled" json:"enabled"`
	// AllowDangerous reports dangerous commands without blocking them.
	AllowDangerous bool `yaml:"allow_dangerous" toml:"allow_dangerous" json:"allow_dangerous"`
	// ProtectedPaths are doublestar globs. "~" and "$HOME" expand to the
	// user's home directory.
	ProtectedPaths []string `yaml:"protected_paths" toml:"protected_paths" json:"protected_paths"`
}

// DefaultProtectedPaths are the globs guarded when no configuration says
// otherwise.
var DefaultProtectedPaths = []string{
	"~/.ssh/**",
	"~/.aws/**",
	"~/.gnupg/**",
	"~/.kube/**",
	"/etc/**",
	"/boot/**",
}

// DefaultConfig returns an enabled validator that blocks dangerous commands.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		ProtectedPaths: append([]string(nil), DefaultProtectedPaths...),
	}
}

// Stats are cumulative counters for one Validator.
type Stats struct {
	TotalValidations uint64 `json:"total_validations"`
	TotalBlocked     uint64 `json:"total_blocked"`
	PatternsLoaded   int    `json:"patterns_loaded"`
}
