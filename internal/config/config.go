// Package config loads termshield settings from ~/.termshield/config.yaml
// (or a TOML file) on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gzhole/termshield/internal/analyzer"
	"github.com/gzhole/termshield/internal/secrets"
)

const (
	DefaultConfigDir  = ".termshield"
	DefaultConfigFile = "config.yaml"
	DefaultLogFile    = "audit.jsonl"
	DefaultPacksDir   = "packs"
)

type Config struct {
	Scanner   secrets.Config  `yaml:"scanner" toml:"scanner"`
	Validator analyzer.Config `yaml:"validator" toml:"validator"`
	PacksDir  string          `yaml:"packs_dir" toml:"packs_dir"`
	LogPath   string          `yaml:"log_path" toml:"log_path"`

	// ConfigDir and Path are where settings were looked for; never read
	// from the file itself.
	ConfigDir string `yaml:"-" toml:"-"`
	Path      string `yaml:"-" toml:"-"`
}

// Default returns the built-in settings rooted at configDir.
func Default(configDir string) *Config {
	return &Config{
		Scanner:   secrets.DefaultConfig(),
		Validator: analyzer.DefaultConfig(),
		PacksDir:  filepath.Join(configDir, DefaultPacksDir),
		LogPath:   filepath.Join(configDir, DefaultLogFile),
		ConfigDir: configDir,
		Path:      filepath.Join(configDir, DefaultConfigFile),
	}
}

// Load reads path, or ~/.termshield/config.yaml when path is empty. A
// missing file is not an error: the defaults are returned. Out-of-range
// scanner values are clamped, not rejected.
func Load(path string) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("locating home directory: %w", err)
	}
	cfg := Default(filepath.Join(homeDir, DefaultConfigDir))
	if path != "" {
		cfg.Path = expandHome(path, homeDir)
	}

	data, err := os.ReadFile(cfg.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := decode(cfg.Path, data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", cfg.Path, err)
	}

	cfg.PacksDir = expandHome(cfg.PacksDir, homeDir)
	cfg.LogPath = expandHome(cfg.LogPath, homeDir)
	cfg.Scanner = cfg.Scanner.Clamp()

	for _, g := range cfg.Validator.ProtectedPaths {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("config %s: invalid protected path glob %q", cfg.Path, g)
		}
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml", "":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func expandHome(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
