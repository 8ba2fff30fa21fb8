// Package patterns holds the declarative detection tables: risk patterns
// for commands and secret patterns for text. Built-in tables are compiled
// once at startup; YAML pattern packs can add to them.
package patterns

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyLibrary is returned when a library has no risk or no secret patterns.
	ErrEmptyLibrary = errors.New("pattern library is empty")
	// ErrInvalidPattern wraps every pattern validation failure.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// Library is the full set of patterns a classifier and scanner share.
type Library struct {
	Risk    []RiskPattern
	Secrets []SecretPattern
}

// Default returns the built-in library.
func Default() *Library {
	return &Library{
		Risk:    BuiltinRisk(),
		Secrets: BuiltinSecrets(),
	}
}

// Validate checks the non-empty invariant.
func (l *Library) Validate() error {
	if l == nil || len(l.Risk) == 0 {
		return fmt.Errorf("%w: no risk patterns", ErrEmptyLibrary)
	}
	if len(l.Secrets) == 0 {
		return fmt.Errorf("%w: no secret patterns", ErrEmptyLibrary)
	}
	return nil
}

// Pack is a YAML file of extra patterns.
type Pack struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	PackVersion string        `yaml:"version"`
	Author      string        `yaml:"author"`
	Risk        []RiskPattern `yaml:"risk"`
	Secrets     []packSecret  `yaml:"secrets"`

	secrets []SecretPattern
}

// packSecret lets pack authors omit fixed_format; pack patterns are fixed
// format unless they say otherwise.
type packSecret struct {
	ID          string     `yaml:"id"`
	Type        SecretType `yaml:"type"`
	Regex       string     `yaml:"regex"`
	FixedFormat *bool      `yaml:"fixed_format"`
	Keep        string     `yaml:"keep"`
	Description string     `yaml:"description"`
}

func (s packSecret) pattern() SecretPattern {
	return SecretPattern{
		ID:          s.ID,
		Type:        s.Type,
		Regex:       s.Regex,
		FixedFormat: s.FixedFormat == nil || *s.FixedFormat,
		Keep:        s.Keep,
		Description: s.Description,
	}
}

// PackInfo is a summary of a pack for listing.
type PackInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
	Author      string `json:"author,omitempty"`
	Enabled     bool   `json:"enabled"`
	Path        string `json:"path"`
	RiskCount   int    `json:"risk_count"`
	SecretCount int    `json:"secret_count"`
	Error       string `json:"error,omitempty"`
}

// LoadPacks reads all .yaml files from packsDir and appends their patterns
// after the base patterns. Files whose name starts with "_" are listed but
// not applied. A pack that fails to parse or compile is skipped; its error
// is joined into the returned error and the other packs still load.
// A missing directory is not an error.
func LoadPacks(packsDir string, base *Library) (*Library, []PackInfo, error) {
	if base == nil {
		base = Default()
	}
	result := &Library{
		Risk:    append([]RiskPattern(nil), base.Risk...),
		Secrets: append([]SecretPattern(nil), base.Secrets...),
	}

	entries, err := os.ReadDir(packsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil, nil
		}
		return nil, nil, fmt.Errorf("read packs dir: %w", err)
	}

	var infos []PackInfo
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}

		path := filepath.Join(packsDir, entry.Name())
		baseName := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		enabled := !strings.HasPrefix(baseName, "_")

		info := PackInfo{Name: baseName, Enabled: enabled, Path: path}
		pack, err := loadPack(path)
		if err == nil {
			info.Description = pack.Description
			info.Version = pack.PackVersion
			info.Author = pack.Author
			info.RiskCount = len(pack.Risk)
			info.SecretCount = len(pack.Secrets)
			if pack.Name != "" {
				info.Name = pack.Name
			}
			if enabled {
				err = mergePackInto(result, pack)
			}
		}
		if err != nil {
			info.Error = err.Error()
			errs = append(errs, err)
		}
		infos = append(infos, info)
	}

	return result, infos, errors.Join(errs...)
}

func loadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse pack %s: %w", path, err)
	}

	for i := range pack.Risk {
		if err := pack.Risk[i].Compile(); err != nil {
			return nil, fmt.Errorf("pack %s: %w", path, err)
		}
	}
	for _, ps := range pack.Secrets {
		p := ps.pattern()
		if err := p.Compile(); err != nil {
			return nil, fmt.Errorf("pack %s: %w", path, err)
		}
		pack.secrets = append(pack.secrets, p)
	}
	return &pack, nil
}

// mergePackInto appends a pack's patterns. Pack patterns may not reuse an
// existing ID, so a pack can add detections but never shadow one.
func mergePackInto(target *Library, pack *Pack) error {
	ids := make(map[string]bool, len(target.Risk)+len(target.Secrets))
	for _, p := range target.Risk {
		ids["risk/"+p.ID] = true
	}
	for _, p := range target.Secrets {
		ids["secret/"+p.ID] = true
	}
	for _, p := range pack.Risk {
		if ids["risk/"+p.ID] {
			return fmt.Errorf("%w: duplicate risk pattern id %q", ErrInvalidPattern, p.ID)
		}
	}
	for _, p := range pack.secrets {
		if ids["secret/"+p.ID] {
			return fmt.Errorf("%w: duplicate secret pattern id %q", ErrInvalidPattern, p.ID)
		}
	}

	target.Risk = append(target.Risk, pack.Risk...)
	target.Secrets = append(target.Secrets, pack.secrets...)
	return nil
}

func isYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
