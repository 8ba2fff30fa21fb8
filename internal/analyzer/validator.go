package analyzer

import (
	"sort"
	"sync"

	"github.com/gzhole/termshield/internal/normalize"
	"github.com/gzhole/termshield/internal/patterns"
	"github.com/gzhole/termshield/internal/unicode"
)

// Validator classifies commands. It is safe for concurrent use;
// configuration changes affect subsequent calls only.
type Validator struct {
	mu        sync.Mutex
	cfg       Config
	protector *protector
	stats     Stats

	patterns []patterns.RiskPattern
}

// New returns a validator using the risk patterns of lib, or the built-in
// ones when lib has none. Patterns run grouped by pass, in table order
// within a pass.
func New(cfg Config, lib *patterns.Library) *Validator {
	var table []patterns.RiskPattern
	if lib != nil && len(lib.Risk) > 0 {
		table = append(table, lib.Risk...)
	} else {
		table = patterns.BuiltinRisk()
	}
	sort.SliceStable(table, func(i, j int) bool { return table[i].Pass < table[j].Pass })

	return &Validator{
		cfg:       cfg,
		protector: newProtector(cfg.ProtectedPaths),
		stats:     Stats{PatternsLoaded: len(table)},
		patterns:  table,
	}
}

// Configure replaces the configuration.
func (v *Validator) Configure(cfg Config) {
	p := newProtector(cfg.ProtectedPaths)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg = cfg
	v.protector = p
}

// SetEnabled turns validation on or off. A disabled validator passes every
// command as safe.
func (v *Validator) SetEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg.Enabled = enabled
}

// SetAllowDangerous changes enforcement only: dangerous commands are still
// reported at their true level.
func (v *Validator) SetAllowDangerous(allow bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cfg.AllowDangerous = allow
}

// Config returns the current configuration.
func (v *Validator) Config() Config {
	v.mu.Lock()
	defer v.mu.Unlock()
	cfg := v.cfg
	cfg.ProtectedPaths = append([]string(nil), v.cfg.ProtectedPaths...)
	return cfg
}

// Stats returns a snapshot of the counters.
func (v *Validator) Stats() Stats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats
}

// Validate classifies command. It never fails: empty input and a disabled
// validator both yield a valid, safe result.
func (v *Validator) Validate(command string) Result {
	v.mu.Lock()
	v.stats.TotalValidations++
	cfg, prot := v.cfg, v.protector
	v.mu.Unlock()

	text := normalize.Trim(command)
	if !cfg.Enabled || text == "" {
		return combine(nil, cfg.AllowDangerous)
	}

	subj := patterns.Subject{
		Text:      text,
		Command:   normalize.Parse(text),
		Threats:   unicode.Scan(text),
		Protected: prot.Protected,
	}

	var matches []Match
	for i := range v.patterns {
		p := &v.patterns[i]
		if !p.Match(subj) {
			continue
		}
		matches = append(matches, Match{
			ID:       p.ID,
			Pass:     p.Pass,
			Category: p.Category,
			Level:    p.Level,
			Message:  p.Message,
		})
	}

	result := combine(matches, cfg.AllowDangerous)
	if result.Blocked() {
		v.mu.Lock()
		v.stats.TotalBlocked++
		v.mu.Unlock()
	}
	return result
}
