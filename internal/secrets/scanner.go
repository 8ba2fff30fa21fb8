// Package secrets finds credentials in free text (command output, clipboard
// content, AI prompts and responses) and produces located, redacted
// findings.
package secrets

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gzhole/termshield/internal/entropy"
	"github.com/gzhole/termshield/internal/patterns"
	"github.com/gzhole/termshield/internal/redact"
)

// minCandidateLen is the shortest token the entropy pass will consider.
const minCandidateLen = 8

// Location pins a finding in the scanned text. Offset is a byte index into
// the original input; Line and Column are 1-based, Column in bytes.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// DetectedSecret is one finding. Value is the raw match and is never
// serialized; use RedactedValue for anything displayed or logged.
type DetectedSecret struct {
	Type          patterns.SecretType `json:"type"`
	PatternID     string              `json:"pattern_id"`
	Value         string              `json:"-"`
	RedactedValue string              `json:"redacted_value"`
	Fingerprint   string              `json:"fingerprint"`
	Location      Location            `json:"location"`
	Context       string              `json:"context,omitempty"`
	Entropy       float64             `json:"entropy,omitempty"`
}

func (d DetectedSecret) String() string {
	return fmt.Sprintf("%s %s at line %d", d.Type, d.RedactedValue, d.Location.Line)
}

// LogValue keeps the raw value out of structured logs.
func (d DetectedSecret) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", string(d.Type)),
		slog.String("pattern", d.PatternID),
		slog.String("redacted", d.RedactedValue),
		slog.String("fingerprint", d.Fingerprint),
		slog.Int("line", d.Location.Line),
		slog.Int("offset", d.Location.Offset),
	)
}

// Stats are cumulative counters for one Scanner.
type Stats struct {
	TotalScans        uint64 `json:"total_scans"`
	TotalSecretsFound uint64 `json:"total_secrets_found"`
	PatternsLoaded    int    `json:"patterns_loaded"`
}

// Scanner matches text against secret patterns. It is safe for concurrent
// use; configuration changes affect subsequent calls only.
type Scanner struct {
	mu    sync.Mutex
	cfg   Config
	stats Stats

	patterns []patterns.SecretPattern
}

// New returns a scanner using the secret patterns of lib, or the built-in
// ones when lib has none.
func New(cfg Config, lib *patterns.Library) *Scanner {
	var table []patterns.SecretPattern
	if lib != nil && len(lib.Secrets) > 0 {
		table = lib.Secrets
	} else {
		table = patterns.BuiltinSecrets()
	}

	// Fixed-format patterns claim text before any entropy candidate.
	ordered := make([]patterns.SecretPattern, 0, len(table))
	for _, p := range table {
		if p.FixedFormat {
			ordered = append(ordered, p)
		}
	}
	for _, p := range table {
		if !p.FixedFormat {
			ordered = append(ordered, p)
		}
	}

	return &Scanner{
		cfg:      cfg.Clamp(),
		stats:    Stats{PatternsLoaded: len(ordered)},
		patterns: ordered,
	}
}

// Configure replaces the configuration after clamping it.
func (s *Scanner) Configure(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.Clamp()
}

// SetEnabled turns scanning on or off without touching other settings.
func (s *Scanner) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Enabled = enabled
}

// Config returns the current configuration.
func (s *Scanner) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Stats returns a snapshot of the counters.
func (s *Scanner) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Scan returns findings in offset order, at most MaxSecrets of them.
// A disabled scanner returns nothing but still counts the call.
func (s *Scanner) Scan(text string) []DetectedSecret {
	cfg, ok := s.begin()
	if !ok {
		return nil
	}
	found := s.find(text, cfg, cfg.MaxSecrets)
	s.finish(len(found))
	return found
}

// RedactText returns text with every finding replaced by its redacted
// value. Unlike Scan it is not capped by MaxSecrets, so nothing slips
// through unredacted.
func (s *Scanner) RedactText(text string) (string, []DetectedSecret) {
	cfg, ok := s.begin()
	if !ok {
		return text, nil
	}
	found := s.find(text, cfg, 0)
	s.finish(len(found))

	repl := make([]redact.Replacement, len(found))
	for i, f := range found {
		repl[i] = redact.Replacement{
			Start: f.Location.Offset,
			End:   f.Location.Offset + len(f.Value),
			With:  f.RedactedValue,
		}
	}
	return redact.Apply(text, repl), found
}

func (s *Scanner) begin() (Config, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalScans++
	return s.cfg, s.cfg.Enabled
}

func (s *Scanner) finish(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalSecretsFound += uint64(n)
}

type claim struct {
	span     patterns.Span
	pattern  *patterns.SecretPattern
	entropy  float64
	redacted string
}

// find runs the fixed-format pass, then the entropy pass when enabled.
// Earlier patterns claim text first; a later match overlapping a claim
// is dropped. limit <= 0 means no cap.
func (s *Scanner) find(text string, cfg Config, limit int) []DetectedSecret {
	var claims []claim
	for i := range s.patterns {
		p := &s.patterns[i]
		if !p.FixedFormat && !cfg.ContextAware {
			continue
		}
		for _, sp := range p.FindAll(text) {
			if overlapsAny(claims, sp) {
				continue
			}
			value := text[sp.Start:sp.End]
			c := claim{span: sp, pattern: p}
			if !p.FixedFormat {
				if len(value) < minCandidateLen || strings.ContainsAny(value, " \t\r\n") || pathLike(value) {
					continue
				}
				c.entropy = entropy.Shannon(value)
				if c.entropy < cfg.MinEntropy {
					continue
				}
			}
			c.redacted = redact.Value(value, p.KeepPrefix(value))
			claims = append(claims, c)
		}
	}
	if len(claims) == 0 {
		return nil
	}

	sort.SliceStable(claims, func(i, j int) bool { return claims[i].span.Start < claims[j].span.Start })

	n := len(claims)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]DetectedSecret, 0, n)
	for _, c := range claims[:n] {
		value := text[c.span.Start:c.span.End]
		out = append(out, DetectedSecret{
			Type:          c.pattern.Type,
			PatternID:     c.pattern.ID,
			Value:         value,
			RedactedValue: c.redacted,
			Fingerprint:   redact.Fingerprint(string(c.pattern.Type), value),
			Location:      locate(text, c.span.Start),
			Context:       excerpt(text, c.span, claims, cfg.ContextRadius),
			Entropy:       c.entropy,
		})
	}
	return out
}

// pathLike reports whether an entropy candidate is a filesystem path or
// URL. Their randomness comes from names, not key material.
func pathLike(value string) bool {
	for _, prefix := range []string{"/", "./", "../", "~/", "$HOME/", "${HOME}/"} {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return strings.Contains(value, "://")
}

func overlapsAny(claims []claim, sp patterns.Span) bool {
	for _, c := range claims {
		if c.span.Overlaps(sp) {
			return true
		}
	}
	return false
}

func locate(text string, offset int) Location {
	before := text[:offset]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return Location{
		Line:   1 + strings.Count(before, "\n"),
		Column: offset - lineStart + 1,
		Offset: offset,
	}
}

// excerpt returns up to radius bytes either side of target, limited to the
// lines target spans, with every finding inside the window replaced by its
// redacted form. A finding cut by the window edge shrinks the window so no
// fragment of it leaks.
func excerpt(text string, target patterns.Span, claims []claim, radius int) string {
	if radius <= 0 {
		return ""
	}

	lineStart := strings.LastIndexByte(text[:target.Start], '\n') + 1
	lineEnd := len(text)
	if i := strings.IndexByte(text[target.End:], '\n'); i >= 0 {
		lineEnd = target.End + i
	}
	start := max(lineStart, target.Start-radius)
	end := min(lineEnd, target.End+radius)

	for _, c := range claims {
		if c.span.Start < start && start < c.span.End {
			start = c.span.End
		}
		if c.span.Start < end && end < c.span.End {
			end = c.span.Start
		}
	}
	for start < target.Start && !utf8.RuneStart(text[start]) {
		start++
	}
	for end > target.End && end < len(text) && !utf8.RuneStart(text[end]) {
		end--
	}

	var repl []redact.Replacement
	for _, c := range claims {
		if c.span.Start >= start && c.span.End <= end {
			repl = append(repl, redact.Replacement{
				Start: c.span.Start - start,
				End:   c.span.End - start,
				With:  c.redacted,
			})
		}
	}
	return redact.Apply(text[start:end], repl)
}
