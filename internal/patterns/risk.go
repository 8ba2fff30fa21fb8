package patterns

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gzhole/termshield/internal/normalize"
	"github.com/gzhole/termshield/internal/risk"
	"github.com/gzhole/termshield/internal/unicode"
)

// Pass is the classifier stage a risk pattern belongs to. Passes run in
// declaration order; every pattern in every pass is evaluated.
type Pass int

const (
	PassDestructive Pass = iota + 1
	PassHighRisk
	PassInjection
	PassPrivilege
	PassTraversal
	PassNetwork
)

var passNames = map[Pass]string{
	PassDestructive: "destructive",
	PassHighRisk:    "high-risk",
	PassInjection:   "injection",
	PassPrivilege:   "privilege",
	PassTraversal:   "traversal",
	PassNetwork:     "network",
}

func (p Pass) String() string {
	if name, ok := passNames[p]; ok {
		return name
	}
	return fmt.Sprintf("pass(%d)", int(p))
}

func (p Pass) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pass) UnmarshalText(b []byte) error {
	want := strings.ToLower(strings.TrimSpace(string(b)))
	for pass, name := range passNames {
		if name == want {
			*p = pass
			return nil
		}
	}
	return fmt.Errorf("unknown pass %q", string(b))
}

// RiskPattern is one row of the command risk table. Exactly one of Regex
// and Structural is set. Regex matches the trimmed command text;
// Structural matches the parsed command.
type RiskPattern struct {
	ID         string        `yaml:"id"`
	Pass       Pass          `yaml:"pass"`
	Category   risk.Category `yaml:"category"`
	Level      risk.Level    `yaml:"level"`
	Message    string        `yaml:"message"`
	Regex      string        `yaml:"regex,omitempty"`
	Structural *Structural   `yaml:"structural,omitempty"`

	re *regexp.Regexp
}

// Structural is a set of predicates over a parsed command, all of which
// must hold (AND). Segment predicates must all hold for one segment.
// Empty predicates are skipped.
//
//   - Flag reordering is handled (rm -rf / == rm --recursive --force /)
//   - Wrappers are transparent (sudo rm -rf / matches "rm" rules)
//   - Pipe chains are first-class (pipe_to, pipe_from)
//   - Arguments and redirect targets match doublestar globs ("/etc/**")
type Structural struct {
	// Segment predicates.
	Executable    []string `yaml:"executable,omitempty"` // globs on the base name
	Wrapper       []string `yaml:"wrapper,omitempty"`    // sudo, doas...
	FlagsAll      []string `yaml:"flags_all,omitempty"`
	FlagsAny      []string `yaml:"flags_any,omitempty"`
	FlagsNone     []string `yaml:"flags_none,omitempty"`
	ArgsAny       []string `yaml:"args_any,omitempty"` // globs on cleaned arguments
	ArgsRegex     string   `yaml:"args_regex,omitempty"`
	ArgsProtected bool     `yaml:"args_protected,omitempty"`
	// WordsAny matches whole word sequences in the segment, for options
	// flag splitting cannot represent (find's "-delete", "-exec rm").
	WordsAny []string `yaml:"words_any,omitempty"`

	// Command predicates.
	Operators         []string `yaml:"operators,omitempty"`
	Substitution      []string `yaml:"substitution,omitempty"`
	HasPipe           *bool    `yaml:"has_pipe,omitempty"`
	PipeFrom          []string `yaml:"pipe_from,omitempty"`
	PipeTo            []string `yaml:"pipe_to,omitempty"`
	RedirectRegex     string   `yaml:"redirect_regex,omitempty"` // output redirect targets
	RedirectNone      []string `yaml:"redirect_none,omitempty"`
	RedirectProtected bool     `yaml:"redirect_protected,omitempty"`
	Unicode           string   `yaml:"unicode,omitempty"` // "hidden" or "confusable"

	Negate bool `yaml:"negate,omitempty"`

	argsRe     *regexp.Regexp
	redirectRe *regexp.Regexp
}

// Subject is everything a risk pattern can look at for one command.
type Subject struct {
	Text    string
	Command *normalize.Command
	Threats []unicode.Threat

	// Protected reports whether a path falls under a protected glob.
	// Nil means nothing is protected.
	Protected func(path string) bool
}

// Compile validates the pattern and prepares its regular expressions.
// It must be called before Match.
func (p *RiskPattern) Compile() error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPattern)
	}
	if _, ok := passNames[p.Pass]; !ok {
		return fmt.Errorf("%w: %s: unknown pass %d", ErrInvalidPattern, p.ID, int(p.Pass))
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: %s: unknown category %q", ErrInvalidPattern, p.ID, p.Category)
	}
	if p.Level <= risk.Safe || p.Level > risk.Dangerous {
		return fmt.Errorf("%w: %s: level must be low..dangerous", ErrInvalidPattern, p.ID)
	}
	if (p.Regex == "") == (p.Structural == nil) {
		return fmt.Errorf("%w: %s: exactly one of regex and structural is required", ErrInvalidPattern, p.ID)
	}
	if p.Regex != "" {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidPattern, p.ID, err)
		}
		p.re = re
		return nil
	}
	if err := p.Structural.compile(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPattern, p.ID, err)
	}
	return nil
}

func (s *Structural) compile() error {
	for _, globs := range [][]string{s.Executable, s.Wrapper, s.ArgsAny, s.PipeFrom, s.PipeTo, s.RedirectNone} {
		for _, g := range globs {
			if !doublestar.ValidatePattern(g) {
				return fmt.Errorf("bad glob %q", g)
			}
		}
	}
	var err error
	if s.ArgsRegex != "" {
		if s.argsRe, err = regexp.Compile(s.ArgsRegex); err != nil {
			return err
		}
	}
	if s.RedirectRegex != "" {
		if s.redirectRe, err = regexp.Compile(s.RedirectRegex); err != nil {
			return err
		}
	}
	switch s.Unicode {
	case "", "hidden", "confusable":
	default:
		return fmt.Errorf("unicode must be hidden or confusable, got %q", s.Unicode)
	}
	return nil
}

// Match reports whether the pattern applies to subj.
func (p *RiskPattern) Match(subj Subject) bool {
	if p.re != nil {
		return p.re.MatchString(subj.Text)
	}
	if p.Structural == nil || subj.Command == nil {
		return false
	}
	return p.Structural.match(subj)
}

func (s *Structural) match(subj Subject) bool {
	matched := s.matchCommand(subj)
	if matched && s.hasSegmentPredicates() {
		matched = false
		for _, seg := range subj.Command.Segments {
			if s.matchSegment(seg, subj.Protected) {
				matched = true
				break
			}
		}
	}
	if s.Negate {
		return !matched
	}
	return matched
}

func (s *Structural) hasSegmentPredicates() bool {
	return len(s.Executable) > 0 || len(s.Wrapper) > 0 ||
		len(s.FlagsAll) > 0 || len(s.FlagsAny) > 0 || len(s.FlagsNone) > 0 ||
		len(s.ArgsAny) > 0 || s.argsRe != nil || s.ArgsProtected || len(s.WordsAny) > 0
}

func (s *Structural) matchCommand(subj Subject) bool {
	c := subj.Command

	if len(s.Operators) > 0 && !c.HasOperator(s.Operators...) {
		return false
	}

	if len(s.Substitution) > 0 && !anyEqual(c.Substitutions, s.Substitution) {
		return false
	}

	if s.HasPipe != nil && *s.HasPipe != c.HasOperator("|", "|&") {
		return false
	}

	if len(s.PipeFrom) > 0 || len(s.PipeTo) > 0 {
		found := false
		for _, p := range c.Pipes {
			if (len(s.PipeFrom) == 0 || anySegmentExe(c, p.From, s.PipeFrom)) &&
				(len(s.PipeTo) == 0 || anySegmentExe(c, p.To, s.PipeTo)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if s.redirectRe != nil || len(s.RedirectNone) > 0 || s.RedirectProtected {
		found := false
		for _, r := range c.Redirects {
			if isOutputRedirect(r.Op) && s.matchRedirect(r.Path, subj.Protected) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if s.Unicode != "" {
		want := s.Unicode == "hidden"
		found := false
		for _, t := range subj.Threats {
			if t.Hidden() == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func (s *Structural) matchRedirect(target string, protected func(string) bool) bool {
	if s.redirectRe != nil && !s.redirectRe.MatchString(target) {
		return false
	}
	if len(s.RedirectNone) > 0 && globAny(CleanArg(target), s.RedirectNone) {
		return false
	}
	if s.RedirectProtected && (protected == nil || !protected(target)) {
		return false
	}
	return true
}

// matchSegment checks if a single segment satisfies all segment predicates.
func (s *Structural) matchSegment(seg normalize.Segment, protected func(string) bool) bool {
	if len(s.Executable) > 0 && !globAny(seg.Executable, s.Executable) {
		return false
	}

	if len(s.Wrapper) > 0 {
		found := false
		for _, w := range seg.Wrappers {
			if globAny(w, s.Wrapper) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, f := range s.FlagsAll {
		if !segmentHasFlag(seg, f) {
			return false
		}
	}

	if len(s.FlagsAny) > 0 {
		found := false
		for _, f := range s.FlagsAny {
			if segmentHasFlag(seg, f) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, f := range s.FlagsNone {
		if segmentHasFlag(seg, f) {
			return false
		}
	}

	if len(s.ArgsAny) > 0 {
		found := false
		for _, arg := range seg.Args {
			if globAny(CleanArg(arg), s.ArgsAny) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if s.argsRe != nil {
		found := false
		for _, arg := range seg.Args {
			if s.argsRe.MatchString(arg) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(s.WordsAny) > 0 && !segmentHasWords(seg, s.WordsAny) {
		return false
	}

	if s.ArgsProtected {
		if protected == nil {
			return false
		}
		found := false
		for _, arg := range seg.Args {
			if protected(arg) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// CleanArg canonicalizes a path-like argument for glob matching:
// "${HOME}" becomes "$HOME", trailing slashes go, and absolute or
// home-relative paths are cleaned ("/tmp/.." is "/").
func CleanArg(arg string) string {
	arg = strings.ReplaceAll(arg, "${HOME}", "$HOME")
	switch {
	case strings.HasPrefix(arg, "/") || strings.HasPrefix(arg, "~/"):
		return path.Clean(arg)
	case len(arg) > 1:
		return strings.TrimRight(arg, "/")
	}
	return arg
}

func isOutputRedirect(op string) bool {
	switch op {
	case ">", ">>", ">|", "&>", "&>>":
		return true
	}
	return false
}

func segmentHasFlag(seg normalize.Segment, flag string) bool {
	if _, ok := seg.Flags[flag]; ok {
		return true
	}
	for _, alias := range flagAliases[flag] {
		if _, ok := seg.Flags[alias]; ok {
			return true
		}
	}
	return false
}

// flagAliases lets rules write "r" and match "--recursive", or vice versa.
var flagAliases = map[string][]string{
	"r":         {"recursive", "R"},
	"R":         {"recursive", "r"},
	"recursive": {"r", "R"},
	"f":         {"force"},
	"force":     {"f"},
	"d":         {"data"},
	"data":      {"d"},
	"F":         {"form"},
	"form":      {"F"},
	"T":         {"upload-file"},
}

// segmentHasWords reports whether any of seqs appears as consecutive words
// of the segment. Segment.Raw joins words with single spaces.
func segmentHasWords(seg normalize.Segment, seqs []string) bool {
	raw := " " + seg.Raw + " "
	for _, seq := range seqs {
		if strings.Contains(raw, " "+strings.Join(strings.Fields(seq), " ")+" ") {
			return true
		}
	}
	return false
}

func anySegmentExe(c *normalize.Command, idx []int, globs []string) bool {
	for _, i := range idx {
		if i >= 0 && i < len(c.Segments) && globAny(c.Segments[i].Executable, globs) {
			return true
		}
	}
	return false
}

func globAny(s string, globs []string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, s); err == nil && ok {
			return true
		}
	}
	return false
}

func anyEqual(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
