package patterns

import (
	"fmt"
	"regexp"
)

// SecretType classifies what kind of credential a finding is.
type SecretType string

const (
	APIKey             SecretType = "api_key"
	AWSKey             SecretType = "aws_key"
	PrivateKey         SecretType = "private_key"
	DatabaseURL        SecretType = "database_url"
	GenericHighEntropy SecretType = "generic_high_entropy"
)

// Valid reports whether t is a known secret type.
func (t SecretType) Valid() bool {
	switch t {
	case APIKey, AWSKey, PrivateKey, DatabaseURL, GenericHighEntropy:
		return true
	}
	return false
}

// SecretPattern is one row of the secret table.
//
// FixedFormat patterns match literal credential shapes and always run.
// The others only propose candidates; the scanner keeps a candidate when
// its entropy reaches the configured threshold.
//
// When Regex has capture groups the first non-empty group is the secret
// value, otherwise the whole match is. Keep, if set, is matched at the
// start of the value and that prefix survives redaction ("sk-proj-").
type SecretPattern struct {
	ID          string     `yaml:"id"`
	Type        SecretType `yaml:"type"`
	Regex       string     `yaml:"regex"`
	FixedFormat bool       `yaml:"fixed_format"`
	Keep        string     `yaml:"keep,omitempty"`
	Description string     `yaml:"description,omitempty"`

	re   *regexp.Regexp
	keep *regexp.Regexp
}

// Span is a half-open byte range [Start, End) in scanned text.
type Span struct {
	Start, End int
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Compile validates the pattern and prepares its regular expressions.
func (p *SecretPattern) Compile() error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPattern)
	}
	if !p.Type.Valid() {
		return fmt.Errorf("%w: %s: unknown secret type %q", ErrInvalidPattern, p.ID, p.Type)
	}
	if p.Regex == "" {
		return fmt.Errorf("%w: %s: regex is required", ErrInvalidPattern, p.ID)
	}
	re, err := regexp.Compile(p.Regex)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPattern, p.ID, err)
	}
	p.re = re
	if p.Keep != "" {
		keep, err := regexp.Compile(`^(?:` + p.Keep + `)`)
		if err != nil {
			return fmt.Errorf("%w: %s: keep: %v", ErrInvalidPattern, p.ID, err)
		}
		p.keep = keep
	}
	return nil
}

// FindAll returns the value span of every non-overlapping match in text.
func (p *SecretPattern) FindAll(text string) []Span {
	if p.re == nil {
		return nil
	}
	var spans []Span
	for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
		span := Span{Start: m[0], End: m[1]}
		for g := 2; g+1 < len(m); g += 2 {
			if m[g] >= 0 && m[g+1] > m[g] {
				span = Span{Start: m[g], End: m[g+1]}
				break
			}
		}
		if span.End > span.Start {
			spans = append(spans, span)
		}
	}
	return spans
}

// KeepPrefix returns how many leading bytes of value identify its type,
// or -1 when the pattern has no keep rule.
func (p *SecretPattern) KeepPrefix(value string) int {
	if p.keep == nil {
		return -1
	}
	if loc := p.keep.FindStringIndex(value); loc != nil {
		return loc[1]
	}
	return -1
}
