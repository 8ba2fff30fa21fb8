// Package redact produces display-safe forms of secret values.
package redact

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// Mask replaces the hidden part of a value.
const Mask = "***"

// DefaultKeep is how many leading bytes survive when a pattern has no
// type-identifying prefix.
const DefaultKeep = 4

// Value keeps the first keep bytes of value and masks the rest. A negative
// keep means DefaultKeep. At least one byte is always hidden, the cut never
// splits a UTF-8 sequence, and the result never equals value.
func Value(value string, keep int) string {
	if keep < 0 {
		keep = DefaultKeep
	}
	if keep > len(value)-1 {
		keep = len(value) - 1
	}
	for keep > 0 && !utf8.RuneStart(value[keep]) {
		keep--
	}
	if keep < 0 {
		keep = 0
	}
	out := value[:keep] + Mask
	if out == value {
		if value == Mask {
			return Mask + Mask
		}
		return Mask
	}
	return out
}

// Fingerprint identifies a secret without revealing it: 16 hex digits of
// xxhash64 over kind, a NUL byte and the value.
func Fingerprint(kind, value string) string {
	d := xxhash.New()
	_, _ = d.WriteString(kind)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(value)
	return fmt.Sprintf("%016x", d.Sum64())
}

// Replacement substitutes With for text[Start:End].
type Replacement struct {
	Start, End int
	With       string
}

// Apply performs non-overlapping replacements on text. Replacements that
// fall outside text or overlap an earlier one are ignored.
func Apply(text string, repl []Replacement) string {
	if len(repl) == 0 {
		return text
	}
	sorted := append([]Replacement(nil), repl...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var sb strings.Builder
	sb.Grow(len(text))
	pos := 0
	for _, r := range sorted {
		if r.Start < pos || r.End > len(text) || r.Start > r.End {
			continue
		}
		sb.WriteString(text[pos:r.Start])
		sb.WriteString(r.With)
		pos = r.End
	}
	sb.WriteString(text[pos:])
	return sb.String()
}
