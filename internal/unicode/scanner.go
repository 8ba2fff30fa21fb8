// Package unicode finds characters that make a command display differently
// from how a shell executes it.
package unicode

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/gzhole/termshield/internal/risk"
)

// Kind names a class of suspicious character.
type Kind string

const (
	KindInvalidUTF8 Kind = "invalid-utf8"
	KindZeroWidth   Kind = "zero-width"
	KindBidi        Kind = "bidi-override"
	KindTag         Kind = "tag-char"
	KindControl     Kind = "control-char"
	KindHomoglyph   Kind = "homoglyph"
)

// Threat is one suspicious character occurrence.
type Threat struct {
	Kind      Kind
	Offset    int    // byte offset in the input
	Codepoint string // e.g. "U+200B"
	Level     risk.Level
}

// Hidden reports whether the character is invisible or rewrites display
// order, as opposed to merely looking like a Latin letter.
func (t Threat) Hidden() bool {
	return t.Kind != KindHomoglyph
}

func (t Threat) String() string {
	return fmt.Sprintf("%s %s at byte %d", t.Kind, t.Codepoint, t.Offset)
}

// Scan walks input rune by rune and returns every threat in offset order.
// Tab, newline and carriage return are ordinary whitespace.
func Scan(input string) []Threat {
	var threats []Threat
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		if r == utf8.RuneError && size == 1 {
			threats = append(threats, Threat{
				Kind:      KindInvalidUTF8,
				Offset:    i,
				Codepoint: fmt.Sprintf("0x%02X", input[i]),
				Level:     risk.High,
			})
			i++
			continue
		}
		if kind, level, ok := classify(r); ok {
			threats = append(threats, Threat{
				Kind:      kind,
				Offset:    i,
				Codepoint: fmt.Sprintf("U+%04X", r),
				Level:     level,
			})
		}
		i += size
	}
	return threats
}

func classify(r rune) (Kind, risk.Level, bool) {
	switch {
	case isZeroWidth(r):
		return KindZeroWidth, risk.High, true
	case isBidi(r):
		return KindBidi, risk.High, true
	case r >= 0xE0001 && r <= 0xE007F:
		return KindTag, risk.High, true
	case isUnsafeControl(r):
		return KindControl, risk.High, true
	case isHomoglyph(r):
		return KindHomoglyph, risk.Medium, true
	}
	return "", risk.Safe, false
}

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\uFEFF', '\u2060', '\u180E', '\u200E', '\u200F':
		return true
	}
	return false
}

func isBidi(r rune) bool {
	switch r {
	case '\u202A', '\u202B', '\u202C', '\u202D', '\u202E',
		'\u2066', '\u2067', '\u2068', '\u2069':
		return true
	}
	return false
}

func isUnsafeControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return r <= 0x1F || r == 0x7F || (r >= 0x80 && r <= 0x9F)
}

func isHomoglyph(r rune) bool {
	if unicode.Is(unicode.Cyrillic, r) {
		_, ok := cyrillicLookalikes[r]
		return ok
	}
	if unicode.Is(unicode.Greek, r) {
		_, ok := greekLookalikes[r]
		return ok
	}
	return false
}

// Cyrillic and Greek letters rendered identically to a Latin letter in most fonts.
var cyrillicLookalikes = map[rune]rune{
	'а': 'a', 'А': 'A', 'В': 'B', 'с': 'c', 'С': 'C', 'е': 'e', 'Е': 'E',
	'Н': 'H', 'і': 'i', 'І': 'I', 'К': 'K', 'М': 'M', 'о': 'o', 'О': 'O',
	'р': 'p', 'Р': 'P', 'Т': 'T', 'х': 'x', 'Х': 'X', 'у': 'y', 'У': 'Y',
}

var greekLookalikes = map[rune]rune{
	'Α': 'A', 'Β': 'B', 'Ε': 'E', 'Η': 'H', 'Ι': 'I', 'Κ': 'K', 'Μ': 'M',
	'Ν': 'N', 'Ο': 'O', 'ο': 'o', 'Ρ': 'P', 'Τ': 'T', 'Χ': 'X', 'Υ': 'Y', 'Ζ': 'Z',
}
