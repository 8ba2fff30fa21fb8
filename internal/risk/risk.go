// Package risk defines the severity scale and threat categories shared by the
// command classifier and the pattern library.
package risk

import (
	"fmt"
	"strings"
)

// Level is a totally ordered severity. The zero value is Safe.
type Level int

const (
	// Safe means no pattern matched.
	Safe Level = iota
	// Low covers benign but noteworthy activity such as outbound fetches.
	Low
	// Medium covers privilege use, traversal and process control.
	Medium
	// High covers non-root recursive deletes, raw device writes and injection.
	High
	// Dangerous covers commands that destroy the system or a home directory.
	Dangerous
)

var levelNames = [...]string{"safe", "low", "medium", "high", "dangerous"}

func (l Level) String() string {
	if l < Safe || l > Dangerous {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel parses a level name case-insensitively.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return Safe, fmt.Errorf("unknown risk level %q", s)
}

// MarshalText lets levels appear by name in JSON and YAML.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Max returns the more severe of a and b. Escalation never goes down.
func Max(a, b Level) Level {
	if b > a {
		return b
	}
	return a
}

// Category groups risk patterns by the kind of harm they describe.
type Category string

const (
	Destructive         Category = "destructive"
	PrivilegeEscalation Category = "privilege-escalation"
	Injection           Category = "injection"
	PathTraversal       Category = "path-traversal"
	NetworkExfiltration Category = "network-exfiltration"
	FilesystemFormat    Category = "filesystem-format"
)

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{
		Destructive, PrivilegeEscalation, Injection,
		PathTraversal, NetworkExfiltration, FilesystemFormat,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}
