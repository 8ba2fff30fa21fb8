package analyzer

import (
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gzhole/termshield/internal/patterns"
)

// protector decides whether a command argument names a protected path.
type protector struct {
	home  string
	globs []string
}

func newProtector(globs []string) *protector {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	p := &protector{home: home}
	for _, g := range globs {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		p.globs = append(p.globs, p.expand(g))
	}
	return p
}

// expand resolves a leading ~, $HOME or ${HOME} against the home directory.
// Without a known home directory the prefix is left as written, so globs and
// arguments still compare consistently.
func (p *protector) expand(s string) string {
	s = strings.ReplaceAll(s, "${HOME}", "$HOME")
	if p.home == "" {
		return s
	}
	for _, prefix := range []string{"~", "$HOME"} {
		if s == prefix {
			return p.home
		}
		if strings.HasPrefix(s, prefix+"/") {
			return p.home + s[len(prefix):]
		}
	}
	return s
}

// Protected reports whether arg falls under any protected glob. Relative
// paths never match because the working directory is unknown.
func (p *protector) Protected(arg string) bool {
	if len(p.globs) == 0 || arg == "" {
		return false
	}
	target := p.expand(patterns.CleanArg(arg))
	if strings.HasPrefix(target, "/") {
		target = path.Clean(target)
	} else if !strings.HasPrefix(target, "~") && !strings.HasPrefix(target, "$HOME") {
		return false
	}

	for _, g := range p.globs {
		if ok, err := doublestar.Match(g, target); err == nil && ok {
			return true
		}
		// "/etc/**" also covers "/etc" itself.
		if base, ok := strings.CutSuffix(g, "/**"); ok && base == target {
			return true
		}
	}
	return false
}
