package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/gzhole/termshield/internal/risk"
)

var (
	safeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lowStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mediumStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	highStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	dangerousStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
)

// colorEnabled reports whether w is a terminal that should get colour.
func colorEnabled(w io.Writer) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// painter renders styles only when colour is enabled for its writer.
type painter struct {
	color bool
}

func newPainter(w io.Writer) painter {
	return painter{color: colorEnabled(w)}
}

func (p painter) render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (p painter) level(l risk.Level, s string) string {
	return p.render(levelStyle(l), s)
}

func levelStyle(l risk.Level) lipgloss.Style {
	switch l {
	case risk.Dangerous:
		return dangerousStyle
	case risk.High:
		return highStyle
	case risk.Medium:
		return mediumStyle
	case risk.Low:
		return lowStyle
	default:
		return safeStyle
	}
}

func levelIcon(l risk.Level) string {
	switch l {
	case risk.Dangerous:
		return "\xf0\x9f\x9b\x91" // stop sign
	case risk.High:
		return "\xe2\x9a\xa0\xef\xb8\x8f" // warning
	case risk.Medium, risk.Low:
		return "\xf0\x9f\x94\x8d" // magnifying glass
	default:
		return "\xe2\x9c\x85" // check mark
	}
}
