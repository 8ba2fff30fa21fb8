// Package normalize turns a raw command line into the structural view the
// classifier matches against: pipeline segments with quote-stripped words,
// control operators, redirects and command substitutions.
package normalize

import (
	"path"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// maxParseDepth bounds recursion into `bash -c '...'` style inline scripts.
const maxParseDepth = 3

// Command is the parsed form of one command line.
type Command struct {
	// Raw is the trimmed input. It is never handed back to callers of the
	// classifier, only matched against.
	Raw string

	// Segments holds every simple command found, including those nested in
	// subshells, substitutions and inline shell scripts, in source order.
	Segments []Segment

	// Operators lists control operators in source order: "|", "|&", "&&",
	// "||", ";" and "&".
	Operators []string

	// Pipes pairs the segments on either side of each pipe operator.
	Pipes []Pipe

	// Substitutions lists "$()", "`", "<()" and ">()" occurrences.
	Substitutions []string

	// Redirects collects redirects from all statements.
	Redirects []Redirect

	// ParseError is set when the shell grammar rejected the input and the
	// fallback splitter produced this view instead.
	ParseError bool
}

// Segment is one simple command.
type Segment struct {
	Raw        string            // words joined with single spaces, quotes removed
	Wrappers   []string          // sudo, doas, env, nohup... in the order they wrapped the command
	Executable string            // base name of the command actually run
	Args       []string          // positional arguments, quotes removed
	Flags      map[string]string // -rf -> r, f; --force -> force; --opt=v -> opt: v
}

// Pipe links the segments on the left and right of one pipe operator.
type Pipe struct {
	From []int
	To   []int
}

// Redirect is a file redirect such as "> /etc/hosts".
type Redirect struct {
	Op   string
	Path string
}

// HasOperator reports whether any of ops appears in the command.
func (c *Command) HasOperator(ops ...string) bool {
	for _, have := range c.Operators {
		for _, want := range ops {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Trim strips leading and trailing whitespace.
func Trim(command string) string {
	return strings.TrimSpace(command)
}

// Parse trims command and parses it with a bash grammar. Input the grammar
// rejects is split on operators by hand so matching still sees segments.
func Parse(command string) *Command {
	raw := Trim(command)
	c := &Command{Raw: raw}
	if raw == "" {
		return c
	}
	if !parseInto(c, raw, 0) {
		c = fallbackParse(raw)
	}
	return c
}

func newParser() *syntax.Parser {
	return syntax.NewParser(syntax.KeepComments(false), syntax.Variant(syntax.LangBash))
}

func parseInto(c *Command, src string, depth int) bool {
	file, err := newParser().Parse(strings.NewReader(src), "")
	if err != nil {
		return false
	}

	calls := map[*syntax.CallExpr]int{}
	var inline []string

	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.File:
			markSequence(c, n.Stmts)
		case *syntax.Block:
			markSequence(c, n.Stmts)
		case *syntax.Subshell:
			markSequence(c, n.Stmts)
		case *syntax.Stmt:
			if n.Background {
				c.Operators = append(c.Operators, "&")
			} else if n.Semicolon.IsValid() {
				c.Operators = append(c.Operators, ";")
			}
			for _, r := range n.Redirs {
				c.Redirects = append(c.Redirects, toRedirect(r))
			}
		case *syntax.BinaryCmd:
			c.Operators = append(c.Operators, n.Op.String())
		case *syntax.CmdSubst:
			if n.Backquotes {
				c.Substitutions = append(c.Substitutions, "`")
			} else {
				c.Substitutions = append(c.Substitutions, "$()")
			}
			markSequence(c, n.Stmts)
		case *syntax.ProcSubst:
			c.Substitutions = append(c.Substitutions, n.Op.String()+")")
		case *syntax.CallExpr:
			words := make([]string, 0, len(n.Args))
			for _, w := range n.Args {
				words = append(words, wordLiteral(w))
			}
			if len(words) == 0 {
				return true
			}
			seg := buildSegment(words)
			calls[n] = len(c.Segments)
			c.Segments = append(c.Segments, seg)
			if code := inlineScript(seg); code != "" {
				inline = append(inline, code)
			}
		}
		return true
	})

	syntax.Walk(file, func(node syntax.Node) bool {
		bin, ok := node.(*syntax.BinaryCmd)
		if !ok || (bin.Op != syntax.Pipe && bin.Op != syntax.PipeAll) {
			return true
		}
		c.Pipes = append(c.Pipes, Pipe{
			From: callIndexes(bin.X, calls),
			To:   callIndexes(bin.Y, calls),
		})
		return true
	})

	if depth+1 < maxParseDepth {
		for _, code := range inline {
			if !parseInto(c, code, depth+1) {
				merge(c, fallbackParse(code))
			}
		}
	}
	return true
}

// markSequence records a ";" for statement lists that run more than one
// command one after another (separated by ";" or a newline).
func markSequence(c *Command, stmts []*syntax.Stmt) {
	for i := 1; i < len(stmts); i++ {
		prev := stmts[i-1]
		if !prev.Background && !prev.Semicolon.IsValid() {
			c.Operators = append(c.Operators, ";")
		}
	}
}

func callIndexes(stmt *syntax.Stmt, calls map[*syntax.CallExpr]int) []int {
	var idx []int
	syntax.Walk(stmt, func(node syntax.Node) bool {
		if call, ok := node.(*syntax.CallExpr); ok {
			if i, found := calls[call]; found {
				idx = append(idx, i)
			}
		}
		return true
	})
	return idx
}

func toRedirect(r *syntax.Redirect) Redirect {
	out := Redirect{Op: r.Op.String()}
	if r.Word != nil {
		out.Path = wordLiteral(r.Word)
	}
	return out
}

// wordLiteral renders a word with one layer of quoting removed, so that
// rm -rf "/" and rm -rf '/' both yield the argument "/". Expansions are
// kept in their source form ("$HOME").
func wordLiteral(w *syntax.Word) string {
	var sb strings.Builder
	for _, part := range w.Parts {
		writePart(&sb, part)
	}
	return sb.String()
}

func writePart(sb *strings.Builder, part syntax.WordPart) {
	switch p := part.(type) {
	case *syntax.Lit:
		sb.WriteString(p.Value)
	case *syntax.SglQuoted:
		sb.WriteString(p.Value)
	case *syntax.DblQuoted:
		for _, inner := range p.Parts {
			writePart(sb, inner)
		}
	default:
		_ = syntax.NewPrinter().Print(sb, part)
	}
}

// wrappers run the rest of their arguments as a command. The value is the
// set of options that consume the following word.
var wrappers = map[string]map[string]bool{
	"sudo":    {"-u": true, "-g": true, "-C": true, "-D": true, "-h": true, "-p": true, "-r": true, "-t": true, "-U": true},
	"doas":    {"-u": true, "-C": true},
	"pkexec":  {"--user": true},
	"run0":    {"--user": true, "-u": true},
	"env":     {"-u": true, "-C": true, "-S": true},
	"nohup":   {},
	"time":    {},
	"nice":    {"-n": true},
	"ionice":  {"-c": true, "-n": true},
	"command": {},
	"builtin": {},
	"exec":    {"-a": true},
	"timeout": {"-s": true, "-k": true},
	"xargs":   {"-I": true, "-n": true, "-P": true, "-d": true, "-L": true, "-s": true},
}

func buildSegment(words []string) Segment {
	seg := Segment{
		Raw:   strings.Join(words, " "),
		Flags: make(map[string]string),
	}

	rest := words
	for len(rest) > 0 {
		name := path.Base(rest[0])
		opts, isWrapper := wrappers[name]
		if !isWrapper || len(rest) == 1 {
			break
		}
		seg.Wrappers = append(seg.Wrappers, name)
		rest = rest[1:]
	options:
		for len(rest) > 0 {
			w := rest[0]
			switch {
			case opts[w]:
				rest = rest[min(2, len(rest)):]
			case strings.HasPrefix(w, "-") && len(w) > 1:
				rest = rest[1:]
			case name == "env" && strings.Contains(w, "="):
				rest = rest[1:]
			case name == "timeout" && looksNumeric(w):
				rest = rest[1:]
			default:
				break options
			}
		}
	}

	if len(rest) == 0 {
		// "sudo -i" and similar: the wrapper itself is the command.
		seg.Executable = seg.Wrappers[len(seg.Wrappers)-1]
		seg.Wrappers = seg.Wrappers[:len(seg.Wrappers)-1]
		if len(seg.Wrappers) == 0 {
			seg.Wrappers = nil
		}
		return seg
	}

	seg.Executable = path.Base(rest[0])
	seg.Flags, seg.Args = splitFlags(rest[1:])
	return seg
}

// splitFlags separates flags from positional arguments. Short flag groups
// are split per character; long flags keep an optional "=value". Everything
// after "--" is positional.
func splitFlags(words []string) (map[string]string, []string) {
	flags := make(map[string]string)
	var args []string
	for i, w := range words {
		switch {
		case w == "--":
			return flags, append(args, words[i+1:]...)
		case strings.HasPrefix(w, "--") && len(w) > 2:
			name, value, _ := strings.Cut(w[2:], "=")
			flags[name] = value
		case strings.HasPrefix(w, "-") && len(w) > 1:
			for _, ch := range w[1:] {
				flags[string(ch)] = ""
			}
		default:
			args = append(args, w)
		}
	}
	return flags, args
}

func looksNumeric(w string) bool {
	w = strings.TrimRight(w, "smhd")
	if w == "" {
		return false
	}
	for _, r := range w {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

var shellInterpreters = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "dash": true,
	"ksh": true, "fish": true, "csh": true, "tcsh": true,
}

// IsShell reports whether exe is a shell interpreter.
func IsShell(exe string) bool {
	return shellInterpreters[exe]
}

func inlineScript(seg Segment) string {
	if !IsShell(seg.Executable) {
		return ""
	}
	if _, ok := seg.Flags["c"]; ok && len(seg.Args) > 0 {
		return seg.Args[0]
	}
	return ""
}

func merge(dst, src *Command) {
	offset := len(dst.Segments)
	dst.Segments = append(dst.Segments, src.Segments...)
	dst.Operators = append(dst.Operators, src.Operators...)
	dst.Substitutions = append(dst.Substitutions, src.Substitutions...)
	dst.Redirects = append(dst.Redirects, src.Redirects...)
	for _, p := range src.Pipes {
		dst.Pipes = append(dst.Pipes, Pipe{From: shift(p.From, offset), To: shift(p.To, offset)})
	}
	dst.ParseError = dst.ParseError || src.ParseError
}

func shift(idx []int, by int) []int {
	out := make([]int, len(idx))
	for i, v := range idx {
		out[i] = v + by
	}
	return out
}
