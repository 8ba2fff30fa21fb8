package normalize

import "strings"

// fallbackParse handles input the shell grammar rejects (unbalanced quotes,
// stray keywords). It splits on control operators outside quotes and strips
// one layer of quoting from each word, which is enough for pattern matching.
func fallbackParse(raw string) *Command {
	c := &Command{Raw: raw, ParseError: true}

	var parts []string
	var cur strings.Builder
	var quote byte

	flush := func() {
		parts = append(parts, cur.String())
		cur.Reset()
	}

	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			} else if quote == '"' && ch == '`' {
				c.Substitutions = append(c.Substitutions, "`")
			} else if quote == '"' && ch == '$' && i+1 < len(raw) && raw[i+1] == '(' {
				c.Substitutions = append(c.Substitutions, "$()")
			}
			cur.WriteByte(ch)
			continue
		}

		switch {
		case ch == '\\' && i+1 < len(raw):
			cur.WriteByte(ch)
			cur.WriteByte(raw[i+1])
			i++
		case ch == '\'' || ch == '"':
			quote = ch
			cur.WriteByte(ch)
		case ch == '`':
			c.Substitutions = append(c.Substitutions, "`")
			cur.WriteByte(ch)
		case ch == '$' && i+1 < len(raw) && raw[i+1] == '(':
			c.Substitutions = append(c.Substitutions, "$()")
			cur.WriteByte(ch)
		case ch == '|' || ch == '&' || ch == ';' || ch == '\n':
			op := string(ch)
			if i+1 < len(raw) && (raw[i:i+2] == "||" || raw[i:i+2] == "&&" || raw[i:i+2] == "|&") {
				op = raw[i : i+2]
				i++
			}
			if ch == '&' && op == "&" && i > 0 && raw[i-1] == '>' {
				// "2>&1" and "&>" are redirects, not operators.
				cur.WriteByte(ch)
				continue
			}
			if op == "\n" {
				op = ";"
			}
			flush()
			c.Operators = append(c.Operators, op)
		default:
			cur.WriteByte(ch)
		}
	}
	flush()

	prevSegment := -1
	pendingPipe := false
	opIdx := 0
	for _, part := range parts {
		words, redirects := splitWords(part)
		c.Redirects = append(c.Redirects, redirects...)
		if len(words) > 0 {
			idx := len(c.Segments)
			c.Segments = append(c.Segments, buildSegment(words))
			if pendingPipe && prevSegment >= 0 {
				c.Pipes = append(c.Pipes, Pipe{From: []int{prevSegment}, To: []int{idx}})
			}
			prevSegment = idx
		}
		pendingPipe = false
		if opIdx < len(c.Operators) {
			op := c.Operators[opIdx]
			pendingPipe = op == "|" || op == "|&"
			opIdx++
		}
	}
	return c
}

// splitWords tokenizes one segment, removing a single layer of quotes and
// pulling out redirects. Descriptor duplication ("2>&1") is dropped.
func splitWords(s string) ([]string, []Redirect) {
	var words []string
	var redirects []Redirect
	var cur strings.Builder
	var quote byte
	inWord := false
	pendingOp := ""

	emit := func() {
		if !inWord {
			return
		}
		w := cur.String()
		cur.Reset()
		inWord = false
		switch pendingOp {
		case "":
			words = append(words, w)
		case "dup":
		default:
			redirects = append(redirects, Redirect{Op: pendingOp, Path: w})
		}
		pendingOp = ""
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			} else {
				cur.WriteByte(ch)
			}
			continue
		}
		switch {
		case ch == '\'' || ch == '"':
			quote = ch
			inWord = true
		case ch == ' ' || ch == '\t' || ch == '\r':
			emit()
		case ch == '>' || ch == '<':
			if inWord && isDigits(cur.String()) {
				// "2>" names a descriptor, not an argument
				cur.Reset()
				inWord = false
			}
			emit()
			op := string(ch)
			if ch == '>' && i+1 < len(s) && s[i+1] == '>' {
				op = ">>"
				i++
			}
			if i+1 < len(s) && s[i+1] == '&' {
				op = "dup"
				i++
			}
			pendingOp = op
		default:
			cur.WriteByte(ch)
			inWord = true
		}
	}
	emit()
	return words, redirects
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
