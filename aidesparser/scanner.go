package aidesparser

import "strings"

type scanState int

const (
	stateNormal scanState = iota
	stateInString
	stateEscaped
)

// lexer tracks whether the bytes of a JSON text, fed in order, sit inside a
// string literal. Working on bytes is safe for UTF-8 input because every
// byte of a multi-byte sequence is >= 0x80.
type lexer struct {
	state scanState
}

// structural reports whether c lies outside any string literal. Quotes that
// open or close a string are not structural.
func (l *lexer) structural(c byte) bool {
	switch l.state {
	case stateEscaped:
		l.state = stateInString
		return false
	case stateInString:
		switch c {
		case '\\':
			l.state = stateEscaped
		case '"':
			l.state = stateNormal
		}
		return false
	}
	if c == '"' {
		l.state = stateInString
		return false
	}
	return true
}

// splitTopLevel cuts doc into the top-level values it contains. A candidate
// ends each time the container depth returns to zero; whitespace-only
// candidates are skipped. Whatever follows the last complete value is
// returned as tail.
func splitTopLevel(doc string) (candidates []string, tail string) {
	var lx lexer
	depth := 0
	start := 0

	for i := 0; i < len(doc); i++ {
		c := doc[i]
		if !lx.structural(c) {
			continue
		}
		switch c {
		case '{', '[':
			depth++
		case '}', ']':
			// A stray closer at depth zero stays in the candidate text
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				if candidate := strings.TrimSpace(doc[start : i+1]); candidate != "" {
					candidates = append(candidates, candidate)
				}
				start = i + 1
			}
		}
	}

	return candidates, doc[start:]
}

// stripTrailingCommas removes every comma outside string literals whose next
// character, skipping whitespace and further commas, is '}' or ']'.
// Applying it twice gives the same result as applying it once.
func stripTrailingCommas(doc string) string {
	var b strings.Builder
	b.Grow(len(doc))

	var lx lexer
	for i := 0; i < len(doc); i++ {
		c := doc[i]
		if lx.structural(c) && c == ',' && closesAfter(doc, i+1) {
			continue
		}
		b.WriteByte(c)
	}

	return b.String()
}

func closesAfter(doc string, from int) bool {
	for j := from; j < len(doc); j++ {
		switch doc[j] {
		case ' ', '\t', '\n', '\r', ',':
			continue
		case '}', ']':
			return true
		default:
			return false
		}
	}
	return false
}

// countBraces counts the curly braces of doc that are outside string literals.
func countBraces(doc string) (open, closed int) {
	var lx lexer
	for i := 0; i < len(doc); i++ {
		c := doc[i]
		if !lx.structural(c) {
			continue
		}
		switch c {
		case '{':
			open++
		case '}':
			closed++
		}
	}
	return open, closed
}

// lastClosedString returns the index of the last '}' that directly follows the
// closing quote of a string literal, or -1.
func lastClosedString(doc string) int {
	var lx lexer
	last := -1
	for i := 0; i < len(doc); i++ {
		c := doc[i]
		if lx.structural(c) && c == '}' && i > 0 && doc[i-1] == '"' {
			last = i
		}
	}
	return last
}

// closers returns the delimiters closing every container still open at the
// end of doc, innermost first.
func closers(doc string) string {
	var lx lexer
	var stack []byte
	for i := 0; i < len(doc); i++ {
		c := doc[i]
		if !lx.structural(c) {
			continue
		}
		switch c {
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}

	out := make([]byte, len(stack))
	for i := range stack {
		out[i] = stack[len(stack)-1-i]
	}
	return string(out)
}

// repairTruncated drops anything before the first '{' and, when the text is
// cut short, truncates it after the last complete `"}` and closes the
// containers left open. Text that does not look truncated is returned as is.
func repairTruncated(doc string) string {
	if !strings.HasPrefix(doc, "{") {
		if i := strings.IndexByte(doc, '{'); i >= 0 {
			doc = doc[i:]
		}
	}

	if strings.HasSuffix(doc, "}") {
		return doc
	}

	open, closed := countBraces(doc)
	if open <= closed {
		return doc
	}

	cut := lastClosedString(doc)
	if cut < 0 {
		return doc
	}

	doc = doc[:cut+1]
	return doc + closers(doc)
}
