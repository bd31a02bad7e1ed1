// Package diag implements the compiler's diagnostic model: positioned
// messages accumulated during lexing and parsing, rendered after the fact by
// re-reading the offending source line and printing a caret under the
// column. Adapted from the reference compiler's util.perror, which
// buffered error messages from parallel worker threads over a channel;
// since this pipeline is single-threaded and cooperative, the channel/mutex
// pair collapses to a plain slice with the same Append/Len/Flush shape.
package diag

import (
	"fmt"
	"strings"
)

// Severity differentiates the kinds of diagnostics the spec distinguishes.
type Severity int

const (
	Lexical Severity = iota
	Syntactic
	SemanticName
	SemanticType
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Lexical:
		return "lexical"
	case Syntactic:
		return "syntax"
	case SemanticName:
		return "semantic"
	case SemanticType:
		return "type"
	case Fatal:
		return "fatal"
	default:
		return "error"
	}
}

// Diagnostic is a single positioned compiler message.
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
	Col      int
}

// Bag accumulates diagnostics during a compiler pass.
type Bag struct {
	file  string
	items []Diagnostic
}

// NewBag returns an empty Bag for the named source file, used to render
// diagnostics with a "<file>:<line>:<col>: error: <message>" prefix.
func NewBag(file string) *Bag {
	return &Bag{file: file}
}

// Append records a diagnostic. Nil-severity convenience wrapper is not
// provided: callers always supply a Severity, since the kind of error
// drives recovery strategy upstream.
func (b *Bag) Append(sev Severity, line, col int, format string, args ...interface{}) {
	b.items = append(b.items, Diagnostic{
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Col:      col,
	})
}

// Len returns the number of buffered diagnostics.
func (b *Bag) Len() int {
	return len(b.items)
}

// HasFatal reports whether any buffered diagnostic is Fatal.
func (b *Bag) HasFatal() bool {
	for _, d := range b.items {
		if d.Severity == Fatal {
			return true
		}
	}
	return false
}

// All returns the buffered diagnostics in emission order.
func (b *Bag) All() []Diagnostic {
	return b.items
}

// Flush empties the bag.
func (b *Bag) Flush() {
	b.items = nil
}

// Render formats every buffered diagnostic against src, re-reading the
// offending source line and printing a caret column indicator with tab
// alignment preserved, per the diagnostic format in the spec's External
// Interfaces section.
func (b *Bag) Render(src string) string {
	lines := strings.Split(src, "\n")
	var sb strings.Builder
	for _, d := range b.items {
		fmt.Fprintf(&sb, "%s:%d:%d: error: %s\n", b.file, d.Line, d.Col, d.Message)
		if d.Line >= 1 && d.Line <= len(lines) {
			line := lines[d.Line-1]
			sb.WriteString(line)
			sb.WriteRune('\n')
			sb.WriteString(caret(line, d.Col))
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// caret builds a caret line under column col (1-indexed), preserving tabs so
// the caret lines up with the source line when printed with the same
// tabstop.
func caret(line string, col int) string {
	var sb strings.Builder
	for i := 0; i < col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
	}
	sb.WriteRune('^')
	return sb.String()
}
