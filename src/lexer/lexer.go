// Package lexer implements the token stream producer. It is based on, and
// adapted from, the reference compiler's Rob Pike style scanner (state
// functions over a rune stream), itself based on Rob Pike's "Lexical
// Scanning in Go" talk. The reference runs the lexer as a goroutine
// communicating over channels with a concurrent goyacc parser; this
// compiler's pipeline is single-threaded and cooperative (lex precedes
// parse, see the SSA constructor design notes), so Lex materializes the
// entire finite token sequence up front and hands it to the parser as a
// plain slice — the Token stream of spec component A.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"minicc/src/token"
)

// stateFunc defines the lexer's current scanning state.
type stateFunc func(*lexer) stateFunc

const eof = rune(0)

// lexer traverses a source string rune by rune and emits tokens into items.
type lexer struct {
	input       string
	start       int
	pos         int
	width       int
	line        int
	startOnLine int
	items       []token.Token
	err         error
}

// Lex scans src and returns the finite token sequence, always terminated by
// an EOF token. A lexical error (unknown token, unterminated literal) is
// represented in-band as an Unknown token; Lex never fails outright, so that
// the parser can proceed and emit diagnostics under its own recovery model,
// per the spec's Lexical error-kind recovery: "emit Unknown token and
// continue."
func Lex(src string) []token.Token {
	l := &lexer{input: src, line: 1, startOnLine: 1}
	for state := stateFunc(lexStart); state != nil; {
		state = state(l)
	}
	l.items = append(l.items, token.Token{Kind: token.EOF, Line: l.line, Col: l.startOnLine})
	return l.items
}

func (l *lexer) emit(k token.Kind) {
	lexeme := l.input[l.start:l.pos]
	l.items = append(l.items, token.Token{
		Kind:   k,
		Lexeme: lexeme,
		Line:   l.line,
		Col:    l.startOnLine,
	})
	l.advanceLineTracking(lexeme)
	l.start = l.pos
}

// emitLiteral emits a token whose lexeme is supplied directly rather than
// sliced from input (used for escaped char/string literals).
func (l *lexer) emitLiteral(k token.Kind, lexeme string) {
	l.items = append(l.items, token.Token{
		Kind:   k,
		Lexeme: lexeme,
		Line:   l.line,
		Col:    l.startOnLine,
	})
	l.advanceLineTracking(l.input[l.start:l.pos])
	l.start = l.pos
}

func (l *lexer) advanceLineTracking(consumed string) {
	for _, r := range consumed {
		if r == '\n' {
			l.line++
			l.startOnLine = 1
		} else {
			l.startOnLine++
		}
	}
}

func (l *lexer) ignore() {
	l.advanceLineTracking(l.input[l.start:l.pos])
	l.start = l.pos
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += w
	l.width = w
	return r
}

func (l *lexer) backup() {
	if l.pos > l.start {
		l.pos -= l.width
	}
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

func (l *lexer) acceptRun(pred func(rune) bool) {
	for pred(l.next()) {
	}
	l.backup()
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isAlpha(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
func isAlphaNum(r rune) bool { return isAlpha(r) || isDigit(r) }

// lexStart is the top-level state: dispatch on the next rune.
func lexStart(l *lexer) stateFunc {
	r := l.next()
	switch {
	case r == eof:
		return nil
	case r == ' ' || r == '\t' || r == '\r' || r == '\n':
		l.ignore()
		return lexStart
	case r == '/' && l.peek() == '/':
		return lexLineComment
	case isDigit(r):
		l.backup()
		return lexNumber
	case isAlpha(r):
		l.backup()
		return lexIdentOrKeyword
	case r == '"':
		return lexString
	case r == '\'':
		return lexChar
	default:
		l.backup()
		return lexOperator
	}
}

func lexLineComment(l *lexer) stateFunc {
	for {
		r := l.next()
		if r == '\n' || r == eof {
			l.backup()
			break
		}
	}
	l.ignore()
	return lexStart
}

func lexNumber(l *lexer) stateFunc {
	l.acceptRun(isDigit)
	if l.peek() == '.' {
		l.next()
		if !isDigit(l.peek()) {
			// Trailing decimal point with no following digit: malformed
			// double literal, emitted as Unknown for the parser to recover
			// from, per the lexical error-kind recovery policy.
			l.emit(token.Unknown)
			return lexStart
		}
		l.acceptRun(isDigit)
		l.emit(token.DoubleLit)
		return lexStart
	}
	l.emit(token.IntLit)
	return lexStart
}

func lexIdentOrKeyword(l *lexer) stateFunc {
	l.acceptRun(isAlphaNum)
	word := l.input[l.start:l.pos]
	if k, ok := token.Keywords[word]; ok {
		l.emit(k)
	} else {
		l.emit(token.Identifier)
	}
	return lexStart
}

// escapeMap is the closed set of recognized escapes for char and string
// literals per the spec's lexical grammar.
var escapeMap = map[rune]rune{
	'n': '\n', 't': '\t', '0': 0, '\'': '\'', '"': '"',
}

func lexString(l *lexer) stateFunc {
	var sb strings.Builder
	for {
		r := l.next()
		switch r {
		case eof, '\n':
			l.emitLiteral(token.Unknown, "unterminated string literal")
			return lexStart
		case '"':
			l.emitLiteral(token.StringLit, sb.String())
			return lexStart
		case '\\':
			e := l.next()
			if rep, ok := escapeMap[e]; ok {
				sb.WriteRune(rep)
			} else {
				l.emitLiteral(token.Unknown, fmt.Sprintf("unknown escape \\%c", e))
				return lexStart
			}
		default:
			sb.WriteRune(r)
		}
	}
}

func lexChar(l *lexer) stateFunc {
	r := l.next()
	var c rune
	switch r {
	case eof, '\n':
		l.emitLiteral(token.Unknown, "unterminated char literal")
		return lexStart
	case '\\':
		e := l.next()
		rep, ok := escapeMap[e]
		if !ok {
			l.emitLiteral(token.Unknown, fmt.Sprintf("unknown escape \\%c", e))
			return lexStart
		}
		c = rep
	default:
		c = r
	}
	if l.next() != '\'' {
		l.emitLiteral(token.Unknown, "unterminated char literal")
		return lexStart
	}
	l.emitLiteral(token.CharLit, string(c))
	return lexStart
}

// operators lists multi-char operators before their single-char prefixes so
// the longest match wins.
var operators = []struct {
	text string
	kind token.Kind
}{
	{"++", token.Increment}, {"--", token.Decrement},
	{"==", token.Equal}, {"!=", token.NotEqual},
	{"||", token.LogicalOr}, {"&&", token.LogicalAnd},
	{"<=", token.LessEqual}, {">=", token.GreaterEqual},
	{"+=", token.PlusAssign}, {"-=", token.MinusAssign},
	{"=", token.Assign}, {"+", token.Plus}, {"-", token.Minus},
	{"*", token.Star}, {"/", token.Slash}, {"%", token.Percent},
	{"[", token.LBracket}, {"]", token.RBracket},
	{"!", token.Not}, {"<", token.Less}, {">", token.Greater},
	{"(", token.LParen}, {")", token.RParen}, {"&", token.Amp},
	{";", token.Semicolon}, {"{", token.LBrace}, {"}", token.RBrace},
	{",", token.Comma},
}

func lexOperator(l *lexer) stateFunc {
	for _, op := range operators {
		if strings.HasPrefix(l.input[l.pos:], op.text) {
			for range op.text {
				l.next()
			}
			l.emit(op.kind)
			return lexStart
		}
	}
	l.next()
	l.emit(token.Unknown)
	return lexStart
}
