package parser

import (
	"minicc/src/ast"
	"minicc/src/diag"
	"minicc/src/token"
)

// syncTo advances past tokens until the current one is k or EOF, used after
// a diagnostic to resume parsing at a known-good boundary instead of
// cascading further errors from the same malformed construct.
func (p *Parser) syncTo(k token.Kind) {
	for !p.at(k) && !p.at(token.EOF) {
		p.advance()
	}
}

// syncToAny is syncTo for a set of acceptable resynchronization tokens.
func (p *Parser) syncToAny(ks ...token.Kind) {
	for !p.at(token.EOF) {
		for _, k := range ks {
			if p.at(k) {
				return
			}
		}
		p.advance()
	}
}

// recoverStmt wraps one statement parse with panic recovery: a parseAbort
// thrown anywhere underneath is caught here, the token stream is
// resynchronized to the next ';' or a block delimiter, and a Null statement
// is substituted so the enclosing Compound stays well-formed (spec §4.F
// Error recovery). Reaching EOF while still resynchronizing means recovery
// can never terminate, so that case is escalated to a Fatal diagnostic.
func (p *Parser) recoverStmt(parse func() ast.Stmt) (result ast.Stmt) {
	start := p.cur()
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseAbort); !ok {
				panic(r)
			}
			p.syncToAny(token.Semicolon, token.RBrace)
			if p.at(token.Semicolon) {
				p.advance()
			}
			if p.at(token.EOF) {
				p.Diags.Append(diag.Fatal, start.Line, start.Col,
					"unexpected end of file while recovering from a syntax error")
			}
			n := &ast.Null{}
			n.Pos = posOf(start)
			result = n
		}
	}()
	return parse()
}
