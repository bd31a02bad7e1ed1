// Package parser implements the recursive-descent parser with integrated
// semantic checks (spec component F): a hand-written predictive parser with
// one-token lookahead that builds a strongly-typed AST while consulting the
// symbol model and string interner, and recovers from malformed input at
// natural synchronization points instead of aborting the whole parse.
//
// The assignment/expression-statement ambiguity is resolved with the
// classic stash approach described in the spec: when an identifier (or
// array subscript) is consumed speculatively as a candidate assignment
// target and no assignment operator follows, the already-built fragment is
// cached in p.stashed so the expression-precedence chain can pick it up at
// the Primary level without re-lexing or re-descending.
package parser

import (
	"minicc/src/ast"
	"minicc/src/diag"
	"minicc/src/strtab"
	"minicc/src/symbol"
	"minicc/src/token"
	"minicc/src/types"
)

// Parser holds all state for one parse: the token sequence, the symbol
// table and string interner it populates, and the accumulated diagnostics.
type Parser struct {
	toks []token.Token
	pos  int

	Sym    *symbol.Table
	Strs   *strtab.Table
	Diags  *diag.Bag
	NeedsPrintf bool

	functions []*ast.Function // Central function table; Identifier.FuncIndex indexes into this.
	curRet    types.Type      // Return type of the function currently being parsed.
	curRetSet bool

	stashed ast.Expr // The "unused identifier"/"unused array" slot.
}

// New creates a Parser over an already-lexed token sequence.
func New(toks []token.Token, file string) *Parser {
	return &Parser{
		toks:  toks,
		Sym:   symbol.NewTable(),
		Strs:  strtab.New(),
		Diags: diag.NewBag(file),
	}
}

// Parse parses an already-lexed token sequence, returning the Program AST
// and the Parser holding the accumulated diagnostics. Per the spec's error-handling policy, IR
// emission must not proceed if any diagnostic was recorded; callers check
// p.Diags.Len() themselves.
func Parse(toks []token.Token, file string) (*ast.Program, *Parser) {
	p := New(toks, file)
	prog := p.parseProgram()
	return prog, p
}

// --- token stream primitives -------------------------------------------

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF sentinel.
	}
	return p.toks[p.pos]
}

func (p *Parser) at(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// expect consumes the current token if it matches k, else records a
// syntactic diagnostic and aborts the current parse routine via panic,
// to be caught by the nearest recovery point.
func (p *Parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		p.fail(diag.Syntactic, "expected %s, got %s %q", k, p.cur().Kind, p.cur().Lexeme)
	}
	return p.advance()
}

// --- diagnostics and recovery --------------------------------------------

// parseAbort is the panic payload thrown by fail and caught by recover
// points (recoverStmt in recover.go and parseFunctionRecover in stmt.go).
type parseAbort struct{}

// fail records a positioned diagnostic and unwinds to the nearest recovery
// point via panic(parseAbort{}).
func (p *Parser) fail(sev diag.Severity, format string, args ...interface{}) {
	t := p.cur()
	p.Diags.Append(sev, t.Line, t.Col, format, args...)
	panic(parseAbort{})
}

// failAt is like fail but reports the diagnostic at an explicit earlier
// position (used when the offending token has already been consumed).
func (p *Parser) failAt(sev diag.Severity, line, col int, format string, args ...interface{}) {
	p.Diags.Append(sev, line, col, format, args...)
	panic(parseAbort{})
}

// note records a diagnostic without aborting the current parse routine,
// used for semantic checks that can substitute a dummy and keep going
// in-line rather than unwinding (e.g. undeclared identifier).
func (p *Parser) note(sev diag.Severity, line, col int, format string, args ...interface{}) {
	p.Diags.Append(sev, line, col, format, args...)
}

// --- expressions ----------------------------------------------------------
//
// Precedence, loosest to tightest:
//   Assignment (right-assoc) -> LogicalOr -> LogicalAnd -> Comparison ->
//   Additive -> Multiplicative -> Unary(!) -> Primary

func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

func assignOpFor(k token.Kind) (ast.AssignOp, bool) {
	switch k {
	case token.Assign:
		return ast.OpAssign, true
	case token.PlusAssign:
		return ast.OpPlusAssign, true
	case token.MinusAssign:
		return ast.OpMinusAssign, true
	default:
		return 0, false
	}
}

func (p *Parser) parseAssignment() ast.Expr {
	if p.at(token.Identifier) {
		frag := p.parseIdentifierPrimary()
		if op, ok := assignOpFor(p.cur().Kind); ok && ast.ValidAssignTarget(frag) {
			t := p.advance()
			rhs := p.parseAssignment()
			typ, ok := ast.FinalizeAssign(frag, rhs)
			if !ok {
				p.note(diag.SemanticType, t.Line, t.Col,
					"invalid assignment: %s is not assignable from %s", frag.Type(), rhs.Type())
			}
			n := &ast.Assign{LHS: frag, Op: op, RHS: rhs}
			n.SetType(typ)
			n.Pos = posOf(t)
			return n
		}
		p.stashed = frag
		return p.parseLogicalOr()
	}
	return p.parseLogicalOr()
}

func (p *Parser) parseLogicalOr() ast.Expr {
	left := p.parseLogicalAnd()
	for p.at(token.LogicalOr) {
		t := p.advance()
		right := p.parseLogicalAnd()
		typ, ok := ast.FinalizeLogical(left, right)
		if !ok {
			p.note(diag.SemanticType, t.Line, t.Col, "operands of || must be int, got %s and %s", left.Type(), right.Type())
		}
		n := &ast.LogicalOr{LHS: left, RHS: right}
		n.SetType(typ)
		n.Pos = posOf(t)
		left = n
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	left := p.parseComparison()
	for p.at(token.LogicalAnd) {
		t := p.advance()
		right := p.parseComparison()
		typ, ok := ast.FinalizeLogical(left, right)
		if !ok {
			p.note(diag.SemanticType, t.Line, t.Col, "operands of && must be int, got %s and %s", left.Type(), right.Type())
		}
		n := &ast.LogicalAnd{LHS: left, RHS: right}
		n.SetType(typ)
		n.Pos = posOf(t)
		left = n
	}
	return left
}

var cmpOps = map[token.Kind]ast.CmpOp{
	token.Equal: ast.OpEq, token.NotEqual: ast.OpNe,
	token.Less: ast.OpLt, token.LessEqual: ast.OpLe,
	token.Greater: ast.OpGt, token.GreaterEqual: ast.OpGe,
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	if op, ok := cmpOps[p.cur().Kind]; ok {
		t := p.advance()
		right := p.parseAdditive()
		typ, fok := ast.FinalizeCompare(left, right)
		if !fok {
			p.note(diag.SemanticType, t.Line, t.Col, "comparison operands must be int, got %s and %s", left.Type(), right.Type())
		}
		n := &ast.BinaryCmp{Op: op, LHS: left, RHS: right}
		n.SetType(typ)
		n.Pos = posOf(t)
		return n
	}
	return left
}

var addOps = map[token.Kind]ast.MathOp{token.Plus: ast.OpAdd, token.Minus: ast.OpSub}
var mulOps = map[token.Kind]ast.MathOp{token.Star: ast.OpMul, token.Slash: ast.OpDiv, token.Percent: ast.OpMod}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for {
		op, ok := addOps[p.cur().Kind]
		if !ok {
			return left
		}
		t := p.advance()
		right := p.parseMultiplicative()
		typ, fok := ast.FinalizeMath(left, right)
		if !fok {
			p.note(diag.SemanticType, t.Line, t.Col, "operands of %s must be int, got %s and %s", t.Lexeme, left.Type(), right.Type())
		}
		n := &ast.BinaryMath{Op: op, LHS: left, RHS: right}
		n.SetType(typ)
		n.Pos = posOf(t)
		left = n
	}
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for {
		op, ok := mulOps[p.cur().Kind]
		if !ok {
			return left
		}
		t := p.advance()
		right := p.parseUnary()
		typ, fok := ast.FinalizeMath(left, right)
		if !fok {
			p.note(diag.SemanticType, t.Line, t.Col, "operands of %s must be int, got %s and %s", t.Lexeme, left.Type(), right.Type())
		}
		n := &ast.BinaryMath{Op: op, LHS: left, RHS: right}
		n.SetType(typ)
		n.Pos = posOf(t)
		left = n
	}
}

func (p *Parser) parseUnary() ast.Expr {
	if p.at(token.Not) {
		t := p.advance()
		x := p.parseUnary()
		n := &ast.Not{X: x}
		if x.Type() != types.Int {
			p.note(diag.SemanticType, t.Line, t.Col, "operand of ! must be int, got %s", x.Type())
		}
		n.SetType(types.Int)
		n.Pos = posOf(t)
		return n
	}
	return p.parsePrimary()
}

// parsePrimary handles: the stash slot, parenthesized expressions,
// literals, the identifier-leader production (id, id[expr], id(args)),
// ++id, --id, and &id[expr].
func (p *Parser) parsePrimary() ast.Expr {
	if p.stashed != nil {
		e := p.stashed
		p.stashed = nil
		return e
	}

	t := p.cur()
	switch t.Kind {
	case token.LParen:
		p.advance()
		e := p.parseExpr()
		p.closeRecover(token.RParen, "expected ')'")
		return e
	case token.IntLit:
		p.advance()
		n := &ast.IntLit{Value: parseIntLexeme(t.Lexeme)}
		n.SetType(types.Int)
		n.Pos = posOf(t)
		return n
	case token.DoubleLit:
		p.advance()
		n := &ast.DoubleLit{Value: parseDoubleLexeme(t.Lexeme)}
		n.SetType(types.Double)
		n.Pos = posOf(t)
		return n
	case token.CharLit:
		p.advance()
		var b byte
		if len(t.Lexeme) > 0 {
			b = t.Lexeme[0]
		}
		n := &ast.CharLit{Value: b}
		n.SetType(types.Char)
		n.Pos = posOf(t)
		return n
	case token.StringLit:
		p.advance()
		n := &ast.StringLit{Handle: p.Strs.Intern(t.Lexeme)}
		n.SetType(types.CharArray)
		n.Pos = posOf(t)
		return n
	case token.Increment, token.Decrement:
		p.advance()
		name := p.expect(token.Identifier)
		id := p.resolve(name)
		if id.Type != types.Int {
			p.note(diag.SemanticType, name.Line, name.Col, "operand of %s must be int, got %s", t.Kind, id.Type)
		}
		if t.Kind == token.Increment {
			n := &ast.PreIncrement{Ident: id}
			n.SetType(types.Int)
			n.Pos = posOf(t)
			return n
		}
		n := &ast.PreDecrement{Ident: id}
		n.SetType(types.Int)
		n.Pos = posOf(t)
		return n
	case token.Amp:
		p.advance()
		name := p.expect(token.Identifier)
		id := p.resolve(name)
		if !id.Type.IsArray() {
			p.note(diag.SemanticName, name.Line, name.Col, "%q is not an array", name.Lexeme)
		}
		p.expect(token.LBracket)
		idx := p.parseExpr()
		p.closeRecover(token.RBracket, "expected ']'")
		n := &ast.AddrOfArrayElement{Array: id, Index: idx}
		n.SetType(id.Type)
		n.Pos = posOf(t)
		return n
	case token.Identifier:
		return p.parseIdentifierPrimary()
	default:
		p.fail(diag.Syntactic, "unexpected token %s %q, expected an expression", t.Kind, t.Lexeme)
		panic("unreachable")
	}
}

// parseIdentifierPrimary handles the common left prefix `id`, followed by
// an optional `[expr]` or `(args)` suffix, producing an IdentRef,
// ArraySubscript, or FunctionCall.
func (p *Parser) parseIdentifierPrimary() ast.Expr {
	nameTok := p.expect(token.Identifier)
	id := p.resolve(nameTok)

	switch {
	case p.at(token.LBracket):
		p.advance()
		if !id.Type.IsArray() && !id.IsDummy() {
			p.note(diag.SemanticName, nameTok.Line, nameTok.Col, "%q is not an array", nameTok.Lexeme)
		}
		idx := p.parseExpr()
		p.closeRecover(token.RBracket, "expected ']'")
		n := &ast.ArraySubscript{Array: id, Index: idx}
		if id.Type.IsArray() {
			n.SetType(id.Type.ElementType())
		} else {
			n.SetType(types.Int)
		}
		n.Pos = posOf(nameTok)
		return n
	case p.at(token.LParen):
		p.advance()
		var args []ast.Expr
		if !p.at(token.RParen) {
			args = append(args, p.parseExpr())
			for p.at(token.Comma) {
				p.advance()
				args = append(args, p.parseExpr())
			}
		}
		p.closeRecover(token.RParen, "expected ')'")
		if !id.IsDummy() && id.Type != types.Function {
			p.note(diag.SemanticName, nameTok.Line, nameTok.Col, "%q is not a function", nameTok.Lexeme)
		}
		retType := p.checkCall(id, nameTok, args)
		n := &ast.FunctionCall{Callee: id, Args: args}
		n.SetType(retType)
		n.Pos = posOf(nameTok)
		return n
	default:
		n := &ast.IdentRef{Ident: id}
		n.SetType(id.Type)
		n.Pos = posOf(nameTok)
		return n
	}
}

// resolve looks up nameTok in the symbol table, substituting @@variable and
// recording a Semantic-name diagnostic on an undeclared use (spec §4.F,
// §7).
func (p *Parser) resolve(nameTok token.Token) *symbol.Identifier {
	id, ok := p.Sym.GetIdentifier(nameTok.Lexeme)
	if !ok {
		p.note(diag.SemanticName, nameTok.Line, nameTok.Col, "use of undeclared identifier %q", nameTok.Lexeme)
		id, _ = p.Sym.GetIdentifier(symbol.DummyVariable)
	}
	return id
}

// checkCall validates argument count and positional types against callee's
// signature (spec invariant I3), special-casing the variadic printf.
func (p *Parser) checkCall(callee *symbol.Identifier, nameTok token.Token, args []ast.Expr) types.Type {
	if callee.IsDummy() {
		return types.Int
	}
	if callee.Name == "printf" {
		p.NeedsPrintf = true
		if len(args) < 1 {
			p.note(diag.SemanticType, nameTok.Line, nameTok.Col, "printf expects at least 1 argument, got 0")
			return types.Int
		}
		if args[0].Type() != types.CharArray {
			p.note(diag.SemanticType, nameTok.Line, nameTok.Col, "printf's first argument must be a char array, got %s", args[0].Type())
		}
		return types.Int
	}
	if callee.FuncIndex < 0 || callee.FuncIndex >= len(p.functions) {
		return types.Int
	}
	fn := p.functions[callee.FuncIndex]
	if len(args) != len(fn.Args) {
		p.note(diag.SemanticType, nameTok.Line, nameTok.Col,
			"function %q expects %d argument(s), got %d", callee.Name, len(fn.Args), len(args))
		return fn.RetType
	}
	for i, a := range args {
		want := fn.Args[i].Ident.Type
		if a.Type() != want {
			p.note(diag.SemanticType, nameTok.Line, nameTok.Col,
				"function %q argument %d expects %s, got %s", callee.Name, i+1, want, a.Type())
		}
	}
	return fn.RetType
}

// closeRecover consumes k, or records a diagnostic and synchronizes to the
// nearest ')' or ']' (spec §4.F Error recovery: "at )/] (parenthesized
// subexpressions)").
func (p *Parser) closeRecover(k token.Kind, msg string) {
	if p.at(k) {
		p.advance()
		return
	}
	t := p.cur()
	p.note(diag.Syntactic, t.Line, t.Col, "%s, got %s %q", msg, t.Kind, t.Lexeme)
	p.syncTo(k)
	if p.at(k) {
		p.advance()
	}
}

func posOf(t token.Token) ast.Pos { return ast.Pos{Line: t.Line, Col: t.Col} }

func parseIntLexeme(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

func parseDoubleLexeme(s string) float64 {
	var intPart, fracPart float64
	var i int
	for i = 0; i < len(s) && s[i] != '.'; i++ {
		intPart = intPart*10 + float64(s[i]-'0')
	}
	i++
	div := 1.0
	for ; i < len(s); i++ {
		fracPart = fracPart*10 + float64(s[i]-'0')
		div *= 10
	}
	return intPart + fracPart/div
}
