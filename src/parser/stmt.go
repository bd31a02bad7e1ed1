package parser

import (
	"minicc/src/ast"
	"minicc/src/diag"
	"minicc/src/symbol"
	"minicc/src/token"
	"minicc/src/types"
)

const maxArrayElems = 65536

// parseProgram is the top-level entry: a sequence of function definitions
// until EOF (spec §3 Program).
func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.at(token.EOF) {
		fn := p.parseFunctionRecover()
		if fn != nil {
			prog.Functions = append(prog.Functions, fn)
		}
	}
	return prog
}

// parseFunctionRecover wraps parseFunction with the same panic-recovery
// discipline as statements, synchronizing to the next '}' on a malformed
// function definition rather than aborting the whole file. Brace nesting is
// not tracked, so that '}' may close an inner block rather than the body.
func (p *Parser) parseFunctionRecover() (fn *ast.Function) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseAbort); !ok {
				panic(r)
			}
			p.syncTo(token.RBrace)
			if p.at(token.RBrace) {
				p.advance()
			}
			fn = nil
		}
	}()
	return p.parseFunction()
}

// parseType parses one of the four type keywords (spec §2 lexical grammar).
func (p *Parser) parseType() types.Type {
	t := p.cur()
	typ, ok := types.FromKeyword(t.Lexeme)
	if !ok || (t.Kind != token.KwVoid && t.Kind != token.KwInt && t.Kind != token.KwChar && t.Kind != token.KwDouble) {
		p.fail(diag.Syntactic, "expected a type, got %s %q", t.Kind, t.Lexeme)
	}
	p.advance()
	return typ
}

// parseFunction parses `Type IDENT ( ArgDecl,* ) Compound` (spec §4.F
// Function definitions): the identifier is declared in the global scope
// before the argument/body scope is entered, so a function may call
// itself recursively.
func (p *Parser) parseFunction() *ast.Function {
	startTok := p.cur()
	retType := p.parseType()
	nameTok := p.expect(token.Identifier)

	id, ok := p.Sym.CreateIdentifier(nameTok.Lexeme, types.Function)
	if !ok {
		p.note(diag.SemanticName, nameTok.Line, nameTok.Col, "redeclaration of %q", nameTok.Lexeme)
		id, _ = p.Sym.GetIdentifier(symbol.DummyFunction)
	}
	id.FuncIndex = len(p.functions)

	fn := &ast.Function{Ident: id, RetType: retType}
	fn.Pos = posOf(startTok)
	p.functions = append(p.functions, fn)

	scope := p.Sym.EnterScope()
	fn.Scope = scope

	p.expect(token.LParen)
	if !p.at(token.RParen) {
		fn.Args = append(fn.Args, p.parseArgDecl())
		for p.at(token.Comma) {
			p.advance()
			fn.Args = append(fn.Args, p.parseArgDecl())
		}
	}
	p.closeRecover(token.RParen, "expected ')'")

	if nameTok.Lexeme == "main" {
		if retType != types.Int || len(fn.Args) != 0 {
			p.note(diag.SemanticType, nameTok.Line, nameTok.Col, "main must be declared as `int main()`")
		}
	}

	prevRet, prevSet := p.curRet, p.curRetSet
	p.curRet, p.curRetSet = retType, true

	body := p.parseCompoundAsBody()
	fn.Body = body

	if retType != types.Void && !endsInReturn(body) {
		p.note(diag.SemanticType, body.Pos.Line, body.Pos.Col,
			"non-void function %q must end in a return statement", nameTok.Lexeme)
	}

	p.curRet, p.curRetSet = prevRet, prevSet
	p.Sym.ExitScope()
	return fn
}

// endsInReturn reports whether a function body's last statement is a
// Return, the syntactic approximation of "terminates on every path" this
// parser checks; no control-flow path analysis is done, here or later.
func endsInReturn(body *ast.Compound) bool {
	if body == nil || len(body.Stmts) == 0 {
		return false
	}
	_, ok := body.Stmts[len(body.Stmts)-1].(*ast.Return)
	return ok
}

// parseArgDecl parses one parameter: `Type IDENT` or `Type IDENT [ ]` for an
// array parameter, whose element count is unknown at the call site and so
// recorded as -1 (spec §3 Identifier: "or -1 when supplied as a function
// parameter").
func (p *Parser) parseArgDecl() *ast.ArgDecl {
	t := p.cur()
	typ := p.parseType()
	nameTok := p.expect(token.Identifier)
	elemCount := 0
	if p.at(token.LBracket) {
		p.advance()
		p.closeRecover(token.RBracket, "expected ']'")
		typ = types.ArrayOf(typ)
		elemCount = -1
	}
	id, ok := p.Sym.CreateIdentifier(nameTok.Lexeme, typ)
	if !ok {
		p.note(diag.SemanticName, nameTok.Line, nameTok.Col, "redeclaration of parameter %q", nameTok.Lexeme)
		id, _ = p.Sym.GetIdentifier(symbol.DummyVariable)
	}
	id.ElemCount = elemCount
	a := &ast.ArgDecl{Ident: id}
	a.Pos = posOf(t)
	return a
}

// parseCompoundAsBody parses `{ Stmt* }` in the scope already pushed by the
// caller (a function's argument scope), per spec §4.F: "the parser enters a
// new scope that hosts both parameters and body" — so this path must not
// push a second scope of its own.
func (p *Parser) parseCompoundAsBody() *ast.Compound {
	startTok := p.expect(token.LBrace)
	c := &ast.Compound{}
	c.Pos = posOf(startTok)
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		c.Stmts = append(c.Stmts, p.recoverStmt(p.parseStmt))
	}
	p.closeBrace()
	return c
}

// parseCompound parses `{ Stmt* }`, pushing its own child scope (spec §4.F:
// "except when entered as a function body").
func (p *Parser) parseCompound() *ast.Compound {
	startTok := p.expect(token.LBrace)
	scope := p.Sym.EnterScope()
	c := &ast.Compound{Scope: &scope}
	c.Pos = posOf(startTok)
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		c.Stmts = append(c.Stmts, p.recoverStmt(p.parseStmt))
	}
	p.closeBrace()
	p.Sym.ExitScope()
	return c
}

func (p *Parser) closeBrace() {
	if p.at(token.RBrace) {
		p.advance()
		return
	}
	t := p.cur()
	p.note(diag.Syntactic, t.Line, t.Col, "expected '}', got %s %q", t.Kind, t.Lexeme)
}

// parseStmt dispatches on the current token's one-token lookahead to the
// statement production it starts (spec §4.F Statement dispatch).
func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Kind {
	case token.LBrace:
		return p.parseCompound()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwInt, token.KwChar, token.KwDouble, token.KwVoid:
		return p.parseDeclarationStmt()
	case token.Semicolon:
		t := p.advance()
		n := &ast.Null{}
		n.Pos = posOf(t)
		return n
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseIf() ast.Stmt {
	t := p.expect(token.KwIf)
	p.expect(token.LParen)
	cond := p.parseExpr()
	if cond.Type() != types.Int {
		p.note(diag.SemanticType, t.Line, t.Col, "if condition must be int, got %s", cond.Type())
	}
	p.closeRecover(token.RParen, "expected ')'")
	then := p.recoverStmt(p.parseStmt)
	n := &ast.If{Cond: cond, Then: then}
	n.Pos = posOf(t)
	if p.at(token.KwElse) {
		p.advance()
		n.Else = p.recoverStmt(p.parseStmt)
	}
	return n
}

func (p *Parser) parseWhile() ast.Stmt {
	t := p.expect(token.KwWhile)
	p.expect(token.LParen)
	cond := p.parseExpr()
	if cond.Type() != types.Int {
		p.note(diag.SemanticType, t.Line, t.Col, "while condition must be int, got %s", cond.Type())
	}
	p.closeRecover(token.RParen, "expected ')'")
	body := p.recoverStmt(p.parseStmt)
	n := &ast.While{Cond: cond, Body: body}
	n.Pos = posOf(t)
	return n
}

// parseFor parses `for ( InitStmt ; CondStmt ; UpdateExpr ) Stmt`. When the
// init-clause is a declaration, it is scoped to the loop: a fresh child
// scope is pushed before the init-clause and popped after the body, per the
// spec's Open Question on for-loop scoping resolved in favor of C-like
// per-loop scoping (documented in DESIGN.md) rather than leaking the
// loop-local declaration into the enclosing block.
func (p *Parser) parseFor() ast.Stmt {
	t := p.expect(token.KwFor)
	p.expect(token.LParen)

	scope := p.Sym.EnterScope()
	n := &ast.For{Scope: &scope}
	n.Pos = posOf(t)

	if !p.at(token.Semicolon) {
		if isTypeStart(p.cur().Kind) {
			n.Init = p.parseDeclarationNoSemi()
		} else {
			e := p.parseExpr()
			es := &ast.ExprStmt{X: e}
			es.Pos = e.Position()
			n.Init = es
		}
	}
	p.expect(token.Semicolon)

	if !p.at(token.Semicolon) {
		n.Cond = p.parseExpr()
		if n.Cond.Type() != types.Int {
			p.note(diag.SemanticType, t.Line, t.Col, "for condition must be int, got %s", n.Cond.Type())
		}
	}
	p.expect(token.Semicolon)

	if !p.at(token.RParen) {
		n.Update = p.parseExpr()
	}
	p.closeRecover(token.RParen, "expected ')'")

	n.Body = p.recoverStmt(p.parseStmt)
	p.Sym.ExitScope()
	return n
}

func isTypeStart(k token.Kind) bool {
	return k == token.KwInt || k == token.KwChar || k == token.KwDouble || k == token.KwVoid
}

func (p *Parser) parseReturn() ast.Stmt {
	t := p.expect(token.KwReturn)
	n := &ast.Return{}
	n.Pos = posOf(t)
	if !p.at(token.Semicolon) {
		n.Value = p.parseExpr()
	}
	p.expect(token.Semicolon)

	if !p.curRetSet {
		return n
	}
	switch {
	case p.curRet == types.Void && n.Value != nil:
		p.note(diag.SemanticType, t.Line, t.Col, "void function must not return a value")
	case p.curRet != types.Void && n.Value == nil:
		p.note(diag.SemanticType, t.Line, t.Col, "function must return a value of type %s", p.curRet)
	case p.curRet != types.Void && n.Value != nil && n.Value.Type() != p.curRet:
		p.note(diag.SemanticType, t.Line, t.Col, "returning %s from a function declared to return %s", n.Value.Type(), p.curRet)
	}
	return n
}

func (p *Parser) parseExprStmt() ast.Stmt {
	t := p.cur()
	e := p.parseExpr()
	p.expect(token.Semicolon)
	n := &ast.ExprStmt{X: e}
	n.Pos = posOf(t)
	return n
}

// parseDeclarationStmt parses a Declaration and consumes its trailing ';'.
func (p *Parser) parseDeclarationStmt() ast.Stmt {
	d := p.parseDeclarationNoSemi()
	p.expect(token.Semicolon)
	return d
}

// parseDeclarationNoSemi parses `Type IDENT ([ConstInt])? (= Expr)?` without
// consuming the trailing ';', so it can double as a for-loop init-clause.
func (p *Parser) parseDeclarationNoSemi() *ast.Declaration {
	t := p.cur()
	baseType := p.parseType()
	if baseType == types.Void {
		p.fail(diag.SemanticType, "variables cannot be declared void")
	}
	nameTok := p.expect(token.Identifier)

	declType := baseType
	elemCount := 0
	isArray := false
	sizeLine, sizeCol := 0, 0
	if p.at(token.LBracket) {
		p.advance()
		isArray = true
		if p.at(token.IntLit) {
			sizeTok := p.advance()
			elemCount = parseIntLexeme(sizeTok.Lexeme)
			sizeLine, sizeCol = sizeTok.Line, sizeTok.Col
			if elemCount < 1 || elemCount > maxArrayElems {
				p.note(diag.SemanticType, sizeLine, sizeCol,
					"array size must be between 1 and %d, got %d", maxArrayElems, elemCount)
			}
		} else if baseType != types.Char {
			p.note(diag.Syntactic, p.cur().Line, p.cur().Col, "array size is required for %s arrays", baseType)
		}
		p.closeRecover(token.RBracket, "expected ']'")
		declType = types.ArrayOf(baseType)
	}

	var init ast.Expr
	if p.at(token.Assign) {
		t2 := p.advance()
		init = p.parseExpr()
		if isArray {
			sl, ok := init.(*ast.StringLit)
			if baseType != types.Char || !ok {
				p.note(diag.SemanticType, t2.Line, t2.Col, "array initializer must be a string literal, and only for char arrays")
			} else {
				need := len(p.Strs.Text(sl.Handle)) + 1
				if elemCount == 0 {
					elemCount = need
				} else if need > elemCount {
					p.note(diag.SemanticType, sizeLine, sizeCol,
						"char array of size %d is too small for a %d-byte string literal", elemCount, need)
				}
			}
		} else if init.Type() != declType {
			p.note(diag.SemanticType, t2.Line, t2.Col, "initializer type %s does not match declared type %s", init.Type(), declType)
		}
	} else if isArray && elemCount == 0 {
		p.note(diag.SemanticType, t.Line, t.Col, "array declaration requires either an explicit size or a string initializer")
	}

	id, ok := p.Sym.CreateIdentifier(nameTok.Lexeme, declType)
	if !ok {
		p.note(diag.SemanticName, nameTok.Line, nameTok.Col, "redeclaration of %q", nameTok.Lexeme)
		id, _ = p.Sym.GetIdentifier(symbol.DummyVariable)
	}
	id.ElemCount = elemCount

	d := &ast.Declaration{Ident: id, Init: init}
	d.Pos = posOf(t)
	return d
}
