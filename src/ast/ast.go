// Package ast implements the AST node family (spec component E): a
// sum-of-products tree of program/function/statement/expression nodes.
//
// Per the design note on dynamic-dispatch AST ("a closed sum of node kinds
// is preferable; visitor dispatch becomes a match on kind"), this package
// uses Go's idiomatic shape for that idea: two small interfaces (Stmt,
// Expr) each implemented by a fixed, closed set of concrete struct types
// defined only in this package. A type switch on the concrete type plays
// the role of "match on kind"; there is never ambiguity between, say, an
// array-subscript assignment target and an identifier one, because they
// are distinct Go types rather than tagged variants of one struct.
package ast

import (
	"minicc/src/symbol"
	"minicc/src/types"
)

// Pos is embedded in every node to carry its source position for
// diagnostics.
type Pos struct {
	Line, Col int
}

// Node is implemented by every AST node.
type Node interface {
	Position() Pos
}

// Stmt is implemented by every statement node kind named in spec §3:
// Compound, Declaration, If, While, For, Return, ExprStmt, Null.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node kind named in spec §3. Every
// expression carries its result Type, set either at construction (literals)
// or by op finalization once its operands are attached (binary nodes).
type Expr interface {
	Node
	exprNode()
	Type() types.Type
	SetType(types.Type)
}

// typedExpr factors out the Type/SetType pair shared by every Expr
// implementation.
type typedExpr struct {
	Pos
	typ types.Type
}

func (e *typedExpr) Type() types.Type     { return e.typ }
func (e *typedExpr) SetType(t types.Type) { e.typ = t }
func (e *typedExpr) exprNode()            {}

func (p Pos) Position() Pos { return p }

// Program is the ordered sequence of function definitions that make up a
// whole translation unit.
type Program struct {
	Functions []*Function
}

// Function is a function definition: its identifier, return type, ordered
// argument declarations, owned body, and the scope table hosting both its
// parameters and its body (spec §4.F: "the parser enters a new scope that
// hosts both parameters and body").
type Function struct {
	Pos
	Ident   *symbol.Identifier
	RetType types.Type
	Args    []*ArgDecl
	Body    *Compound
	Scope   symbol.ScopeID
}

// ArgDecl is one function parameter declaration.
type ArgDecl struct {
	Pos
	Ident *symbol.Identifier
}
