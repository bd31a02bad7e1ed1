package ast

import (
	"minicc/src/strtab"
	"minicc/src/symbol"
)

// AssignOp is the closed set of assignment operators.
type AssignOp int

const (
	OpAssign AssignOp = iota
	OpPlusAssign
	OpMinusAssign
)

// CmpOp is the closed set of comparison operators.
type CmpOp int

const (
	OpEq CmpOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// MathOp is the closed set of arithmetic operators.
type MathOp int

const (
	OpAdd MathOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

// IdentRef is a reference to a declared (or dummy) identifier.
type IdentRef struct {
	typedExpr
	Ident *symbol.Identifier
}

// ArraySubscript is `id[expr]`. Addr memoizes the element address computed
// by the IR builder the first time this node is visited, per spec §3's
// "memoized element location slot" — so that an assignment target visited
// once for its address and once (in a compound `+=`) for its value does not
// recompute the index arithmetic twice.
type ArraySubscript struct {
	typedExpr
	Array *symbol.Identifier
	Index Expr
	Addr  interface{}
}

// FunctionCall is `id(args)`.
type FunctionCall struct {
	typedExpr
	Callee *symbol.Identifier
	Args   []Expr
}

// Assign is `lhs op rhs` for op in {=, +=, -=}. The lhs must be an IdentRef
// or ArraySubscript; anything else is rejected as a syntactic diagnostic at
// the assignment node (spec §4.E).
type Assign struct {
	typedExpr
	LHS Expr
	Op  AssignOp
	RHS Expr
}

// LogicalAnd is `lhs && rhs`.
type LogicalAnd struct {
	typedExpr
	LHS, RHS Expr
}

// LogicalOr is `lhs || rhs`.
type LogicalOr struct {
	typedExpr
	LHS, RHS Expr
}

// BinaryCmp is `lhs op rhs` for op in {==,!=,<,<=,>,>=}.
type BinaryCmp struct {
	typedExpr
	Op       CmpOp
	LHS, RHS Expr
}

// BinaryMath is `lhs op rhs` for op in {+,-,*,/,mod}.
type BinaryMath struct {
	typedExpr
	Op       MathOp
	LHS, RHS Expr
}

// Not is `!x`.
type Not struct {
	typedExpr
	X Expr
}

// PreIncrement is `++id`. Only the pre-form is in the grammar; post-forms
// are not invented (design note).
type PreIncrement struct {
	typedExpr
	Ident *symbol.Identifier
}

// PreDecrement is `--id`.
type PreDecrement struct {
	typedExpr
	Ident *symbol.Identifier
}

// AddrOfArrayElement is `&id[expr]`.
type AddrOfArrayElement struct {
	typedExpr
	Array *symbol.Identifier
	Index Expr
}

// StringLit is an interned string literal.
type StringLit struct {
	typedExpr
	Handle strtab.Handle
}

// IntLit is an integer literal.
type IntLit struct {
	typedExpr
	Value int
}

// DoubleLit is a floating point literal.
type DoubleLit struct {
	typedExpr
	Value float64
}

// CharLit is a character literal.
type CharLit struct {
	typedExpr
	Value byte
}

