// finalize.go implements op finalization (spec §4.E): the only non-trivial
// AST logic, invoked by the parser immediately after both operands of a
// binary node are attached. Finalization sets the node's result Type and
// reports success/failure so the parser can decide whether to emit a
// Semantic-type diagnostic (property P2: no binary node escapes parsing
// with operand types that fail its finalization predicate unless a
// matching diagnostic was emitted).
package ast

import "minicc/src/types"

// FinalizeLogical finalizes a LogicalAnd/LogicalOr node: both operands must
// be Int, result is Int.
func FinalizeLogical(lhs, rhs Expr) (types.Type, bool) {
	if lhs.Type() != types.Int || rhs.Type() != types.Int {
		return types.Void, false
	}
	return types.Int, true
}

// FinalizeCompare finalizes a BinaryCmp node: both operands must be Int,
// result is Int.
func FinalizeCompare(lhs, rhs Expr) (types.Type, bool) {
	if lhs.Type() != types.Int || rhs.Type() != types.Int {
		return types.Void, false
	}
	return types.Int, true
}

// FinalizeMath finalizes a BinaryMath node: both operands must be Int,
// result is Int. Extension to Double is a design decision left open by the
// spec's design notes (mixed-type and floating point arithmetic); this
// compiler follows spec.md's §4.E literally and rejects Double operands to
// +,-,*,/,mod rather than guessing a widening rule.
func FinalizeMath(lhs, rhs Expr) (types.Type, bool) {
	if lhs.Type() != types.Int || rhs.Type() != types.Int {
		return types.Void, false
	}
	return types.Int, true
}

// FinalizeAssign finalizes an Assign node: lhs and rhs types must match
// exactly, and lhs must be an IdentRef or ArraySubscript. The result type
// is the lhs type. ValidAssignTarget is also exported on its own: the parser
// consults it before treating a following assignment operator as an
// assignment at all.
func FinalizeAssign(lhs, rhs Expr) (types.Type, bool) {
	if !ValidAssignTarget(lhs) {
		return types.Void, false
	}
	if lhs.Type() != rhs.Type() {
		return types.Void, false
	}
	return lhs.Type(), true
}

// ValidAssignTarget reports whether e is a legal assignment lvalue:
// IdentRef or ArraySubscript only.
func ValidAssignTarget(e Expr) bool {
	switch e.(type) {
	case *IdentRef, *ArraySubscript:
		return true
	default:
		return false
	}
}
