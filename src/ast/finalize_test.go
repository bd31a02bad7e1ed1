package ast

import (
	"testing"

	"minicc/src/types"
)

func lit(t types.Type) Expr {
	e := &IntLit{}
	e.SetType(t)
	return e
}

func TestFinalizeMath(t *testing.T) {
	if _, ok := FinalizeMath(lit(types.Int), lit(types.Int)); !ok {
		t.Error("int + int should finalize")
	}
	if _, ok := FinalizeMath(lit(types.Double), lit(types.Int)); ok {
		t.Error("double + int should not finalize per spec.md's literal rule")
	}
}

func TestFinalizeLogicalAndCompareRequireInt(t *testing.T) {
	if _, ok := FinalizeLogical(lit(types.Char), lit(types.Int)); ok {
		t.Error("logical op on non-int operand should fail")
	}
	if _, ok := FinalizeCompare(lit(types.Int), lit(types.Int)); !ok {
		t.Error("int comparison should succeed")
	}
}

func TestFinalizeAssignRequiresLvalueAndMatchingTypes(t *testing.T) {
	id := &IdentRef{}
	id.SetType(types.Int)
	if _, ok := FinalizeAssign(id, lit(types.Int)); !ok {
		t.Error("assigning matching int to IdentRef should succeed")
	}
	if _, ok := FinalizeAssign(id, lit(types.Double)); ok {
		t.Error("assigning mismatched type should fail")
	}
	notLvalue := lit(types.Int)
	if _, ok := FinalizeAssign(notLvalue, lit(types.Int)); ok {
		t.Error("assigning to a non-lvalue expression should fail")
	}
}

func TestValidAssignTarget(t *testing.T) {
	sub := &ArraySubscript{}
	if !ValidAssignTarget(sub) {
		t.Error("ArraySubscript should be a valid assignment target")
	}
	call := &FunctionCall{}
	if ValidAssignTarget(call) {
		t.Error("FunctionCall should not be a valid assignment target")
	}
}
