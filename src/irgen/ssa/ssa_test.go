package ssa

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"

	"minicc/src/symbol"
)

func newFunc() (*ir.Module, *ir.Func) {
	m := ir.NewModule()
	f := m.NewFunc("f", lltypes.I32)
	return m, f
}

func TestReadOwnWriteInSameBlock(t *testing.T) {
	_, f := newFunc()
	b := NewBuilder()
	entry := f.NewBlock("entry")
	b.AddBlock(entry)
	b.SealBlock(entry)

	v := &symbol.Identifier{Name: "x"}
	c := constant.NewInt(lltypes.I32, 42)
	b.WriteVariable(v, entry, c)

	if got := b.ReadVariable(v, entry); got != value(c) {
		t.Errorf("expected to read back the written constant, got %v", got)
	}
}

func TestReadAcrossSingleSealedPredecessor(t *testing.T) {
	_, f := newFunc()
	b := NewBuilder()
	entry := f.NewBlock("entry")
	next := f.NewBlock("next")
	b.AddBlock(entry)
	b.AddBlock(next)
	b.SealBlock(entry)
	b.AddPred(next, entry)
	b.SealBlock(next)

	v := &symbol.Identifier{Name: "x"}
	c := constant.NewInt(lltypes.I32, 7)
	b.WriteVariable(v, entry, c)

	if got := b.ReadVariable(v, next); got != value(c) {
		t.Errorf("expected single-predecessor read to forward the value, got %v", got)
	}
}

func TestReadAtMergePointInsertsPhi(t *testing.T) {
	_, f := newFunc()
	b := NewBuilder()
	entry := f.NewBlock("entry")
	left := f.NewBlock("left")
	right := f.NewBlock("right")
	merge := f.NewBlock("merge")
	for _, blk := range []*ir.Block{entry, left, right, merge} {
		b.AddBlock(blk)
	}
	b.SealBlock(entry)
	b.AddPred(left, entry)
	b.AddPred(right, entry)
	b.SealBlock(left)
	b.SealBlock(right)

	v := &symbol.Identifier{Name: "x"}
	b.WriteVariable(v, left, constant.NewInt(lltypes.I32, 1))
	b.WriteVariable(v, right, constant.NewInt(lltypes.I32, 2))

	b.AddPred(merge, left)
	b.AddPred(merge, right)
	b.SealBlock(merge)

	got := b.ReadVariable(v, merge)
	phi, ok := got.(*ir.InstPhi)
	if !ok {
		t.Fatalf("expected a phi merging two distinct values, got %T", got)
	}
	if len(phi.Incs) != 2 {
		t.Errorf("expected 2 incoming values, got %d", len(phi.Incs))
	}
}

func TestTrivialPhiAtSingleSealedPredecessorIsElided(t *testing.T) {
	_, f := newFunc()
	b := NewBuilder()
	entry := f.NewBlock("entry")
	loop := f.NewBlock("loop")
	b.AddBlock(entry)
	b.AddBlock(loop)
	b.SealBlock(entry)

	v := &symbol.Identifier{Name: "i"}
	c := constant.NewInt(lltypes.I32, 0)
	b.WriteVariable(v, entry, c)

	b.AddPred(loop, entry)
	b.SealBlock(loop)

	// A single predecessor never needs a phi, trivial or otherwise.
	if got := b.ReadVariable(v, loop); got != value(c) {
		t.Errorf("expected the single predecessor's value, got %v", got)
	}
}

// value normalizes a constant.Constant to the value.Value interface so
// reference comparisons in the assertions above are meaningful.
func value(c constant.Constant) interface{} { return c }
