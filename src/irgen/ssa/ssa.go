// Package ssa implements direct-to-SSA construction for scalar variables,
// following Braun, Buchwald, Hack, Leißa, Mehne and Zwinkau's "Simple and
// Efficient Construction of Static Single Assignment Form": variable reads
// and writes are tracked per basic block instead of being lowered through
// stack slots, incomplete phi nodes absorb reads that occur before all of a
// block's predecessors are known, and sealing a block (once all its
// predecessors have been added) resolves those phis in one pass.
//
// The irgen package drives this package one function at a time: Reset is
// called at the start of every function body, mirroring the reference
// compiler's per-function symbol table reset (spec §4.H design note: "SSA
// construction state does not persist across function boundaries").
package ssa

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"minicc/src/symbol"
)

// Builder tracks the per-block variable definitions, the sealed-block set,
// and any phi nodes left incomplete because their block was not yet sealed
// when a read forced their creation.
type Builder struct {
	defs           map[*ir.Block]map[*symbol.Identifier]value.Value
	incompletePhis map[*ir.Block]map[*symbol.Identifier]*ir.InstPhi
	sealed         map[*ir.Block]bool
	preds          map[*ir.Block][]*ir.Block
}

// NewBuilder returns a Builder ready for its first function.
func NewBuilder() *Builder {
	b := &Builder{}
	b.Reset()
	return b
}

// Reset discards all per-function bookkeeping, called once before emitting
// each new function body.
func (b *Builder) Reset() {
	b.defs = make(map[*ir.Block]map[*symbol.Identifier]value.Value)
	b.incompletePhis = make(map[*ir.Block]map[*symbol.Identifier]*ir.InstPhi)
	b.sealed = make(map[*ir.Block]bool)
	b.preds = make(map[*ir.Block][]*ir.Block)
}

// AddBlock registers a newly created block with the builder before any
// variable is written or read in it.
func (b *Builder) AddBlock(blk *ir.Block) {
	b.defs[blk] = make(map[*symbol.Identifier]value.Value)
	b.incompletePhis[blk] = make(map[*symbol.Identifier]*ir.InstPhi)
	b.sealed[blk] = false
}

// AddPred records that pred is a control-flow predecessor of blk. Every
// predecessor must be added before blk is sealed.
func (b *Builder) AddPred(blk, pred *ir.Block) {
	b.preds[blk] = append(b.preds[blk], pred)
}

// WriteVariable binds v to val at the end of blk.
func (b *Builder) WriteVariable(v *symbol.Identifier, blk *ir.Block, val value.Value) {
	b.defs[blk][v] = val
}

// ReadVariable returns the value v holds at the end of blk, recursing up
// through predecessors (and inserting phis at merge points) when blk itself
// has no local definition.
func (b *Builder) ReadVariable(v *symbol.Identifier, blk *ir.Block) value.Value {
	if val, ok := b.defs[blk][v]; ok {
		return val
	}
	return b.readVariableRecursive(v, blk)
}

func (b *Builder) readVariableRecursive(v *symbol.Identifier, blk *ir.Block) value.Value {
	var val value.Value
	switch {
	case !b.sealed[blk]:
		// blk isn't sealed yet: some predecessor is still unknown, so a
		// phi is created now and filled in later by SealBlock.
		phi := newPhi(blk)
		b.incompletePhis[blk][v] = phi
		val = phi
	case len(b.preds[blk]) == 1:
		val = b.ReadVariable(v, b.preds[blk][0])
	default:
		// Break potential cycles (e.g. a loop variable read inside its own
		// loop body) by writing the phi before recursing into predecessors.
		phi := newPhi(blk)
		b.WriteVariable(v, blk, phi)
		val = b.addPhiOperands(v, phi, blk)
	}
	b.WriteVariable(v, blk, val)
	return val
}

func (b *Builder) addPhiOperands(v *symbol.Identifier, phi *ir.InstPhi, blk *ir.Block) value.Value {
	for _, pred := range b.preds[blk] {
		operand := b.ReadVariable(v, pred)
		phi.Incs = append(phi.Incs, ir.NewIncoming(operand, pred))
	}
	return b.tryRemoveTrivialPhi(phi, blk)
}

// tryRemoveTrivialPhi collapses a phi that merges only itself and one other
// distinct value: the phi instruction is spliced back out of blk (so it
// never reaches emitted IR as dead code, satisfying SSA minimality) and the
// single surviving operand is returned in its place for the caller to use
// and to cache under WriteVariable, rather than rewriting every existing use
// of the phi in place.
func (b *Builder) tryRemoveTrivialPhi(phi *ir.InstPhi, blk *ir.Block) value.Value {
	var same value.Value
	for _, inc := range phi.Incs {
		if inc.X == phi || inc.X == same {
			continue
		}
		if same != nil {
			return phi
		}
		same = inc.X
	}
	if same == nil {
		return phi
	}
	removeInst(blk, phi)
	return same
}

// SealBlock marks blk as having all its predecessors known, resolving
// every phi that a read forced into existence before that point.
func (b *Builder) SealBlock(blk *ir.Block) {
	for v, phi := range b.incompletePhis[blk] {
		b.addPhiOperands(v, phi, blk)
	}
	b.sealed[blk] = true
}

// newPhi creates a phi instruction and splices it in ahead of any non-phi
// instruction already emitted into blk. Unlike Block.NewPhi (which always
// appends), this keeps LLVM's "phis precede all other instructions in a
// block" rule intact even though this builder creates phis lazily — a read
// of a loop variable partway through lowering a condition expression must
// not land its phi after the non-phi instructions that expression already
// emitted into the same block.
func newPhi(blk *ir.Block) *ir.InstPhi {
	phi := ir.NewPhi()
	i := 0
	for i < len(blk.Insts) {
		if _, ok := blk.Insts[i].(*ir.InstPhi); !ok {
			break
		}
		i++
	}
	blk.Insts = append(blk.Insts, nil)
	copy(blk.Insts[i+1:], blk.Insts[i:])
	blk.Insts[i] = phi
	return phi
}

// removeInst splices phi back out of blk's instruction list.
func removeInst(blk *ir.Block, phi *ir.InstPhi) {
	for i, inst := range blk.Insts {
		if inst == ir.Instruction(phi) {
			blk.Insts = append(blk.Insts[:i], blk.Insts[i+1:]...)
			return
		}
	}
}
