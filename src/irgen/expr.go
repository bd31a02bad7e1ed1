package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"minicc/src/ast"
	"minicc/src/symbol"
	"minicc/src/util"
)

// genExpr lowers one expression node to the SSA value it evaluates to,
// dispatching on the closed set of concrete Expr types (spec §4.G).
func (g *Generator) genExpr(e ast.Expr) value.Value {
	switch n := e.(type) {
	case *ast.IntLit:
		return constant.NewInt(i32(), int64(n.Value))
	case *ast.DoubleLit:
		return constant.NewFloat(doubleType(), n.Value)
	case *ast.CharLit:
		return constant.NewInt(i8(), int64(n.Value))
	case *ast.StringLit:
		return g.decayGlobalString(g.strs.Global(n.Handle).(*ir.Global))
	case *ast.IdentRef:
		return g.genIdentRef(n)
	case *ast.ArraySubscript:
		addr := g.genElemAddr(n)
		return g.cur.NewLoad(llType(n.Type()), addr)
	case *ast.FunctionCall:
		return g.genCall(n)
	case *ast.Assign:
		return g.genAssign(n)
	case *ast.LogicalAnd:
		return g.genLogicalAnd(n)
	case *ast.LogicalOr:
		return g.genLogicalOr(n)
	case *ast.BinaryCmp:
		return g.genCmp(n)
	case *ast.BinaryMath:
		return g.genMath(n)
	case *ast.Not:
		v := g.genExpr(n.X)
		bit := g.cur.NewICmp(enum.IPredEQ, v, constant.NewInt(i32(), 0))
		return g.cur.NewZExt(bit, i32())
	case *ast.PreIncrement:
		return g.genPreStep(n.Ident, 1)
	case *ast.PreDecrement:
		return g.genPreStep(n.Ident, -1)
	case *ast.AddrOfArrayElement:
		return g.genAddrOf(n)
	default:
		return constant.NewInt(i32(), 0)
	}
}

func (g *Generator) genIdentRef(n *ast.IdentRef) value.Value {
	if n.Ident.Type.IsArray() {
		return n.Ident.IRHandle.(value.Value)
	}
	return g.ssa.ReadVariable(n.Ident, g.cur)
}

// genElemAddr computes the address of id[index] by GEP-ing off the
// identifier's decayed element pointer (spec §3 ArraySubscript's "memoized
// element location slot" — Addr caches the computed address so a
// compound-assignment's read and write of the same element share one GEP).
func (g *Generator) genElemAddr(n *ast.ArraySubscript) value.Value {
	if n.Addr != nil {
		return n.Addr.(value.Value)
	}
	base := n.Array.IRHandle.(value.Value)
	idx := g.genExpr(n.Index)
	addr := g.cur.NewGetElementPtr(llType(n.Array.Type.ElementType()), base, idx)
	n.Addr = addr
	return addr
}

func (g *Generator) genAddrOf(n *ast.AddrOfArrayElement) value.Value {
	base := n.Array.IRHandle.(value.Value)
	idx := g.genExpr(n.Index)
	return g.cur.NewGetElementPtr(llType(n.Array.Type.ElementType()), base, idx)
}

func (g *Generator) genCall(n *ast.FunctionCall) value.Value {
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = g.genExpr(a)
	}
	if n.Callee.Name == "printf" {
		return g.cur.NewCall(g.printf, args...)
	}
	callee := handleOf(n.Callee)
	return g.cur.NewCall(callee, args...)
}

// genAssign lowers `lhs = rhs`, `lhs += rhs`, and `lhs -= rhs`. A scalar
// lhs writes straight into the SSA builder; an array-element lhs stores
// through its computed address.
func (g *Generator) genAssign(n *ast.Assign) value.Value {
	rhs := g.genExpr(n.RHS)

	switch lhs := n.LHS.(type) {
	case *ast.IdentRef:
		val := rhs
		if n.Op != ast.OpAssign {
			old := g.ssa.ReadVariable(lhs.Ident, g.cur)
			val = g.combine(n.Op, old, rhs)
		}
		g.ssa.WriteVariable(lhs.Ident, g.cur, val)
		return val
	case *ast.ArraySubscript:
		addr := g.genElemAddr(lhs)
		val := rhs
		if n.Op != ast.OpAssign {
			old := g.cur.NewLoad(llType(lhs.Type()), addr)
			val = g.combine(n.Op, old, rhs)
		}
		g.cur.NewStore(val, addr)
		return val
	default:
		return rhs
	}
}

func (g *Generator) combine(op ast.AssignOp, old, rhs value.Value) value.Value {
	if op == ast.OpMinusAssign {
		return g.cur.NewSub(old, rhs)
	}
	return g.cur.NewAdd(old, rhs)
}

func (g *Generator) genCmp(n *ast.BinaryCmp) value.Value {
	lhs := g.genExpr(n.LHS)
	rhs := g.genExpr(n.RHS)
	pred := cmpPredicates[n.Op]
	bit := g.cur.NewICmp(pred, lhs, rhs)
	return g.cur.NewZExt(bit, i32())
}

var cmpPredicates = map[ast.CmpOp]enum.IPred{
	ast.OpEq: enum.IPredEQ, ast.OpNe: enum.IPredNE,
	ast.OpLt: enum.IPredSLT, ast.OpLe: enum.IPredSLE,
	ast.OpGt: enum.IPredSGT, ast.OpGe: enum.IPredSGE,
}

func (g *Generator) genMath(n *ast.BinaryMath) value.Value {
	lhs := g.genExpr(n.LHS)
	rhs := g.genExpr(n.RHS)
	switch n.Op {
	case ast.OpAdd:
		return g.cur.NewAdd(lhs, rhs)
	case ast.OpSub:
		return g.cur.NewSub(lhs, rhs)
	case ast.OpMul:
		return g.cur.NewMul(lhs, rhs)
	case ast.OpDiv:
		return g.cur.NewSDiv(lhs, rhs)
	default: // ast.OpMod
		return g.cur.NewSRem(lhs, rhs)
	}
}

// genLogicalAnd lowers `lhs && rhs` with short-circuit evaluation: rhs is
// only evaluated in a block reachable solely when lhs is truthy, and the
// result merges through a phi rather than being computed unconditionally
// (spec §4.G: "&&/|| must not evaluate their right operand when the result
// is already determined by the left one").
func (g *Generator) genLogicalAnd(n *ast.LogicalAnd) value.Value {
	lhsVal := g.genExpr(n.LHS)
	lhsBit := g.cur.NewICmp(enum.IPredNE, lhsVal, constant.NewInt(i32(), 0))
	startBlk := g.cur

	rhsBlk := g.newBlock(util.LabelAndRHS)
	mergeBlk := g.newBlock(util.LabelAndEnd)
	g.cur.NewCondBr(lhsBit, rhsBlk, mergeBlk)
	g.ssa.AddPred(rhsBlk, startBlk)
	g.ssa.AddPred(mergeBlk, startBlk)

	g.cur = rhsBlk
	g.ssa.SealBlock(rhsBlk)
	rhsVal := g.genExpr(n.RHS)
	rhsBit := g.cur.NewICmp(enum.IPredNE, rhsVal, constant.NewInt(i32(), 0))
	rhsZext := g.cur.NewZExt(rhsBit, i32())
	rhsEndBlk := g.cur
	g.branch(mergeBlk)

	g.cur = mergeBlk
	g.ssa.SealBlock(mergeBlk)
	return mergeBlk.NewPhi(
		ir.NewIncoming(constant.NewInt(i32(), 0), startBlk),
		ir.NewIncoming(rhsZext, rhsEndBlk),
	)
}

func (g *Generator) genLogicalOr(n *ast.LogicalOr) value.Value {
	lhsVal := g.genExpr(n.LHS)
	lhsBit := g.cur.NewICmp(enum.IPredNE, lhsVal, constant.NewInt(i32(), 0))
	startBlk := g.cur

	rhsBlk := g.newBlock(util.LabelOrRHS)
	mergeBlk := g.newBlock(util.LabelOrEnd)
	g.cur.NewCondBr(lhsBit, mergeBlk, rhsBlk)
	g.ssa.AddPred(mergeBlk, startBlk)
	g.ssa.AddPred(rhsBlk, startBlk)

	g.cur = rhsBlk
	g.ssa.SealBlock(rhsBlk)
	rhsVal := g.genExpr(n.RHS)
	rhsBit := g.cur.NewICmp(enum.IPredNE, rhsVal, constant.NewInt(i32(), 0))
	rhsZext := g.cur.NewZExt(rhsBit, i32())
	rhsEndBlk := g.cur
	g.branch(mergeBlk)

	g.cur = mergeBlk
	g.ssa.SealBlock(mergeBlk)
	return mergeBlk.NewPhi(
		ir.NewIncoming(constant.NewInt(i32(), 1), startBlk),
		ir.NewIncoming(rhsZext, rhsEndBlk),
	)
}

// genPreStep lowers `++id`/`--id`: read, add/subtract 1, write back, and
// yield the updated value (the grammar has no post-increment form).
func (g *Generator) genPreStep(id *symbol.Identifier, delta int64) value.Value {
	old := g.ssa.ReadVariable(id, g.cur)
	next := g.cur.NewAdd(old, constant.NewInt(i32(), delta))
	g.ssa.WriteVariable(id, g.cur, next)
	return next
}
