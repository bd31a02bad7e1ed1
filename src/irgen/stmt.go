package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"minicc/src/ast"
	"minicc/src/util"
)

// newBlock allocates a fresh block in the function currently being emitted,
// naming it with the next unique label of the given kind (util.LabelGen
// numbers repeats — a function with two if-statements gets "if.then" and
// "if.then1" rather than two blocks sharing one label), and registers it
// with the SSA builder so any variable read inside it can fall back to
// readVariableRecursive.
func (g *Generator) newBlock(kind int) *ir.Block {
	b := g.curFunc.NewBlock(g.labels.Next(kind))
	g.ssa.AddBlock(b)
	return b
}

// branch emits an unconditional jump from the current block to target,
// unless the current block already has a terminator (e.g. an earlier
// return made the rest of the block unreachable).
func (g *Generator) branch(target *ir.Block) {
	if g.cur.Term == nil {
		g.cur.NewBr(target)
		g.ssa.AddPred(target, g.cur)
	}
}

// genCond lowers an Int-typed condition expression to the i1 the SSA IR's
// branch terminators require (spec's source language has no separate
// boolean type; zero/nonzero Int doubles as false/true).
func (g *Generator) genCond(e ast.Expr) value.Value {
	v := g.genExpr(e)
	return g.cur.NewICmp(enum.IPredNE, v, constant.NewInt(i32(), 0))
}

func (g *Generator) genStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Compound:
		return g.genCompound(n)
	case *ast.Declaration:
		return g.genDeclaration(n)
	case *ast.If:
		return g.genIf(n)
	case *ast.While:
		return g.genWhile(n)
	case *ast.For:
		return g.genFor(n)
	case *ast.Return:
		return g.genReturn(n)
	case *ast.ExprStmt:
		g.genExpr(n.X)
		return nil
	case *ast.Null:
		return nil
	default:
		return nil
	}
}

func (g *Generator) genCompound(n *ast.Compound) error {
	for _, s := range n.Stmts {
		if err := g.genStmt(s); err != nil {
			return err
		}
	}
	return nil
}

// genDeclaration allocates storage for an array-typed local (a stack slot
// sized to its element count, with its element bytes stored in if a
// char-array string initializer is present) or, for a scalar, writes its
// initial SSA value directly (spec §4.H: scalars never get a stack slot).
func (g *Generator) genDeclaration(n *ast.Declaration) error {
	id := n.Ident
	if id.Type.IsArray() {
		elemType := llType(id.Type.ElementType())
		arrType := arrayType(elemType, id.ElemCount)
		slot := g.cur.NewAlloca(arrType)
		// Decay the [n x elem]* alloca to an elem* immediately, so every
		// array-typed identifier — local or parameter — is represented
		// uniformly as a pointer to its first element (spec §4.G design
		// note: "subscripting never needs to know whether its base came
		// from a stack slot or a parameter register").
		zero := constant.NewInt(i32(), 0)
		decayed := g.cur.NewGetElementPtr(arrType, slot, zero, zero)
		id.IRHandle = decayed
		if sl, ok := n.Init.(*ast.StringLit); ok {
			g.storeStringLiteral(decayed, sl)
		}
		return nil
	}
	var v value.Value
	if n.Init != nil {
		v = g.genExpr(n.Init)
	} else {
		v = zeroValue(id.Type)
	}
	g.ssa.WriteVariable(id, g.cur, v)
	return nil
}

// storeStringLiteral copies an interned string's bytes (plus its implicit
// NUL terminator) into a freshly allocated char-array slot, one byte-sized
// store per element (spec §4.F design note on char-array initializers:
// "the array owns a private copy, not an alias of the interned constant").
func (g *Generator) storeStringLiteral(basePtr value.Value, sl *ast.StringLit) {
	text := g.strs.Text(sl.Handle)
	bytes := append([]byte(text), 0)
	for i, b := range bytes {
		idx := constant.NewInt(i32(), int64(i))
		ptr := g.cur.NewGetElementPtr(i8(), basePtr, idx)
		g.cur.NewStore(constant.NewInt(i8(), int64(b)), ptr)
	}
}

func (g *Generator) genIf(n *ast.If) error {
	cond := g.genCond(n.Cond)
	thenBlk := g.newBlock(util.LabelIfThen)
	mergeBlk := g.newBlock(util.LabelIfEnd)

	var elseBlk *ir.Block
	if n.Else != nil {
		elseBlk = g.newBlock(util.LabelIfElse)
		g.cur.NewCondBr(cond, thenBlk, elseBlk)
		g.ssa.AddPred(thenBlk, g.cur)
		g.ssa.AddPred(elseBlk, g.cur)
	} else {
		g.cur.NewCondBr(cond, thenBlk, mergeBlk)
		g.ssa.AddPred(thenBlk, g.cur)
		g.ssa.AddPred(mergeBlk, g.cur)
	}

	g.cur = thenBlk
	g.ssa.SealBlock(thenBlk)
	if err := g.genStmt(n.Then); err != nil {
		return err
	}
	g.branch(mergeBlk)

	if n.Else != nil {
		g.cur = elseBlk
		g.ssa.SealBlock(elseBlk)
		if err := g.genStmt(n.Else); err != nil {
			return err
		}
		g.branch(mergeBlk)
	}

	g.cur = mergeBlk
	g.ssa.SealBlock(mergeBlk)
	return nil
}

func (g *Generator) genWhile(n *ast.While) error {
	headBlk := g.newBlock(util.LabelWhileCond)
	bodyBlk := g.newBlock(util.LabelWhileBody)
	exitBlk := g.newBlock(util.LabelWhileEnd)

	g.branch(headBlk)

	g.cur = headBlk
	cond := g.genCond(n.Cond)
	g.cur.NewCondBr(cond, bodyBlk, exitBlk)
	g.ssa.AddPred(bodyBlk, g.cur)
	g.ssa.AddPred(exitBlk, g.cur)

	g.cur = bodyBlk
	g.ssa.SealBlock(bodyBlk)
	if err := g.genStmt(n.Body); err != nil {
		return err
	}
	g.branch(headBlk)
	g.ssa.SealBlock(headBlk) // All predecessors (pre-loop + back-edge) now known.

	g.cur = exitBlk
	g.ssa.SealBlock(exitBlk)
	return nil
}

func (g *Generator) genFor(n *ast.For) error {
	if n.Init != nil {
		if err := g.genStmt(n.Init); err != nil {
			return err
		}
	}

	headBlk := g.newBlock(util.LabelForCond)
	bodyBlk := g.newBlock(util.LabelForBody)
	exitBlk := g.newBlock(util.LabelForEnd)

	g.branch(headBlk)

	g.cur = headBlk
	if n.Cond != nil {
		cond := g.genCond(n.Cond)
		g.cur.NewCondBr(cond, bodyBlk, exitBlk)
		g.ssa.AddPred(bodyBlk, g.cur)
		g.ssa.AddPred(exitBlk, g.cur)
	} else {
		g.branch(bodyBlk)
	}

	g.cur = bodyBlk
	g.ssa.SealBlock(bodyBlk)
	if err := g.genStmt(n.Body); err != nil {
		return err
	}
	if n.Update != nil {
		g.genExpr(n.Update)
	}
	g.branch(headBlk)
	g.ssa.SealBlock(headBlk)

	g.cur = exitBlk
	g.ssa.SealBlock(exitBlk)
	return nil
}

func (g *Generator) genReturn(n *ast.Return) error {
	if n.Value == nil {
		g.cur.NewRet(nil)
		return nil
	}
	v := g.genExpr(n.Value)
	g.cur.NewRet(v)
	return nil
}

