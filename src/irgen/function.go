package irgen

import (
	"github.com/llir/llvm/ir"

	"minicc/src/ast"
	"minicc/src/types"
	"minicc/src/util"
)

// genFuncBody emits f's entry block, binds its parameters (array
// parameters as the incoming pointer, scalars into the SSA builder), walks
// the body, and closes any still-open block with an implicit return.
func (g *Generator) genFuncBody(fn *ast.Function, f *ir.Func) error {
	g.curFunc = f
	g.ssa.Reset()
	g.labels = &util.LabelGen{}

	entry := f.NewBlock(g.labels.Next(util.LabelEntry))
	g.ssa.AddBlock(entry)
	g.cur = entry

	for i, a := range fn.Args {
		if a.Ident.Type.IsArray() {
			a.Ident.IRHandle = f.Params[i]
			continue
		}
		g.ssa.WriteVariable(a.Ident, entry, f.Params[i])
	}
	g.ssa.SealBlock(entry)

	if err := g.genStmt(fn.Body); err != nil {
		return err
	}

	if g.cur.Term == nil {
		if fn.RetType == types.Void {
			g.cur.NewRet(nil)
		} else {
			g.cur.NewRet(zeroValue(fn.RetType))
		}
	}
	return nil
}
