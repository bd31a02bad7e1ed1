// Package irgen implements IR construction (spec component G): a post-order
// walk of the AST that emits a generic SSA module, built directly in SSA
// form via the irgen/ssa package rather than through alloca-then-mem2reg,
// for every scalar source variable. Array-typed variables still get a
// stack slot, since their elements are addressed (and their address can
// escape via &id[expr]) in a way plain SSA renaming cannot express.
//
// Adapted from the reference compiler's ir/llvm package: the same
// gen-prefixed function-per-node-kind shape (genFuncHeader, genFuncBody,
// genExpression, ...) generalized from tinygo.org/x/go-llvm's cgo bindings
// to the pure-Go github.com/llir/llvm builder API, and from a parallel,
// multi-threaded global-definition pass (the original spawned one goroutine
// per util.Options.Threads) to the single-threaded walk this specification
// requires.
package irgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"

	"minicc/src/ast"
	"minicc/src/irgen/ssa"
	"minicc/src/strtab"
	"minicc/src/symbol"
	"minicc/src/types"
	"minicc/src/util"
)

// Generator holds the state threaded through one whole-program IR build.
type Generator struct {
	m       *ir.Module
	strs    *strtab.Table
	ssa     *ssa.Builder
	printf  *ir.Func
	cur     *ir.Block // Current basic block cursor.
	curFunc *ir.Func
	labels  *util.LabelGen // Per-function; reset in genFuncBody.
}

// Generate builds an LLVM-style SSA module from a parsed, semantically
// checked program. It assumes prog carries no diagnostics worth acting on;
// callers must check the parser's diag.Bag before calling this (spec §6:
// "IR emission never runs over a program with outstanding diagnostics").
func Generate(prog *ast.Program, strs *strtab.Table, needsPrintf bool) (*ir.Module, error) {
	g := &Generator{
		m:    ir.NewModule(),
		strs: strs,
		ssa:  ssa.NewBuilder(),
	}

	g.emitStringGlobals()
	if needsPrintf {
		g.printf = g.declarePrintf()
	}

	// Two passes over functions: headers first so forward/recursive calls
	// resolve to a real *ir.Func, then bodies (spec §4.G: "a function's
	// IRHandle is populated before any call site — including its own body —
	// is visited").
	handles := make([]*ir.Func, len(prog.Functions))
	for i, fn := range prog.Functions {
		f := g.declareFunc(fn)
		fn.Ident.IRHandle = f
		handles[i] = f
	}
	for i, fn := range prog.Functions {
		if err := g.genFuncBody(fn, handles[i]); err != nil {
			return nil, fmt.Errorf("function %s: %w", fn.Ident.Name, err)
		}
	}
	return g.m, nil
}

func (g *Generator) emitStringGlobals() {
	for i, rec := range g.strs.All() {
		data := append([]byte(rec.Text), 0) // NUL-terminate.
		init := constant.NewCharArrayFromString(string(data))
		name := fmt.Sprintf(".str.%d", i)
		glob := g.m.NewGlobalDef(name, init)
		glob.Immutable = true
		g.strs.SetGlobal(strtab.Handle(i), glob)
	}
}

func (g *Generator) declarePrintf() *ir.Func {
	f := g.m.NewFunc("printf", lltypes.I32, ir.NewParam("", lltypes.NewPointer(lltypes.I8)))
	f.Sig.Variadic = true
	return f
}

// declareFunc emits a function's signature only, so mutually- and
// self-recursive calls can already resolve to a concrete *ir.Func before
// any body is generated.
func (g *Generator) declareFunc(fn *ast.Function) *ir.Func {
	retType := llType(fn.RetType)
	params := make([]*ir.Param, len(fn.Args))
	for i, a := range fn.Args {
		params[i] = ir.NewParam(a.Ident.Name, llType(a.Ident.Type))
	}
	return g.m.NewFunc(fn.Ident.Name, retType, params...)
}

// llType maps the closed source type lattice onto the generic SSA IR's
// type system (spec §4.B/G). int maps to a 32-bit integer and char to an
// 8-bit one regardless of host architecture; the specification names no
// target triple, so there is no architecture-dependent width to pick
// between (a design decision recorded in DESIGN.md, unlike the reference
// compiler's util.Options.TargetArch switch between 32- and 64-bit widths).
func llType(t types.Type) lltypes.Type {
	switch t {
	case types.Int:
		return lltypes.I32
	case types.Char:
		return lltypes.I8
	case types.Double:
		return lltypes.Double
	case types.Void:
		return lltypes.Void
	case types.IntArray:
		return lltypes.NewPointer(lltypes.I32)
	case types.CharArray:
		return lltypes.NewPointer(lltypes.I8)
	case types.DoubleArray:
		return lltypes.NewPointer(lltypes.Double)
	default:
		return lltypes.Void
	}
}

func i32() *lltypes.IntType          { return lltypes.I32 }
func i8() *lltypes.IntType           { return lltypes.I8 }
func doubleType() *lltypes.FloatType { return lltypes.Double }

// decayGlobalString turns a pointer-to-[n x i8] global into a pointer to
// its first byte, the form every consumer (printf, an assignment to a char
// array variable) expects (spec §4.G: string literals used directly as an
// expression decay the same way a char-array variable's IRHandle already
// does).
func (g *Generator) decayGlobalString(glob *ir.Global) *ir.InstGetElementPtr {
	zero := constant.NewInt(i32(), 0)
	return g.cur.NewGetElementPtr(glob.ContentType, glob, zero, zero)
}

// arrayType builds the stack-slot type for an array-typed local: a fixed
// [n x elem] aggregate, sized from the declared or string-literal-derived
// element count (spec invariant I4).
func arrayType(elem lltypes.Type, n int) *lltypes.ArrayType {
	return lltypes.NewArray(uint64(n), elem)
}

func zeroValue(t types.Type) constant.Constant {
	switch t {
	case types.Double:
		return constant.NewFloat(lltypes.Double, 0)
	case types.Char:
		return constant.NewInt(lltypes.I8, 0)
	default:
		return constant.NewInt(lltypes.I32, 0)
	}
}

// handleOf retrieves the *ir.Func stashed on a Function-typed identifier by
// Generate's header pass.
func handleOf(id *symbol.Identifier) *ir.Func {
	f, _ := id.IRHandle.(*ir.Func)
	return f
}
