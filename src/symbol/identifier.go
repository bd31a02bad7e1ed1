// Package symbol implements the scope-aware symbol model (spec component
// D): identifiers, a tree of nested scope tables, and a symbol table façade
// that tracks the currently active scope. It is shared by the parser
// (which populates it) and the IR builder (which reads it).
//
// Per the design note on cyclic references between scope and function
// nodes, an Identifier never holds a direct pointer to its ast.Function:
// ownership runs through the scope tree only, and the identifier instead
// carries FuncIndex, a non-owning index into the program's flat function
// table. This keeps the symbol package independent of the ast package.
package symbol

import "minicc/src/types"

// Reserved dummy identifier names. These sentinels absorb errors so parsing
// stays productive without cascading diagnostics (spec §3 Identifier,
// GLOSSARY "Dummy identifier").
const (
	DummyVariable = "@@variable"
	DummyFunction = "@@function"
)

// Identifier is one declared name: its type, optional array size, and (for
// Type == types.Function) a non-owning reference to its definition.
type Identifier struct {
	Name      string
	Type      types.Type
	ElemCount int // Array element count, or -1 for a parameter-supplied array, or 0 if not an array.
	FuncIndex int // Index into the program's function table when Type == types.Function; -1 otherwise.
	IRHandle  interface{} // Backing IR value (decayed array element pointer, array parameter, or function), filled in during emission; unused for scalars.
}

// IsDummy reports whether id is one of the reserved sentinel identifiers.
func (id *Identifier) IsDummy() bool {
	return id != nil && (id.Name == DummyVariable || id.Name == DummyFunction)
}
