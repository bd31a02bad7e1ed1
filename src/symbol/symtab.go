// symtab.go implements the symbol table façade: a cursor over the scope
// tree's currently active scope, plus the four operations the spec names
// (enterScope, exitScope, createIdentifier, getIdentifier) and
// isDeclaredInScope.
package symbol

import "minicc/src/types"

// Table is the symbol table façade used by the parser. It owns a Tree and a
// cursor to the active scope.
type Table struct {
	Tree   *Tree
	cursor ScopeID
}

// NewTable returns a symbol table with a freshly pre-populated global scope
// and a cursor pointing at it, plus the built-in printf binding (Function
// type; call-site checks special-case its variadic signature).
func NewTable() *Table {
	tree := NewTree()
	tab := &Table{Tree: tree, cursor: tree.Global()}
	printf := &Identifier{Name: "printf", Type: types.Function, FuncIndex: -1}
	tree.declare(tree.Global(), "printf", printf)
	return tab
}

// Current returns the active scope's handle.
func (t *Table) Current() ScopeID {
	return t.cursor
}

// EnterScope pushes a fresh child scope of the current scope and moves the
// cursor into it. O(1).
func (t *Table) EnterScope() ScopeID {
	child := t.Tree.NewChild(t.cursor)
	t.cursor = child
	return child
}

// EnterExistingScope moves the cursor into an already-allocated scope, so
// a scope that has been exited can be revisited. The parser does not call
// it: a function body shares the argument scope because parseFunction
// parses it with parseCompoundAsBody, which pushes no scope of its own.
func (t *Table) EnterExistingScope(s ScopeID) {
	t.cursor = s
}

// ExitScope moves the cursor to the parent scope. It panics if called on
// the global scope, since that would underflow past the root — a compiler
// invariant violation, not a recoverable source error.
func (t *Table) ExitScope() {
	p, ok := t.Tree.Parent(t.cursor)
	if !ok {
		panic("symbol: exitScope underflowed the global scope")
	}
	t.cursor = p
}

// CreateIdentifier allocates name in the current scope. It returns
// (nil, false) if name is already bound in the current scope (spec
// invariant I7); the caller then emits a diagnostic and substitutes one of
// the dummy identifiers.
func (t *Table) CreateIdentifier(name string, typ types.Type) (*Identifier, bool) {
	id := &Identifier{Name: name, Type: typ, FuncIndex: -1}
	if !t.Tree.declare(t.cursor, name, id) {
		return nil, false
	}
	return id, true
}

// GetIdentifier searches the current scope then walks parents. It returns
// (nil, false) if name is not found anywhere in the chain; the caller
// substitutes @@variable and emits a diagnostic.
func (t *Table) GetIdentifier(name string) (*Identifier, bool) {
	return t.Tree.lookup(t.cursor, name)
}

// IsDeclaredInScope checks only the current scope. Declaration parsing does
// not call it; it detects redeclaration from CreateIdentifier's result.
func (t *Table) IsDeclaredInScope(name string) bool {
	_, ok := t.Tree.lookupLocal(t.cursor, name)
	return ok
}
