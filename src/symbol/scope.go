// scope.go implements the scope tree: an arena of Scope nodes, indexed by
// handle, with parent encoded as an index rather than a pointer. This
// follows the reference design note on scope tree parent links: ownership
// is parent-to-children only (the arena slice owns every Scope), and a
// child's back-reference to its parent is used solely for lookup, never for
// ownership, so the tree can be walked and retained by later passes after
// the parser has moved on.
package symbol

import "minicc/src/types"

// ScopeID indexes a Scope within a Tree's arena. The global scope is always
// ScopeID(0).
type ScopeID int

const noParent = ScopeID(-1)

// Scope is one node in the scope tree: a flat name-to-identifier mapping
// and a back-reference to its parent for lookup.
type Scope struct {
	parent   ScopeID
	children []ScopeID
	names    map[string]*Identifier
}

// Tree is the arena owning every Scope created during a parse. Scopes
// remain alive in the arena after their owning construct (a compound
// statement, a function body) has been exited, so later passes can revisit
// them via the handles stored on AST nodes.
type Tree struct {
	scopes []Scope
}

// NewTree creates a Tree with a single global scope (ScopeID 0) and
// pre-populates it with the two reserved sentinels, @@variable (Int) and
// @@function (Function). The built-in printf binding is added by NewTable,
// not here.
func NewTree() *Tree {
	t := &Tree{scopes: []Scope{{parent: noParent, names: make(map[string]*Identifier)}}}
	global := ScopeID(0)
	t.scopes[global].names[DummyVariable] = &Identifier{Name: DummyVariable, Type: types.Int, FuncIndex: -1}
	t.scopes[global].names[DummyFunction] = &Identifier{Name: DummyFunction, Type: types.Function, FuncIndex: -1}
	return t
}

// Global returns the root scope's handle.
func (t *Tree) Global() ScopeID {
	return ScopeID(0)
}

// NewChild allocates a fresh scope owned by parent and returns its handle.
// O(1), per the spec's enterScope complexity note.
func (t *Tree) NewChild(parent ScopeID) ScopeID {
	id := ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, Scope{parent: parent, names: make(map[string]*Identifier)})
	t.scopes[parent].children = append(t.scopes[parent].children, id)
	return id
}

// Parent returns the parent of s, or noParent for the global scope.
func (t *Tree) Parent(s ScopeID) (ScopeID, bool) {
	p := t.scopes[s].parent
	return p, p != noParent
}

// Children returns the child scopes of s in creation order.
func (t *Tree) Children(s ScopeID) []ScopeID {
	return t.scopes[s].children
}

// declare binds name to id within scope s. It returns false if name is
// already bound in s (spec invariant I7: a scope's name map has no
// duplicates).
func (t *Tree) declare(s ScopeID, name string, id *Identifier) bool {
	if _, exists := t.scopes[s].names[name]; exists {
		return false
	}
	t.scopes[s].names[name] = id
	return true
}

// lookupLocal searches only scope s.
func (t *Tree) lookupLocal(s ScopeID, name string) (*Identifier, bool) {
	id, ok := t.scopes[s].names[name]
	return id, ok
}

// lookup searches s and then every ancestor in turn.
func (t *Tree) lookup(s ScopeID, name string) (*Identifier, bool) {
	for cur := s; ; {
		if id, ok := t.scopes[cur].names[name]; ok {
			return id, true
		}
		p, ok := t.Parent(cur)
		if !ok {
			return nil, false
		}
		cur = p
	}
}
