package symbol

import (
	"testing"

	"minicc/src/types"
)

func TestPrepopulatedSentinelsAndPrintf(t *testing.T) {
	tab := NewTable()
	if _, ok := tab.GetIdentifier(DummyVariable); !ok {
		t.Error("expected @@variable to be pre-bound")
	}
	if _, ok := tab.GetIdentifier(DummyFunction); !ok {
		t.Error("expected @@function to be pre-bound")
	}
	pf, ok := tab.GetIdentifier("printf")
	if !ok || pf.Type != types.Function {
		t.Error("expected printf to be pre-bound as Function")
	}
}

func TestRedeclarationInSameScopeFails(t *testing.T) {
	tab := NewTable()
	if _, ok := tab.CreateIdentifier("x", types.Int); !ok {
		t.Fatal("first declaration of x should succeed")
	}
	if _, ok := tab.CreateIdentifier("x", types.Int); ok {
		t.Error("redeclaration of x in same scope should fail")
	}
}

func TestNestedScopeShadowingAndExit(t *testing.T) {
	tab := NewTable()
	tab.CreateIdentifier("x", types.Int)
	tab.EnterScope()
	if _, ok := tab.CreateIdentifier("x", types.Double); !ok {
		t.Fatal("shadowing declaration in child scope should succeed")
	}
	id, _ := tab.GetIdentifier("x")
	if id.Type != types.Double {
		t.Errorf("expected shadowed x to be double, got %s", id.Type)
	}
	tab.ExitScope()
	id, _ = tab.GetIdentifier("x")
	if id.Type != types.Int {
		t.Errorf("expected outer x to be int after exit, got %s", id.Type)
	}
}

func TestGetIdentifierWalksParents(t *testing.T) {
	tab := NewTable()
	tab.CreateIdentifier("outer", types.Char)
	tab.EnterScope()
	tab.EnterScope()
	if _, ok := tab.GetIdentifier("outer"); !ok {
		t.Error("expected lookup to walk up through ancestor scopes")
	}
	if _, ok := tab.GetIdentifier("nonexistent"); ok {
		t.Error("expected lookup of undeclared name to fail")
	}
}

func TestExitScopeRetainsChildForLaterPasses(t *testing.T) {
	tab := NewTable()
	child := tab.EnterScope()
	tab.CreateIdentifier("y", types.Int)
	tab.ExitScope()
	// The child scope is still owned by its parent and can be re-entered.
	tab.EnterExistingScope(child)
	if _, ok := tab.GetIdentifier("y"); !ok {
		t.Error("expected child scope contents to survive exit")
	}
}

func TestExitGlobalScopePanics(t *testing.T) {
	tab := NewTable()
	defer func() {
		if recover() == nil {
			t.Error("expected exiting the global scope to panic")
		}
	}()
	tab.ExitScope()
}
