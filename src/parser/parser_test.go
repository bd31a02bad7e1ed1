package parser

import (
	"testing"

	"minicc/src/ast"
	"minicc/src/lexer"
	"minicc/src/types"
)

func parseSrc(t *testing.T, src string) (*ast.Program, *Parser) {
	t.Helper()
	toks := lexer.Lex(src)
	prog, p := Parse(toks, "test.mc")
	return prog, p
}

func TestParseSimpleFunction(t *testing.T) {
	prog, p := parseSrc(t, `int main() { return 0; }`)
	if p.Diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diags.All())
	}
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Ident.Name != "main" || fn.RetType != types.Int {
		t.Errorf("got %s -> %s, want main -> int", fn.Ident.Name, fn.RetType)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.Body.Stmts))
	}
	ret, ok := fn.Body.Stmts[0].(*ast.Return)
	if !ok {
		t.Fatalf("expected Return, got %T", fn.Body.Stmts[0])
	}
	lit, ok := ret.Value.(*ast.IntLit)
	if !ok || lit.Value != 0 {
		t.Errorf("expected IntLit 0, got %#v", ret.Value)
	}
}

func TestParseAssignmentVsExpressionStash(t *testing.T) {
	_, p := parseSrc(t, `
		int f() {
			int x;
			x = 1 + 2;
			x;
			return x;
		}`)
	if p.Diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diags.All())
	}
}

func TestParseUndeclaredIdentifierSubstitutesDummy(t *testing.T) {
	prog, p := parseSrc(t, `int f() { return y; }`)
	if p.Diags.Len() == 0 {
		t.Fatalf("expected an undeclared-identifier diagnostic")
	}
	ret := prog.Functions[0].Body.Stmts[0].(*ast.Return)
	ref, ok := ret.Value.(*ast.IdentRef)
	if !ok || !ref.Ident.IsDummy() {
		t.Errorf("expected a dummy identifier, got %#v", ret.Value)
	}
}

func TestParseRedeclarationInSameScope(t *testing.T) {
	_, p := parseSrc(t, `
		int f() {
			int x;
			int x;
			return 0;
		}`)
	if p.Diags.Len() == 0 {
		t.Fatalf("expected a redeclaration diagnostic")
	}
}

func TestParseArrayDeclarationAndSubscript(t *testing.T) {
	_, p := parseSrc(t, `
		int f() {
			int a[10];
			a[0] = 5;
			return a[0];
		}`)
	if p.Diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diags.All())
	}
}

func TestParseCharArrayStringInitializerSizesFromLength(t *testing.T) {
	prog, p := parseSrc(t, `
		int f() {
			char msg[] = "hi";
			return 0;
		}`)
	if p.Diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diags.All())
	}
	decl := prog.Functions[0].Body.Stmts[0].(*ast.Declaration)
	if decl.Ident.ElemCount != 3 {
		t.Errorf("expected element count 3 (2 chars + NUL), got %d", decl.Ident.ElemCount)
	}
}

func TestParseFunctionCallArgCountMismatch(t *testing.T) {
	_, p := parseSrc(t, `
		int add(int a, int b) { return a + b; }
		int main() { return add(1); }`)
	if p.Diags.Len() == 0 {
		t.Fatalf("expected an argument-count diagnostic")
	}
}

func TestParseRecursiveCallAllowed(t *testing.T) {
	_, p := parseSrc(t, `
		int fact(int n) {
			if (n == 0) { return 1; }
			return n * fact(n - 1);
		}`)
	if p.Diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics on valid recursive call: %v", p.Diags.All())
	}
}

func TestParseMainSignatureChecked(t *testing.T) {
	_, p := parseSrc(t, `void main(int x) { return; }`)
	if p.Diags.Len() == 0 {
		t.Fatalf("expected a diagnostic for malformed main signature")
	}
}

func TestParseMismatchedReturnType(t *testing.T) {
	_, p := parseSrc(t, `int f() { return; }`)
	if p.Diags.Len() == 0 {
		t.Fatalf("expected a diagnostic for missing return value")
	}
}

func TestParseForLoopScopesInitDeclaration(t *testing.T) {
	prog, p := parseSrc(t, `
		int f() {
			for (int i = 0; i < 10; i = i + 1) {
			}
			return 0;
		}`)
	if p.Diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diags.All())
	}
	fn := prog.Functions[0]
	loop := fn.Body.Stmts[0].(*ast.For)
	if loop.Scope == nil || *loop.Scope == fn.Scope {
		t.Errorf("expected the for loop to own a scope separate from the function's")
	}
}

func TestParseSyntaxErrorRecoversAtSemicolon(t *testing.T) {
	prog, p := parseSrc(t, `
		int f() {
			int x = ;
			return 0;
		}`)
	if p.Diags.Len() == 0 {
		t.Fatalf("expected a syntax diagnostic")
	}
	// Parsing should still recover and find the trailing return statement.
	body := prog.Functions[0].Body
	if len(body.Stmts) == 0 {
		t.Fatalf("expected recovery to preserve at least one statement")
	}
	if _, ok := body.Stmts[len(body.Stmts)-1].(*ast.Return); !ok {
		t.Errorf("expected the trailing return statement after recovery, got %T", body.Stmts[len(body.Stmts)-1])
	}
}

func TestParsePrintfVariadicCall(t *testing.T) {
	_, p := parseSrc(t, `
		int f() {
			char msg[] = "hi";
			printf(msg, 1, 2, 3);
			return 0;
		}`)
	if p.Diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diags.All())
	}
	if !p.NeedsPrintf {
		t.Errorf("expected NeedsPrintf to be set")
	}
}
