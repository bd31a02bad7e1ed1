package irgen

import (
	"strings"
	"testing"

	"minicc/src/lexer"
	"minicc/src/parser"
)

func genSrc(t *testing.T, src string) string {
	t.Helper()
	toks := lexer.Lex(src)
	prog, p := parser.Parse(toks, "test.mc")
	if p.Diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", p.Diags.All())
	}
	m, err := Generate(prog, p.Strs, p.NeedsPrintf)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return m.String()
}

func TestGenerateScalarReturn(t *testing.T) {
	ir := genSrc(t, `int main() { return 42; }`)
	if !strings.Contains(ir, "ret i32 42") {
		t.Errorf("expected a direct constant return, got:\n%s", ir)
	}
}

func TestGenerateIfElseMergesThroughPhi(t *testing.T) {
	ir := genSrc(t, `
		int pick(int a) {
			int r;
			if (a) { r = 1; } else { r = 2; }
			return r;
		}
	`)
	if !strings.Contains(ir, "phi i32") {
		t.Errorf("expected a phi merging the two branches, got:\n%s", ir)
	}
}

func TestGenerateTwoIfStatementsGetDistinctLabels(t *testing.T) {
	ir := genSrc(t, `
		int pick(int a, int b) {
			int r;
			if (a) { r = 1; } else { r = 2; }
			if (b) { r = 3; } else { r = 4; }
			return r;
		}
	`)
	for _, label := range []string{"if.then:", "if.then1:", "if.else:", "if.else1:", "if.end:", "if.end1:"} {
		if !strings.Contains(ir, label) {
			t.Errorf("expected a distinct %q block label, got:\n%s", label, ir)
		}
	}
}

func TestGenerateWhileLoopHasBackEdge(t *testing.T) {
	ir := genSrc(t, `
		int count(int n) {
			int i;
			i = 0;
			while (i < n) {
				++i;
			}
			return i;
		}
	`)
	if !strings.Contains(ir, "while.cond") || !strings.Contains(ir, "while.body") {
		t.Errorf("expected labeled while.cond/while.body blocks, got:\n%s", ir)
	}
	// One branch enters the loop, the other is the back edge from the body.
	if strings.Count(ir, "br label %while.cond") < 2 {
		t.Errorf("expected a back edge to while.cond, got:\n%s", ir)
	}
}

func TestGenerateForLoopScopedDeclaration(t *testing.T) {
	ir := genSrc(t, `
		int sum() {
			int total;
			total = 0;
			for (int i = 0; i < 10; i = i + 1) {
				total = total + i;
			}
			return total;
		}
	`)
	if !strings.Contains(ir, "for.cond") {
		t.Errorf("expected labeled for.cond block, got:\n%s", ir)
	}
}

func TestGenerateShortCircuitAnd(t *testing.T) {
	ir := genSrc(t, `
		int both(int a, int b) {
			return a && b;
		}
	`)
	if !strings.Contains(ir, "and.rhs") || !strings.Contains(ir, "and.end") {
		t.Errorf("expected short-circuit and.rhs/and.end blocks, got:\n%s", ir)
	}
}

func TestGenerateShortCircuitOr(t *testing.T) {
	ir := genSrc(t, `
		int either(int a, int b) {
			return a || b;
		}
	`)
	if !strings.Contains(ir, "or.rhs") || !strings.Contains(ir, "or.end") {
		t.Errorf("expected short-circuit or.rhs/or.end blocks, got:\n%s", ir)
	}
}

func TestGenerateIntArrayDeclarationAndSubscript(t *testing.T) {
	ir := genSrc(t, `
		int first() {
			int a[4];
			a[0] = 7;
			return a[0];
		}
	`)
	if !strings.Contains(ir, "alloca [4 x i32]") {
		t.Errorf("expected a [4 x i32] stack slot, got:\n%s", ir)
	}
}

func TestGenerateCharArrayStringInitializer(t *testing.T) {
	ir := genSrc(t, `
		int greet() {
			char msg[] = "hi";
			return msg[0];
		}
	`)
	if !strings.Contains(ir, "alloca [3 x i8]") {
		t.Errorf("expected a 3-byte (2 chars + NUL) stack slot, got:\n%s", ir)
	}
	// Each byte of the literal is stored individually, not aliased to a
	// shared global constant.
	if strings.Count(ir, "store i8") < 3 {
		t.Errorf("expected one store per initialized byte, got:\n%s", ir)
	}
}

func TestGenerateRecursiveCall(t *testing.T) {
	ir := genSrc(t, `
		int fact(int n) {
			if (n <= 1) { return 1; }
			return n * fact(n - 1);
		}
	`)
	if !strings.Contains(ir, "call i32 @fact") {
		t.Errorf("expected a self-recursive call, got:\n%s", ir)
	}
}

func TestGeneratePrintfCall(t *testing.T) {
	ir := genSrc(t, `
		int main() {
			printf("%d\n", 42);
			return 0;
		}
	`)
	if !strings.Contains(ir, "declare i32 @printf") {
		t.Errorf("expected a variadic printf declaration, got:\n%s", ir)
	}
	if !strings.Contains(ir, "call i32 (i8*, ...) @printf") {
		t.Errorf("expected a variadic printf call, got:\n%s", ir)
	}
}
