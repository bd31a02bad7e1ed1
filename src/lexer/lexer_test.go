package lexer

import (
	"testing"

	"minicc/src/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks := Lex("int main ( ) { return 0 ; }")
	want := []token.Kind{
		token.KwInt, token.Identifier, token.LParen, token.RParen,
		token.LBrace, token.KwReturn, token.IntLit, token.Semicolon,
		token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexOperators(t *testing.T) {
	toks := Lex("+= -= ++ -- == != <= >= && ||")
	want := []token.Kind{
		token.PlusAssign, token.MinusAssign, token.Increment, token.Decrement,
		token.Equal, token.NotEqual, token.LessEqual, token.GreaterEqual,
		token.LogicalAnd, token.LogicalOr, token.EOF,
	}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexStringEscapes(t *testing.T) {
	toks := Lex(`"a\nb"`)
	if toks[0].Kind != token.StringLit {
		t.Fatalf("expected StringLit, got %s", toks[0].Kind)
	}
	if toks[0].Lexeme != "a\nb" {
		t.Errorf("got lexeme %q, want %q", toks[0].Lexeme, "a\nb")
	}
}

func TestLexCharLiteral(t *testing.T) {
	toks := Lex(`'\t'`)
	if toks[0].Kind != token.CharLit || toks[0].Lexeme != "\t" {
		t.Errorf("got %v, want CharLit \\t", toks[0])
	}
}

func TestLexLineComment(t *testing.T) {
	toks := Lex("int x; // trailing comment\nreturn;")
	if len(toks) == 0 || toks[0].Kind != token.KwInt {
		t.Fatalf("comment should be ignored, got %v", toks)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	toks := Lex(`"abc`)
	if toks[0].Kind != token.Unknown {
		t.Errorf("expected Unknown for unterminated string, got %s", toks[0].Kind)
	}
}

func TestLexLineAndColumnTracking(t *testing.T) {
	toks := Lex("int x;\nint y;")
	// Second "int" should be on line 2, column 1.
	for _, tk := range toks {
		if tk.Kind == token.KwInt && tk.Line == 2 {
			if tk.Col != 1 {
				t.Errorf("expected col 1 on line 2, got %d", tk.Col)
			}
			return
		}
	}
	t.Fatalf("did not find second int keyword on line 2: %v", toks)
}
