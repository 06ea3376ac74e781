package lexer

import (
	"strings"
	"testing"

	"github.com/pl0-lang/pl0/token"
)

func TestLexer_Next(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		tokens  []*token.Token
	}{
		{
			caption: "keywords are reclassified from identifiers",
			src:     "begin end.",
			tokens: []*token.Token{
				{Kind: "BEGIN", Text: "begin", Line: 1},
				{Kind: "END", Text: "end", Line: 1},
				{Kind: token.KindSymbol, Text: ".", Line: 1},
			},
		},
		{
			caption: "keywords are case-sensitive",
			src:     "Begin BEGIN",
			tokens: []*token.Token{
				{Kind: token.KindID, Text: "Begin", Line: 1},
				{Kind: token.KindID, Text: "BEGIN", Line: 1},
			},
		},
		{
			caption: "an assignment lexes as one token",
			src:     "x := 10;",
			tokens: []*token.Token{
				{Kind: token.KindID, Text: "x", Line: 1},
				{Kind: token.KindAssign, Text: ":=", Line: 1},
				{Kind: token.KindNumber, Text: "10", Line: 1},
				{Kind: token.KindSymbol, Text: ";", Line: 1},
			},
		},
		{
			caption: "two-character relational operators win over their prefixes",
			src:     "a <= b >= c < d > e # f",
			tokens: []*token.Token{
				{Kind: token.KindID, Text: "a", Line: 1},
				{Kind: token.KindSymbol, Text: "<=", Line: 1},
				{Kind: token.KindID, Text: "b", Line: 1},
				{Kind: token.KindSymbol, Text: ">=", Line: 1},
				{Kind: token.KindID, Text: "c", Line: 1},
				{Kind: token.KindSymbol, Text: "<", Line: 1},
				{Kind: token.KindID, Text: "d", Line: 1},
				{Kind: token.KindSymbol, Text: ">", Line: 1},
				{Kind: token.KindID, Text: "e", Line: 1},
				{Kind: token.KindSymbol, Text: "#", Line: 1},
				{Kind: token.KindID, Text: "f", Line: 1},
			},
		},
		{
			caption: "lines are counted across newlines",
			src:     "var x;\nbegin\nend.",
			tokens: []*token.Token{
				{Kind: "VAR", Text: "var", Line: 1},
				{Kind: token.KindID, Text: "x", Line: 1},
				{Kind: token.KindSymbol, Text: ";", Line: 1},
				{Kind: "BEGIN", Text: "begin", Line: 2},
				{Kind: "END", Text: "end", Line: 3},
				{Kind: token.KindSymbol, Text: ".", Line: 3},
			},
		},
		{
			caption: "arithmetic operators and parentheses lex as symbols",
			src:     "(1+2)*3/4-5",
			tokens: []*token.Token{
				{Kind: token.KindSymbol, Text: "(", Line: 1},
				{Kind: token.KindNumber, Text: "1", Line: 1},
				{Kind: token.KindSymbol, Text: "+", Line: 1},
				{Kind: token.KindNumber, Text: "2", Line: 1},
				{Kind: token.KindSymbol, Text: ")", Line: 1},
				{Kind: token.KindSymbol, Text: "*", Line: 1},
				{Kind: token.KindNumber, Text: "3", Line: 1},
				{Kind: token.KindSymbol, Text: "/", Line: 1},
				{Kind: token.KindNumber, Text: "4", Line: 1},
				{Kind: token.KindSymbol, Text: "-", Line: 1},
				{Kind: token.KindNumber, Text: "5", Line: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			toks, err := Lex(strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			if len(toks) != len(tt.tokens) {
				t.Fatalf("unexpected token count; want: %v, got: %v", len(tt.tokens), len(toks))
			}
			for i, want := range tt.tokens {
				got := toks[i]
				if got.Kind != want.Kind || got.Text != want.Text || got.Line != want.Line {
					t.Errorf("unexpected token at %v; want: %+v, got: %+v", i, *want, *got)
				}
			}
		})
	}
}

func TestLexer_UnexpectedCharacter(t *testing.T) {
	_, err := Lex(strings.NewReader("x := 1;\ny ? 2"))
	if err == nil {
		t.Fatalf("an unexpected character must be reported")
	}
	lexErr, ok := err.(*LexicalError)
	if !ok {
		t.Fatalf("unexpected error type: %T", err)
	}
	if lexErr.Line != 2 {
		t.Fatalf("unexpected line; want: 2, got: %v", lexErr.Line)
	}
	if !strings.Contains(lexErr.Text, "?") {
		t.Fatalf("the error must carry the offending text; got: %#v", lexErr.Text)
	}
}

func TestLexSpec_Compiles(t *testing.T) {
	if err := lexSpec.Validate(); err != nil {
		t.Fatalf("the lexical specification must validate: %v", err)
	}
	clspec, err := compiledLexSpec()
	if err != nil {
		t.Fatal(err)
	}
	if clspec == nil {
		t.Fatal("the compiled specification must be available")
	}
	if clspec.Name != lexSpec.Name {
		t.Fatalf("unexpected specification name; want: %v, got: %v", lexSpec.Name, clspec.Name)
	}
}

func TestLexer_EmptySource(t *testing.T) {
	toks, err := Lex(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 0 {
		t.Fatalf("an empty source must lex to no tokens; got: %v", len(toks))
	}
}
