package lexer

import (
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"

	"github.com/pl0-lang/pl0/token"
)

// lexSpec is the lexical specification of PL/0. Keywords are not listed
// here: they lex as identifiers and are reclassified afterwards, so the
// identifier rule stays the single source of truth for name syntax. The
// two-character operators have their own entries because the longest match
// must beat the single-character symbol rule.
var lexSpec = &mlspec.LexSpec{
	Name: "pl0",
	Entries: []*mlspec.LexEntry{
		{
			Kind:    mlspec.LexKindName("white_space"),
			Pattern: mlspec.LexPattern(`[\u{0009}\u{000A}\u{000D}\u{0020}]+`),
		},
		{
			Kind:    mlspec.LexKindName("identifier"),
			Pattern: mlspec.LexPattern(`[A-Za-z_][0-9A-Za-z_]*`),
		},
		{
			Kind:    mlspec.LexKindName("number"),
			Pattern: mlspec.LexPattern(`[0-9]+`),
		},
		{
			Kind:    mlspec.LexKindName("assign"),
			Pattern: mlspec.LexPattern(`:=`),
		},
		{
			Kind:    mlspec.LexKindName("less_or_equal"),
			Pattern: mlspec.LexPattern(`<=`),
		},
		{
			Kind:    mlspec.LexKindName("greater_or_equal"),
			Pattern: mlspec.LexPattern(`>=`),
		},
		{
			Kind:    mlspec.LexKindName("symbol"),
			Pattern: mlspec.LexPattern(`=|<|>|#|\+|-|\*|/|\(|\)|,|\.|;`),
		},
	},
}

var (
	compileOnce  sync.Once
	compiledSpec *mlspec.CompiledLexSpec
	compileErr   error
)

// compiledLexSpec compiles the specification on first use and caches the
// result; the compiled spec is read-only and shared by all lexers.
func compiledLexSpec() (*mlspec.CompiledLexSpec, error) {
	compileOnce.Do(func() {
		clspec, err, cErrs := mlcompiler.Compile(lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				var b strings.Builder
				fmt.Fprintf(&b, "%v: %v", cErrs[0].Kind, cErrs[0].Cause)
				for _, cErr := range cErrs[1:] {
					fmt.Fprintf(&b, "\n%v: %v", cErr.Kind, cErr.Cause)
				}
				compileErr = fmt.Errorf(b.String())
				return
			}
			compileErr = err
			return
		}
		compiledSpec = clspec
	})
	return compiledSpec, compileErr
}

// LexicalError reports a character sequence no rule matches.
type LexicalError struct {
	Text string
	Line int
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("unexpected character %#v at line %v", e.Text, e.Line)
}

// Lexer turns PL/0 source text into tokens.
type Lexer struct {
	clspec *mlspec.CompiledLexSpec
	d      *mldriver.Lexer
}

func NewLexer(src io.Reader) (*Lexer, error) {
	clspec, err := compiledLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(clspec), src)
	if err != nil {
		return nil, err
	}
	return &Lexer{
		clspec: clspec,
		d:      d,
	}, nil
}

// Next returns the next token, or nil at the end of the input. White space
// is skipped; identifiers matching a reserved word come back under the
// keyword's kind.
func (l *Lexer) Next() (*token.Token, error) {
	for {
		tok, err := l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return nil, nil
		}
		if tok.Invalid {
			return nil, &LexicalError{
				Text: string(tok.Lexeme),
				Line: tok.Row + 1,
			}
		}

		text := string(tok.Lexeme)
		line := tok.Row + 1
		switch l.clspec.KindNames[tok.KindID].String() {
		case "white_space":
			continue
		case "identifier":
			if kind, ok := token.Keyword(text); ok {
				return &token.Token{Kind: kind, Text: text, Line: line}, nil
			}
			return &token.Token{Kind: token.KindID, Text: text, Line: line}, nil
		case "number":
			return &token.Token{Kind: token.KindNumber, Text: text, Line: line}, nil
		case "assign":
			return &token.Token{Kind: token.KindAssign, Text: text, Line: line}, nil
		case "less_or_equal", "greater_or_equal", "symbol":
			return &token.Token{Kind: token.KindSymbol, Text: text, Line: line}, nil
		default:
			return nil, fmt.Errorf("unknown lexical kind: %v", l.clspec.KindNames[tok.KindID])
		}
	}
}

// Lex drains src into a token slice.
func Lex(src io.Reader) ([]*token.Token, error) {
	l, err := NewLexer(src)
	if err != nil {
		return nil, err
	}
	var toks []*token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}
