package token

// Token kinds shared by the lexer, the parser driver, and the back ends.
// Keywords use their upper-cased spelling as the kind (BEGIN, END, ...), so
// a token's kind doubles as the grammar terminal name. Punctuation and
// operators are classified as KindSymbol and carry the terminal name in
// their literal text.
const (
	KindID     = "ID"
	KindNumber = "NUMBER"
	KindAssign = "ASSIGN"
	KindSymbol = "SYMBOL"
)

// Token is a single lexeme. Line is 1-based; 0 means the source position is
// unknown.
type Token struct {
	Kind string
	Text string
	Line int
}

// Terminal returns the grammar terminal name this token matches.
func (t *Token) Terminal() string {
	if t.Kind == KindSymbol {
		return t.Text
	}
	return t.Kind
}

var keywords = map[string]string{
	"begin":     "BEGIN",
	"call":      "CALL",
	"const":     "CONST",
	"do":        "DO",
	"end":       "END",
	"if":        "IF",
	"odd":       "ODD",
	"procedure": "PROCEDURE",
	"read":      "READ",
	"then":      "THEN",
	"var":       "VAR",
	"while":     "WHILE",
	"write":     "WRITE",
}

// Keyword reports whether text is a reserved word and returns its token kind.
func Keyword(text string) (string, bool) {
	kind, ok := keywords[text]
	return kind, ok
}
