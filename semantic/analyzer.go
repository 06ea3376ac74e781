package semantic

import (
	"fmt"
	"strconv"

	"github.com/pl0-lang/pl0/token"
)

// SemanticError reports a declaration or scope violation, or a structural
// defect found while walking the token stream.
type SemanticError struct {
	Message string
	Line    int
}

func (e *SemanticError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("semantic error at line %v: %v", e.Line, e.Message)
	}
	return fmt.Sprintf("semantic error: %v", e.Message)
}

// Analyzer walks a token stream by recursive descent, checks declarations
// and scopes against a symbol table, and emits quadruple intermediate code.
// Conditionals and loops use conditional jumps whose targets are backpatched
// once the jumped-over code is emitted.
type Analyzer struct {
	toks       []*token.Token
	pos        int
	symTab     *SymbolTable
	quads      []*Quadruple
	tempCount  int
	labelCount int
}

func NewAnalyzer(toks []*token.Token) *Analyzer {
	return &Analyzer{
		toks:   toks,
		symTab: NewSymbolTable(),
	}
}

// SymbolTable exposes the table for inspection after an analysis.
func (a *Analyzer) SymbolTable() *SymbolTable {
	return a.symTab
}

// Analyze checks the whole program and returns its quadruples.
func (a *Analyzer) Analyze() ([]*Quadruple, error) {
	err := a.block()
	if err != nil {
		return nil, err
	}
	if !a.check(token.KindSymbol, ".") {
		return nil, a.errorf("a program must end with '.'")
	}
	a.emit("END", "-", "-", "-")
	return a.quads, nil
}

func (a *Analyzer) newTemp() string {
	temp := fmt.Sprintf("T%v", a.tempCount)
	a.tempCount++
	return temp
}

func (a *Analyzer) newLabel() string {
	label := fmt.Sprintf("L%v", a.labelCount)
	a.labelCount++
	return label
}

func (a *Analyzer) emit(op string, arg1 string, arg2 string, result string) int {
	a.quads = append(a.quads, &Quadruple{
		Op:     op,
		Arg1:   arg1,
		Arg2:   arg2,
		Result: result,
	})
	return len(a.quads) - 1
}

func (a *Analyzer) backpatch(index int, label string) {
	if index >= 0 && index < len(a.quads) {
		a.quads[index].Result = label
	}
}

func (a *Analyzer) errorf(format string, args ...interface{}) error {
	line := 0
	if tok := a.current(); tok != nil {
		line = tok.Line
	}
	return &SemanticError{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
	}
}

func (a *Analyzer) current() *token.Token {
	if a.pos < len(a.toks) {
		return a.toks[a.pos]
	}
	return nil
}

func (a *Analyzer) advance() {
	a.pos++
}

func (a *Analyzer) check(kind string, text string) bool {
	tok := a.current()
	if tok == nil {
		return false
	}
	if text != "" {
		return tok.Kind == kind && tok.Text == text
	}
	return tok.Kind == kind
}

func (a *Analyzer) expect(kind string, text string) error {
	tok := a.current()
	if tok == nil {
		return a.errorf("expected %v but reached the end of the input", kind)
	}
	if tok.Kind != kind {
		return a.errorf("expected %v but got %v", kind, tok.Kind)
	}
	if text != "" && tok.Text != text {
		return a.errorf("expected '%v' but got '%v'", text, tok.Text)
	}
	a.advance()
	return nil
}

func (a *Analyzer) block() error {
	if a.check("CONST", "") {
		err := a.constDeclaration()
		if err != nil {
			return err
		}
	}
	if a.check("VAR", "") {
		err := a.varDeclaration()
		if err != nil {
			return err
		}
	}
	for a.check("PROCEDURE", "") {
		err := a.procedureDeclaration()
		if err != nil {
			return err
		}
	}
	return a.statement()
}

func (a *Analyzer) constDeclaration() error {
	err := a.expect("CONST", "")
	if err != nil {
		return err
	}
	for {
		if !a.check(token.KindID, "") {
			return a.errorf("expected an identifier in a constant declaration")
		}
		name := a.current().Text
		a.advance()

		if !a.check(token.KindSymbol, "=") {
			return a.errorf("expected '=' in a constant declaration")
		}
		a.advance()

		if !a.check(token.KindNumber, "") {
			return a.errorf("expected a number in a constant declaration")
		}
		value, err := strconv.Atoi(a.current().Text)
		if err != nil {
			return a.errorf("malformed number '%v'", a.current().Text)
		}
		a.advance()

		if err := a.symTab.DefineConst(name, value); err != nil {
			return a.errorf("%v", err)
		}

		if a.check(token.KindSymbol, ",") {
			a.advance()
			continue
		}
		break
	}
	return a.expect(token.KindSymbol, ";")
}

func (a *Analyzer) varDeclaration() error {
	err := a.expect("VAR", "")
	if err != nil {
		return err
	}
	for {
		if !a.check(token.KindID, "") {
			return a.errorf("expected an identifier in a variable declaration")
		}
		name := a.current().Text
		a.advance()

		if _, err := a.symTab.DefineVar(name); err != nil {
			return a.errorf("%v", err)
		}

		if a.check(token.KindSymbol, ",") {
			a.advance()
			continue
		}
		break
	}
	return a.expect(token.KindSymbol, ";")
}

func (a *Analyzer) procedureDeclaration() error {
	err := a.expect("PROCEDURE", "")
	if err != nil {
		return err
	}
	if !a.check(token.KindID, "") {
		return a.errorf("expected a procedure name")
	}
	name := a.current().Text
	a.advance()

	if err := a.expect(token.KindSymbol, ";"); err != nil {
		return err
	}

	entry := len(a.quads)
	a.emit("PROC", name, "-", a.newLabel())

	// The procedure belongs to the enclosing level; its body is a scope of
	// its own.
	if _, err := a.symTab.DefineProcedure(name, entry); err != nil {
		return a.errorf("%v", err)
	}
	a.symTab.EnterScope()

	if err := a.block(); err != nil {
		return err
	}
	a.emit("RET", "-", "-", "-")

	a.symTab.ExitScope()

	return a.expect(token.KindSymbol, ";")
}

func (a *Analyzer) statement() error {
	switch {
	case a.check(token.KindID, ""):
		return a.assignment()
	case a.check("CALL", ""):
		return a.callStatement()
	case a.check("BEGIN", ""):
		return a.beginEnd()
	case a.check("IF", ""):
		return a.ifStatement()
	case a.check("WHILE", ""):
		return a.whileStatement()
	case a.check("READ", ""):
		return a.readStatement()
	case a.check("WRITE", ""):
		return a.writeStatement()
	}
	// The empty statement.
	return nil
}

func (a *Analyzer) assignment() error {
	name := a.current().Text
	a.advance()

	sym := a.symTab.Lookup(name)
	if sym == nil {
		return a.errorf("undefined identifier '%v'", name)
	}
	if sym.Kind != SymbolKindVar {
		return a.errorf("'%v' is not a variable and cannot be assigned to", name)
	}

	if err := a.expect(token.KindAssign, ""); err != nil {
		return err
	}

	result, err := a.expression()
	if err != nil {
		return err
	}
	a.emit("=", result, "-", name)
	return nil
}

func (a *Analyzer) callStatement() error {
	err := a.expect("CALL", "")
	if err != nil {
		return err
	}
	if !a.check(token.KindID, "") {
		return a.errorf("expected a procedure name after call")
	}
	name := a.current().Text
	a.advance()

	sym := a.symTab.Lookup(name)
	if sym == nil {
		return a.errorf("undefined procedure '%v'", name)
	}
	if sym.Kind != SymbolKindProcedure {
		return a.errorf("'%v' is not a procedure", name)
	}
	a.emit("CALL", name, "-", "-")
	return nil
}

func (a *Analyzer) beginEnd() error {
	err := a.expect("BEGIN", "")
	if err != nil {
		return err
	}
	if err := a.statement(); err != nil {
		return err
	}
	for a.check(token.KindSymbol, ";") {
		a.advance()
		if err := a.statement(); err != nil {
			return err
		}
	}
	return a.expect("END", "")
}

func (a *Analyzer) ifStatement() error {
	err := a.expect("IF", "")
	if err != nil {
		return err
	}
	cond, err := a.condition()
	if err != nil {
		return err
	}
	if err := a.expect("THEN", ""); err != nil {
		return err
	}

	jz := a.emit("JZ", cond, "-", "?")
	if err := a.statement(); err != nil {
		return err
	}
	a.backpatch(jz, strconv.Itoa(len(a.quads)))
	return nil
}

func (a *Analyzer) whileStatement() error {
	err := a.expect("WHILE", "")
	if err != nil {
		return err
	}

	loopStart := len(a.quads)
	cond, err := a.condition()
	if err != nil {
		return err
	}
	if err := a.expect("DO", ""); err != nil {
		return err
	}

	jz := a.emit("JZ", cond, "-", "?")
	if err := a.statement(); err != nil {
		return err
	}
	a.emit("JMP", "-", "-", strconv.Itoa(loopStart))
	a.backpatch(jz, strconv.Itoa(len(a.quads)))
	return nil
}

func (a *Analyzer) readStatement() error {
	err := a.expect("READ", "")
	if err != nil {
		return err
	}
	if err := a.expect(token.KindSymbol, "("); err != nil {
		return err
	}
	if !a.check(token.KindID, "") {
		return a.errorf("expected a variable name in read")
	}
	name := a.current().Text
	a.advance()

	sym := a.symTab.Lookup(name)
	if sym == nil {
		return a.errorf("undefined variable '%v'", name)
	}
	if sym.Kind != SymbolKindVar {
		return a.errorf("'%v' is not a variable", name)
	}

	if err := a.expect(token.KindSymbol, ")"); err != nil {
		return err
	}
	a.emit("READ", "-", "-", name)
	return nil
}

func (a *Analyzer) writeStatement() error {
	err := a.expect("WRITE", "")
	if err != nil {
		return err
	}
	if err := a.expect(token.KindSymbol, "("); err != nil {
		return err
	}
	result, err := a.expression()
	if err != nil {
		return err
	}
	if err := a.expect(token.KindSymbol, ")"); err != nil {
		return err
	}
	a.emit("WRITE", result, "-", "-")
	return nil
}

var relops = map[string]struct{}{
	"=":  {},
	"#":  {},
	"<":  {},
	">":  {},
	"<=": {},
	">=": {},
}

func (a *Analyzer) condition() (string, error) {
	if a.check("ODD", "") {
		a.advance()
		result, err := a.expression()
		if err != nil {
			return "", err
		}
		temp := a.newTemp()
		a.emit("ODD", result, "-", temp)
		return temp, nil
	}

	left, err := a.expression()
	if err != nil {
		return "", err
	}

	tok := a.current()
	if tok == nil {
		return "", a.errorf("expected a relational operator")
	}
	if tok.Kind != token.KindSymbol {
		return "", a.errorf("expected a relational operator but got '%v'", tok.Text)
	}
	if _, ok := relops[tok.Text]; !ok {
		return "", a.errorf("expected a relational operator but got '%v'", tok.Text)
	}
	relop := tok.Text
	a.advance()

	right, err := a.expression()
	if err != nil {
		return "", err
	}
	temp := a.newTemp()
	a.emit(relop, left, right, temp)
	return temp, nil
}

func (a *Analyzer) expression() (string, error) {
	negate := false
	if a.check(token.KindSymbol, "+") {
		a.advance()
	} else if a.check(token.KindSymbol, "-") {
		negate = true
		a.advance()
	}

	result, err := a.term()
	if err != nil {
		return "", err
	}
	if negate {
		temp := a.newTemp()
		a.emit("NEG", result, "-", temp)
		result = temp
	}

	for a.check(token.KindSymbol, "+") || a.check(token.KindSymbol, "-") {
		op := a.current().Text
		a.advance()
		right, err := a.term()
		if err != nil {
			return "", err
		}
		temp := a.newTemp()
		a.emit(op, result, right, temp)
		result = temp
	}
	return result, nil
}

func (a *Analyzer) term() (string, error) {
	result, err := a.factor()
	if err != nil {
		return "", err
	}
	for a.check(token.KindSymbol, "*") || a.check(token.KindSymbol, "/") {
		op := a.current().Text
		a.advance()
		right, err := a.factor()
		if err != nil {
			return "", err
		}
		temp := a.newTemp()
		a.emit(op, result, right, temp)
		result = temp
	}
	return result, nil
}

func (a *Analyzer) factor() (string, error) {
	switch {
	case a.check(token.KindID, ""):
		name := a.current().Text
		a.advance()

		sym := a.symTab.Lookup(name)
		if sym == nil {
			return "", a.errorf("undefined identifier '%v'", name)
		}
		switch sym.Kind {
		case SymbolKindConst:
			// Constants fold to their literal value.
			return strconv.Itoa(sym.Value), nil
		case SymbolKindVar:
			return name, nil
		default:
			return "", a.errorf("'%v' cannot appear in an expression", name)
		}
	case a.check(token.KindNumber, ""):
		value := a.current().Text
		a.advance()
		return value, nil
	case a.check(token.KindSymbol, "("):
		a.advance()
		result, err := a.expression()
		if err != nil {
			return "", err
		}
		if err := a.expect(token.KindSymbol, ")"); err != nil {
			return "", err
		}
		return result, nil
	default:
		return "", a.errorf("expected an identifier, a number, or '(' in an expression")
	}
}
