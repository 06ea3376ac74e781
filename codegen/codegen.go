package codegen

import (
	"fmt"
	"strconv"

	"github.com/pl0-lang/pl0/semantic"
	"github.com/pl0-lang/pl0/token"
)

// frameReserved is the number of stack slots a frame reserves for the static
// link, the dynamic link, and the return address; variable slots follow.
const frameReserved = 3

// CodeError reports a defect found while generating P-code.
type CodeError struct {
	Message string
	Line    int
}

func (e *CodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("code generation error at line %v: %v", e.Line, e.Message)
	}
	return fmt.Sprintf("code generation error: %v", e.Message)
}

// Generate compiles a token stream to P-code by recursive descent. Each
// block opens with a jump over its nested procedures to its own frame setup
// and closes with a return; the top-level return halts the machine.
func Generate(toks []*token.Token) ([]Instruction, error) {
	g := &generator{
		toks:   toks,
		symTab: semantic.NewSymbolTable(),
	}
	err := g.block(0)
	if err != nil {
		return nil, err
	}
	if !g.check(token.KindSymbol, ".") {
		return nil, g.errorf("a program must end with '.'")
	}
	return g.code, nil
}

type generator struct {
	toks   []*token.Token
	pos    int
	symTab *semantic.SymbolTable
	code   []Instruction
}

func (g *generator) emit(op OpCode, level int, arg int) int {
	g.code = append(g.code, Instruction{
		Op:    op,
		Level: level,
		Arg:   arg,
	})
	return len(g.code) - 1
}

func (g *generator) errorf(format string, args ...interface{}) error {
	line := 0
	if tok := g.current(); tok != nil {
		line = tok.Line
	}
	return &CodeError{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
	}
}

func (g *generator) current() *token.Token {
	if g.pos < len(g.toks) {
		return g.toks[g.pos]
	}
	return nil
}

func (g *generator) advance() {
	g.pos++
}

func (g *generator) check(kind string, text string) bool {
	tok := g.current()
	if tok == nil {
		return false
	}
	if text != "" {
		return tok.Kind == kind && tok.Text == text
	}
	return tok.Kind == kind
}

func (g *generator) expect(kind string, text string) error {
	tok := g.current()
	if tok == nil {
		return g.errorf("expected %v but reached the end of the input", kind)
	}
	if tok.Kind != kind {
		return g.errorf("expected %v but got %v", kind, tok.Kind)
	}
	if text != "" && tok.Text != text {
		return g.errorf("expected '%v' but got '%v'", text, tok.Text)
	}
	g.advance()
	return nil
}

func (g *generator) block(level int) error {
	jmp := g.emit(JMP, 0, 0)

	varCount := 0
	if g.check("CONST", "") {
		err := g.constDeclaration()
		if err != nil {
			return err
		}
	}
	if g.check("VAR", "") {
		n, err := g.varDeclaration()
		if err != nil {
			return err
		}
		varCount = n
	}
	for g.check("PROCEDURE", "") {
		err := g.procedureDeclaration(level)
		if err != nil {
			return err
		}
	}

	g.code[jmp].Arg = len(g.code)
	g.emit(INT, 0, frameReserved+varCount)
	if err := g.statement(level); err != nil {
		return err
	}
	g.emit(OPR, 0, OprReturn)
	return nil
}

func (g *generator) constDeclaration() error {
	err := g.expect("CONST", "")
	if err != nil {
		return err
	}
	for {
		if !g.check(token.KindID, "") {
			return g.errorf("expected an identifier in a constant declaration")
		}
		name := g.current().Text
		g.advance()

		if err := g.expect(token.KindSymbol, "="); err != nil {
			return err
		}
		if !g.check(token.KindNumber, "") {
			return g.errorf("expected a number in a constant declaration")
		}
		value, err := strconv.Atoi(g.current().Text)
		if err != nil {
			return g.errorf("malformed number '%v'", g.current().Text)
		}
		g.advance()

		if err := g.symTab.DefineConst(name, value); err != nil {
			return g.errorf("%v", err)
		}

		if g.check(token.KindSymbol, ",") {
			g.advance()
			continue
		}
		break
	}
	return g.expect(token.KindSymbol, ";")
}

func (g *generator) varDeclaration() (int, error) {
	err := g.expect("VAR", "")
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		if !g.check(token.KindID, "") {
			return 0, g.errorf("expected an identifier in a variable declaration")
		}
		name := g.current().Text
		g.advance()

		if _, err := g.symTab.DefineVar(name); err != nil {
			return 0, g.errorf("%v", err)
		}
		n++

		if g.check(token.KindSymbol, ",") {
			g.advance()
			continue
		}
		break
	}
	return n, g.expect(token.KindSymbol, ";")
}

func (g *generator) procedureDeclaration(level int) error {
	err := g.expect("PROCEDURE", "")
	if err != nil {
		return err
	}
	if !g.check(token.KindID, "") {
		return g.errorf("expected a procedure name")
	}
	name := g.current().Text
	g.advance()

	if err := g.expect(token.KindSymbol, ";"); err != nil {
		return err
	}

	// The entry is the nested block's opening jump, so it is known before
	// the body is generated and recursive calls resolve without patching.
	if _, err := g.symTab.DefineProcedure(name, len(g.code)); err != nil {
		return g.errorf("%v", err)
	}
	g.symTab.EnterScope()
	if err := g.block(level + 1); err != nil {
		return err
	}
	g.symTab.ExitScope()

	return g.expect(token.KindSymbol, ";")
}

func (g *generator) statement(level int) error {
	switch {
	case g.check(token.KindID, ""):
		return g.assignment(level)
	case g.check("CALL", ""):
		return g.callStatement(level)
	case g.check("BEGIN", ""):
		return g.beginEnd(level)
	case g.check("IF", ""):
		return g.ifStatement(level)
	case g.check("WHILE", ""):
		return g.whileStatement(level)
	case g.check("READ", ""):
		return g.readStatement(level)
	case g.check("WRITE", ""):
		return g.writeStatement(level)
	}
	return nil
}

func (g *generator) assignment(level int) error {
	name := g.current().Text
	g.advance()

	sym := g.symTab.Lookup(name)
	if sym == nil {
		return g.errorf("undefined identifier '%v'", name)
	}
	if sym.Kind != semantic.SymbolKindVar {
		return g.errorf("'%v' is not a variable and cannot be assigned to", name)
	}

	if err := g.expect(token.KindAssign, ""); err != nil {
		return err
	}
	if err := g.expression(level); err != nil {
		return err
	}
	g.emit(STO, level-sym.Level, frameReserved+sym.Address)
	return nil
}

func (g *generator) callStatement(level int) error {
	err := g.expect("CALL", "")
	if err != nil {
		return err
	}
	if !g.check(token.KindID, "") {
		return g.errorf("expected a procedure name after call")
	}
	name := g.current().Text
	g.advance()

	sym := g.symTab.Lookup(name)
	if sym == nil {
		return g.errorf("undefined procedure '%v'", name)
	}
	if sym.Kind != semantic.SymbolKindProcedure {
		return g.errorf("'%v' is not a procedure", name)
	}
	g.emit(CAL, level-sym.Level, sym.Address)
	return nil
}

func (g *generator) beginEnd(level int) error {
	err := g.expect("BEGIN", "")
	if err != nil {
		return err
	}
	if err := g.statement(level); err != nil {
		return err
	}
	for g.check(token.KindSymbol, ";") {
		g.advance()
		if err := g.statement(level); err != nil {
			return err
		}
	}
	return g.expect("END", "")
}

func (g *generator) ifStatement(level int) error {
	err := g.expect("IF", "")
	if err != nil {
		return err
	}
	if err := g.condition(level); err != nil {
		return err
	}
	if err := g.expect("THEN", ""); err != nil {
		return err
	}

	jpc := g.emit(JPC, 0, 0)
	if err := g.statement(level); err != nil {
		return err
	}
	g.code[jpc].Arg = len(g.code)
	return nil
}

func (g *generator) whileStatement(level int) error {
	err := g.expect("WHILE", "")
	if err != nil {
		return err
	}

	top := len(g.code)
	if err := g.condition(level); err != nil {
		return err
	}
	if err := g.expect("DO", ""); err != nil {
		return err
	}

	jpc := g.emit(JPC, 0, 0)
	if err := g.statement(level); err != nil {
		return err
	}
	g.emit(JMP, 0, top)
	g.code[jpc].Arg = len(g.code)
	return nil
}

func (g *generator) readStatement(level int) error {
	err := g.expect("READ", "")
	if err != nil {
		return err
	}
	if err := g.expect(token.KindSymbol, "("); err != nil {
		return err
	}
	if !g.check(token.KindID, "") {
		return g.errorf("expected a variable name in read")
	}
	name := g.current().Text
	g.advance()

	sym := g.symTab.Lookup(name)
	if sym == nil {
		return g.errorf("undefined variable '%v'", name)
	}
	if sym.Kind != semantic.SymbolKindVar {
		return g.errorf("'%v' is not a variable", name)
	}

	if err := g.expect(token.KindSymbol, ")"); err != nil {
		return err
	}
	g.emit(RED, 0, 0)
	g.emit(STO, level-sym.Level, frameReserved+sym.Address)
	return nil
}

func (g *generator) writeStatement(level int) error {
	err := g.expect("WRITE", "")
	if err != nil {
		return err
	}
	if err := g.expect(token.KindSymbol, "("); err != nil {
		return err
	}
	if err := g.expression(level); err != nil {
		return err
	}
	if err := g.expect(token.KindSymbol, ")"); err != nil {
		return err
	}
	g.emit(WRT, 0, 0)
	return nil
}

func (g *generator) condition(level int) error {
	if g.check("ODD", "") {
		g.advance()
		if err := g.expression(level); err != nil {
			return err
		}
		g.emit(OPR, 0, OprOdd)
		return nil
	}

	if err := g.expression(level); err != nil {
		return err
	}

	tok := g.current()
	if tok == nil || tok.Kind != token.KindSymbol {
		return g.errorf("expected a relational operator")
	}
	opr, ok := oprForRelop[tok.Text]
	if !ok {
		return g.errorf("expected a relational operator but got '%v'", tok.Text)
	}
	g.advance()

	if err := g.expression(level); err != nil {
		return err
	}
	g.emit(OPR, 0, opr)
	return nil
}

func (g *generator) expression(level int) error {
	negate := false
	if g.check(token.KindSymbol, "+") {
		g.advance()
	} else if g.check(token.KindSymbol, "-") {
		negate = true
		g.advance()
	}

	if err := g.term(level); err != nil {
		return err
	}
	if negate {
		g.emit(OPR, 0, OprNegate)
	}

	for g.check(token.KindSymbol, "+") || g.check(token.KindSymbol, "-") {
		op := g.current().Text
		g.advance()
		if err := g.term(level); err != nil {
			return err
		}
		if op == "+" {
			g.emit(OPR, 0, OprAdd)
		} else {
			g.emit(OPR, 0, OprSub)
		}
	}
	return nil
}

func (g *generator) term(level int) error {
	err := g.factor(level)
	if err != nil {
		return err
	}
	for g.check(token.KindSymbol, "*") || g.check(token.KindSymbol, "/") {
		op := g.current().Text
		g.advance()
		if err := g.factor(level); err != nil {
			return err
		}
		if op == "*" {
			g.emit(OPR, 0, OprMul)
		} else {
			g.emit(OPR, 0, OprDiv)
		}
	}
	return nil
}

func (g *generator) factor(level int) error {
	switch {
	case g.check(token.KindID, ""):
		name := g.current().Text
		g.advance()

		sym := g.symTab.Lookup(name)
		if sym == nil {
			return g.errorf("undefined identifier '%v'", name)
		}
		switch sym.Kind {
		case semantic.SymbolKindConst:
			g.emit(LIT, 0, sym.Value)
		case semantic.SymbolKindVar:
			g.emit(LOD, level-sym.Level, frameReserved+sym.Address)
		default:
			return g.errorf("'%v' cannot appear in an expression", name)
		}
		return nil
	case g.check(token.KindNumber, ""):
		value, err := strconv.Atoi(g.current().Text)
		if err != nil {
			return g.errorf("malformed number '%v'", g.current().Text)
		}
		g.advance()
		g.emit(LIT, 0, value)
		return nil
	case g.check(token.KindSymbol, "("):
		g.advance()
		if err := g.expression(level); err != nil {
			return err
		}
		return g.expect(token.KindSymbol, ")")
	default:
		return g.errorf("expected an identifier, a number, or '(' in an expression")
	}
}
