package grammar

import "fmt"

// productionDef is one rule of the recognized PL/0 subset, written with the
// terminal spelling the lexer hands over: keyword kinds are upper-case,
// punctuation stands for itself.
type productionDef struct {
	lhs string
	rhs []string
}

const startSymbolName = "program"

// pl0Productions is the fixed grammar. The slice order is load-bearing:
// production numbers, and with them the reduce labels in the parsing table,
// follow it.
var pl0Productions = []productionDef{
	{"program", []string{"block", "."}},
	{"block", []string{"consts", "vars", "procs", "statement"}},
	{"consts", nil},
	{"consts", []string{"CONST", "const_list", ";"}},
	{"const_list", []string{"ID", "=", "NUMBER", "const_list_tail"}},
	{"const_list_tail", nil},
	{"const_list_tail", []string{",", "ID", "=", "NUMBER", "const_list_tail"}},
	{"vars", nil},
	{"vars", []string{"VAR", "id_list", ";"}},
	{"id_list", []string{"ID", "id_list_tail"}},
	{"id_list_tail", nil},
	{"id_list_tail", []string{",", "ID", "id_list_tail"}},
	{"procs", nil},
	{"procs", []string{"PROCEDURE", "ID", ";", "block", ";", "procs"}},
	{"statement", nil},
	{"statement", []string{"ID", "ASSIGN", "expression"}},
	{"statement", []string{"CALL", "ID"}},
	{"statement", []string{"BEGIN", "stmt_list", "END"}},
	{"statement", []string{"IF", "condition", "THEN", "statement"}},
	{"statement", []string{"WHILE", "condition", "DO", "statement"}},
	{"statement", []string{"READ", "(", "ID", ")"}},
	{"statement", []string{"WRITE", "(", "expression", ")"}},
	{"stmt_list", []string{"statement", "stmt_list_tail"}},
	{"stmt_list_tail", nil},
	{"stmt_list_tail", []string{";", "statement", "stmt_list_tail"}},
	{"expression", []string{"term", "expression_tail"}},
	{"expression_tail", nil},
	{"expression_tail", []string{"+", "term", "expression_tail"}},
	{"expression_tail", []string{"-", "term", "expression_tail"}},
	{"term", []string{"factor", "term_tail"}},
	{"term_tail", nil},
	{"term_tail", []string{"*", "factor", "term_tail"}},
	{"term_tail", []string{"/", "factor", "term_tail"}},
	{"factor", []string{"ID"}},
	{"factor", []string{"NUMBER"}},
	{"factor", []string{"(", "expression", ")"}},
	{"condition", []string{"ODD", "expression"}},
	{"condition", []string{"expression", "relop", "expression"}},
	{"relop", []string{"="}},
	{"relop", []string{"#"}},
	{"relop", []string{"<"}},
	{"relop", []string{">"}},
	{"relop", []string{"<="}},
	{"relop", []string{">="}},
}

// Grammar is the augmented PL/0 grammar. It is immutable once built; all
// derived structures (automaton, FIRST/FOLLOW, tables) are computed from it
// by Compile.
type Grammar struct {
	symbolTable          *symbolTable
	productionSet        *productionSet
	augmentedStartSymbol symbol
}

// PL0 builds the fixed grammar from the production table above. Symbols are
// classified by occurrence: every left-hand side is a non-terminal, and every
// right-hand-side symbol that never occurs as a left-hand side is a terminal.
func PL0() (*Grammar, error) {
	return build(startSymbolName, pl0Productions)
}

func build(startText string, defs []productionDef) (*Grammar, error) {
	lhsNames := map[string]struct{}{}
	for _, def := range defs {
		lhsNames[def.lhs] = struct{}{}
	}
	if _, ok := lhsNames[startText]; !ok {
		return nil, fmt.Errorf("start symbol %v has no production", startText)
	}

	symTab := newSymbolTable()

	// The augmented start symbol takes the reserved start slot; the original
	// start symbol is registered as an ordinary non-terminal.
	augStart, err := symTab.registerStartSymbol(startText + "'")
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if _, err := symTab.registerNonTerminalSymbol(def.lhs); err != nil {
			return nil, err
		}
	}
	for _, def := range defs {
		for _, text := range def.rhs {
			if _, ok := lhsNames[text]; ok {
				continue
			}
			if _, err := symTab.registerTerminalSymbol(text); err != nil {
				return nil, err
			}
		}
	}

	prods := newProductionSet()

	startSym, _ := symTab.toSymbol(startText)
	augProd, err := newProduction(augStart, []symbol{startSym})
	if err != nil {
		return nil, err
	}
	prods.append(augProd)

	for _, def := range defs {
		lhs, ok := symTab.toSymbol(def.lhs)
		if !ok {
			return nil, fmt.Errorf("unknown symbol: %v", def.lhs)
		}
		rhs := make([]symbol, len(def.rhs))
		for i, text := range def.rhs {
			sym, ok := symTab.toSymbol(text)
			if !ok {
				return nil, fmt.Errorf("unknown symbol: %v", text)
			}
			rhs[i] = sym
		}
		prod, err := newProduction(lhs, rhs)
		if err != nil {
			return nil, err
		}
		prods.append(prod)
	}

	return &Grammar{
		symbolTable:          symTab,
		productionSet:        prods,
		augmentedStartSymbol: augStart,
	}, nil
}

// TerminalTexts returns the terminal names indexed by terminal number.
func (g *Grammar) TerminalTexts() ([]string, error) {
	return g.symbolTable.terminalTexts()
}

// NonTerminalTexts returns the non-terminal names indexed by non-terminal
// number.
func (g *Grammar) NonTerminalTexts() ([]string, error) {
	return g.symbolTable.nonTerminalTexts()
}

// ProductionCount returns the number of productions including the augmented
// start production.
func (g *Grammar) ProductionCount() int {
	return g.productionSet.count()
}
