package grammar

import "testing"

func TestPL0_SymbolClassification(t *testing.T) {
	gram, err := PL0()
	if err != nil {
		t.Fatal(err)
	}

	// Every left-hand side must be a non-terminal and every symbol appearing
	// only on right-hand sides must be a terminal.
	lhsTexts := map[string]struct{}{}
	for _, def := range pl0Productions {
		lhsTexts[def.lhs] = struct{}{}
	}
	for _, def := range pl0Productions {
		sym, ok := gram.symbolTable.toSymbol(def.lhs)
		if !ok {
			t.Fatalf("symbol was not registered: %v", def.lhs)
		}
		if !sym.isNonTerminal() {
			t.Fatalf("symbol %v must be a non-terminal", def.lhs)
		}
		for _, text := range def.rhs {
			sym, ok := gram.symbolTable.toSymbol(text)
			if !ok {
				t.Fatalf("symbol was not registered: %v", text)
			}
			if _, isLHS := lhsTexts[text]; isLHS {
				if !sym.isNonTerminal() {
					t.Fatalf("symbol %v must be a non-terminal", text)
				}
			} else {
				if !sym.isTerminal() {
					t.Fatalf("symbol %v must be a terminal", text)
				}
			}
		}
	}
}

func TestPL0_AugmentedStartProduction(t *testing.T) {
	gram, err := PL0()
	if err != nil {
		t.Fatal(err)
	}

	if !gram.augmentedStartSymbol.isStart() {
		t.Fatalf("augmented start symbol must have the start flag")
	}

	prods, ok := gram.productionSet.findByLHS(gram.augmentedStartSymbol)
	if !ok || len(prods) != 1 {
		t.Fatalf("the augmented start symbol must have exactly one production")
	}
	prod := prods[0]
	if prod.num != productionNumStart {
		t.Fatalf("unexpected production number of the start production; want: %v, got: %v", productionNumStart, prod.num)
	}
	startSym, ok := gram.symbolTable.toSymbol(startSymbolName)
	if !ok {
		t.Fatalf("start symbol was not registered: %v", startSymbolName)
	}
	if prod.rhsLen != 1 || prod.rhs[0] != startSym {
		t.Fatalf("the start production must be %v' → %v", startSymbolName, startSymbolName)
	}
}

func TestPL0_ProductionCount(t *testing.T) {
	gram, err := PL0()
	if err != nil {
		t.Fatal(err)
	}

	want := len(pl0Productions) + 1
	if gram.ProductionCount() != want {
		t.Fatalf("unexpected production count; want: %v, got: %v", want, gram.ProductionCount())
	}
}

func TestPL0_ProductionNumbering(t *testing.T) {
	gram, err := PL0()
	if err != nil {
		t.Fatal(err)
	}

	// Production numbers are dense from the start production onward, and
	// looking a production up by number must return the production that
	// carries it.
	count := gram.productionSet.count()
	for num := productionNumStart; num.Int() <= count; num++ {
		prod, ok := gram.productionSet.findByNum(num)
		if !ok {
			t.Fatalf("production %v was not found", num)
		}
		if prod.num != num {
			t.Fatalf("unexpected production number; want: %v, got: %v", num, prod.num)
		}
	}
	if _, ok := gram.productionSet.findByNum(productionNum(count + 1)); ok {
		t.Fatalf("production %v must not exist", count+1)
	}
	if _, ok := gram.productionSet.findByNum(productionNumNil); ok {
		t.Fatalf("the nil production number must not resolve")
	}
}

func TestPL0_SymbolEnumeration(t *testing.T) {
	gram, err := PL0()
	if err != nil {
		t.Fatal(err)
	}

	termTexts, err := gram.symbolTable.terminalTexts()
	if err != nil {
		t.Fatal(err)
	}
	nonTermTexts, err := gram.symbolTable.nonTerminalTexts()
	if err != nil {
		t.Fatal(err)
	}

	// The enumerations and the text tables must agree; the text tables hold
	// one extra slot for the nil symbol.
	termSyms := gram.symbolTable.terminalSymbols()
	if len(termSyms) != len(termTexts)-1 {
		t.Fatalf("unexpected terminal count; want: %v, got: %v", len(termTexts)-1, len(termSyms))
	}
	for _, sym := range termSyms {
		text, ok := gram.symbolTable.toText(sym)
		if !ok {
			t.Fatalf("terminal %v has no text", sym)
		}
		if termTexts[sym.num().Int()] != text {
			t.Fatalf("terminal numbering is inconsistent for %v", text)
		}
	}

	nonTermSyms := gram.symbolTable.nonTerminalSymbols()
	if len(nonTermSyms) != len(nonTermTexts)-1 {
		t.Fatalf("unexpected non-terminal count; want: %v, got: %v", len(nonTermTexts)-1, len(nonTermSyms))
	}
	for _, sym := range nonTermSyms {
		text, ok := gram.symbolTable.toText(sym)
		if !ok {
			t.Fatalf("non-terminal %v has no text", sym)
		}
		if nonTermTexts[sym.num().Int()] != text {
			t.Fatalf("non-terminal numbering is inconsistent for %v", text)
		}
	}
}

func TestPL0_EOFNeverOccursInRHS(t *testing.T) {
	gram, err := PL0()
	if err != nil {
		t.Fatal(err)
	}

	for _, prod := range gram.productionSet.getAllProductions() {
		for _, sym := range prod.rhs {
			if sym.isEOF() {
				t.Fatalf("the EOF symbol must not occur in any RHS; production: %v", prod.num)
			}
		}
	}
}

func TestPL0_TerminalTexts(t *testing.T) {
	gram, err := PL0()
	if err != nil {
		t.Fatal(err)
	}

	texts, err := gram.TerminalTexts()
	if err != nil {
		t.Fatal(err)
	}
	registered := map[string]struct{}{}
	for _, text := range texts {
		registered[text] = struct{}{}
	}
	wants := []string{
		"ID", "NUMBER", "ASSIGN",
		"CONST", "VAR", "PROCEDURE", "CALL", "BEGIN", "END",
		"IF", "THEN", "WHILE", "DO", "READ", "WRITE", "ODD",
		".", ";", ",", "=", "+", "-", "*", "/", "(", ")",
		"<", ">", "<=", ">=", "#",
	}
	for _, want := range wants {
		if _, ok := registered[want]; !ok {
			t.Errorf("terminal %v was not registered", want)
		}
	}
}
