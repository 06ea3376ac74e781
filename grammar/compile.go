package grammar

import "fmt"

// Compile turns the grammar into an SLR(1) parsing table: it generates the
// LR(0) canonical collection, computes the FIRST and FOLLOW sets, and fills
// the ACTION and GOTO matrices with the FOLLOW sets as reduce lookaheads.
// The same grammar always compiles to the same table.
func Compile(gram *Grammar) (*ParsingTable, error) {
	lr0, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
	if err != nil {
		return nil, err
	}

	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, err
	}

	flw, err := genFollowSet(gram.productionSet, fst)
	if err != nil {
		return nil, err
	}

	b := &lrTableBuilder{
		automaton: lr0,
		prods:     gram.productionSet,
		follow:    flw,
		symTab:    gram.symbolTable,
	}
	ptab, err := b.build()
	if err != nil {
		return nil, err
	}

	termTexts, err := gram.symbolTable.terminalTexts()
	if err != nil {
		return nil, err
	}
	nonTermTexts, err := gram.symbolTable.nonTerminalTexts()
	if err != nil {
		return nil, err
	}

	lhsSyms := make([]int, gram.productionSet.count()+productionNumMin.Int()-1)
	altSymCounts := make([]int, gram.productionSet.count()+productionNumMin.Int()-1)
	for _, prod := range gram.productionSet.getAllProductions() {
		n := prod.num.Int()
		if n >= len(lhsSyms) {
			return nil, fmt.Errorf("production number out of range: %v", n)
		}
		lhsSyms[n] = prod.lhs.num().Int()
		altSymCounts[n] = prod.rhsLen
	}

	termNums := make(map[string]int, len(termTexts))
	for num, text := range termTexts {
		if text == "" {
			continue
		}
		termNums[text] = num
	}

	ptab.LHSSymbols = lhsSyms
	ptab.AlternativeSymbolCounts = altSymCounts
	ptab.Terminals = termTexts
	ptab.NonTerminals = nonTermTexts
	ptab.EOFSymbol = symbolEOF.num().Int()
	ptab.terminalNums = termNums

	return ptab, nil
}
