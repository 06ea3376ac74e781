package grammar

import "testing"

func testGenFirstSet(t *testing.T) (*Grammar, *firstSet) {
	t.Helper()

	gram, err := PL0()
	if err != nil {
		t.Fatal(err)
	}
	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}
	return gram, fst
}

func TestGenFirstSet(t *testing.T) {
	tests := []struct {
		caption string
		lhs     string
		symbols []string
		empty   bool
	}{
		{
			caption: "a factor starts with an identifier, a number, or an opening parenthesis",
			lhs:     "factor",
			symbols: []string{"ID", "NUMBER", "("},
		},
		{
			caption: "a term starts like a factor",
			lhs:     "term",
			symbols: []string{"ID", "NUMBER", "("},
		},
		{
			caption: "an expression starts like a term",
			lhs:     "expression",
			symbols: []string{"ID", "NUMBER", "("},
		},
		{
			caption: "a statement is optional and otherwise starts with one of the statement keywords or an identifier",
			lhs:     "statement",
			symbols: []string{"ID", "CALL", "BEGIN", "IF", "WHILE", "READ", "WRITE"},
			empty:   true,
		},
		{
			caption: "a constant section is optional",
			lhs:     "consts",
			symbols: []string{"CONST"},
			empty:   true,
		},
		{
			caption: "an expression tail is optional and otherwise starts with an additive operator",
			lhs:     "expression_tail",
			symbols: []string{"+", "-"},
			empty:   true,
		},
		{
			caption: "a relational operator is one of six terminals",
			lhs:     "relop",
			symbols: []string{"=", "#", "<", ">", "<=", ">="},
		},
		{
			caption: "a condition starts with ODD or like an expression",
			lhs:     "condition",
			symbols: []string{"ODD", "ID", "NUMBER", "("},
		},
		{
			caption: "every section of a block is nullable, so a block starts with any of their first terminals",
			lhs:     "block",
			symbols: []string{"CONST", "VAR", "PROCEDURE", "ID", "CALL", "BEGIN", "IF", "WHILE", "READ", "WRITE"},
			empty:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram, fst := testGenFirstSet(t)

			lhsSym, ok := gram.symbolTable.toSymbol(tt.lhs)
			if !ok {
				t.Fatalf("symbol was not registered: %v", tt.lhs)
			}
			e := fst.findBySymbol(lhsSym)
			if e == nil {
				t.Fatalf("an entry of FIRST was not found; symbol: %v", tt.lhs)
			}

			want := map[symbol]struct{}{}
			for _, text := range tt.symbols {
				sym, ok := gram.symbolTable.toSymbol(text)
				if !ok {
					t.Fatalf("symbol was not registered: %v", text)
				}
				want[sym] = struct{}{}
			}

			if len(e.symbols) != len(want) {
				t.Fatalf("unexpected FIRST set size; want: %v, got: %v", len(want), len(e.symbols))
			}
			for sym := range want {
				if _, ok := e.symbols[sym]; !ok {
					text, _ := gram.symbolTable.toText(sym)
					t.Errorf("FIRST set must contain %v", text)
				}
			}
			if e.empty != tt.empty {
				t.Errorf("unexpected ε membership; want: %v, got: %v", tt.empty, e.empty)
			}
		})
	}
}

// After the fixed point, one more propagation pass must not change anything.
func TestFirstSet_PropagateIsIdempotentAtFixedPoint(t *testing.T) {
	gram, fst := testGenFirstSet(t)

	changed, err := fst.propagate(gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Fatalf("a pass over converged FIRST sets must not change any entry")
	}
}

// The number of passes needed to converge is bounded by the size of the
// symbol universe.
func TestFirstSet_ConvergesWithinBoundedPasses(t *testing.T) {
	gram, err := PL0()
	if err != nil {
		t.Fatal(err)
	}

	fst := newFirstSet(gram.productionSet)
	bound := gram.symbolTable.termNum.Int() + gram.symbolTable.nonTermNum.Int() + 1
	converged := false
	for i := 0; i < bound; i++ {
		changed, err := fst.propagate(gram.productionSet)
		if err != nil {
			t.Fatal(err)
		}
		if !changed {
			converged = true
			break
		}
	}
	if !converged {
		t.Fatalf("FIRST computation did not converge within %v passes", bound)
	}
}
