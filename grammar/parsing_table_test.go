package grammar

import "testing"

func testCompile(t *testing.T) *ParsingTable {
	t.Helper()

	gram, err := PL0()
	if err != nil {
		t.Fatal(err)
	}
	ptab, err := Compile(gram)
	if err != nil {
		t.Fatal(err)
	}
	return ptab
}

func TestCompile_NoConflicts(t *testing.T) {
	ptab := testCompile(t)

	if len(ptab.Conflicts()) > 0 {
		for _, c := range ptab.Conflicts() {
			switch c := c.(type) {
			case *ShiftReduceConflict:
				t.Errorf("shift/reduce conflict in state %v on %v", c.State, c.Symbol)
			case *ReduceReduceConflict:
				t.Errorf("reduce/reduce conflict in state %v on %v", c.State, c.Symbol)
			}
		}
		t.Fatalf("the grammar must be SLR(1); %v conflicts found", len(ptab.Conflicts()))
	}
}

func TestCompile_TableShape(t *testing.T) {
	ptab := testCompile(t)

	if len(ptab.Action) != ptab.StateCount*ptab.TerminalCount {
		t.Fatalf("unexpected ACTION size; want: %v, got: %v", ptab.StateCount*ptab.TerminalCount, len(ptab.Action))
	}
	if len(ptab.GoTo) != ptab.StateCount*ptab.NonTerminalCount {
		t.Fatalf("unexpected GOTO size; want: %v, got: %v", ptab.StateCount*ptab.NonTerminalCount, len(ptab.GoTo))
	}
	if ptab.InitialState != 0 {
		t.Fatalf("unexpected initial state; want: 0, got: %v", ptab.InitialState)
	}

	for pos, e := range ptab.Action {
		if e >= 0 {
			continue
		}
		next := e * -1
		if next <= 0 || next >= ptab.StateCount {
			t.Fatalf("ACTION[%v] shifts to an out-of-range state: %v", pos, next)
		}
	}
	for pos, e := range ptab.Action {
		if e <= 0 {
			continue
		}
		if e >= len(ptab.LHSSymbols) {
			t.Fatalf("ACTION[%v] reduces by an out-of-range production: %v", pos, e)
		}
	}
	for pos, e := range ptab.GoTo {
		if e < 0 || e >= ptab.StateCount {
			t.Fatalf("GOTO[%v] leads to an out-of-range state: %v", pos, e)
		}
	}
}

// The accept action is the reduce by the start production, and it may appear
// only in the end marker's column.
func TestCompile_AcceptOnlyOnEndMarker(t *testing.T) {
	ptab := testCompile(t)

	found := false
	for state := 0; state < ptab.StateCount; state++ {
		for term := 0; term < ptab.TerminalCount; term++ {
			e := ptab.Action[state*ptab.TerminalCount+term]
			if e != ptab.StartProduction {
				continue
			}
			if term != ptab.EOFSymbol {
				t.Fatalf("state %v reduces by the start production on terminal %v", state, ptab.Terminals[term])
			}
			found = true
		}
	}
	if !found {
		t.Fatalf("no state reduces by the start production")
	}
}

func TestCompile_Deterministic(t *testing.T) {
	ptab1 := testCompile(t)
	ptab2 := testCompile(t)

	if ptab1.StateCount != ptab2.StateCount {
		t.Fatalf("state counts differ between two compilations; %v vs %v", ptab1.StateCount, ptab2.StateCount)
	}
	for pos, e := range ptab1.Action {
		if ptab2.Action[pos] != e {
			t.Fatalf("ACTION[%v] differs between two compilations; %v vs %v", pos, e, ptab2.Action[pos])
		}
	}
	for pos, e := range ptab1.GoTo {
		if ptab2.GoTo[pos] != e {
			t.Fatalf("GOTO[%v] differs between two compilations; %v vs %v", pos, e, ptab2.GoTo[pos])
		}
	}
}

func TestParsingTable_TerminalNum(t *testing.T) {
	ptab := testCompile(t)

	for _, text := range []string{"ID", "NUMBER", "ASSIGN", ";", "<="} {
		num, ok := ptab.TerminalNum(text)
		if !ok {
			t.Fatalf("terminal %v was not found", text)
		}
		if num <= 0 || num >= ptab.TerminalCount {
			t.Fatalf("terminal %v has an out-of-range number: %v", text, num)
		}
		if ptab.Terminals[num] != text {
			t.Fatalf("terminal numbering is inconsistent; %v resolves to %v", text, ptab.Terminals[num])
		}
	}
	if _, ok := ptab.TerminalNum("UNKNOWN"); ok {
		t.Fatalf("an unknown terminal must not resolve")
	}

	eof, ok := ptab.TerminalNum(symbolNameEOF)
	if !ok || eof != ptab.EOFSymbol {
		t.Fatalf("the end marker must resolve to EOFSymbol; got: %v", eof)
	}
}

func TestParsingTable_ProductionMetadata(t *testing.T) {
	gram, err := PL0()
	if err != nil {
		t.Fatal(err)
	}
	ptab, err := Compile(gram)
	if err != nil {
		t.Fatal(err)
	}

	for _, prod := range gram.productionSet.getAllProductions() {
		n := prod.num.Int()
		if ptab.LHSSymbols[n] != prod.lhs.num().Int() {
			t.Fatalf("production %v: unexpected LHS symbol; want: %v, got: %v", n, prod.lhs.num().Int(), ptab.LHSSymbols[n])
		}
		if ptab.AlternativeSymbolCounts[n] != prod.rhsLen {
			t.Fatalf("production %v: unexpected RHS length; want: %v, got: %v", n, prod.rhsLen, ptab.AlternativeSymbolCounts[n])
		}
	}
}
