package grammar

import (
	"fmt"
	"sort"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeError  = ActionType("error")
)

// actionEntry encodes one ACTION cell: 0 is the undefined cell, a negative
// value shifts to state -n, a positive value reduces by production n. The
// reduce entry of the augmented start production doubles as the accept
// action; the driver recognizes it by the production number.
type actionEntry int

const actionEntryEmpty = actionEntry(0)

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry(state * -1)
}

func newReduceActionEntry(prod productionNum) actionEntry {
	return actionEntry(prod)
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	if e == actionEntryEmpty {
		return ActionTypeError, stateNumInitial, productionNumNil
	}
	if e < 0 {
		return ActionTypeShift, stateNum(e * -1), productionNumNil
	}
	return ActionTypeReduce, stateNumInitial, productionNum(e)
}

// goToEntry encodes one GOTO cell; 0 is the undefined cell. State 0 never
// appears as a goto target because no goto leads back to the initial kernel.
type goToEntry uint

func newGoToEntry(state stateNum) goToEntry {
	return goToEntry(state)
}

// Conflict is a table cell collision the builder dropped under the
// first-wins policy. The recognized PL/0 grammar produces none; the records
// exist so a grammar change that does conflict is visible at build time.
type Conflict interface {
	conflict()
}

// ShiftReduceConflict records a dropped shift for a cell already holding a
// reduce, or a dropped reduce for a cell already holding a shift.
type ShiftReduceConflict struct {
	State      int
	Symbol     string
	NextState  int
	Production int
}

func (c *ShiftReduceConflict) conflict() {
}

// ReduceReduceConflict records a dropped reduce for a cell already holding a
// reduce by another production.
type ReduceReduceConflict struct {
	State       int
	Symbol      string
	Production1 int
	Production2 int
}

func (c *ReduceReduceConflict) conflict() {
}

var (
	_ Conflict = &ShiftReduceConflict{}
	_ Conflict = &ReduceReduceConflict{}
)

// ParsingTable is the complete, immutable result of compiling the grammar:
// the ACTION and GOTO matrices as flat arrays plus the production and symbol
// metadata the driver needs to run them. Once built it is read-only and can
// be shared by any number of concurrent parses.
type ParsingTable struct {
	// Action[state*TerminalCount+terminal]: 0 undefined, <0 shift, >0 reduce.
	Action []int
	// GoTo[state*NonTerminalCount+nonTerminal]: 0 undefined, >0 target state.
	GoTo []int

	StateCount       int
	TerminalCount    int
	NonTerminalCount int

	InitialState    int
	StartProduction int

	// LHSSymbols maps a production number to its LHS non-terminal number;
	// AlternativeSymbolCounts maps it to the RHS length, i.e. how many states
	// a reduce pops.
	LHSSymbols              []int
	AlternativeSymbolCounts []int

	// Terminals and NonTerminals map symbol numbers back to their names.
	Terminals    []string
	NonTerminals []string

	EOFSymbol int

	terminalNums map[string]int
	conflicts    []Conflict
}

// TerminalNum resolves a terminal name to its column in the ACTION table.
func (t *ParsingTable) TerminalNum(name string) (int, bool) {
	num, ok := t.terminalNums[name]
	return num, ok
}

// Conflicts returns the table conflicts dropped during construction.
func (t *ParsingTable) Conflicts() []Conflict {
	return t.conflicts
}

func (t *ParsingTable) readAction(row int, col int) actionEntry {
	return actionEntry(t.Action[row*t.TerminalCount+col])
}

func (t *ParsingTable) writeAction(row int, col int, act actionEntry) {
	t.Action[row*t.TerminalCount+col] = int(act)
}

func (t *ParsingTable) writeGoTo(state stateNum, sym symbol, nextState stateNum) {
	pos := state.Int()*t.NonTerminalCount + sym.num().Int()
	t.GoTo[pos] = int(newGoToEntry(nextState))
}

type lrTableBuilder struct {
	automaton *lr0Automaton
	prods     *productionSet
	follow    *followSet
	symTab    *symbolTable

	conflicts []Conflict
}

// build synthesizes the SLR(1) tables. Within a state, shift entries are
// written before reduce entries, and reduce entries in production order with
// sorted lookaheads, so the first-wins cell policy is deterministic.
func (b *lrTableBuilder) build() (*ParsingTable, error) {
	var ptab *ParsingTable
	{
		initialState := b.automaton.states[b.automaton.initialState]
		termCount := b.symTab.termNum.Int()
		nonTermCount := b.symTab.nonTermNum.Int()
		ptab = &ParsingTable{
			Action:           make([]int, len(b.automaton.states)*termCount),
			GoTo:             make([]int, len(b.automaton.states)*nonTermCount),
			StateCount:       len(b.automaton.states),
			TerminalCount:    termCount,
			NonTerminalCount: nonTermCount,
			InitialState:     initialState.num.Int(),
			StartProduction:  productionNumStart.Int(),
		}
	}

	for _, state := range b.automaton.orderedStates() {
		var nextSyms []symbol
		for sym := range state.next {
			nextSyms = append(nextSyms, sym)
		}
		sort.Slice(nextSyms, func(i, j int) bool {
			return nextSyms[i] < nextSyms[j]
		})
		for _, sym := range nextSyms {
			nextState := b.automaton.states[state.next[sym]]
			if sym.isTerminal() {
				b.writeShiftAction(ptab, state.num, sym, nextState.num)
			} else {
				ptab.writeGoTo(state.num, sym, nextState.num)
			}
		}

		var reducibleProds []*production
		for prodID := range state.reducible {
			prod, ok := b.prods.findByID(prodID)
			if !ok {
				return nil, fmt.Errorf("reducible production not found: %v", prodID)
			}
			reducibleProds = append(reducibleProds, prod)
		}
		sort.Slice(reducibleProds, func(i, j int) bool {
			return reducibleProds[i].num < reducibleProds[j].num
		})
		for _, prod := range reducibleProds {
			flw, err := b.follow.find(prod.lhs)
			if err != nil {
				return nil, err
			}

			var lookAheads []symbol
			for sym := range flw.symbols {
				lookAheads = append(lookAheads, sym)
			}
			if flw.eof {
				lookAheads = append(lookAheads, symbolEOF)
			}
			sort.Slice(lookAheads, func(i, j int) bool {
				return lookAheads[i] < lookAheads[j]
			})

			for _, a := range lookAheads {
				b.writeReduceAction(ptab, state.num, a, prod.num)
			}
		}
	}

	ptab.conflicts = b.conflicts
	return ptab, nil
}

// writeShiftAction writes a shift action unless the cell is already taken:
// the first-assigned action wins and the collision is recorded.
func (b *lrTableBuilder) writeShiftAction(tab *ParsingTable, state stateNum, sym symbol, nextState stateNum) {
	act := tab.readAction(state.Int(), sym.num().Int())
	if !act.isEmpty() {
		ty, _, p := act.describe()
		if ty == ActionTypeReduce {
			b.conflicts = append(b.conflicts, &ShiftReduceConflict{
				State:      state.Int(),
				Symbol:     b.symbolText(sym),
				NextState:  nextState.Int(),
				Production: p.Int(),
			})
		}
		return
	}
	tab.writeAction(state.Int(), sym.num().Int(), newShiftActionEntry(nextState))
}

// writeReduceAction writes a reduce action unless the cell is already taken:
// the first-assigned action wins and the collision is recorded.
func (b *lrTableBuilder) writeReduceAction(tab *ParsingTable, state stateNum, sym symbol, prod productionNum) {
	act := tab.readAction(state.Int(), sym.num().Int())
	if !act.isEmpty() {
		ty, s, p := act.describe()
		switch ty {
		case ActionTypeReduce:
			if p == prod {
				return
			}
			b.conflicts = append(b.conflicts, &ReduceReduceConflict{
				State:       state.Int(),
				Symbol:      b.symbolText(sym),
				Production1: p.Int(),
				Production2: prod.Int(),
			})
		case ActionTypeShift:
			b.conflicts = append(b.conflicts, &ShiftReduceConflict{
				State:      state.Int(),
				Symbol:     b.symbolText(sym),
				NextState:  s.Int(),
				Production: prod.Int(),
			})
		}
		return
	}
	tab.writeAction(state.Int(), sym.num().Int(), newReduceActionEntry(prod))
}

func (b *lrTableBuilder) symbolText(sym symbol) string {
	text, ok := b.symTab.toText(sym)
	if !ok {
		return sym.String()
	}
	return text
}
