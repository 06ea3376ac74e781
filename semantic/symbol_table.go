package semantic

import "fmt"

type SymbolKind string

const (
	SymbolKindConst     = SymbolKind("const")
	SymbolKindVar       = SymbolKind("var")
	SymbolKindProcedure = SymbolKind("procedure")
)

// Symbol is one symbol table entry. Value is meaningful for constants only;
// Address is the per-level slot of a variable or the entry index of a
// procedure.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Level   int
	Value   int
	Address int
}

// SymbolTable manages block-scoped declarations. Entries are kept in a flat
// list ordered by declaration; leaving a scope discards the entries of that
// level, so an inner-to-outer lookup is a reverse scan.
type SymbolTable struct {
	symbols   []*Symbol
	level     int
	addresses []int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		addresses: []int{0},
	}
}

func (t *SymbolTable) Level() int {
	return t.level
}

// EnterScope opens a nested block. Variable slots restart at zero because
// each block gets its own activation record.
func (t *SymbolTable) EnterScope() {
	t.level++
	t.addresses = append(t.addresses, 0)
}

// ExitScope discards all declarations of the current level.
func (t *SymbolTable) ExitScope() {
	keep := t.symbols[:0]
	for _, sym := range t.symbols {
		if sym.Level < t.level {
			keep = append(keep, sym)
		}
	}
	t.symbols = keep
	t.level--
	t.addresses = t.addresses[:len(t.addresses)-1]
}

func (t *SymbolTable) DefineConst(name string, value int) error {
	if t.lookupCurrentLevel(name) != nil {
		return fmt.Errorf("constant '%v' is already defined in the current level", name)
	}
	t.symbols = append(t.symbols, &Symbol{
		Name:  name,
		Kind:  SymbolKindConst,
		Level: t.level,
		Value: value,
	})
	return nil
}

// DefineVar declares a variable and returns its slot within the level.
func (t *SymbolTable) DefineVar(name string) (int, error) {
	if t.lookupCurrentLevel(name) != nil {
		return 0, fmt.Errorf("variable '%v' is already defined in the current level", name)
	}
	address := t.addresses[len(t.addresses)-1]
	t.addresses[len(t.addresses)-1]++
	t.symbols = append(t.symbols, &Symbol{
		Name:    name,
		Kind:    SymbolKindVar,
		Level:   t.level,
		Address: address,
	})
	return address, nil
}

func (t *SymbolTable) DefineProcedure(name string, entryAddress int) (*Symbol, error) {
	if t.lookupCurrentLevel(name) != nil {
		return nil, fmt.Errorf("procedure '%v' is already defined in the current level", name)
	}
	sym := &Symbol{
		Name:    name,
		Kind:    SymbolKindProcedure,
		Level:   t.level,
		Address: entryAddress,
	}
	t.symbols = append(t.symbols, sym)
	return sym, nil
}

// Lookup finds the innermost declaration of name, or nil.
func (t *SymbolTable) Lookup(name string) *Symbol {
	for i := len(t.symbols) - 1; i >= 0; i-- {
		if t.symbols[i].Name == name {
			return t.symbols[i]
		}
	}
	return nil
}

func (t *SymbolTable) lookupCurrentLevel(name string) *Symbol {
	for i := len(t.symbols) - 1; i >= 0; i-- {
		if t.symbols[i].Level < t.level {
			break
		}
		if t.symbols[i].Name == name {
			return t.symbols[i]
		}
	}
	return nil
}

// Symbols returns the live entries in declaration order.
func (t *SymbolTable) Symbols() []*Symbol {
	return t.symbols
}
