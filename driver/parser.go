package driver

import (
	"fmt"

	"github.com/pl0-lang/pl0/grammar"
	"github.com/pl0-lang/pl0/token"
)

// SyntaxError reports the first point where the token sequence left the
// language. Token is nil when the error occurred at the end of the input.
type SyntaxError struct {
	Token             *token.Token
	Line              int
	Pos               int
	Message           string
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	text := "<eof>"
	if e.Token != nil {
		text = e.Token.Text
	}
	if e.Line > 0 {
		return fmt.Sprintf("%v: unexpected token '%v' at line %v", e.Message, text, e.Line)
	}
	return fmt.Sprintf("%v: unexpected token '%v' at position %v", e.Message, text, e.Pos)
}

// Result is the outcome of a parse. Accepted and SynErr are mutually
// exclusive; Tree is set on acceptance when tree building was requested.
type Result struct {
	Accepted bool
	SynErr   *SyntaxError
	Tree     *Node
}

type ParserOption func(p *Parser)

// MakeTree makes Parse build a concrete syntax tree alongside recognition.
func MakeTree() ParserOption {
	return func(p *Parser) {
		p.makeTree = true
	}
}

// Parser runs the shift-reduce automaton a parsing table describes. It holds
// no per-parse state, so one Parser can serve any number of sequential
// parses over the same table.
type Parser struct {
	tab      *grammar.ParsingTable
	makeTree bool
}

func NewParser(tab *grammar.ParsingTable, opts ...ParserOption) *Parser {
	p := &Parser{
		tab: tab,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse recognizes toks. A token sequence outside the language yields a
// Result carrying a SyntaxError, not an error; the error return is reserved
// for a corrupt parsing table, an undefined GOTO entry in particular.
func (p *Parser) Parse(toks []*token.Token) (*Result, error) {
	stateStack := []int{p.tab.InitialState}
	var semStack []*Node

	pos := 0
	for {
		term, tok := p.nextTerminal(toks, pos)
		if term < 0 {
			return &Result{
				SynErr: p.newSyntaxError(tok, pos, "unrecognized token kind"),
			}, nil
		}

		top := stateStack[len(stateStack)-1]
		act := p.tab.Action[top*p.tab.TerminalCount+term]
		switch {
		case act < 0: // Shift
			stateStack = append(stateStack, act*-1)
			if p.makeTree {
				semStack = append(semStack, &Node{
					KindName: p.tab.Terminals[term],
					Text:     tok.Text,
					Line:     tok.Line,
				})
			}
			pos++
		case act > 0: // Reduce
			prodNum := act
			if prodNum == p.tab.StartProduction {
				res := &Result{
					Accepted: true,
				}
				if p.makeTree {
					res.Tree = semStack[len(semStack)-1]
				}
				return res, nil
			}

			n := p.tab.AlternativeSymbolCounts[prodNum]
			lhs := p.tab.LHSSymbols[prodNum]

			stateStack = stateStack[:len(stateStack)-n]
			top := stateStack[len(stateStack)-1]
			nextState := p.tab.GoTo[top*p.tab.NonTerminalCount+lhs]
			if nextState == 0 {
				return nil, fmt.Errorf("parsing table is malformed: undefined GOTO entry; state: %v, non-terminal: %v", top, p.tab.NonTerminals[lhs])
			}
			stateStack = append(stateStack, nextState)

			if p.makeTree {
				handle := semStack[len(semStack)-n:]
				children := make([]*Node, n)
				copy(children, handle)
				semStack = semStack[:len(semStack)-n]
				semStack = append(semStack, &Node{
					KindName: p.tab.NonTerminals[lhs],
					Children: children,
				})
			}
		default: // Error
			synErr := p.newSyntaxError(tok, pos, "syntax error")
			synErr.ExpectedTerminals = p.searchLookahead(top)
			return &Result{
				SynErr: synErr,
			}, nil
		}
	}
}

// nextTerminal resolves the lookahead at pos to a terminal number. Past the
// last token it yields the end marker. A token whose kind the grammar does
// not know resolves to -1.
func (p *Parser) nextTerminal(toks []*token.Token, pos int) (int, *token.Token) {
	if pos >= len(toks) {
		return p.tab.EOFSymbol, nil
	}
	tok := toks[pos]
	term, ok := p.tab.TerminalNum(tok.Terminal())
	if !ok {
		return -1, tok
	}
	return term, tok
}

func (p *Parser) newSyntaxError(tok *token.Token, pos int, message string) *SyntaxError {
	line := 0
	if tok != nil {
		line = tok.Line
	}
	return &SyntaxError{
		Token:   tok,
		Line:    line,
		Pos:     pos,
		Message: message,
	}
}

// searchLookahead lists the terminals the state has any action for. It runs
// only on the error path, so the linear scan over the action row is fine.
func (p *Parser) searchLookahead(state int) []string {
	kinds := []string{}
	for term := 0; term < p.tab.TerminalCount; term++ {
		if p.tab.Action[state*p.tab.TerminalCount+term] == 0 {
			continue
		}
		kinds = append(kinds, p.tab.Terminals[term])
	}
	return kinds
}
