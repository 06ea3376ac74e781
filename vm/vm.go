package vm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pl0-lang/pl0/codegen"
)

const stackSize = 1000

// RuntimeError reports a fault during execution, the program counter of the
// faulting instruction included.
type RuntimeError struct {
	Message string
	PC      int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at %v: %v", e.PC, e.Message)
}

// VM executes P-code on a data stack. A frame holds the static link, the
// dynamic link, and the return address in its first three slots, then the
// block's variables. Reads are served from a preloaded input buffer;
// writes accumulate in an output buffer.
type VM struct {
	code   []codegen.Instruction
	stack  []int
	pc     int
	bp     int
	sp     int
	input  []int
	output []string
}

func New(code []codegen.Instruction, input []int) *VM {
	return &VM{
		code:  code,
		stack: make([]int, stackSize),
		sp:    -1,
		input: input,
	}
}

// base follows the static chain l levels down.
func (m *VM) base(l int) int {
	b := m.bp
	for l > 0 {
		b = m.stack[b]
		l--
	}
	return b
}

// Run executes the program and returns its output, one written value per
// line.
func (m *VM) Run() (string, error) {
	for m.pc >= 0 && m.pc < len(m.code) {
		i := m.code[m.pc]
		at := m.pc
		m.pc++

		switch i.Op {
		case codegen.LIT:
			if err := m.push(i.Arg, at); err != nil {
				return "", err
			}
		case codegen.LOD:
			if err := m.push(m.stack[m.base(i.Level)+i.Arg], at); err != nil {
				return "", err
			}
		case codegen.STO:
			m.stack[m.base(i.Level)+i.Arg] = m.stack[m.sp]
			m.sp--
		case codegen.CAL:
			if m.sp+3 >= len(m.stack) {
				return "", &RuntimeError{Message: "stack overflow", PC: at}
			}
			m.stack[m.sp+1] = m.base(i.Level)
			m.stack[m.sp+2] = m.bp
			m.stack[m.sp+3] = m.pc
			m.bp = m.sp + 1
			m.pc = i.Arg
		case codegen.INT:
			if m.sp+i.Arg >= len(m.stack) {
				return "", &RuntimeError{Message: "stack overflow", PC: at}
			}
			m.sp += i.Arg
		case codegen.JMP:
			m.pc = i.Arg
		case codegen.JPC:
			if m.stack[m.sp] == 0 {
				m.pc = i.Arg
			}
			m.sp--
		case codegen.WRT:
			m.output = append(m.output, strconv.Itoa(m.stack[m.sp]))
			m.sp--
		case codegen.RED:
			value := 0
			if len(m.input) > 0 {
				value = m.input[0]
				m.input = m.input[1:]
			}
			if err := m.push(value, at); err != nil {
				return "", err
			}
		case codegen.OPR:
			halt, err := m.operate(i.Arg, at)
			if err != nil {
				return "", err
			}
			if halt {
				return strings.Join(m.output, "\n"), nil
			}
		default:
			return "", &RuntimeError{Message: fmt.Sprintf("unknown instruction %v", i.Op), PC: at}
		}
	}
	return strings.Join(m.output, "\n"), nil
}

func (m *VM) push(value int, at int) error {
	if m.sp+1 >= len(m.stack) {
		return &RuntimeError{Message: "stack overflow", PC: at}
	}
	m.sp++
	m.stack[m.sp] = value
	return nil
}

func (m *VM) operate(opr int, at int) (bool, error) {
	switch opr {
	case codegen.OprReturn:
		// The top-level return halts the machine.
		if m.bp == 0 {
			return true, nil
		}
		m.sp = m.bp - 1
		m.pc = m.stack[m.sp+3]
		m.bp = m.stack[m.sp+2]
	case codegen.OprNegate:
		m.stack[m.sp] = -m.stack[m.sp]
	case codegen.OprAdd:
		m.stack[m.sp-1] += m.stack[m.sp]
		m.sp--
	case codegen.OprSub:
		m.stack[m.sp-1] -= m.stack[m.sp]
		m.sp--
	case codegen.OprMul:
		m.stack[m.sp-1] *= m.stack[m.sp]
		m.sp--
	case codegen.OprDiv:
		if m.stack[m.sp] == 0 {
			return false, &RuntimeError{Message: "division by zero", PC: at}
		}
		m.stack[m.sp-1] = floorDiv(m.stack[m.sp-1], m.stack[m.sp])
		m.sp--
	case codegen.OprOdd:
		m.stack[m.sp] = m.stack[m.sp] & 1
	case codegen.OprEqual:
		m.compare(m.stack[m.sp-1] == m.stack[m.sp])
	case codegen.OprNotEqual:
		m.compare(m.stack[m.sp-1] != m.stack[m.sp])
	case codegen.OprLess:
		m.compare(m.stack[m.sp-1] < m.stack[m.sp])
	case codegen.OprGreaterOrEqual:
		m.compare(m.stack[m.sp-1] >= m.stack[m.sp])
	case codegen.OprGreater:
		m.compare(m.stack[m.sp-1] > m.stack[m.sp])
	case codegen.OprLessOrEqual:
		m.compare(m.stack[m.sp-1] <= m.stack[m.sp])
	default:
		return false, &RuntimeError{Message: fmt.Sprintf("unknown operation %v", opr), PC: at}
	}
	return false, nil
}

func (m *VM) compare(cond bool) {
	if cond {
		m.stack[m.sp-1] = 1
	} else {
		m.stack[m.sp-1] = 0
	}
	m.sp--
}

// floorDiv rounds toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
