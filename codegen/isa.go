package codegen

import "fmt"

// OpCode is a P-code function code.
type OpCode string

const (
	LIT = OpCode("LIT") // push a constant
	OPR = OpCode("OPR") // arithmetic, comparison, or return
	LOD = OpCode("LOD") // push a variable
	STO = OpCode("STO") // pop into a variable
	CAL = OpCode("CAL") // call a procedure
	INT = OpCode("INT") // grow the stack frame
	JMP = OpCode("JMP") // unconditional jump
	JPC = OpCode("JPC") // jump when the stack top is zero
	RED = OpCode("RED") // push one input value
	WRT = OpCode("WRT") // pop and output the stack top
)

// Operand codes of OPR.
const (
	OprReturn         = 0
	OprNegate         = 1
	OprAdd            = 2
	OprSub            = 3
	OprMul            = 4
	OprDiv            = 5
	OprOdd            = 6
	OprEqual          = 8
	OprNotEqual       = 9
	OprLess           = 10
	OprGreaterOrEqual = 11
	OprGreater        = 12
	OprLessOrEqual    = 13
)

// oprForRelop maps a relational operator to its OPR operand.
var oprForRelop = map[string]int{
	"=":  OprEqual,
	"#":  OprNotEqual,
	"<":  OprLess,
	">=": OprGreaterOrEqual,
	">":  OprGreater,
	"<=": OprLessOrEqual,
}

// Instruction is one P-code instruction. Level is the level difference
// between the use and the declaration; Arg is an address, an operand code,
// or a literal value depending on Op.
type Instruction struct {
	Op    OpCode
	Level int
	Arg   int
}

func (i Instruction) String() string {
	return fmt.Sprintf("%v %v %v", i.Op, i.Level, i.Arg)
}
