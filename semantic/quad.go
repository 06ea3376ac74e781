package semantic

import "fmt"

// Quadruple is one intermediate instruction (op, arg1, arg2, result).
// Unused operands hold "-".
type Quadruple struct {
	Op     string
	Arg1   string
	Arg2   string
	Result string
}

func (q *Quadruple) String() string {
	return fmt.Sprintf("(%v, %v, %v, %v)", q.Op, q.Arg1, q.Arg2, q.Result)
}
