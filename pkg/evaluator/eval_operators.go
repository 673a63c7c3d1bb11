package evaluator

import (
	"fmt"

	"github.com/sandrolain/gocalc/pkg/types"
)

// applyOperator combines two evaluated operands. Arithmetic wraps on int64
// overflow; division truncates toward zero.
func applyOperator(node *types.Binary, left, right int64) (int64, error) {
	switch node.Op {
	case types.OpAdd:
		return left + right, nil
	case types.OpSub:
		return left - right, nil
	case types.OpMul:
		return left * right, nil
	case types.OpDiv:
		if right == 0 {
			return 0, types.NewError(types.ErrDivisionByZero, "Division by zero", node.Position).WithToken("/")
		}
		return left / right, nil
	default:
		return 0, fmt.Errorf("unknown operator %q at position %d", node.Op, node.Position)
	}
}
