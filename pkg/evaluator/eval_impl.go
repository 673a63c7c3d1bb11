package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/gocalc/pkg/types"
)

// evalNode evaluates a subtree. depth is only used for debug logging.
func (e *Evaluator) evalNode(ctx context.Context, node types.Node, depth int) (int64, error) {
	// Check context cancellation
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	if e.opts.Debug {
		e.logger.Debug("evaluating node",
			"type", fmt.Sprintf("%T", node),
			"position", posOf(node),
			"depth", depth)
	}

	switch n := node.(type) {
	case *types.Literal:
		return n.Value, nil
	case *types.Binary:
		return e.evalBinary(ctx, n, depth)
	case nil:
		return 0, fmt.Errorf("invalid expression: missing node")
	}
	return 0, fmt.Errorf("unsupported node type: %T", node)
}

func (e *Evaluator) evalBinary(ctx context.Context, node *types.Binary, depth int) (int64, error) {
	left, err := e.evalNode(ctx, node.LHS, depth+1)
	if err != nil {
		return 0, err
	}

	right, err := e.evalNode(ctx, node.RHS, depth+1)
	if err != nil {
		return 0, err
	}

	return applyOperator(node, left, right)
}

func posOf(node types.Node) int {
	if node == nil {
		return -1
	}
	return node.Pos()
}
