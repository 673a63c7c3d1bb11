package evaluator

import (
	"context"

	"github.com/sandrolain/gocalc/pkg/types"
	"github.com/sandrolain/gocalc/pkg/wasm"
)

// evalWASM compiles expr to WebAssembly and runs it.
func (e *Evaluator) evalWASM(ctx context.Context, expr *types.Expression) (int64, error) {
	mod, err := wasm.Compile(expr)
	if err != nil {
		return 0, err
	}

	if e.opts.Debug {
		e.logger.Debug("compiled expression to wasm",
			"source", expr.Source(),
			"bytes", len(mod.Bytes()))
	}

	return wasm.Run(ctx, mod)
}
