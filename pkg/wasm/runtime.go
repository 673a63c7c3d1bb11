package wasm

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/sandrolain/gocalc/pkg/types"
)

// Run instantiates mod in a fresh wazero runtime and calls its eval export.
//
// The runtime uses the interpreter engine: the module is never compiled to
// native code. A zero divisor is reported as types.ErrDivisionByZero at the
// offending operator; a cancelled ctx aborts the call and returns ctx.Err().
func Run(ctx context.Context, mod *Module) (int64, error) {
	if mod == nil {
		return 0, fmt.Errorf("invalid module")
	}

	cfg := wazero.NewRuntimeConfigInterpreter().WithCloseOnContextDone(true)
	r := wazero.NewRuntimeWithConfig(ctx, cfg)
	defer r.Close(ctx)

	divPos := -1
	_, err := r.NewHostModuleBuilder(HostModule).
		NewFunctionBuilder().
		WithFunc(func(_ context.Context, pos uint32) {
			divPos = int(pos)
		}).
		Export(DivideByZeroFunc).
		Instantiate(ctx)
	if err != nil {
		return 0, backendError("failed to instantiate host functions", err)
	}

	compiled, err := r.CompileModule(ctx, mod.bin)
	if err != nil {
		return 0, backendError("WASM compilation failed", err)
	}

	inst, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return 0, backendError("WASM instantiation failed", err)
	}
	defer inst.Close(ctx)

	fn := inst.ExportedFunction(EntryPoint)
	if fn == nil {
		return 0, backendError(fmt.Sprintf("module does not export %s", EntryPoint), nil)
	}

	if rt := fn.Definition().ResultTypes(); len(rt) != 1 || rt[0] != api.ValueTypeI64 {
		return 0, backendError(fmt.Sprintf("%s must return a single i64", EntryPoint), nil)
	}

	results, err := fn.Call(ctx)
	if err != nil {
		if divPos >= 0 {
			return 0, types.NewError(types.ErrDivisionByZero, "Division by zero", divPos).WithToken("/")
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, backendError("WASM execution failed", err)
	}
	return int64(results[0]), nil
}

func backendError(message string, cause error) error {
	e := types.NewError(types.ErrBackend, message, -1)
	if cause != nil {
		e = e.WithCause(cause)
	}
	return e
}
