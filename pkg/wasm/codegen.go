// Package wasm compiles gocalc expression trees to WebAssembly and runs them
// on the wazero interpreter.
//
// The generated module has the shape
//
//	(import "env" "divide_by_zero" (func (param i32)))
//	(func (export "eval") (result i64) ...)
//
// The body of eval is the post-order walk of the tree: literals push an
// i64.const, operators pop two values and push one. Before every division the
// divisor is tested; a zero divisor calls the host import with the byte offset
// of the '/' operator and then traps, so the caller can report the same
// position the tree evaluator would.
//
// # Example
//
//	expr, _ := parser.Parse("(2+3)*4")
//	mod, _ := wasm.Compile(expr)
//	v, err := wasm.Run(ctx, mod) // 20
package wasm

import (
	"bytes"
	"fmt"

	"github.com/sandrolain/gocalc/pkg/types"
)

// Names shared between the generated module and the host.
const (
	HostModule       = "env"
	DivideByZeroFunc = "divide_by_zero"
	EntryPoint       = "eval"
)

// Scratch locals used by division.
const (
	localLHS = 0
	localRHS = 1
)

// Module is a compiled WebAssembly module for one expression.
type Module struct {
	bin    []byte
	source string
}

// Bytes returns the binary module.
func (m *Module) Bytes() []byte {
	return m.bin
}

// Source returns the expression the module was compiled from.
func (m *Module) Source() string {
	return m.source
}

// Compile translates expr into a WebAssembly module.
func Compile(expr *types.Expression) (*Module, error) {
	if expr == nil || expr.AST() == nil {
		return nil, fmt.Errorf("invalid expression")
	}

	g := &codegen{}
	if err := g.emit(expr.AST()); err != nil {
		return nil, err
	}

	var locals uint32
	if g.divisions > 0 {
		locals = 2
	}
	return &Module{
		bin:    encodeModule(g.body.Bytes(), locals),
		source: expr.Source(),
	}, nil
}

// codegen walks a tree and emits the body of the eval function.
type codegen struct {
	body      bytes.Buffer
	divisions int
}

func (g *codegen) op(ops ...byte) {
	g.body.Write(ops)
}

func (g *codegen) emit(n types.Node) error {
	switch v := n.(type) {
	case *types.Literal:
		g.op(opI64Const)
		encodeS64(&g.body, v.Value)
		return nil
	case *types.Binary:
		if err := g.emit(v.LHS); err != nil {
			return err
		}
		if err := g.emit(v.RHS); err != nil {
			return err
		}
		switch v.Op {
		case types.OpAdd:
			g.op(opI64Add)
		case types.OpSub:
			g.op(opI64Sub)
		case types.OpMul:
			g.op(opI64Mul)
		case types.OpDiv:
			g.emitDiv(v.Position)
		default:
			return fmt.Errorf("unknown operator %q at position %d", v.Op, v.Position)
		}
		return nil
	}
	return fmt.Errorf("unsupported node type %T", n)
}

// emitDiv pops two operands and pushes their truncated quotient.
//
// Both operands are stored in locals only after the right subtree has been
// fully evaluated, so nested divisions never clobber a pending value.
// i64.div_s traps on MinInt64 / -1; division by -1 is emitted as 0-lhs,
// which wraps exactly like Go's int64 division.
func (g *codegen) emitDiv(position int) {
	g.divisions++

	g.op(opLocalSet, localRHS)
	g.op(opLocalSet, localLHS)

	g.op(opLocalGet, localRHS, opI64Eqz, opIf, blockVoid)
	g.op(opI32Const)
	encodeS64(&g.body, int64(int32(position)))
	g.op(opCall, 0, opUnreachable, opEnd)

	g.op(opLocalGet, localRHS, opI64Const)
	encodeS64(&g.body, -1)
	g.op(opI64Eq, opIf, typeI64)
	g.op(opI64Const, 0, opLocalGet, localLHS, opI64Sub)
	g.op(opElse)
	g.op(opLocalGet, localLHS, opLocalGet, localRHS, opI64DivS)
	g.op(opEnd)
}
