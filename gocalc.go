// Package gocalc evaluates integer arithmetic expressions.
//
// An expression is made of non-negative integer literals, the binary
// operators + - * / and parentheses. Multiplication and division bind
// tighter than addition and subtraction, and operators of equal precedence
// associate to the left. Results are int64; division truncates toward zero.
//
// # Quick Start
//
//	// Simple evaluation
//	v, err := gocalc.Evaluate("(2+3)*4") // 20
//
//	// Compile once, evaluate many times
//	expr, err := gocalc.Compile("10-2-3")
//	v1, _ := gocalc.New().Eval(ctx, expr)
//
//	// Run on the WebAssembly backend
//	v, err := gocalc.EvaluateWithContext(ctx, "7/2",
//	    gocalc.WithBackend(gocalc.BackendWASM),
//	)
//
// # Errors
//
// Failures are *types.Error values with a code. Use types.IsCategory to tell
// an unmatched parenthesis (CategorySyntax) from a zero divisor
// (CategoryDivisionByZero) or any other malformed input (CategoryMalformed).
//
// # More Information
//
//   - Parser: github.com/sandrolain/gocalc/pkg/parser
//   - Evaluator: github.com/sandrolain/gocalc/pkg/evaluator
//   - WebAssembly backend: github.com/sandrolain/gocalc/pkg/wasm
//   - Types: github.com/sandrolain/gocalc/pkg/types
package gocalc

import (
	"context"
	"fmt"

	"github.com/sandrolain/gocalc/pkg/evaluator"
	"github.com/sandrolain/gocalc/pkg/parser"
	"github.com/sandrolain/gocalc/pkg/types"
)

// Backends re-exported for convenience.
const (
	BackendTree = evaluator.BackendTree
	BackendWASM = evaluator.BackendWASM
)

// Option re-exports evaluator options so callers only need this package.
type Option = evaluator.EvalOption

// Re-exported evaluator options.
var (
	WithBackend          = evaluator.WithBackend
	WithCaching          = evaluator.WithCaching
	WithDebug            = evaluator.WithDebug
	WithLogger           = evaluator.WithLogger
	WithStrictWhitespace = evaluator.WithStrictWhitespace
)

// Version returns the current version of gocalc.
func Version() string {
	return "v0.1.0-dev"
}

// New returns an evaluator configured with opts.
func New(opts ...Option) *evaluator.Evaluator {
	return evaluator.New(opts...)
}

// Compile parses an expression for repeated evaluation.
//
// The compiled expression is immutable and safe for concurrent use.
func Compile(query string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(query, opts...)
}

// MustCompile is like Compile but panics if the expression cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(query string) *types.Expression {
	expr, err := Compile(query)
	if err != nil {
		panic(fmt.Sprintf("gocalc: Compile(%q): %v", query, err))
	}
	return expr
}

// Evaluate parses and evaluates an expression with the tree backend.
//
// Example:
//
//	v, err := gocalc.Evaluate("2+3*4") // 14
func Evaluate(query string) (int64, error) {
	return EvaluateWithContext(context.Background(), query)
}

// EvaluateWithContext parses and evaluates an expression with custom options.
func EvaluateWithContext(ctx context.Context, query string, opts ...Option) (int64, error) {
	return evaluator.New(opts...).EvalString(ctx, query)
}
