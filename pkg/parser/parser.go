package parser

// Package parser implements the gocalc expression parser.
//
// The parser is a hand-written recursive descent over three precedence tiers:
//
//	expression := term (('+' | '-') term)*
//	term       := factor (('*' | '/') factor)*
//	factor     := '(' expression ')' | digit+
//
// Characters are consumed straight from a [Cursor]; there is no token stream.
// Operators of equal precedence associate to the left, so "8-4-2" parses as
// "(8-4)-2".
//
// # Example
//
//	expr, err := parser.Parse("(2+3)*4")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(expr) // ((2+3)*4)
//
// # Errors
//
// Every failure is a *types.Error carrying a code and the byte offset where
// parsing stopped. An unmatched "(" is ErrExpectedParen; any other input the
// grammar does not cover (empty text, leading operator, stray character,
// trailing garbage) is reported with a malformed-input code.

import (
	"github.com/sandrolain/gocalc/pkg/types"
)

// DefaultMaxDepth is the default limit on parenthesis nesting and tree depth.
const DefaultMaxDepth = 10000

// Parse parses an expression with default options.
//
// Example:
//
//	expr, err := parser.Parse("1+2*3")
//	if err != nil {
//	    fmt.Printf("parse error: %v\n", err)
//	    return
//	}
func Parse(query string) (*types.Expression, error) {
	p := NewParser(query)
	return p.Parse()
}

// Compile parses an expression with the given options.
func Compile(query string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(query, opts...)
	return p.Parse()
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// StrictWhitespace rejects any whitespace instead of skipping it between tokens.
	StrictWhitespace bool
	// MaxDepth limits both parenthesis nesting and the depth of the
	// resulting tree, so that neither parsing nor evaluation can exhaust the
	// goroutine stack. A chain such as "1+1+1" is as deep as it is long.
	// Zero or negative disables the limit.
	MaxDepth int
}

// NewCompileOptions returns the defaults with opts applied.
func NewCompileOptions(opts ...CompileOption) CompileOptions {
	options := CompileOptions{
		StrictWhitespace: false,
		MaxDepth:         DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// WithStrictWhitespace enables or disables strict whitespace handling.
func WithStrictWhitespace(strict bool) CompileOption {
	return func(opts *CompileOptions) {
		opts.StrictWhitespace = strict
	}
}

// WithMaxDepth sets the maximum parenthesis nesting and tree depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
