// Package types defines the core types of gocalc.
//
// This package contains type definitions for:
//   - Node: the closed expression tree (Literal and Binary)
//   - NodeArena: chunked allocator owning the nodes of one tree
//   - Expression: a compiled expression ready for evaluation
//   - Error: structured errors with codes and categories
package types

// Expression represents a compiled arithmetic expression.
//
// An Expression can be evaluated any number of times by passing it to
// [evaluator.Evaluator.Eval]. The tree is never mutated after parsing, so an
// Expression is safe for concurrent use by multiple goroutines.
type Expression struct {
	ast    Node
	source string
	arena  *NodeArena
}

// NewExpression creates a new Expression from a tree. The arena that owns the
// nodes, if any, is kept alive with the expression.
func NewExpression(ast Node, source string, arena *NodeArena) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
		arena:  arena,
	}
}

// AST returns the root of the expression tree.
func (e *Expression) AST() Node {
	return e.ast
}

// Source returns the original source text of the expression.
func (e *Expression) Source() string {
	return e.source
}

// String returns the fully parenthesised form of the tree.
func (e *Expression) String() string {
	if e.ast == nil {
		return ""
	}
	return string(appendNode(nil, e.ast))
}

// Stats describes the shape of an expression tree.
type Stats struct {
	Literals  int
	Operators int
	Depth     int
}

// Stats walks the tree and counts its nodes. For every tree built by the
// parser, Literals == Operators+1.
func (e *Expression) Stats() Stats {
	var s Stats
	s.Depth = countNodes(e.ast, &s)
	return s
}

func countNodes(n Node, s *Stats) int {
	switch v := n.(type) {
	case *Literal:
		s.Literals++
		return 1
	case *Binary:
		s.Operators++
		return 1 + max(countNodes(v.LHS, s), countNodes(v.RHS, s))
	}
	return 0
}
