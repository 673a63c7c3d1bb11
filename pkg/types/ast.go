package types

import "strconv"

// Operator identifies the arithmetic operation of a Binary node.
type Operator byte

// Binary operators, in grammar order.
const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
)

// String returns the operator symbol.
func (op Operator) String() string {
	return string(rune(op))
}

// Node is a node of the expression tree.
//
// The set of node types is closed: only *Literal and *Binary implement it.
// Code switching over a Node never needs a default branch for an unknown kind.
type Node interface {
	// Pos returns the byte offset of the node in the source text.
	Pos() int
	node()
}

// Literal is a non-negative integer leaf.
type Literal struct {
	Value    int64
	Position int
}

// Binary is an operator node owning exactly two children.
type Binary struct {
	Op       Operator
	LHS      Node
	RHS      Node
	Position int // offset of the operator symbol
}

func (n *Literal) Pos() int { return n.Position }
func (n *Binary) Pos() int  { return n.Position }

func (*Literal) node() {}
func (*Binary) node()  {}

// String returns the literal in decimal.
func (n *Literal) String() string {
	return strconv.FormatInt(n.Value, 10)
}

// String returns the subtree fully parenthesised, e.g. "((1+2)*3)".
func (n *Binary) String() string {
	var b []byte
	b = appendNode(b, n)
	return string(b)
}

func appendNode(b []byte, n Node) []byte {
	switch v := n.(type) {
	case *Literal:
		return strconv.AppendInt(b, v.Value, 10)
	case *Binary:
		b = append(b, '(')
		b = appendNode(b, v.LHS)
		b = append(b, byte(v.Op))
		b = appendNode(b, v.RHS)
		return append(b, ')')
	}
	return b
}

// arenaChunkSize is the number of nodes of each kind pre-allocated per arena chunk.
const arenaChunkSize = 64

// NodeArena is a bump-pointer allocator for tree nodes.
//
// Nodes are handed out from fixed-size chunks instead of one heap object per
// node. A typical expression fits in a single chunk of each kind.
//
// # Lifetime
//
// The arena must stay alive as long as any node returned by it is reachable.
// Attaching the arena to the [Expression] achieves this: the whole tree and its
// chunks are collected together once the Expression is no longer referenced.
//
// # Thread safety
//
// NodeArena is NOT thread-safe. Each parser owns its own arena.
type NodeArena struct {
	literals [][]Literal
	binaries [][]Binary
	litPos   int
	binPos   int
}

// NewNodeArena allocates an arena pre-warmed with one chunk of each node kind.
func NewNodeArena() *NodeArena {
	return &NodeArena{
		literals: [][]Literal{make([]Literal, arenaChunkSize)},
		binaries: [][]Binary{make([]Binary, arenaChunkSize)},
	}
}

// Literal returns a Literal inside the arena.
func (a *NodeArena) Literal(value int64, position int) *Literal {
	if a.litPos >= arenaChunkSize {
		a.literals = append(a.literals, make([]Literal, arenaChunkSize))
		a.litPos = 0
	}
	n := &a.literals[len(a.literals)-1][a.litPos]
	a.litPos++
	n.Value = value
	n.Position = position
	return n
}

// Binary returns a Binary inside the arena. Both children must already exist:
// trees are built bottom-up.
func (a *NodeArena) Binary(op Operator, lhs, rhs Node, position int) *Binary {
	if a.binPos >= arenaChunkSize {
		a.binaries = append(a.binaries, make([]Binary, arenaChunkSize))
		a.binPos = 0
	}
	n := &a.binaries[len(a.binaries)-1][a.binPos]
	a.binPos++
	n.Op = op
	n.LHS = lhs
	n.RHS = rhs
	n.Position = position
	return n
}

// Len returns the number of nodes allocated so far.
func (a *NodeArena) Len() int {
	return (len(a.literals)-1)*arenaChunkSize + a.litPos +
		(len(a.binaries)-1)*arenaChunkSize + a.binPos
}
