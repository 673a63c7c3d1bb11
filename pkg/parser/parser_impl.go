package parser

import (
	"fmt"
	"math"

	"github.com/sandrolain/gocalc/pkg/types"
)

// Parser implements a recursive descent parser for arithmetic expressions.
// A Parser is single use: create one per input with NewParser.
type Parser struct {
	cur   *Cursor
	arena *types.NodeArena
	opts  CompileOptions
	depth int
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	return &Parser{
		cur:   NewCursor(input),
		arena: types.NewNodeArena(),
		opts:  NewCompileOptions(opts...),
	}
}

// Parse parses the entire input and returns the compiled expression.
func (p *Parser) Parse() (*types.Expression, error) {
	ch, err := p.peek()
	if err != nil {
		return nil, err
	}
	if ch == EOF {
		return nil, p.error(types.ErrEmptyExpression, "Empty expression")
	}

	node, _, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	ch, err = p.peek()
	if err != nil {
		return nil, err
	}
	if ch != EOF {
		return nil, p.error(types.ErrUnexpectedChar, fmt.Sprintf("Unexpected character %q", p.cur.charAt(p.cur.Pos())))
	}

	return types.NewExpression(node, p.cur.Input(), p.arena), nil
}

// peek returns the next significant character, skipping whitespace unless
// strict mode is on.
func (p *Parser) peek() (int, error) {
	ch := p.cur.Peek()
	for isWhitespace(ch) {
		if p.opts.StrictWhitespace {
			return ch, p.error(types.ErrWhitespace, "Whitespace is not allowed")
		}
		p.cur.Advance()
		ch = p.cur.Peek()
	}
	return ch, nil
}

// error creates a parser error at the current offset.
func (p *Parser) error(code types.ErrorCode, message string) error {
	pos := p.cur.Pos()
	return types.NewError(code, message, pos).WithToken(p.cur.charAt(pos))
}

// binary joins two subtrees of the given heights under op, rejecting trees
// deeper than MaxDepth.
func (p *Parser) binary(op types.Operator, lhs types.Node, lh int, rhs types.Node, rh int, pos int) (types.Node, int, error) {
	height := 1 + max(lh, rh)
	if p.opts.MaxDepth > 0 && height > p.opts.MaxDepth {
		return nil, 0, types.NewError(types.ErrMaxDepthExceeded,
			fmt.Sprintf("Maximum expression depth of %d exceeded", p.opts.MaxDepth), pos).WithToken(op.String())
	}
	return p.arena.Binary(op, lhs, rhs, pos), height, nil
}

// parseExpression parses terms joined by '+' and '-'. Along with the tree
// it returns the tree's height, counting a literal as 1.
func (p *Parser) parseExpression() (types.Node, int, error) {
	left, height, err := p.parseTerm()
	if err != nil {
		return nil, 0, err
	}

	for {
		ch, err := p.peek()
		if err != nil {
			return nil, 0, err
		}
		if ch != '+' && ch != '-' {
			return left, height, nil
		}
		pos := p.cur.Pos()
		p.cur.Advance()

		right, rh, err := p.parseTerm()
		if err != nil {
			return nil, 0, err
		}
		left, height, err = p.binary(types.Operator(ch), left, height, right, rh, pos)
		if err != nil {
			return nil, 0, err
		}
	}
}

// parseTerm parses factors joined by '*' and '/'.
func (p *Parser) parseTerm() (types.Node, int, error) {
	left, height, err := p.parseFactor()
	if err != nil {
		return nil, 0, err
	}

	for {
		ch, err := p.peek()
		if err != nil {
			return nil, 0, err
		}
		if ch != '*' && ch != '/' {
			return left, height, nil
		}
		pos := p.cur.Pos()
		p.cur.Advance()

		right, rh, err := p.parseFactor()
		if err != nil {
			return nil, 0, err
		}
		left, height, err = p.binary(types.Operator(ch), left, height, right, rh, pos)
		if err != nil {
			return nil, 0, err
		}
	}
}

// parseFactor parses a parenthesised expression or an integer literal.
func (p *Parser) parseFactor() (types.Node, int, error) {
	ch, err := p.peek()
	if err != nil {
		return nil, 0, err
	}

	switch {
	case ch == '(':
		return p.parseGroup()
	case isDigit(ch):
		node, err := p.parseNumber()
		return node, 1, err
	case ch == EOF:
		return nil, 0, p.error(types.ErrUnexpectedEnd, "Unexpected end of expression")
	default:
		return nil, 0, p.error(types.ErrExpectedOperand, fmt.Sprintf("Expected a number or '(' but got %q", p.cur.charAt(p.cur.Pos())))
	}
}

// parseGroup parses '(' expression ')'. The opening parenthesis is the
// current character.
func (p *Parser) parseGroup() (types.Node, int, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, 0, p.error(types.ErrMaxDepthExceeded, fmt.Sprintf("Maximum nesting depth of %d exceeded", p.opts.MaxDepth))
	}
	p.cur.Advance()

	node, height, err := p.parseExpression()
	if err != nil {
		return nil, 0, err
	}

	ch, err := p.peek()
	if err != nil {
		return nil, 0, err
	}
	if ch != ')' {
		got := "end of expression"
		if ch != EOF {
			got = fmt.Sprintf("%q", p.cur.charAt(p.cur.Pos()))
		}
		return nil, 0, p.error(types.ErrExpectedParen, "Expected closing parenthesis but got "+got)
	}
	p.cur.Advance()
	return node, height, nil
}

// parseNumber folds a run of decimal digits into a literal. Digits must be
// contiguous; whitespace ends the literal.
func (p *Parser) parseNumber() (types.Node, error) {
	start := p.cur.Pos()
	var value int64
	for isDigit(p.cur.Peek()) {
		d := int64(p.cur.Advance() - '0')
		if value > (math.MaxInt64-d)/10 {
			for isDigit(p.cur.Peek()) {
				p.cur.Advance()
			}
			return nil, types.NewError(types.ErrNumberOutOfRange, "Number out of range", start).
				WithToken(p.cur.Input()[start:p.cur.Pos()])
		}
		value = value*10 + d
	}
	return p.arena.Literal(value, start), nil
}
