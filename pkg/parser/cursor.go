package parser

import "unicode/utf8"

// EOF is returned by Peek and Advance once the input is exhausted.
const EOF = -1

// Cursor walks the raw bytes of an expression. There is no separate token
// stream: the parser reads characters straight from the cursor.
//
// The offset only moves forward and never passes the end of the input, so
// reading past the end keeps returning EOF instead of indexing out of range.
type Cursor struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	current int    // Current byte offset in input
}

// NewCursor creates a cursor positioned at the start of input.
func NewCursor(input string) *Cursor {
	return &Cursor{
		input:  input,
		length: len(input),
	}
}

// Peek returns the byte at the current offset without consuming it,
// or EOF at the end of the input.
func (c *Cursor) Peek() int {
	if c.current >= c.length {
		return EOF
	}
	return int(c.input[c.current])
}

// Advance returns the byte at the current offset and moves past it.
// At the end of the input it returns EOF and stays put.
func (c *Cursor) Advance() int {
	if c.current >= c.length {
		return EOF
	}
	ch := c.input[c.current]
	c.current++
	return int(ch)
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int {
	return c.current
}

// Input returns the text being scanned.
func (c *Cursor) Input() string {
	return c.input
}

// charAt returns a printable rendering of the character starting at offset pos,
// decoding a full UTF-8 sequence so error messages never show half a rune.
func (c *Cursor) charAt(pos int) string {
	if pos >= c.length {
		return ""
	}
	r, w := utf8.DecodeRuneInString(c.input[pos:])
	if r == utf8.RuneError && w <= 1 {
		return c.input[pos : pos+1]
	}
	return string(r)
}

// Character classification functions

func isWhitespace(ch int) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v':
		return true
	default:
		return false
	}
}

func isDigit(ch int) bool {
	return ch >= '0' && ch <= '9'
}

func isOperator(ch int) bool {
	switch ch {
	case '+', '-', '*', '/':
		return true
	default:
		return false
	}
}
