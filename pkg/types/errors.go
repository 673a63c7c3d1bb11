package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a gocalc error code.
type ErrorCode string

// Error codes. S0xxx codes are raised by the parser, D0xxx codes during evaluation.
const (
	// S0xxx: Parser/Syntax errors
	ErrUnexpectedEnd     ErrorCode = "S0104"
	ErrNumberOutOfRange  ErrorCode = "S0102"
	ErrUnexpectedChar    ErrorCode = "S0201"
	ErrExpectedParen     ErrorCode = "S0202"
	ErrExpectedOperand   ErrorCode = "S0203"
	ErrEmptyExpression   ErrorCode = "S0205"
	ErrWhitespace        ErrorCode = "S0206"
	ErrMaxDepthExceeded  ErrorCode = "S0301"
	ErrInvalidExpression ErrorCode = "S0401"

	// D0xxx: Evaluation errors
	ErrDivisionByZero ErrorCode = "D1002"
	ErrBackend        ErrorCode = "D3001"
)

// Category groups error codes by how the caller should react to them.
type Category int

const (
	// CategoryUnknown is returned for errors that carry no gocalc code.
	CategoryUnknown Category = iota
	// CategorySyntax is an unmatched opening parenthesis.
	CategorySyntax
	// CategoryMalformed is any other input outside the grammar.
	CategoryMalformed
	// CategoryDivisionByZero is a zero divisor found during evaluation.
	CategoryDivisionByZero
	// CategoryRuntime is a failure of the execution backend itself.
	CategoryRuntime
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySyntax:
		return "SyntaxError"
	case CategoryMalformed:
		return "MalformedInput"
	case CategoryDivisionByZero:
		return "DivisionByZero"
	case CategoryRuntime:
		return "RuntimeError"
	default:
		return "Unknown"
	}
}

// Category returns the category of the code.
func (c ErrorCode) Category() Category {
	switch c {
	case ErrExpectedParen:
		return CategorySyntax
	case ErrUnexpectedEnd, ErrNumberOutOfRange, ErrUnexpectedChar, ErrExpectedOperand,
		ErrEmptyExpression, ErrWhitespace, ErrMaxDepthExceeded, ErrInvalidExpression:
		return CategoryMalformed
	case ErrDivisionByZero:
		return CategoryDivisionByZero
	case ErrBackend:
		return CategoryRuntime
	default:
		return CategoryUnknown
	}
}

// Error represents a structured gocalc error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new error. A negative position means "not applicable".
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Category returns the category of the error code.
func (e *Error) Category() Category {
	return e.Code.Category()
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCategory reports whether err's chain holds an *Error of category c.
func IsCategory(err error, c Category) bool {
	return CodeOf(err).Category() == c && c != CategoryUnknown
}
