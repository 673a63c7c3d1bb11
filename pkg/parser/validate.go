package parser

import (
	"github.com/sandrolain/gocalc/pkg/types"
)

// Validate performs a quick single-pass check of an expression without
// building a tree. It is meant for interactive front ends that want to
// reject obviously broken input before evaluating it.
//
// The rules are:
//   - only digits, operators, parentheses and whitespace may appear
//   - an operator must follow a digit or ')'
//   - parentheses must balance and may not be empty
//   - the text must contain a digit and end with a digit or ')'
//
// Whitespace is skipped before any rule is applied, so "1 + 2" passes just
// as it parses with the default options. Passing Validate does not guarantee
// that Parse succeeds ("2(3)" passes here and fails to parse); failing
// Validate guarantees that Parse fails too.
func Validate(query string) error {
	var (
		depth    int
		last     = EOF
		hasDigit bool
	)

	for i := 0; i < len(query); i++ {
		ch := int(query[i])
		switch {
		case isDigit(ch):
			hasDigit = true
		case isOperator(ch):
			if last != ')' && !isDigit(last) {
				return invalid(query, i, "Operator must follow a digit or ')'")
			}
		case ch == '(':
			depth++
		case ch == ')':
			if depth == 0 || !hasDigit || last == '(' {
				return invalid(query, i, "Unmatched or empty parentheses")
			}
			depth--
		case isWhitespace(ch):
			continue
		default:
			return invalid(query, i, "Invalid character")
		}
		last = ch
	}

	switch {
	case !hasDigit:
		return invalid(query, len(query), "Expression contains no number")
	case depth != 0:
		return invalid(query, len(query), "Unmatched parentheses")
	case last != ')' && !isDigit(last):
		return invalid(query, len(query), "Expression must end with a number or ')'")
	}
	return nil
}

func invalid(query string, pos int, message string) error {
	c := NewCursor(query)
	return types.NewError(types.ErrInvalidExpression, message, pos).WithToken(c.charAt(pos))
}
