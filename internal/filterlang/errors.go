package filterlang

import "fmt"

// ParseError reports a syntax error in the filter expression at a given
// 1-based column (spec §7 "ExprParseError (with column)"). The parser
// reports the first error and does not attempt recovery.
type ParseError struct {
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("filter: syntax error at column %d: %s", e.Column, e.Message)
}

// TypeError reports a comparison that is well-formed syntactically but
// invalid semantically, e.g. "<" against a non-numeric LHS (spec §7
// "ExprTypeError").
type TypeError struct {
	Column  int
	Message string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("filter: type error at column %d: %s", e.Column, e.Message)
}

// RegexError reports a malformed regular expression discovered during
// eager compilation at parse time (spec §7 "RegexError").
type RegexError struct {
	Column  int
	Pattern string
	Err     error
}

func (e *RegexError) Error() string {
	return fmt.Sprintf("filter: invalid regex %q at column %d: %v", e.Pattern, e.Column, e.Err)
}
