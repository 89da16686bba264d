package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ava12/packrat"
	"github.com/ava12/packrat/source"
)

// Error codes used by parser for unmatched input, MatchError uses them:
const (
	// UnmatchedInputError indicates that the start rule does not match the input.
	UnmatchedInputError = packrat.MatchErrors + iota

	// TrailingInputError indicates that the start rule matches only a prefix of the input.
	TrailingInputError
)

// Error codes used by parser for misconfiguration and misbehaving predicates:
const (
	// UnknownExternalError indicates that grammar uses external predicates that are not registered.
	UnknownExternalError = packrat.ParserErrors + iota

	// NoProgressError indicates a repeated token that succeeded without consuming input.
	NoProgressError

	// UnknownRuleError indicates that requested rule is not defined.
	UnknownRuleError
)

// MatchError describes a failed match: the furthest position reached by any alternative,
// the rule active at that position and token forms expected there.
type MatchError struct {
	Err *packrat.Error

	// Offset contains furthest byte offset reached.
	Offset int

	// Rule contains the name of the innermost rule attempted at Offset.
	Rule string

	// Expected lists token forms tried at Offset, in order of attempts.
	Expected []string
}

func (e *MatchError) Error() string {
	return e.Err.Message
}

// Unwrap returns underlying packrat.Error.
func (e *MatchError) Unwrap() error {
	return e.Err
}

func (e *MatchError) Code() int {
	return e.Err.Code
}

func (e *MatchError) Line() int {
	return e.Err.Line
}

func (e *MatchError) Col() int {
	return e.Err.Col
}

const endOfInput = "end of input"

func newMatchError(code int, s *source.Source, offset int, rule string, expected []string) *MatchError {
	unexpected := endOfInput
	if offset < s.Len() {
		r, _ := utf8.DecodeRuneInString(s.Content()[offset:])
		unexpected = fmt.Sprintf("%q", r)
	}

	msg := "unexpected " + unexpected
	if rule != "" {
		msg += fmt.Sprintf(" in rule %q", rule)
	}
	if len(expected) > 0 {
		msg += ", expected " + strings.Join(expected, " or ")
	}

	line, col := s.LineCol(offset)
	return &MatchError{
		Err:      packrat.NewError(code, msg, s.Name(), line, col),
		Offset:   offset,
		Rule:     rule,
		Expected: expected,
	}
}

func unknownExternalError(names []string) *packrat.Error {
	return packrat.FormatError(UnknownExternalError, "unregistered external predicates: %s", strings.Join(names, ", "))
}

func noProgressError(s *source.Source, offset int, rule, form string) *packrat.Error {
	line, col := s.LineCol(offset)
	msg := fmt.Sprintf("repeated token %s in rule %q matched empty text", form, rule)
	return packrat.NewError(NoProgressError, msg, s.Name(), line, col)
}

func unknownRuleError(name string) *packrat.Error {
	return packrat.FormatError(UnknownRuleError, "unknown rule %q", name)
}
