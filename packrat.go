/*
Package packrat is a grammar-driven PEG parser library.

Consists of subpackages:
  - cmd/packrat: console utility checking grammars and parsing inputs with them;
  - grammar: defines compiled grammar structure (rules, productions, tokens) and its validation;
  - langdef: converts grammar description (written in PEG-like language) to grammar;
  - lexer: regexp lexer used to tokenize grammar descriptions;
  - parser: defines packrat parser, external predicates and entities;
  - source: defines source text and the cursor used to scan it;
  - tree: owning syntax tree with attributes and tags, walkers and selectors.

Typical usage is:

1. Describe grammar in PEG-like language. Description does not contain Go code,
the same grammar can be used for different purposes.

2. Load grammar description once using langdef subpackage.

3. Create a parser for the grammar, register external predicates and entities.

4. Parse input strings and inspect resulting trees.
*/
package packrat

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	LangDefErrors = 1   // used by langdef and lexer
	GrammarErrors = 101 // used by grammar validation
	MatchErrors   = 201 // used by parser for unmatched input
	ParserErrors  = 301 // used by parser for misconfiguration
)

// Error is the error type used by packrat subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// lexer.Token implements this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-empty, non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" {
		msg += " in " + name
	}
	if line != 0 {
		msg += fmt.Sprintf(" at line %d", line)
		if col != 0 {
			msg += fmt.Sprintf(" col %d", col)
		}
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
