// Package lexer defines lexical analyzer.
package lexer

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/ava12/packrat"
	"github.com/ava12/packrat/source"
)

const (
	// ErrorTokenType is the type for fake tokens capturing broken lexemes (e.g. unterminated string literals).
	// The purpose of these tokens is to generate more informative error messages.
	// Lexer will never return a token of this type, an error with message containing token text will be returned instead.
	ErrorTokenType = EofTokenType - 1

	// ErrorTokenName is the type name for ErrorTokenType.
	ErrorTokenName = "-error-"
)

// Error codes used by lexer:
const (
	// WrongCharError indicates that lexer cannot fetch any token at current position.
	// Error message contains the rune at current source position.
	WrongCharError = packrat.LangDefErrors + 90 + iota

	// BadTokenError indicates that lexer has fetched a token of ErrorTokenType.
	BadTokenError
)

// TokenType describes token type for specific capturing group of regular expression.
type TokenType struct {
	// Type contains token type, may be any value. ErrorTokenType is treated specially.
	Type int

	// TypeName contains token type name, may be any value.
	TypeName string
}

// Lexer performs lexical analysis of text scanned by source.Cursor using regexp.Regexp.
// Lexer itself is immutable, stateless, and safe for concurrent use, but it advances the cursor.
// Each token type that may be returned by lexer maps to its own regexp capturing group index.
// A match containing no captured groups is treated as insignificant lexeme (e.g. whitespace),
// in this case lexer tries to fetch a token again at new position.
// Every byte of source text must belong to some lexeme.
type Lexer struct {
	types []TokenType
	re    *regexp.Regexp
}

// New creates new Lexer.
// Each n-th element of types describes token type for (n+1)-th regexp capturing group.
// A group that has no description or that has negative token type is treated as ErrorTokenType.
func New(re *regexp.Regexp, types []TokenType) *Lexer {
	ts := make([]TokenType, len(types))
	for i, t := range types {
		ts[i].TypeName = t.TypeName
		if t.Type >= 0 {
			ts[i].Type = t.Type
		} else {
			ts[i].Type = ErrorTokenType
			ts[i].TypeName = ErrorTokenName
		}
	}
	return &Lexer{types: ts, re: re}
}

func wrongCharError(c *source.Cursor) *packrat.Error {
	r, _ := utf8.DecodeRuneInString(c.Remaining())
	msg := fmt.Sprintf("wrong char %q (u+%x)", r, r)
	pos := c.SourcePos()
	return packrat.NewError(WrongCharError, msg, pos.SourceName(), pos.Line(), pos.Col())
}

func wrongTokenError(t *Token) *packrat.Error {
	return packrat.FormatErrorPos(t, BadTokenError, "bad token %q", t.Text())
}

// Next fetches token starting at current cursor position and advances the cursor.
// Returns nil token and packrat.Error and does not move the cursor if there is a lexical error.
// Returns EoF token at the end of text.
func (l *Lexer) Next(c *source.Cursor) (*Token, error) {
	c.Save()
	for {
		if c.Eos() {
			c.Commit()
			return EofToken(c), nil
		}

		content := c.Remaining()
		match := l.re.FindStringSubmatchIndex(content)
		if len(match) == 0 || match[0] != 0 || match[1] <= match[0] {
			e := wrongCharError(c)
			c.Restore()
			return nil, e
		}

		for i := 2; i < len(match); i += 2 {
			if match[i] < 0 || match[i+1] < 0 {
				continue
			}

			tokenType := ErrorTokenType
			typeName := ErrorTokenName
			if len(l.types) >= (i >> 1) {
				tokenType = l.types[(i>>1)-1].Type
				typeName = l.types[(i>>1)-1].TypeName
			}
			token := NewToken(tokenType, typeName, content[match[i]:match[i+1]], source.NewPos(c.Source(), c.Pos()+match[i]))
			if tokenType == ErrorTokenType {
				c.Restore()
				return nil, wrongTokenError(token)
			}

			c.Skip(match[1])
			c.Commit()
			return token, nil
		}

		c.Skip(match[1])
	}
}
