package lexer

import (
	"github.com/ava12/packrat/source"
)

// Token is a lexeme fetched by Lexer.
type Token struct {
	tokenType int
	typeName  string
	text      string
	pos       source.Pos
}

// NewToken creates a token.
func NewToken(tokenType int, typeName, text string, pos source.Pos) *Token {
	return &Token{tokenType, typeName, text, pos}
}

func (t *Token) Type() int {
	return t.tokenType
}

func (t *Token) TypeName() string {
	return t.typeName
}

func (t *Token) Text() string {
	return t.text
}

// Pos returns token start position.
func (t *Token) Pos() source.Pos {
	return t.pos
}

// Offset returns token start byte offset.
func (t *Token) Offset() int {
	return t.pos.Pos()
}

func (t *Token) SourceName() string {
	return t.pos.SourceName()
}

func (t *Token) Line() int {
	return t.pos.Line()
}

func (t *Token) Col() int {
	return t.pos.Col()
}

const (
	EofTokenType = -1
	EofTokenName = "-end-of-file-"
)

// EofToken creates end-of-file token for current cursor position.
func EofToken(c *source.Cursor) *Token {
	return &Token{tokenType: EofTokenType, typeName: EofTokenName, pos: c.SourcePos()}
}
