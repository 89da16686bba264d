package langdef

import (
	"github.com/ava12/packrat"
	"github.com/ava12/packrat/lexer"
)

// Error codes used by langdef package:
const (
	UnexpectedTokenError = packrat.LangDefErrors + iota
	OrphanProductionError
	EmptyAlternativeError
	InvalidEscapeError
	InvalidRuneError
	WrongLiteralError
	UnknownPrefixError
	ImportError
)

func unexpectedTokenError(token *lexer.Token) *packrat.Error {
	if token.Type() == lexer.EofTokenType || token.Type() == nlTokType {
		return packrat.FormatErrorPos(token, UnexpectedTokenError, "unexpected end of line")
	}
	return packrat.FormatErrorPos(token, UnexpectedTokenError, "unexpected %s %q", token.TypeName(), token.Text())
}

func orphanProductionError(token *lexer.Token) *packrat.Error {
	return packrat.FormatErrorPos(token, OrphanProductionError, "alternative %q is not preceded by rule definition", token.Text())
}

func emptyAlternativeError(token *lexer.Token) *packrat.Error {
	return packrat.FormatErrorPos(token, EmptyAlternativeError, "empty alternative")
}

func invalidEscapeError(token *lexer.Token, seq string) *packrat.Error {
	return packrat.FormatErrorPos(token, InvalidEscapeError, "invalid escape sequence %q", seq)
}

func invalidRuneError(token *lexer.Token, code string) *packrat.Error {
	return packrat.FormatErrorPos(token, InvalidRuneError, "invalid code point %q", code)
}

func wrongLiteralError(token *lexer.Token) *packrat.Error {
	return packrat.FormatErrorPos(token, WrongLiteralError, "wrong literal %s", token.Text())
}

func unknownPrefixError(token *lexer.Token, prefix string) *packrat.Error {
	return packrat.FormatErrorPos(token, UnknownPrefixError, "unknown intrinsic prefix %q in %s", prefix, token.Text())
}

func importError(token *lexer.Token, path string, e error) *packrat.Error {
	if token == nil {
		return packrat.FormatError(ImportError, "cannot read %s: %s", path, e.Error())
	}
	return packrat.FormatErrorPos(token, ImportError, "cannot import %s: %s", path, e.Error())
}
