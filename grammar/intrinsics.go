package grammar

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/ava12/packrat/source"
)

// Matcher advances the cursor past matched text and returns true, or returns false leaving the cursor intact.
type Matcher func(c *source.Cursor) bool

type intrinsic struct {
	match     Matcher
	zeroWidth bool
}

var intrinsics = map[string]intrinsic{
	"character": {match: matchCharacter},
	"digit":     {match: matchRune(isDigit)},
	"hex":       {match: matchHex},
	"alpha":     {match: matchRune(unicode.IsLetter)},
	"alnum":     {match: matchRune(isAlnum)},
	"punct":     {match: matchRune(isPunct)},
	"ws":        {match: matchRunes(unicode.IsSpace)},
	"sep":       {match: matchRunes(isSeparator)},
	"eol":       {match: matchEol},
	"eos":       {match: matchEos, zeroWidth: true},
	"sol":       {match: matchSol, zeroWidth: true},
	"word":      {match: matchRunes(isWordChar)},
	"number":    {match: matchNumber},
	"quoted":    {match: matchQuoted},
	"remainder": {match: matchRemainder},
}

// IsIntrinsic reports whether name is a built-in intrinsic.
func IsIntrinsic(name string) bool {
	_, has := intrinsics[name]
	return has
}

// IntrinsicNames returns sorted names of built-in intrinsics.
func IntrinsicNames() []string {
	res := make([]string, 0, len(intrinsics))
	for name := range intrinsics {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// ZeroWidthIntrinsic reports whether the intrinsic never consumes input.
func ZeroWidthIntrinsic(name string) bool {
	return intrinsics[name].zeroWidth
}

// IntrinsicMatcher returns the matcher for named intrinsic.
// Unknown intrinsics get a matcher that always fails.
func IntrinsicMatcher(name string) (Matcher, bool) {
	i, has := intrinsics[name]
	if !has {
		return matchNothing, false
	}
	return i.match, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '\t'
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func matchNothing(*source.Cursor) bool {
	return false
}

func matchCharacter(c *source.Cursor) bool {
	_, ok := c.GetCharacter()
	return ok
}

func matchHex(c *source.Cursor) bool {
	_, ok := c.GetHexDigit()
	return ok
}

func matchNumber(c *source.Cursor) bool {
	_, ok := c.GetNumber()
	return ok
}

func matchQuoted(c *source.Cursor) bool {
	_, ok := c.GetQuoted(0)
	return ok
}

func matchRemainder(c *source.Cursor) bool {
	_, ok := c.GetRemainder()
	return ok
}

func matchRune(f func(rune) bool) Matcher {
	return func(c *source.Cursor) bool {
		r, size := utf8.DecodeRuneInString(c.Remaining())
		if size == 0 || !f(r) {
			return false
		}
		return c.Skip(size)
	}
}

func matchRunes(f func(rune) bool) Matcher {
	return func(c *source.Cursor) bool {
		text := c.Remaining()
		p := 0
		for p < len(text) {
			r, size := utf8.DecodeRuneInString(text[p:])
			if !f(r) {
				break
			}
			p += size
		}
		return p > 0 && c.Skip(p)
	}
}

func matchEol(c *source.Cursor) bool {
	return c.SkipLiteral("\r\n") || c.SkipLiteral("\n") || c.SkipLiteral("\r")
}

func matchEos(c *source.Cursor) bool {
	return c.Eos()
}

func matchSol(c *source.Cursor) bool {
	p := c.Pos()
	if p == 0 {
		return true
	}

	prev := c.Source().Content()[p-1]
	return prev == '\n' || (prev == '\r' && c.Peek() != '\n')
}
