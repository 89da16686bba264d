package source

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Cursor scans source text. It holds a reference to the text, current byte offset
// and a stack of saved offsets. Every Save must be paired with exactly one Restore or Commit.
//
// All Get* recognizers return recognized value and true on success,
// or zero value and false leaving the cursor untouched on failure.
//
// Cursor is not safe for concurrent use.
type Cursor struct {
	src   *Source
	text  string
	pos   int
	saved []int
}

// NewCursor creates a cursor at the beginning of s.
func NewCursor(s *Source) *Cursor {
	return &Cursor{src: s, text: s.content}
}

// NewStringCursor creates a cursor for unnamed text.
func NewStringCursor(text string) *Cursor {
	return NewCursor(New("", text))
}

// Source returns scanned source.
func (c *Cursor) Source() *Source {
	return c.src
}

// Pos returns current byte offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// Seek moves cursor to byte offset pos. Returns false and does nothing if pos is out of range.
func (c *Cursor) Seek(pos int) bool {
	if pos < 0 || pos > len(c.text) {
		return false
	}

	c.pos = pos
	return true
}

// LineCol returns 1-based line and column of current position.
func (c *Cursor) LineCol() (line, col int) {
	return c.src.LineCol(c.pos)
}

// SourcePos returns current position.
func (c *Cursor) SourcePos() Pos {
	return NewPos(c.src, c.pos)
}

// Remaining returns unscanned text.
func (c *Cursor) Remaining() string {
	return c.text[c.pos:]
}

// Eos reports whether the whole text is scanned.
func (c *Cursor) Eos() bool {
	return c.pos >= len(c.text)
}

// Peek returns next rune without consuming it or 0 at the end of text.
func (c *Cursor) Peek() rune {
	if c.pos >= len(c.text) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(c.text[c.pos:])
	return r
}

// PeekN returns up to n next runes without consuming them.
func (c *Cursor) PeekN(n int) string {
	end := c.runeOffset(n)
	if end < 0 {
		end = len(c.text)
	}
	return c.text[c.pos:end]
}

// runeOffset returns byte offset n runes ahead or -1 if there are fewer runes left.
func (c *Cursor) runeOffset(n int) int {
	p := c.pos
	for ; n > 0; n-- {
		if p >= len(c.text) {
			return -1
		}

		_, size := utf8.DecodeRuneInString(c.text[p:])
		p += size
	}
	return p
}

// Save pushes current position to the checkpoint stack.
func (c *Cursor) Save() {
	c.saved = append(c.saved, c.pos)
}

// Restore pops the most recent checkpoint and rewinds cursor to it.
// Panics if there is no checkpoint.
func (c *Cursor) Restore() {
	l := len(c.saved) - 1
	if l < 0 {
		panic("source: Restore without Save")
	}

	c.pos = c.saved[l]
	c.saved = c.saved[:l]
}

// Commit pops the most recent checkpoint keeping current position.
// Panics if there is no checkpoint.
func (c *Cursor) Commit() {
	l := len(c.saved) - 1
	if l < 0 {
		panic("source: Commit without Save")
	}

	c.saved = c.saved[:l]
}

// Depth returns the number of active checkpoints.
func (c *Cursor) Depth() int {
	return len(c.saved)
}

// Skip advances cursor by n bytes if there are at least n bytes left.
func (c *Cursor) Skip(n int) bool {
	if n < 0 || c.pos+n > len(c.text) {
		return false
	}

	c.pos += n
	return true
}

// SkipN advances cursor by n runes if there are at least n runes left.
func (c *Cursor) SkipN(n int) bool {
	if n < 0 {
		return false
	}

	p := c.runeOffset(n)
	if p < 0 {
		return false
	}

	c.pos = p
	return true
}

// SkipWS skips the longest run of white space and returns the number of skipped bytes.
func (c *Cursor) SkipWS() int {
	start := c.pos
	for c.pos < len(c.text) {
		r, size := utf8.DecodeRuneInString(c.text[c.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		c.pos += size
	}
	return c.pos - start
}

// SkipLiteral skips s if the text at current position starts with s (case-sensitive).
// Empty s always matches.
func (c *Cursor) SkipLiteral(s string) bool {
	if !strings.HasPrefix(c.text[c.pos:], s) {
		return false
	}

	c.pos += len(s)
	return true
}

// GetCharacter fetches any single rune.
func (c *Cursor) GetCharacter() (rune, bool) {
	if c.pos >= len(c.text) {
		return 0, false
	}

	r, size := utf8.DecodeRuneInString(c.text[c.pos:])
	c.pos += size
	return r, true
}

func (c *Cursor) digitAt(p int) int {
	if p < len(c.text) && c.text[p] >= '0' && c.text[p] <= '9' {
		return int(c.text[p] - '0')
	}
	return -1
}

// getFixedDigits fetches exactly n decimal digits.
func (c *Cursor) getFixedDigits(n int) (int, bool) {
	res := 0
	for i := 0; i < n; i++ {
		d := c.digitAt(c.pos + i)
		if d < 0 {
			return 0, false
		}
		res = res*10 + d
	}

	c.pos += n
	return res, true
}

// GetDigit fetches a single decimal digit.
func (c *Cursor) GetDigit() (int, bool) {
	return c.getFixedDigits(1)
}

// GetDigit2 fetches exactly two decimal digits, e.g. a month number.
func (c *Cursor) GetDigit2() (int, bool) {
	return c.getFixedDigits(2)
}

// GetDigit3 fetches exactly three decimal digits.
func (c *Cursor) GetDigit3() (int, bool) {
	return c.getFixedDigits(3)
}

// GetDigit4 fetches exactly four decimal digits, e.g. a year.
func (c *Cursor) GetDigit4() (int, bool) {
	return c.getFixedDigits(4)
}

// GetDigits fetches the longest run of decimal digits.
// Fails if there are no digits or the value does not fit into int.
func (c *Cursor) GetDigits() (int, bool) {
	p := c.pos
	for c.digitAt(p) >= 0 {
		p++
	}
	if p == c.pos {
		return 0, false
	}

	res, e := strconv.Atoi(c.text[c.pos:p])
	if e != nil {
		return 0, false
	}

	c.pos = p
	return res, true
}

// GetHexDigit fetches a single hexadecimal digit.
func (c *Cursor) GetHexDigit() (int, bool) {
	if c.pos >= len(c.text) {
		return 0, false
	}

	var res int
	b := c.text[c.pos]
	switch {
	case b >= '0' && b <= '9':
		res = int(b - '0')
	case b >= 'a' && b <= 'f':
		res = int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		res = int(b-'A') + 10
	default:
		return 0, false
	}

	c.pos++
	return res, true
}

// numberEnd returns the end offset of a number starting at current position or -1.
// Number is: [-+] digits [. digits] [(e|E) [-+] digits].
func (c *Cursor) numberEnd() int {
	p := c.pos
	if p < len(c.text) && (c.text[p] == '-' || c.text[p] == '+') {
		p++
	}

	digitsStart := p
	for c.digitAt(p) >= 0 {
		p++
	}
	if p == digitsStart {
		return -1
	}

	if p+1 < len(c.text) && c.text[p] == '.' && c.digitAt(p+1) >= 0 {
		p += 2
		for c.digitAt(p) >= 0 {
			p++
		}
	}

	if p < len(c.text) && (c.text[p] == 'e' || c.text[p] == 'E') {
		q := p + 1
		if q < len(c.text) && (c.text[q] == '-' || c.text[q] == '+') {
			q++
		}
		if c.digitAt(q) >= 0 {
			p = q
			for c.digitAt(p) >= 0 {
				p++
			}
		}
	}

	return p
}

// GetNumber fetches integer or decimal number with optional sign and exponent.
func (c *Cursor) GetNumber() (float64, bool) {
	end := c.numberEnd()
	if end < 0 {
		return 0, false
	}

	res, e := strconv.ParseFloat(c.text[c.pos:end], 64)
	if e != nil {
		return 0, false
	}

	c.pos = end
	return res, true
}

// GetQuoted fetches text enclosed in quote runes and returns it without quotes.
// A quote rune preceded by backslash does not terminate the text and is unescaped.
// Zero quote accepts either single or double quotes.
func (c *Cursor) GetQuoted(quote rune) (string, bool) {
	first := c.Peek()
	if quote == 0 {
		if first != '\'' && first != '"' {
			return "", false
		}
		quote = first
	} else if first != quote || c.Eos() {
		return "", false
	}

	_, qsize := utf8.DecodeRuneInString(c.text[c.pos:])
	p := c.pos + qsize
	var b strings.Builder
	for p < len(c.text) {
		r, size := utf8.DecodeRuneInString(c.text[p:])
		if r == quote {
			c.pos = p + size
			return b.String(), true
		}

		if r == '\\' && p+size < len(c.text) {
			next, nsize := utf8.DecodeRuneInString(c.text[p+size:])
			if next == quote {
				b.WriteRune(next)
				p += size + nsize
				continue
			}
		}

		b.WriteRune(r)
		p += size
	}

	return "", false
}

// GetOneOf fetches the longest of options the text at current position starts with.
// Empty options are ignored.
func (c *Cursor) GetOneOf(options []string) (string, bool) {
	rest := c.text[c.pos:]
	res := ""
	for _, o := range options {
		if len(o) > len(res) && strings.HasPrefix(rest, o) {
			res = o
		}
	}
	if res == "" {
		return "", false
	}

	c.pos += len(res)
	return res, true
}

// GetUntilWS fetches non-empty text up to the next white space or the end of text.
func (c *Cursor) GetUntilWS() (string, bool) {
	p := c.pos
	for p < len(c.text) {
		r, size := utf8.DecodeRuneInString(c.text[p:])
		if unicode.IsSpace(r) {
			break
		}
		p += size
	}
	if p == c.pos {
		return "", false
	}

	res := c.text[c.pos:p]
	c.pos = p
	return res, true
}

// GetRemainder fetches all unscanned text. Fails at the end of text.
func (c *Cursor) GetRemainder() (string, bool) {
	if c.pos >= len(c.text) {
		return "", false
	}

	res := c.text[c.pos:]
	c.pos = len(c.text)
	return res, true
}

// Dump returns cursor state for diagnostics.
func (c *Cursor) Dump() string {
	const context = 16
	rest := c.text[c.pos:]
	if len(rest) > context {
		rest = rest[:context] + "..."
	}
	return fmt.Sprintf("cursor at %d/%d, %d saved, next %q", c.pos, len(c.text), len(c.saved), rest)
}
