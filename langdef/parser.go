package langdef

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ava12/packrat/grammar"
	"github.com/ava12/packrat/lexer"
	"github.com/ava12/packrat/source"
)

const (
	nlTok        = "end of line"
	stringTok    = "string"
	charTok      = "character"
	intrinsicTok = "intrinsic"
	nameTok      = "name"
	opTok        = "operator"
	wrongTok     = ""
)

const (
	nlTokType = iota + 1
	stringTokType
	charTokType
	intrinsicTokType
	nameTokType
	opTokType
)

const (
	colonOp    = ":"
	pipeOp     = "|"
	andOp      = "&"
	notOp      = "!"
	optionalOp = "?"
	anyOp      = "*"
	someOp     = "+"
)

const (
	importKeyword  = "import"
	externalPrefix = "external"
	entityPrefix   = "entity"
)

type escapeCharEntry struct {
	substitute, hexLen byte
}

var escapeCharMap = map[byte]escapeCharEntry{
	'\\': {'\\', 0},
	'"':  {'"', 0},
	'\'': {'\'', 0},
	'n':  {'\n', 0},
	'r':  {'\r', 0},
	't':  {'\t', 0},
	'x':  {0, 2},
	'u':  {0, 4},
	'U':  {0, 8},
}

var pegLexer *lexer.Lexer

func init() {
	tokenTypes := []lexer.TokenType{
		{Type: nlTokType, TypeName: nlTok},
		{Type: stringTokType, TypeName: stringTok},
		{Type: charTokType, TypeName: charTok},
		{Type: intrinsicTokType, TypeName: intrinsicTok},
		{Type: nameTokType, TypeName: nameTok},
		{Type: opTokType, TypeName: opTok},
		{Type: lexer.ErrorTokenType, TypeName: wrongTok},
	}

	re := regexp.MustCompile(
		`^(?:[ \t\r]+|#[^\n]*|` +
			`(\n)|` +
			`("(?:[^\\"\n]|\\.)*")|` +
			`('(?:[^\\'\n]|\\.)*')|` +
			`(<[a-zA-Z_][a-zA-Z_0-9-]*(?::[a-zA-Z_][a-zA-Z_0-9-]*)?>)|` +
			`([a-zA-Z_][a-zA-Z_0-9-]*)|` +
			`([:|&!?*+])|` +
			`(['"<].{0,10}))`)

	pegLexer = lexer.New(re, tokenTypes)
}

type importItem struct {
	path  string
	token *lexer.Token
}

// description is a parsed grammar description: rules in definition order and imported paths.
type description struct {
	rules   []grammar.Rule
	imports []importItem
}

type parseContext struct {
	src     *source.Source
	cursor  *source.Cursor
	saved   []*lexer.Token
	result  *description
	current int
}

func newParseContext(s *source.Source) *parseContext {
	return &parseContext{
		src:     s,
		cursor:  source.NewCursor(s),
		saved:   make([]*lexer.Token, 0, 2),
		result:  &description{rules: make([]grammar.Rule, 0), imports: make([]importItem, 0)},
		current: -1,
	}
}

// parseDescription parses a single grammar description without resolving imports.
func parseDescription(s *source.Source) (*description, error) {
	c := newParseContext(s)
	e := c.parse()
	if e != nil {
		return nil, e
	}

	return c.result, nil
}

func (c *parseContext) parse() error {
	for {
		t, e := c.fetch()
		if e != nil {
			return e
		}

		switch t.Type() {
		case lexer.EofTokenType:
			return nil

		case nlTokType:
			continue

		case nameTokType:
			next, e := c.fetch()
			if e != nil {
				return e
			}

			if next.Type() == opTokType && next.Text() == colonOp {
				e = c.parseDefinition(t)
				if e != nil {
					return e
				}
				continue
			}

			if t.Text() == importKeyword && next.Type() == stringTokType {
				e = c.parseImport(next)
				if e != nil {
					return e
				}
				continue
			}

			c.put(next)
		}

		if c.current < 0 {
			return orphanProductionError(t)
		}

		c.put(t)
		e = c.parseAlternatives(true)
		if e != nil {
			return e
		}
	}
}

func (c *parseContext) put(t *lexer.Token) {
	c.saved = append(c.saved, t)
}

func (c *parseContext) fetch() (*lexer.Token, error) {
	l := len(c.saved)
	if l > 0 {
		t := c.saved[l-1]
		c.saved = c.saved[:l-1]
		return t, nil
	}

	return pegLexer.Next(c.cursor)
}

func isLineEnd(t *lexer.Token) bool {
	return t.Type() == nlTokType || t.Type() == lexer.EofTokenType
}

func (c *parseContext) skipLineEnd() error {
	t, e := c.fetch()
	if e != nil {
		return e
	}

	if !isLineEnd(t) {
		return unexpectedTokenError(t)
	}

	if t.Type() == lexer.EofTokenType {
		c.put(t)
	}
	return nil
}

func (c *parseContext) parseImport(t *lexer.Token) error {
	path, e := unquote(t)
	if e != nil {
		return e
	}
	if path == "" {
		return wrongLiteralError(t)
	}

	c.result.imports = append(c.result.imports, importItem{path, t})
	c.current = -1
	return c.skipLineEnd()
}

func (c *parseContext) parseDefinition(name *lexer.Token) error {
	c.result.rules = append(c.result.rules, grammar.Rule{
		Name:        name.Text(),
		Productions: make([]grammar.Production, 0),
		Source:      c.src.Name(),
		Line:        name.Line(),
	})
	c.current = len(c.result.rules) - 1
	return c.parseAlternatives(false)
}

// parseAlternatives parses the rest of the line into productions of current rule.
// continuation allows a leading pipe.
func (c *parseContext) parseAlternatives(continuation bool) error {
	r := &c.result.rules[c.current]
	tokens := make([]grammar.Token, 0)
	line := 0
	var pipe *lexer.Token
	seen := false

	addProduction := func() {
		r.Productions = append(r.Productions, grammar.Production{Tokens: tokens, Line: line})
		tokens = make([]grammar.Token, 0)
	}

	for {
		t, e := c.fetch()
		if e != nil {
			return e
		}

		if isLineEnd(t) {
			if t.Type() == lexer.EofTokenType {
				c.put(t)
			}
			if pipe != nil {
				return emptyAlternativeError(pipe)
			}
			if len(tokens) > 0 {
				addProduction()
			}
			return nil
		}

		if t.Type() == opTokType && t.Text() == pipeOp {
			if len(tokens) > 0 {
				addProduction()
			} else if seen || !continuation {
				return emptyAlternativeError(t)
			}
			pipe = t
			seen = true
			continue
		}

		token, e := c.parseToken(t)
		if e != nil {
			return e
		}

		if len(tokens) == 0 {
			line = token.Line
		}
		tokens = append(tokens, token)
		pipe = nil
		seen = true
	}
}

func (c *parseContext) parseToken(t *lexer.Token) (grammar.Token, error) {
	var res grammar.Token
	var e error

	if t.Type() == opTokType && (t.Text() == andOp || t.Text() == notOp) {
		if t.Text() == andOp {
			res.Lookahead = grammar.Positive
		} else {
			res.Lookahead = grammar.Negative
		}

		t, e = c.fetch()
		if e != nil {
			return res, e
		}
	}

	res.Text = t.Text()
	res.Line = t.Line()

	switch t.Type() {
	case nameTokType:
		res.Kind = grammar.RuleRef
		res.Value = t.Text()

	case charTokType:
		res.Kind = grammar.CharLiteral
		res.Tags = []string{grammar.CharacterTag, grammar.LiteralTag}
		res.Value, e = unquote(t)
		if e == nil && utf8.RuneCountInString(res.Value) != 1 {
			e = wrongLiteralError(t)
		}

	case stringTokType:
		res.Kind = grammar.StringLiteral
		res.Tags = []string{grammar.StringTag, grammar.LiteralTag}
		res.Value, e = unquote(t)
		if e == nil && res.Value == "" {
			e = wrongLiteralError(t)
		}

	case intrinsicTokType:
		e = parseIntrinsic(t, &res)

	default:
		e = unexpectedTokenError(t)
	}
	if e != nil {
		return res, e
	}

	next, e := c.fetch()
	if e != nil {
		return res, e
	}

	switch {
	case next.Type() != opTokType:
		c.put(next)
	case next.Text() == optionalOp:
		res.Quantifier = grammar.ZeroOrOne
	case next.Text() == anyOp:
		res.Quantifier = grammar.ZeroOrMore
	case next.Text() == someOp:
		res.Quantifier = grammar.OneOrMore
	default:
		c.put(next)
	}

	return res, nil
}

func parseIntrinsic(t *lexer.Token, res *grammar.Token) error {
	name := t.Text()[1 : len(t.Text())-1]
	prefix, value, found := strings.Cut(name, ":")
	if !found {
		res.Kind = grammar.Intrinsic
		res.Value = name
		res.Tags = []string{grammar.IntrinsicTag}
		return nil
	}

	res.Value = value
	switch prefix {
	case externalPrefix:
		res.Kind = grammar.External
		res.Tags = []string{grammar.ExternalTag, grammar.IntrinsicTag}
	case entityPrefix:
		res.Kind = grammar.Entity
		res.Tags = []string{grammar.EntityTag, grammar.IntrinsicTag}
	default:
		return unknownPrefixError(t, prefix)
	}
	return nil
}

// unquote returns literal token content with escape sequences processed.
func unquote(token *lexer.Token) (string, error) {
	text := token.Text()
	content := text[1 : len(text)-1]
	if strings.IndexByte(content, '\\') < 0 {
		return content, nil
	}

	peekRune := func(content string, hexLen int) (rune, error) {
		if len(content) < hexLen+2 {
			return 0, invalidEscapeError(token, content)
		}

		codePoint, e := strconv.ParseUint(content[2:hexLen+2], 16, 32)
		if e != nil {
			return 0, invalidEscapeError(token, content[:hexLen+2])
		}

		if utf8.ValidRune(rune(codePoint)) {
			return rune(codePoint), nil
		} else {
			return 0, invalidRuneError(token, content[2:hexLen+2])
		}
	}

	result := make([]byte, 0, len(content))
	for {
		slashPos := strings.IndexByte(content, '\\')
		if slashPos < 0 {
			result = append(result, content...)
			break
		}

		if slashPos > 0 {
			result = append(result, content[:slashPos]...)
			content = content[slashPos:]
		}

		if len(content) < 2 {
			return "", invalidEscapeError(token, content)
		}

		entry, valid := escapeCharMap[content[1]]
		if !valid {
			return "", invalidEscapeError(token, content[:2])
		}

		if entry.hexLen == 0 {
			result = append(result, entry.substitute)
			content = content[2:]
		} else {
			r, e := peekRune(content, int(entry.hexLen))
			if e != nil {
				return "", e
			}

			result = utf8.AppendRune(result, r)
			content = content[entry.hexLen+2:]
		}
	}

	return string(result), nil
}
