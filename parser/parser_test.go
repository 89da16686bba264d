package parser

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ava12/packrat"
	"github.com/ava12/packrat/grammar"
	"github.com/ava12/packrat/internal/test"
	"github.com/ava12/packrat/langdef"
	"github.com/ava12/packrat/source"
	"github.com/ava12/packrat/tree"
)

func newParser(t *testing.T, src string, opts ...Option) *Parser {
	t.Helper()
	g, e := langdef.ParseString("test.peg", src)
	require.NoError(t, e)
	return New(g, opts...)
}

func matchError(t *testing.T, e error) *MatchError {
	t.Helper()
	var me *MatchError
	require.True(t, errors.As(e, &me), "expecting MatchError, got %v", e)
	return me
}

func fooPredicate(calls *int) Predicate {
	return func(c *source.Cursor, n *tree.Node) bool {
		*calls++
		if !c.SkipLiteral("foo") {
			return false
		}

		n.Tag("TEST")
		return true
	}
}

func TestSamples(t *testing.T) {
	samples := []struct {
		grammar, input, expected string
	}{
		{"r: 'a' \"bc\"", "abc", `(r "a" "bc")`},
		{"r: a b\na: 'a'\nb: 'b'", "ab", `(r (a "a") (b "b"))`},
		{"r: <digit>+ '.' <digit>*", "12.", `(r "1" "2" ".")`},
		{"r: <alpha>? <number>", "-1.5", `(r "-1.5")`},
		{"r: <word> <sep> <quoted> <eol>? <eos>", "key  'val ue'\n", `(r "key" "  " "'val ue'" "\n" "")`},
		{"r: <sol> <remainder>", "any text", `(r "" "any text")`},
		{"r: item*\nitem: 'x' | 'y'", "xyx", `(r (item "x") (item "y") (item "x"))`},
		{"r: x | y\nx: 'a' 'b' 'c'\ny: 'a' 'b'", "ab", `(r (y "a" "b"))`},
		{"r: empty 'x'\nempty: 'y'?", "x", `(r (empty) "x")`},
		{"r: <character> <punct> <alnum> <hex> <ws>", "ж+1f \t", `(r "ж" "+" "1" "f" " \t")`},
	}

	for _, s := range samples {
		t.Run(s.input, func(t *testing.T) {
			p := newParser(t, s.grammar)
			n, e := p.Parse(s.input)
			require.NoError(t, e)
			assert.Equal(t, s.expected, tree.Serialize(n))
			assert.Equal(t, s.input, n.Text())
		})
	}
}

func TestLeafNodes(t *testing.T) {
	p := newParser(t, "r: 'a' \"bc\" <digit> <entity:kw>")
	p.Entity("kw", "if", "then")
	n, e := p.Parse("abc1if")
	require.NoError(t, e)
	require.Equal(t, 4, n.Len())

	leaf := n.Branch(0)
	assert.Equal(t, "'a'", leaf.Name())
	assert.Equal(t, "a", leaf.Get(tree.TokenAttribute))
	assert.Equal(t, []string{"character", "literal"}, leaf.Tags())

	leaf = n.Branch(1)
	assert.Equal(t, `"bc"`, leaf.Name())
	assert.Equal(t, []string{"string", "literal"}, leaf.Tags())

	leaf = n.Branch(2)
	assert.Equal(t, "<digit>", leaf.Name())
	assert.Equal(t, "1", leaf.Get(tree.TokenAttribute))
	assert.Equal(t, []string{"intrinsic"}, leaf.Tags())

	leaf = n.Branch(3)
	assert.Equal(t, "<entity:kw>", leaf.Name())
	assert.Equal(t, "if", leaf.Get(tree.TokenAttribute))
	assert.True(t, leaf.HasTag("entity"))
	assert.True(t, leaf.HasTag("intrinsic"))
}

func TestOrderedChoice(t *testing.T) {
	p := newParser(t, `r: "a" | "ab"`)
	_, e := p.Parse("ab")
	me := matchError(t, e)
	assert.Equal(t, TrailingInputError, me.Code())
	assert.Equal(t, 1, me.Offset)
	assert.Equal(t, "r", me.Rule)
	assert.Equal(t, []string{"end of input"}, me.Expected)
	assert.Equal(t, `unexpected 'b' in rule "r", expected end of input at line 1 col 2`, me.Error())

	p = newParser(t, "s: r \"b\"\nr: \"a\" | \"ab\"")
	n, e := p.Parse("ab")
	require.NoError(t, e)
	assert.Equal(t, `(s (r "a") "b")`, tree.Serialize(n))
}

func TestEmptyRepetition(t *testing.T) {
	p := newParser(t, "items: item*\nitem: 'x'")
	n, e := p.Parse("")
	require.NoError(t, e)
	assert.Equal(t, "items", n.Name())
	assert.Equal(t, 0, n.Len())
	assert.Equal(t, 1, n.Count())
}

func TestLookahead(t *testing.T) {
	p := newParser(t, "thing: a &b b\na: 'a'\nb: 'b'")
	n, e := p.Parse("ab")
	require.NoError(t, e)
	require.Equal(t, 2, n.Len())
	assert.Equal(t, "a", n.Branch(0).Name())
	assert.Equal(t, "b", n.Branch(1).Name())

	_, e = p.Parse("aa")
	me := matchError(t, e)
	assert.Equal(t, UnmatchedInputError, me.Code())
	assert.Equal(t, 1, me.Offset)
	assert.Equal(t, "b", me.Rule)
	assert.Equal(t, []string{"'b'"}, me.Expected)
}

func TestNegativeLookahead(t *testing.T) {
	p := newParser(t, "thing: a !b\na: 'a'\nb: 'a'")
	_, e := p.Parse("aa")
	me := matchError(t, e)
	assert.Equal(t, UnmatchedInputError, me.Code())
	assert.Equal(t, []string{"not b"}, me.Expected)

	n, e := p.Parse("a")
	require.NoError(t, e)
	assert.Equal(t, `(thing (a "a"))`, tree.Serialize(n))
}

func TestNegativeLookaheadKeywords(t *testing.T) {
	p := newParser(t, "names: name+\nname: !\"end\" <alpha>\n      \"end\"")
	n, e := p.Parse("abend")
	require.NoError(t, e)
	assert.Equal(t, `(names (name "a") (name "b") (name "end"))`, tree.Serialize(n))
}

func TestMemoization(t *testing.T) {
	calls := 0
	p := newParser(t, "thing: sub 'x' | sub 'y'\nsub: <external:foo>")
	p.External("foo", fooPredicate(&calls))

	n, stats, e := p.ParseWithStats("fooy")
	require.NoError(t, e)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, stats.ExternalCalls)
	assert.Equal(t, 1, stats.MemoHits)
	assert.Equal(t, 2, stats.RuleAttempts)
	assert.Equal(t, `(thing (sub "foo") "y")`, tree.Serialize(n))

	calls = 0
	first, e := p.Parse("foox")
	require.NoError(t, e)
	assert.Equal(t, 1, calls)
	assert.Equal(t, tree.Serialize(first.Branch(0)), tree.Serialize(n.Branch(0)))
	assert.True(t, n.Branch(0).Branch(0).HasTag("TEST"))
}

func TestMemoReplay(t *testing.T) {
	p := newParser(t, "r: sub sub 'x' | sub sub 'y'\nsub: 'a'?")
	n, stats, e := p.ParseWithStats("aay")
	require.NoError(t, e)
	assert.Equal(t, `(r (sub "a") (sub "a") "y")`, tree.Serialize(n))
	assert.Equal(t, 2, stats.MemoHits)
	assert.Equal(t, 3, stats.RuleAttempts)

	p = newParser(t, "r: &sub sub 'y'\nsub: 'a' 'b'")
	n, stats, e = p.ParseWithStats("aby")
	require.NoError(t, e)
	assert.Equal(t, `(r (sub "a" "b") "y")`, tree.Serialize(n))
	assert.Equal(t, 1, stats.MemoHits)
	n.Branch(0).Branch(0).Attribute(tree.TokenAttribute, "changed")
	assert.Equal(t, "changedby", n.Text())
}

func TestExternal(t *testing.T) {
	calls := 0
	p := newParser(t, "thing: <external:foo> <digit>")
	p.External("foo", fooPredicate(&calls))

	n, e := p.Parse("foo3")
	require.NoError(t, e)
	foo := n.Find("<external:foo>")
	require.NotNil(t, foo)
	assert.True(t, foo.HasTag("TEST"))
	assert.True(t, foo.HasTag("external"))
	assert.Equal(t, "foo", foo.Get(tree.TokenAttribute))
	assert.Equal(t, "foo3", n.Text())

	_, e = p.Parse("bar3")
	me := matchError(t, e)
	assert.Equal(t, 0, me.Offset)
	assert.Equal(t, []string{"<external:foo>"}, me.Expected)
}

func TestExternalOwnToken(t *testing.T) {
	p := newParser(t, "r: <external:upper>+")
	p.External("upper", func(c *source.Cursor, n *tree.Node) bool {
		r, ok := c.GetCharacter()
		if !ok {
			return false
		}
		n.Attribute(tree.TokenAttribute, strings.ToUpper(string(r)))
		return true
	})
	n, e := p.Parse("ab")
	require.NoError(t, e)
	assert.Equal(t, "AB", n.Text())
}

func TestUnknownExternal(t *testing.T) {
	p := newParser(t, "r: <external:foo> <external:bar>")
	_, e := p.Parse("x")
	test.ExpectErrorCode(t, UnknownExternalError, e)
	assert.Contains(t, e.Error(), "foo, bar")

	p.External("foo", func(*source.Cursor, *tree.Node) bool { return false })
	_, e = p.Parse("x")
	test.ExpectErrorCode(t, UnknownExternalError, e)

	p.External("bar", func(*source.Cursor, *tree.Node) bool { return false })
	_, e = p.Parse("x")
	test.ExpectErrorCode(t, UnmatchedInputError, e)

	p.External("bar", nil)
	_, e = p.Parse("x")
	test.ExpectErrorCode(t, UnknownExternalError, e)
}

func TestNoProgress(t *testing.T) {
	p := newParser(t, "r: 'a' <external:nothing>*")
	p.External("nothing", func(*source.Cursor, *tree.Node) bool { return true })
	_, e := p.Parse("a")
	test.ExpectErrorCode(t, NoProgressError, e)
	var pe *packrat.Error
	require.True(t, errors.As(e, &pe))
	assert.Equal(t, 2, pe.Col)
	assert.Contains(t, pe.Message, `<external:nothing> in rule "r"`)
}

func TestParseRule(t *testing.T) {
	p := newParser(t, "date: num '-' num\nnum: <digit>+")
	n, e := p.ParseRule("num", "42")
	require.NoError(t, e)
	assert.Equal(t, `(num "4" "2")`, tree.Serialize(n))

	_, e = p.ParseRule("none", "42")
	test.ExpectErrorCode(t, UnknownRuleError, e)

	_, e = p.ParseRule("num", "42-")
	me := matchError(t, e)
	assert.Equal(t, TrailingInputError, me.Code())
	assert.Equal(t, []string{"<digit>", "end of input"}, me.Expected)
	assert.Equal(t, "num", me.Rule)

	n, stats, e := p.ParseRuleWithStats("", "1-2")
	require.NoError(t, e)
	assert.Equal(t, `(date (num "1") "-" (num "2"))`, tree.Serialize(n))
	assert.Equal(t, 3, stats.RuleAttempts)

	n, stats, e = p.ParseRuleWithStats("num", "12")
	require.NoError(t, e)
	assert.Equal(t, `(num "1" "2")`, tree.Serialize(n))
	assert.Equal(t, 1, stats.RuleAttempts)
}

func TestMatchErrorPosition(t *testing.T) {
	p := newParser(t, "lines: line+\nline: <word> <eol>")
	src := source.New("input.txt", "foo\nbar\nba-z\n")
	_, e := p.ParseSource(src)
	me := matchError(t, e)
	assert.Equal(t, 10, me.Offset)
	assert.Equal(t, 3, me.Line())
	assert.Equal(t, 3, me.Col())
	assert.Equal(t, "line", me.Rule)
	assert.Equal(t, []string{"<eol>"}, me.Expected)
	assert.Equal(t, `unexpected '-' in rule "line", expected <eol> in input.txt at line 3 col 3`, me.Error())

	var pe *packrat.Error
	require.True(t, errors.As(e, &pe))
	assert.Equal(t, TrailingInputError, pe.Code)
}

func TestFurthestFailure(t *testing.T) {
	p := newParser(t, "r: a | b\na: 'x' 'y' 'z'\nb: 'x' 'q'")
	_, e := p.Parse("xyw")
	me := matchError(t, e)
	assert.Equal(t, 2, me.Offset)
	assert.Equal(t, "a", me.Rule)
	assert.Equal(t, []string{"'z'"}, me.Expected)

	_, e = p.Parse("xw")
	me = matchError(t, e)
	assert.Equal(t, 1, me.Offset)
	assert.Equal(t, []string{"'y'", "'q'"}, me.Expected)

	// x is first tried under negative lookahead, then replayed from memo
	p = newParser(t, "s: !x y | x\nx: 'a' 'b'\ny: 'c'")
	_, e = p.Parse("ac")
	me = matchError(t, e)
	assert.Equal(t, 1, me.Offset)
	assert.Equal(t, "x", me.Rule)
	assert.Equal(t, []string{"'b'"}, me.Expected)

	_, e = p.Parse("d")
	me = matchError(t, e)
	assert.Equal(t, 0, me.Offset)
	assert.Equal(t, []string{"'c'", "'a'"}, me.Expected)
}

func TestUnmatchedWithoutFailures(t *testing.T) {
	p := newParser(t, "r: 'a'")
	mc := newMatchContext(p, source.New("", "x"))
	me := mc.matchError(UnmatchedInputError, 0, "r")
	assert.Equal(t, "r", me.Rule)
	assert.Empty(t, me.Expected)
	assert.Equal(t, `unexpected 'x' in rule "r" at line 1 col 1`, me.Error())

	me = mc.matchError(TrailingInputError, 0, "r")
	assert.Equal(t, []string{"end of input"}, me.Expected)
}

func TestEntities(t *testing.T) {
	p := newParser(t, "r: <entity:op>+", WithEntities(map[string][]string{"op": {"<", "<=", ""}}))
	p.Entity("op", "=", "<")
	n, e := p.Parse("<=<=")
	require.NoError(t, e)
	assert.Equal(t, `(r "<=" "<=")`, tree.Serialize(n))

	n, e = p.Parse("<=<")
	require.NoError(t, e)
	assert.Equal(t, 2, n.Len())

	_, e = newParser(t, "r: <entity:none>").Parse("x")
	test.ExpectErrorCode(t, UnmatchedInputError, e)
}

func TestUnknownIntrinsic(t *testing.T) {
	p := newParser(t, "r: <mystery> | 'x'")
	n, e := p.Parse("x")
	require.NoError(t, e)
	assert.Equal(t, `(r "x")`, tree.Serialize(n))
}

func TestDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := newParser(t, "r: a a | a\na: 'a'", WithLogger(zap.New(core)))
	_, e := p.Parse("a")
	require.NoError(t, e)
	assert.Equal(t, 0, logs.Len())

	p.Debug(true)
	_, e = p.Parse("a")
	require.NoError(t, e)
	assert.Equal(t, 3, logs.FilterMessage("rule enter").Len())
	assert.Equal(t, 1, logs.FilterMessage("memo hit").Len())
	entries := logs.FilterMessage("rule enter").All()
	assert.Equal(t, "r", entries[0].ContextMap()["rule"])
	assert.Equal(t, int64(1), entries[1].ContextMap()["depth"])
}

func TestDump(t *testing.T) {
	p := newParser(t, "r: <external:foo> <external:bar> <entity:kw>")
	p.Entity("kw", "a", "b").External("foo", func(*source.Cursor, *tree.Node) bool { return false })
	b := &strings.Builder{}
	require.NoError(t, p.Dump(b))
	assert.Equal(t, strings.Join([]string{
		"# start: r",
		"# test.peg",
		"r: <external:foo> <external:bar> <entity:kw>",
		"# entity kw: a b",
		"# external foo: registered",
		"# external bar: missing",
		"",
	}, "\n"), b.String())
}

func TestConcurrentParse(t *testing.T) {
	p := newParser(t, "list: item more*\nmore: ',' item\nitem: <digit>+")
	wg := sync.WaitGroup{}
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = p.Parse(strings.Repeat("12,", i) + "3")
		}(i)
	}
	wg.Wait()
	for _, e := range errs {
		assert.NoError(t, e)
	}
}

func TestGrammarAccess(t *testing.T) {
	g, e := grammar.New([]grammar.Rule{{
		Name:        "r",
		Productions: []grammar.Production{{Tokens: []grammar.Token{{Kind: grammar.StringLiteral, Value: "ok"}}}},
	}}, grammar.Options{})
	require.NoError(t, e)
	p := New(g)
	assert.Same(t, g, p.Grammar())
	n, e := p.Parse("ok")
	require.NoError(t, e)
	assert.Equal(t, `(r "ok")`, tree.Serialize(n))
	assert.Equal(t, `"ok"`, n.Branch(0).Name())
}
