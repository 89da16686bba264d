package parser

import (
	"slices"

	"go.uber.org/zap"

	"github.com/ava12/packrat/source"
	"github.com/ava12/packrat/tree"
)

type memoKey struct {
	rule, pos int
}

type memoEntry struct {
	ok   bool
	end  int
	node *tree.Node
	fail *failure
}

// failure collects the furthest failed token attempts.
type failure struct {
	pos      int
	rule     string
	expected []string
}

func newFailure() *failure {
	return &failure{pos: -1}
}

func (f *failure) add(pos int, rule, form string) {
	if pos < f.pos {
		return
	}

	if pos > f.pos {
		f.pos = pos
		f.rule = rule
		f.expected = []string{form}
	} else if !slices.Contains(f.expected, form) {
		f.expected = append(f.expected, form)
	}
}

func (f *failure) merge(o *failure) {
	if o == nil || o.pos < f.pos {
		return
	}

	if o.pos > f.pos {
		f.pos = o.pos
		f.rule = o.rule
		f.expected = slices.Clone(o.expected)
		return
	}

	for _, form := range o.expected {
		if !slices.Contains(f.expected, form) {
			f.expected = append(f.expected, form)
		}
	}
}

// matchContext holds the state of a single parse call.
// Each rule attempt collects its own failures, they are stored in memo and merged into the caller's ones.
type matchContext struct {
	p      *Parser
	src    *source.Source
	cursor *source.Cursor
	memo   map[memoKey]memoEntry
	stack  []int
	failed *failure
	err    error
	stats  Stats
}

func newMatchContext(p *Parser, s *source.Source) *matchContext {
	return &matchContext{
		p:      p,
		src:    s,
		cursor: source.NewCursor(s),
		memo:   make(map[memoKey]memoEntry),
		stack:  make([]int, 0),
		failed: newFailure(),
	}
}

// text returns source text from start to current position.
func (mc *matchContext) text(start int) string {
	return mc.src.Content()[start:mc.cursor.Pos()]
}

func (mc *matchContext) currentRule() string {
	if len(mc.stack) == 0 {
		return ""
	}
	return mc.p.rules[mc.stack[len(mc.stack)-1]].name
}

// fail records a failed attempt to match token form at pos.
func (mc *matchContext) fail(pos int, form string) {
	mc.failed.add(pos, mc.currentRule(), form)
}

// discardFailures runs m collecting failures apart, they are dropped afterwards.
func (mc *matchContext) discardFailures(m func() bool) bool {
	saved := mc.failed
	mc.failed = newFailure()
	ok := m()
	mc.failed = saved
	return ok
}

func (mc *matchContext) matchError(code, offset int, rule string) *MatchError {
	f := mc.failed
	if f.pos > offset {
		return newMatchError(code, mc.src, f.pos, f.rule, f.expected)
	}

	if f.pos == offset {
		expected := f.expected
		if code == TrailingInputError {
			expected = append(slices.Clip(expected), endOfInput)
		}
		return newMatchError(code, mc.src, offset, f.rule, expected)
	}

	if code == UnmatchedInputError {
		return newMatchError(code, mc.src, offset, rule, nil)
	}

	return newMatchError(code, mc.src, offset, rule, []string{endOfInput})
}

func (mc *matchContext) trace(msg string, ri, pos int, fields ...zap.Field) {
	if !mc.p.debug {
		return
	}

	fields = append(fields,
		zap.String("rule", mc.p.rules[ri].name),
		zap.Int("pos", pos),
		zap.Int("depth", len(mc.stack)))
	mc.p.logger.Debug(msg, fields...)
}

// matchRule matches rule ri at current position. On success appends rule node to parent
// and advances the cursor, on failure leaves both intact.
func (mc *matchContext) matchRule(ri int, parent *tree.Node) bool {
	if mc.err != nil {
		return false
	}

	pos := mc.cursor.Pos()
	key := memoKey{ri, pos}
	if m, has := mc.memo[key]; has {
		mc.stats.MemoHits++
		mc.trace("memo hit", ri, pos, zap.Bool("ok", m.ok))
		mc.failed.merge(m.fail)
		if !m.ok {
			return false
		}

		mc.cursor.Seek(m.end)
		parent.AddBranch(m.node.Clone())
		return true
	}

	mc.stats.RuleAttempts++
	mc.trace("rule enter", ri, pos)
	mc.stack = append(mc.stack, ri)
	caller := mc.failed
	mc.failed = newFailure()
	node := tree.New(mc.p.rules[ri].name)
	ok := false
	for _, prod := range mc.p.rules[ri].productions {
		if mc.matchProduction(prod, node) {
			ok = true
			break
		}
		if mc.err != nil {
			break
		}
	}
	mc.stack = mc.stack[:len(mc.stack)-1]
	fail := mc.failed
	mc.failed = caller
	caller.merge(fail)

	if mc.err != nil {
		return false
	}

	mc.trace("rule exit", ri, pos, zap.Bool("ok", ok), zap.Int("end", mc.cursor.Pos()))
	if !ok {
		mc.memo[key] = memoEntry{fail: fail}
		return false
	}

	mc.memo[key] = memoEntry{ok: true, end: mc.cursor.Pos(), node: node, fail: fail}
	parent.AddBranch(node)
	return true
}

// matchProduction matches all tokens in order, on failure rewinds the cursor and drops added nodes.
func (mc *matchContext) matchProduction(tokens []atomMatcher, node *tree.Node) bool {
	mc.cursor.Save()
	l := node.Len()
	for _, m := range tokens {
		if !m(mc, node) {
			mc.cursor.Restore()
			node.Truncate(l)
			return false
		}
	}

	mc.cursor.Commit()
	return true
}

// repeat matches m until it fails. Always succeeds unless a repetition does not consume input.
func (mc *matchContext) repeat(form string, m atomMatcher, parent *tree.Node) bool {
	for {
		start := mc.cursor.Pos()
		if !m(mc, parent) {
			return mc.err == nil
		}

		if mc.cursor.Pos() == start {
			mc.err = noProgressError(mc.src, start, mc.currentRule(), form)
			return false
		}
	}
}
