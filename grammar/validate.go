package grammar

import (
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/ava12/packrat/internal/ints"
	"github.com/ava12/packrat/internal/queue"
)

const maxSuggestionDistance = 2

// Validate checks grammar consistency; it is called by New.
// Returns nil or an error combining all found violations.
func (g *Grammar) Validate() error {
	return combine(g.validate())
}

func (g *Grammar) validate() []error {
	errs := g.checkReferences()
	if len(errs) > 0 {
		return errs
	}

	nullable := g.nullableRules()
	errs = append(errs, g.checkZeroWidth(nullable)...)
	errs = append(errs, g.checkLeftRecursion(nullable)...)
	return errs
}

func (g *Grammar) checkReferences() []error {
	var errs []error
	for ri := range g.rules {
		r := &g.rules[ri]
		if len(r.Productions) == 0 {
			errs = append(errs, emptyRuleError(r, 0))
		}
		for _, p := range r.Productions {
			if len(p.Tokens) == 0 {
				errs = append(errs, emptyRuleError(r, p.Line))
			}
			for ti := range p.Tokens {
				t := &p.Tokens[ti]
				switch t.Kind {
				case RuleRef:
					if _, has := g.index[t.Value]; !has {
						errs = append(errs, unknownRuleError(r, t, g.suggest(t.Value)))
					}
				case Intrinsic:
					if g.strict && !IsIntrinsic(t.Value) {
						errs = append(errs, unknownIntrinsicError(r, t))
					}
				}
			}
		}
	}
	return errs
}

func (g *Grammar) suggest(name string) []string {
	type candidate struct {
		name     string
		distance int
	}

	var cs []candidate
	for _, r := range g.rules {
		d := levenshtein.ComputeDistance(name, r.Name)
		if d <= maxSuggestionDistance && d < len(name) {
			cs = append(cs, candidate{r.Name, d})
		}
	}
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].distance < cs[j].distance
	})

	res := make([]string, len(cs))
	for i, c := range cs {
		res[i] = `"` + c.name + `"`
	}
	return res
}

// nullableRules returns indexes of rules that can match empty text.
func (g *Grammar) nullableRules() *ints.Set {
	res := ints.NewSet()
	users := make([][]int, len(g.rules))
	for ri, r := range g.rules {
		for _, p := range r.Productions {
			for _, t := range p.Tokens {
				if t.Kind == RuleRef {
					ti := g.index[t.Value]
					users[ti] = append(users[ti], ri)
				}
			}
		}
	}

	q := queue.New[int]()
	for ri := range g.rules {
		q.Append(ri)
	}
	for !q.IsEmpty() {
		ri, _ := q.First()
		if res.Contains(ri) || !g.ruleNullable(ri, res) {
			continue
		}

		res.Add(ri)
		q.Append(users[ri]...)
	}
	return res
}

func (g *Grammar) ruleNullable(ri int, nullable *ints.Set) bool {
	for _, p := range g.rules[ri].Productions {
		if g.productionNullable(p, nullable) {
			return true
		}
	}
	return false
}

func (g *Grammar) productionNullable(p Production, nullable *ints.Set) bool {
	for _, t := range p.Tokens {
		if !g.tokenNullable(t, nullable) {
			return false
		}
	}
	return true
}

// tokenNullable reports whether t, with its quantifier and lookahead, can match without consuming.
func (g *Grammar) tokenNullable(t Token, nullable *ints.Set) bool {
	return t.Lookahead != NoLookahead || t.Quantifier.Optional() || g.atomNullable(t, nullable)
}

// atomNullable reports whether a single occurrence of t can match without consuming.
func (g *Grammar) atomNullable(t Token, nullable *ints.Set) bool {
	switch t.Kind {
	case RuleRef:
		return nullable.Contains(g.index[t.Value])
	case CharLiteral, StringLiteral:
		return t.Value == ""
	case Intrinsic:
		return ZeroWidthIntrinsic(t.Value)
	default:
		return false
	}
}

func (g *Grammar) checkZeroWidth(nullable *ints.Set) []error {
	var errs []error
	for ri := range g.rules {
		r := &g.rules[ri]
		for _, p := range r.Productions {
			for ti := range p.Tokens {
				t := &p.Tokens[ti]
				if t.Quantifier.Repeated() && g.atomNullable(*t, nullable) {
					errs = append(errs, zeroWidthRepetitionError(r, t))
				}
				if t.Lookahead == Negative && !(t.Kind == Intrinsic && t.Quantifier == One) &&
					(t.Quantifier.Optional() || g.atomNullable(*t, nullable)) {
					errs = append(errs, nullableLookaheadError(r, t))
				}
			}
		}
	}
	return errs
}

// leftCalls returns indexes of rules r may invoke at its own start position.
func (g *Grammar) leftCalls(ri int, nullable *ints.Set) []int {
	var res []int
	for _, p := range g.rules[ri].Productions {
		for _, t := range p.Tokens {
			if t.Kind == RuleRef {
				res = append(res, g.index[t.Value])
			}
			if !g.tokenNullable(t, nullable) {
				break
			}
		}
	}
	return res
}

func (g *Grammar) checkLeftRecursion(nullable *ints.Set) []error {
	calls := make([][]int, len(g.rules))
	for ri := range g.rules {
		calls[ri] = g.leftCalls(ri, nullable)
	}

	var errs []error
	for ri := range g.rules {
		path := findPath(calls, ri)
		if path == nil {
			continue
		}

		names := make([]string, len(path))
		for i, pi := range path {
			names[i] = g.rules[pi].Name
		}
		errs = append(errs, leftRecursionError(&g.rules[ri], names))
	}
	return errs
}

// findPath returns the shortest call chain from rule to itself or nil.
func findPath(calls [][]int, rule int) []int {
	parents := make(map[int]int)
	visited := ints.NewSet()
	q := queue.New[int]()
	for _, c := range calls[rule] {
		if !visited.Contains(c) {
			visited.Add(c)
			parents[c] = rule
			q.Append(c)
		}
	}

	for !q.IsEmpty() {
		ri, _ := q.First()
		if ri == rule {
			path := []int{rule}
			for p := parents[rule]; p != rule; p = parents[p] {
				path = append(path, p)
			}
			path = append(path, rule)
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, c := range calls[ri] {
			if !visited.Contains(c) {
				visited.Add(c)
				parents[c] = ri
				q.Append(c)
			}
		}
	}
	return nil
}
