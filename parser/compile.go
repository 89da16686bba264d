package parser

import (
	"github.com/ava12/packrat/grammar"
	"github.com/ava12/packrat/tree"
)

func (p *Parser) compileRule(r grammar.Rule) compiledRule {
	res := compiledRule{name: r.Name, productions: make([][]atomMatcher, len(r.Productions))}
	for i, prod := range r.Productions {
		tokens := make([]atomMatcher, len(prod.Tokens))
		for j, t := range prod.Tokens {
			tokens[j] = p.compileToken(t)
		}
		res.productions[i] = tokens
	}
	return res
}

func (p *Parser) compileToken(t grammar.Token) atomMatcher {
	form := t.Form()
	m := p.compileAtom(t, form)
	m = compileQuantifier(t.Quantifier, form, m)
	return compileLookahead(t.Lookahead, t.String(), m)
}

func (p *Parser) compileAtom(t grammar.Token, form string) atomMatcher {
	tags := t.Tags
	switch t.Kind {
	case grammar.RuleRef:
		ri, _ := p.grammar.Index(t.Value)
		return func(mc *matchContext, parent *tree.Node) bool {
			return mc.matchRule(ri, parent)
		}

	case grammar.CharLiteral, grammar.StringLiteral:
		literal := t.Value
		return func(mc *matchContext, parent *tree.Node) bool {
			if !mc.cursor.SkipLiteral(literal) {
				mc.fail(mc.cursor.Pos(), form)
				return false
			}

			parent.AddBranch(tree.NewLeaf(form, literal, tags...))
			return true
		}

	case grammar.Intrinsic:
		m, _ := grammar.IntrinsicMatcher(t.Value)
		return func(mc *matchContext, parent *tree.Node) bool {
			start := mc.cursor.Pos()
			if !m(mc.cursor) {
				mc.fail(start, form)
				return false
			}

			parent.AddBranch(tree.NewLeaf(form, mc.text(start), tags...))
			return true
		}

	case grammar.Entity:
		name := t.Value
		return func(mc *matchContext, parent *tree.Node) bool {
			value, ok := mc.cursor.GetOneOf(p.entities[name])
			if !ok {
				mc.fail(mc.cursor.Pos(), form)
				return false
			}

			parent.AddBranch(tree.NewLeaf(form, value, tags...))
			return true
		}

	case grammar.External:
		name := t.Value
		return func(mc *matchContext, parent *tree.Node) bool {
			start := mc.cursor.Pos()
			n := tree.New(form)
			for _, tag := range tags {
				n.Tag(tag)
			}

			mc.stats.ExternalCalls++
			if !p.externals[name](mc.cursor, n) {
				mc.cursor.Seek(start)
				mc.fail(start, form)
				return false
			}

			if !n.Has(tree.TokenAttribute) {
				n.Attribute(tree.TokenAttribute, mc.text(start))
			}
			parent.AddBranch(n)
			return true
		}

	default:
		return func(mc *matchContext, _ *tree.Node) bool {
			mc.fail(mc.cursor.Pos(), form)
			return false
		}
	}
}

func compileQuantifier(q grammar.Quantifier, form string, m atomMatcher) atomMatcher {
	switch q {
	case grammar.ZeroOrOne:
		return func(mc *matchContext, parent *tree.Node) bool {
			m(mc, parent)
			return mc.err == nil
		}

	case grammar.OneOrMore:
		return func(mc *matchContext, parent *tree.Node) bool {
			return m(mc, parent) && mc.repeat(form, m, parent)
		}

	case grammar.ZeroOrMore:
		return func(mc *matchContext, parent *tree.Node) bool {
			return mc.repeat(form, m, parent)
		}

	default:
		return m
	}
}

func compileLookahead(l grammar.Lookahead, form string, m atomMatcher) atomMatcher {
	switch l {
	case grammar.Positive:
		return func(mc *matchContext, _ *tree.Node) bool {
			mc.cursor.Save()
			ok := m(mc, tree.New(""))
			mc.cursor.Restore()
			return ok && mc.err == nil
		}

	case grammar.Negative:
		return func(mc *matchContext, _ *tree.Node) bool {
			mc.cursor.Save()
			ok := mc.discardFailures(func() bool {
				return m(mc, tree.New(""))
			})
			mc.cursor.Restore()
			if ok {
				mc.fail(mc.cursor.Pos(), "not "+form[1:])
			}
			return !ok && mc.err == nil
		}

	default:
		return m
	}
}
