// Package parser defines packrat parser matching input text against grammar.Grammar.
//
// Parser compiles the grammar into matcher closures once. Each parse call has its own cursor and
// memo table, so a configured parser may be used concurrently. Entities, externals, and debug mode
// must be set up before concurrent use.
package parser

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ava12/packrat/grammar"
	"github.com/ava12/packrat/source"
	"github.com/ava12/packrat/tree"
)

// Predicate is a host callback invoked for <external:name> tokens.
// On success it must advance the cursor past matched text and return true; it may set attributes,
// tags, and branches of node. The engine sets node token attribute to matched text unless the callback sets it.
// On failure it must leave the cursor at entry position and return false.
// A predicate used under repetition must consume input on success.
type Predicate func(c *source.Cursor, node *tree.Node) bool

// Stats contains counters of a single parse call.
type Stats struct {
	// RuleAttempts is the number of rule matches actually performed.
	RuleAttempts int

	// MemoHits is the number of rule matches answered by memo table.
	MemoHits int

	// ExternalCalls is the number of external predicate invocations.
	ExternalCalls int
}

// Option configures Parser.
type Option func(p *Parser)

// WithLogger sets logger used for debug tracing, default is no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithEntities registers entity values.
func WithEntities(entities map[string][]string) Option {
	return func(p *Parser) {
		for name, values := range entities {
			p.Entity(name, values...)
		}
	}
}

// WithDebug enables debug tracing.
func WithDebug(debug bool) Option {
	return func(p *Parser) {
		p.debug = debug
	}
}

type atomMatcher func(mc *matchContext, parent *tree.Node) bool

type compiledRule struct {
	name        string
	productions [][]atomMatcher
}

// Parser is a packrat parser for a specific grammar.
type Parser struct {
	grammar   *grammar.Grammar
	rules     []compiledRule
	entities  map[string][]string
	externals map[string]Predicate
	logger    *zap.Logger
	debug     bool
}

// New compiles grammar into parser.
func New(g *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{
		grammar:   g,
		entities:  make(map[string][]string),
		externals: make(map[string]Predicate),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	syntax := g.Syntax()
	p.rules = make([]compiledRule, len(syntax))
	for i, r := range syntax {
		p.rules[i] = p.compileRule(r)
	}
	return p
}

// Grammar returns parser grammar.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

// Entity adds values to named entity set. Empty values are ignored.
func (p *Parser) Entity(name string, values ...string) *Parser {
	for _, v := range values {
		if v != "" && !slices.Contains(p.entities[name], v) {
			p.entities[name] = append(p.entities[name], v)
		}
	}
	return p
}

// External registers a predicate for <external:name> tokens, replacing previously registered one.
// nil predicate removes registration.
func (p *Parser) External(name string, pred Predicate) *Parser {
	if pred == nil {
		delete(p.externals, name)
	} else {
		p.externals[name] = pred
	}
	return p
}

// Debug enables or disables tracing of rule attempts through the logger.
func (p *Parser) Debug(debug bool) *Parser {
	p.debug = debug
	return p
}

// Dump writes grammar, registered entities and externals for diagnostics.
func (p *Parser) Dump(w io.Writer) error {
	b := &strings.Builder{}
	b.WriteString(p.grammar.String())

	names := make([]string, 0, len(p.entities))
	for name := range p.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "# entity %s: %s\n", name, strings.Join(p.entities[name], " "))
	}

	for _, name := range p.grammar.Externals() {
		state := "registered"
		if p.externals[name] == nil {
			state = "missing"
		}
		fmt.Fprintf(b, "# external %s: %s\n", name, state)
	}

	_, e := io.WriteString(w, b.String())
	return e
}

// Parse matches the start rule against the whole text.
// Returns resulting tree or nil and error (*MatchError if text does not match).
func (p *Parser) Parse(text string) (*tree.Node, error) {
	res, _, e := p.parse(p.grammar.Start(), source.New("", text))
	return res, e
}

// ParseSource matches the start rule against the whole source content.
func (p *Parser) ParseSource(s *source.Source) (*tree.Node, error) {
	res, _, e := p.parse(p.grammar.Start(), s)
	return res, e
}

// ParseRule matches named rule against the whole text.
func (p *Parser) ParseRule(rule, text string) (*tree.Node, error) {
	res, _, e := p.parse(rule, source.New("", text))
	return res, e
}

// ParseWithStats is the same as Parse but also returns parse call counters.
func (p *Parser) ParseWithStats(text string) (*tree.Node, Stats, error) {
	return p.parse(p.grammar.Start(), source.New("", text))
}

// ParseRuleWithStats is the same as ParseRule but also returns parse call counters.
// Empty rule means the start rule.
func (p *Parser) ParseRuleWithStats(rule, text string) (*tree.Node, Stats, error) {
	if rule == "" {
		rule = p.grammar.Start()
	}
	return p.parse(rule, source.New("", text))
}

func (p *Parser) parse(rule string, s *source.Source) (*tree.Node, Stats, error) {
	ri, has := p.grammar.Index(rule)
	if !has {
		return nil, Stats{}, unknownRuleError(rule)
	}

	var missing []string
	for _, name := range p.grammar.Externals() {
		if p.externals[name] == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, Stats{}, unknownExternalError(missing)
	}

	mc := newMatchContext(p, s)
	root := tree.New("")
	ok := mc.matchRule(ri, root)
	if mc.err != nil {
		return nil, mc.stats, mc.err
	}

	if !ok {
		return nil, mc.stats, mc.matchError(UnmatchedInputError, 0, rule)
	}

	if !mc.cursor.Eos() {
		return nil, mc.stats, mc.matchError(TrailingInputError, mc.cursor.Pos(), rule)
	}

	return root.Branch(0), mc.stats, nil
}
