// Package grammar defines compiled PEG grammar: named rules consisting of ordered productions
// (alternatives), each being a sequence of tokens.
//
// Grammar is immutable once built and safe for concurrent use. Rule, Production, and Token
// values returned by its methods are copies.
package grammar

// Kind is a closed set of token kinds.
type Kind int

const (
	RuleRef Kind = iota
	CharLiteral
	StringLiteral
	Intrinsic
	External
	Entity
)

var kindNames = [...]string{"rule", "character", "string", "intrinsic", "external", "entity"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Quantifier is a token repetition policy.
type Quantifier int

const (
	One Quantifier = iota
	ZeroOrOne
	OneOrMore
	ZeroOrMore
)

var quantifierSuffixes = [...]string{"", "?", "+", "*"}

// Suffix returns quantifier suffix used in grammar description.
func (q Quantifier) Suffix() string {
	if q < 0 || int(q) >= len(quantifierSuffixes) {
		return ""
	}
	return quantifierSuffixes[q]
}

// Repeated reports whether token may be matched more than once.
func (q Quantifier) Repeated() bool {
	return q == OneOrMore || q == ZeroOrMore
}

// Optional reports whether token may be matched zero times.
func (q Quantifier) Optional() bool {
	return q == ZeroOrOne || q == ZeroOrMore
}

// Lookahead is a zero-width assertion kind.
type Lookahead int

const (
	NoLookahead Lookahead = iota
	Positive
	Negative
)

var lookaheadPrefixes = [...]string{"", "&", "!"}

// Prefix returns lookahead prefix used in grammar description.
func (l Lookahead) Prefix() string {
	if l < 0 || int(l) >= len(lookaheadPrefixes) {
		return ""
	}
	return lookaheadPrefixes[l]
}

// Tags attached to tokens and propagated to matched nodes.
const (
	CharacterTag = "character"
	StringTag    = "string"
	LiteralTag   = "literal"
	IntrinsicTag = "intrinsic"
	ExternalTag  = "external"
	EntityTag    = "entity"
)

// Token is a single grammar atom.
type Token struct {
	// Kind defines how token is matched.
	Kind Kind

	// Text contains token form as written in grammar description, e.g. 'a', "abc", <digit>, <external:foo>, or rule name.
	Text string

	// Value contains literal text for literals, rule name for rule references,
	// and intrinsic, external, or entity name for others.
	Value string

	// Tags are copied to every node matched by this token.
	Tags []string

	Quantifier Quantifier
	Lookahead  Lookahead

	// Line contains definition line number or 0.
	Line int
}

// Production is an ordered sequence of tokens.
type Production struct {
	Tokens []Token
	Line   int
}

// Rule is a named ordered list of alternative productions; the first matching one wins.
type Rule struct {
	Name        string
	Productions []Production

	// Source contains the name of grammar description the rule is defined in.
	Source string
	Line   int

	// Imported is set for rules merged from imported descriptions.
	Imported bool
}

// Grammar is a compiled PEG grammar.
type Grammar struct {
	rules   []Rule
	index   map[string]int
	start   int
	strict  bool
	sources []string
}

// Options control grammar building.
type Options struct {
	// Start overrides the start rule, default is the first non-imported rule.
	Start string

	// Strict makes unknown intrinsic names an error.
	Strict bool

	// Sources lists names of grammar descriptions the rules were loaded from.
	Sources []string
}

// New builds and validates grammar. rules are deep-copied.
// Returns nil and error (possibly combining several packrat.Error values) if grammar is invalid.
func New(rules []Rule, opts Options) (*Grammar, error) {
	g := &Grammar{
		rules:   make([]Rule, len(rules)),
		index:   make(map[string]int, len(rules)),
		start:   -1,
		strict:  opts.Strict,
		sources: append([]string(nil), opts.Sources...),
	}

	var errs []error
	for i, r := range rules {
		g.rules[i] = copyRule(r)
		prev, has := g.index[r.Name]
		if has {
			errs = append(errs, duplicateRuleError(r, g.rules[prev]))
			continue
		}

		g.index[r.Name] = i
		if g.start < 0 && !r.Imported {
			g.start = i
		}
	}

	if opts.Start != "" {
		i, has := g.index[opts.Start]
		if has {
			g.start = i
		} else {
			errs = append(errs, unknownStartError(opts.Start))
		}
	}
	if g.start < 0 && len(errs) == 0 {
		errs = append(errs, noRulesError())
	}

	if len(errs) == 0 {
		errs = g.validate()
	}
	if len(errs) > 0 {
		return nil, combine(errs)
	}

	return g, nil
}

func copyRule(r Rule) Rule {
	res := r
	res.Productions = make([]Production, len(r.Productions))
	for i, p := range r.Productions {
		res.Productions[i] = Production{Tokens: make([]Token, len(p.Tokens)), Line: p.Line}
		for j, t := range p.Tokens {
			t.Tags = append([]string(nil), t.Tags...)
			res.Productions[i].Tokens[j] = t
		}
	}
	return res
}

// Len returns the number of rules.
func (g *Grammar) Len() int {
	return len(g.rules)
}

// Names returns rule names in definition order, primary description rules first.
func (g *Grammar) Names() []string {
	res := make([]string, len(g.rules))
	for i, r := range g.rules {
		res[i] = r.Name
	}
	return res
}

// Index returns rule index for name.
func (g *Grammar) Index(name string) (int, bool) {
	i, has := g.index[name]
	return i, has
}

// Rule returns a copy of named rule.
func (g *Grammar) Rule(name string) (Rule, bool) {
	i, has := g.index[name]
	if !has {
		return Rule{}, false
	}
	return copyRule(g.rules[i]), true
}

// FirstRule returns the name of the first rule of the primary (non-imported) description.
func (g *Grammar) FirstRule() string {
	for _, r := range g.rules {
		if !r.Imported {
			return r.Name
		}
	}
	return ""
}

// Start returns the name of start rule.
func (g *Grammar) Start() string {
	return g.rules[g.start].Name
}

// Strict reports whether unknown intrinsics were rejected when building grammar.
func (g *Grammar) Strict() bool {
	return g.strict
}

// Sources returns names of grammar descriptions the grammar was loaded from.
func (g *Grammar) Sources() []string {
	return append([]string(nil), g.sources...)
}

// Syntax returns a deep copy of all rules in definition order.
func (g *Grammar) Syntax() []Rule {
	res := make([]Rule, len(g.rules))
	for i, r := range g.rules {
		res[i] = copyRule(r)
	}
	return res
}

// Externals returns distinct external predicate names used by grammar, in order of appearance.
func (g *Grammar) Externals() []string {
	return g.collect(External)
}

// Entities returns distinct entity names used by grammar, in order of appearance.
func (g *Grammar) Entities() []string {
	return g.collect(Entity)
}

func (g *Grammar) collect(kind Kind) []string {
	res := make([]string, 0)
	seen := make(map[string]bool)
	for _, r := range g.rules {
		for _, p := range r.Productions {
			for _, t := range p.Tokens {
				if t.Kind == kind && !seen[t.Value] {
					seen[t.Value] = true
					res = append(res, t.Value)
				}
			}
		}
	}
	return res
}
