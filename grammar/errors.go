package grammar

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/ava12/packrat"
)

// Error codes used by grammar validation:
const (
	// UnknownRuleError indicates a reference to undefined rule.
	UnknownRuleError = packrat.GrammarErrors + iota

	// DuplicateRuleError indicates that rule name is defined more than once.
	DuplicateRuleError

	// UnknownStartError indicates that requested start rule is not defined.
	UnknownStartError

	// NoRulesError indicates that grammar defines no rules.
	NoRulesError

	// EmptyRuleError indicates a rule with no productions or a production with no tokens.
	EmptyRuleError

	// UnknownIntrinsicError indicates unknown intrinsic name in strict mode.
	UnknownIntrinsicError

	// ZeroWidthRepetitionError indicates a repeated token that can match empty text.
	ZeroWidthRepetitionError

	// NullableLookaheadError indicates negative lookahead over a token that can match empty text,
	// such lookahead never succeeds.
	NullableLookaheadError

	// LeftRecursionError indicates a rule that may invoke itself at the same position.
	LeftRecursionError
)

func ruleError(r *Rule, line int, code int, msg string, params ...any) *packrat.Error {
	if line == 0 {
		line = r.Line
	}
	msg = fmt.Sprintf(msg, params...)
	return packrat.NewError(code, msg, r.Source, line, 0)
}

func duplicateRuleError(r, prev Rule) *packrat.Error {
	where := prev.Source
	if prev.Line > 0 {
		if where != "" {
			where += ":"
		}
		where += fmt.Sprint(prev.Line)
	}
	return ruleError(&r, 0, DuplicateRuleError, "rule %q redefined (first defined at %s)", r.Name, where)
}

func unknownStartError(name string) *packrat.Error {
	return packrat.FormatError(UnknownStartError, "unknown start rule %q", name)
}

func noRulesError() *packrat.Error {
	return packrat.FormatError(NoRulesError, "no rules defined")
}

func emptyRuleError(r *Rule, line int) *packrat.Error {
	return ruleError(r, line, EmptyRuleError, "empty production in rule %q", r.Name)
}

func unknownRuleError(r *Rule, t *Token, suggestions []string) *packrat.Error {
	msg := fmt.Sprintf("unknown rule %q referenced in rule %q", t.Value, r.Name)
	if len(suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(suggestions, ", "))
	}
	return ruleError(r, t.Line, UnknownRuleError, "%s", msg)
}

func unknownIntrinsicError(r *Rule, t *Token) *packrat.Error {
	return ruleError(r, t.Line, UnknownIntrinsicError, "unknown intrinsic %s in rule %q", t.Text, r.Name)
}

func zeroWidthRepetitionError(r *Rule, t *Token) *packrat.Error {
	return ruleError(r, t.Line, ZeroWidthRepetitionError,
		"repeated token %s%s in rule %q can match empty text", t.Text, t.Quantifier.Suffix(), r.Name)
}

func nullableLookaheadError(r *Rule, t *Token) *packrat.Error {
	return ruleError(r, t.Line, NullableLookaheadError,
		"negative lookahead !%s%s in rule %q can never succeed", t.Text, t.Quantifier.Suffix(), r.Name)
}

func leftRecursionError(r *Rule, path []string) *packrat.Error {
	return ruleError(r, 0, LeftRecursionError, "left recursion in rule %q: %s", r.Name, strings.Join(path, " -> "))
}

func combine(errs []error) error {
	return multierr.Combine(errs...)
}
