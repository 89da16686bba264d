package grammar

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Form returns token textual form as written in grammar description, without quantifier and lookahead.
// Tokens built without Text get canonical form.
func (t Token) Form() string {
	if t.Text != "" {
		return t.Text
	}

	switch t.Kind {
	case CharLiteral:
		r, _ := utf8.DecodeRuneInString(t.Value)
		return strconv.QuoteRune(r)
	case StringLiteral:
		return strconv.Quote(t.Value)
	case Intrinsic:
		return "<" + t.Value + ">"
	case External:
		return "<external:" + t.Value + ">"
	case Entity:
		return "<entity:" + t.Value + ">"
	default:
		return t.Value
	}
}

// String returns token with lookahead prefix and quantifier suffix.
func (t Token) String() string {
	return t.Lookahead.Prefix() + t.Form() + t.Quantifier.Suffix()
}

func (p Production) String() string {
	parts := make([]string, len(p.Tokens))
	for i, t := range p.Tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// Dump writes grammar description that can be loaded back.
func (g *Grammar) Dump(w io.Writer) error {
	_, e := io.WriteString(w, g.String())
	return e
}

func (g *Grammar) String() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "# start: %s\n", g.Start())
	source := ""
	for i, r := range g.rules {
		if r.Source != source {
			source = r.Source
			if i > 0 {
				b.WriteByte('\n')
			}
			if r.Imported {
				fmt.Fprintf(b, "# imported from %s\n", source)
			} else if source != "" {
				fmt.Fprintf(b, "# %s\n", source)
			}
		}

		indent := strings.Repeat(" ", len(r.Name))
		for pi, p := range r.Productions {
			if pi == 0 {
				fmt.Fprintf(b, "%s: %s\n", r.Name, p)
			} else {
				fmt.Fprintf(b, "%s| %s\n", indent, p)
			}
		}
	}
	return b.String()
}
