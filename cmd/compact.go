package cmd

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ava12/packrat/tree"
)

const (
	defaultLineWidth = 78
	maxTokenLength   = 20
	indentSize       = 2
)

// writeCompact writes subtree in compact form: chains of single-branch nodes share one label,
// leaves are written as name("text"), lines are filled up to width runes.
func writeCompact(w io.Writer, n *tree.Node, width int) error {
	p := newPrinter(w, indentSize, width).Indent()
	p.node(n)
	p.Newline()
	return p.err
}

type printer struct {
	w                  io.Writer
	indentSize, maxCol int
	indentLevel, col   int
	indent, space      string
	printed            bool
	err                error
}

func newPrinter(w io.Writer, indentSize, width int) *printer {
	return &printer{w: w, indentSize: indentSize, maxCol: width - 1}
}

func (p *printer) node(n *tree.Node) {
	label := n.Name()
	for n.Len() == 1 && !n.Branch(0).IsLeaf() {
		n = n.Branch(0)
		label += ":" + n.Name()
	}
	p.Print(label).Print("{").Newline().Indent()

	for _, b := range n.Branches() {
		if b.IsLeaf() {
			p.leaf(b)
		} else {
			p.node(b)
		}
	}

	p.Newline().Dedent().Print("}")
}

func (p *printer) leaf(n *tree.Node) {
	text := n.Get(tree.TokenAttribute)
	if utf8.RuneCountInString(text) <= maxTokenLength {
		p.Print(fmt.Sprintf("%s(%q)", n.Name(), text))
		return
	}

	tail := 0
	for i := maxTokenLength - 3; i > 0; i-- {
		_, size := utf8.DecodeRuneInString(text[tail:])
		tail += size
	}
	p.Print(fmt.Sprintf("%s(%q...)", n.Name(), text[:tail]))
}

func (p *printer) write(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *printer) Print(s string) *printer {
	l := utf8.RuneCountInString(s)
	if p.printed && l+p.col+1 > p.maxCol {
		p.Newline()
	}
	p.write(p.space + s)
	p.col += len(p.space) + l
	p.space = " "
	p.printed = true
	return p
}

func (p *printer) Newline() *printer {
	if !p.printed {
		return p
	}

	p.write("\n")
	p.space = p.indent
	p.printed = false
	p.col = 0
	return p
}

func (p *printer) Indent() *printer {
	p.indentLevel++
	p.setIndent()
	return p
}

func (p *printer) Dedent() *printer {
	p.indentLevel--
	p.setIndent()
	return p
}

func (p *printer) setIndent() {
	p.indent = strings.Repeat(" ", p.indentLevel*p.indentSize)
	if !p.printed {
		p.space = p.indent
	}
}
