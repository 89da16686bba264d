package tree

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

var (
	nameColor  = color.New(color.FgCyan, color.Bold)
	attrColor  = color.New(color.FgYellow)
	tagColor   = color.New(color.FgGreen)
	tokenColor = color.New(color.FgMagenta)
)

// Dump writes indented human-readable subtree to w.
// Colors follow color.NoColor setting.
func (n *Node) Dump(w io.Writer) error {
	var e error
	Walk(n, WalkLtr, func(stat WalkStat) WalkerFlags {
		_, e = io.WriteString(w, dumpLine(stat.Node, stat.Level))
		if e != nil {
			return Stop
		}
		return 0
	})
	return e
}

func dumpLine(n *Node, level int) string {
	b := &strings.Builder{}
	b.WriteString(strings.Repeat("  ", level))
	b.WriteString(nameColor.Sprint(n.name))

	for _, k := range n.AttributeNames() {
		v := strconv.Quote(n.attributes[k])
		if k == TokenAttribute {
			fmt.Fprintf(b, " %s", tokenColor.Sprint(v))
		} else {
			fmt.Fprintf(b, " %s=%s", k, attrColor.Sprint(v))
		}
	}

	for _, t := range n.tags {
		b.WriteString(" " + tagColor.Sprint("#"+t))
	}

	b.WriteString("\n")
	return b.String()
}

// String returns uncolored dump.
func (n *Node) String() string {
	b := &strings.Builder{}
	Walk(n, WalkLtr, func(stat WalkStat) WalkerFlags {
		b.WriteString(strings.Repeat("  ", stat.Level))
		b.WriteString(stat.Node.name)
		for _, k := range stat.Node.AttributeNames() {
			fmt.Fprintf(b, " %s=%q", k, stat.Node.attributes[k])
		}
		for _, t := range stat.Node.tags {
			b.WriteString(" #" + t)
		}
		b.WriteString("\n")
		return 0
	})
	return b.String()
}

// Serialize returns compact form of the subtree: leaf nodes become quoted token text,
// other nodes become (name branch...).
func Serialize(n *Node) string {
	if n == nil {
		return ""
	}

	b := &strings.Builder{}
	serialize(n, b)
	return b.String()
}

func serialize(n *Node, b *strings.Builder) {
	if len(n.branches) == 0 && n.Has(TokenAttribute) {
		b.WriteString(strconv.Quote(n.attributes[TokenAttribute]))
		return
	}

	b.WriteString("(" + n.name)
	for _, nb := range n.branches {
		b.WriteString(" ")
		serialize(nb, b)
	}
	b.WriteString(")")
}
