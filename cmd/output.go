package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/ava12/packrat/grammar"
	"github.com/ava12/packrat/tree"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
	infoColor = color.New(color.Faint)
)

type nodeView struct {
	Name       string            `json:"name" yaml:"name"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Tags       []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Branches   []nodeView        `json:"branches,omitempty" yaml:"branches,omitempty"`
}

func newNodeView(n *tree.Node) nodeView {
	res := nodeView{Name: n.Name(), Tags: n.Tags()}
	if names := n.AttributeNames(); len(names) > 0 {
		res.Attributes = make(map[string]string, len(names))
		for _, name := range names {
			res.Attributes[name] = n.Get(name)
		}
	}
	for _, b := range n.Branches() {
		res.Branches = append(res.Branches, newNodeView(b))
	}
	return res
}

type ruleView struct {
	Name        string   `json:"name" yaml:"name"`
	Source      string   `json:"source,omitempty" yaml:"source,omitempty"`
	Line        int      `json:"line,omitempty" yaml:"line,omitempty"`
	Imported    bool     `json:"imported,omitempty" yaml:"imported,omitempty"`
	Productions []string `json:"productions" yaml:"productions"`
}

type grammarView struct {
	Start     string     `json:"start" yaml:"start"`
	Sources   []string   `json:"sources" yaml:"sources"`
	Externals []string   `json:"externals,omitempty" yaml:"externals,omitempty"`
	Entities  []string   `json:"entities,omitempty" yaml:"entities,omitempty"`
	Rules     []ruleView `json:"rules" yaml:"rules"`
}

func newGrammarView(g *grammar.Grammar) grammarView {
	res := grammarView{
		Start:     g.Start(),
		Sources:   g.Sources(),
		Externals: g.Externals(),
		Entities:  g.Entities(),
	}
	for _, r := range g.Syntax() {
		rv := ruleView{Name: r.Name, Source: r.Source, Line: r.Line, Imported: r.Imported}
		for _, p := range r.Productions {
			rv.Productions = append(rv.Productions, p.String())
		}
		res.Rules = append(res.Rules, rv)
	}
	return res
}

func writeJson(w io.Writer, v any) error {
	content, e := json.MarshalIndent(v, "", "  ")
	if e == nil {
		_, e = fmt.Fprintln(w, string(content))
	}
	return e
}

func writeYaml(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	e := enc.Encode(v)
	if e == nil {
		e = enc.Close()
	}
	return e
}

// writeTable writes one row per production.
func writeTable(w io.Writer, g *grammar.Grammar) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rule", "#", "Production", "Source"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, r := range g.Syntax() {
		for i, p := range r.Productions {
			name, src := "", ""
			if i == 0 {
				name = r.Name
				if r.Name == g.Start() {
					name += " *"
				}
				src = r.Source + ":" + strconv.Itoa(r.Line)
			}
			table.Append([]string{name, strconv.Itoa(i + 1), p.String(), src})
		}
	}
	table.Render()
}

func writeTree(w io.Writer, n *tree.Node, format string, width int) error {
	switch format {
	case "compact":
		if width <= 0 {
			width = defaultLineWidth
		}
		return writeCompact(w, n, width)
	case "sexpr":
		_, e := fmt.Fprintln(w, tree.Serialize(n))
		return e
	case "json":
		return writeJson(w, newNodeView(n))
	case "yaml":
		return writeYaml(w, newNodeView(n))
	default:
		return n.Dump(w)
	}
}

func checkFormat(format string, allowed ...string) error {
	if !slices.Contains(allowed, format) {
		return fmt.Errorf("unknown format %q, expecting one of %v", format, allowed)
	}
	return nil
}
