package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ava12/packrat/parser"
)

var treeFormats = []string{"tree", "compact", "sexpr", "yaml", "json"}

type parseOptions struct {
	rule        string
	format      string
	width       int
	stats       bool
	files       bool
	multi       bool
	separator   string
	expectError bool
}

type input struct {
	name, text string
}

func newParseCmd(a *app) *cobra.Command {
	opts := parseOptions{}
	cmd := &cobra.Command{
		Use:   "parse <grammar> [input...]",
		Short: "Parse inputs (or standard input lines) and print syntax trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if e := checkFormat(opts.format, treeFormats...); e != nil {
				return e
			}

			return a.withTimeout(cmd.Context(), cmd.OutOrStdout(), func(out io.Writer) error {
				inputs, e := a.readInputs(cmd, args[1:], opts)
				if e != nil {
					return e
				}
				return a.parse(out, args[0], inputs, opts)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.rule, "rule", "r", "", "rule to match (default is the start rule)")
	flags.StringVarP(&opts.format, "format", "f", "tree", "output format: tree, compact, sexpr, yaml, or json")
	flags.IntVarP(&opts.width, "width", "w", defaultLineWidth, "maximum line width for compact format, runes")
	flags.BoolVar(&opts.stats, "stats", false, "print parse counters")
	flags.BoolVar(&opts.files, "files", false, "treat inputs as file names")
	flags.BoolVarP(&opts.multi, "multi", "m", false, "input files contain multiple samples, the first line is the separator")
	flags.StringVarP(&opts.separator, "separator", "s", "", "treat input file as multiple samples if it starts with this prefix")
	flags.BoolVarP(&opts.expectError, "expect-error", "e", false, "inputs are expected to fail")
	return cmd
}

func (a *app) readInputs(cmd *cobra.Command, args []string, opts parseOptions) ([]input, error) {
	var res []input
	if len(args) == 0 {
		s := bufio.NewScanner(cmd.InOrStdin())
		for i := 1; s.Scan(); i++ {
			res = append(res, input{"line " + strconv.Itoa(i), s.Text()})
		}
		return res, s.Err()
	}

	for i, arg := range args {
		if !opts.files {
			res = append(res, input{"input " + strconv.Itoa(i+1), arg})
			continue
		}

		content, e := afero.ReadFile(a.fs, arg)
		if e != nil {
			return nil, e
		}
		res = append(res, splitSamples(arg, string(content), opts.multi, opts.separator)...)
	}
	return res, nil
}

func (a *app) parse(out io.Writer, path string, inputs []input, opts parseOptions) error {
	p, e := a.newParser(path)
	if e != nil {
		return e
	}

	failed := 0
	for _, in := range inputs {
		if !a.parseInput(out, p, in, opts, len(inputs) > 1) {
			failed++
		}
	}

	if failed > 0 && opts.expectError {
		return fmt.Errorf("%d of %d inputs unexpectedly matched", failed, len(inputs))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(inputs))
	}
	if len(inputs) > 1 {
		if opts.expectError {
			okColor.Fprintf(out, "all %d inputs failed as expected\n", len(inputs))
		} else {
			okColor.Fprintf(out, "all %d inputs matched\n", len(inputs))
		}
	}
	return nil
}

func (a *app) parseInput(out io.Writer, p *parser.Parser, in input, opts parseOptions, header bool) bool {
	if header {
		infoColor.Fprintf(out, "# %s\n", in.name)
	}

	n, stats, e := p.ParseRuleWithStats(opts.rule, in.text)
	if opts.stats {
		infoColor.Fprintf(out, "# rule attempts: %d, memo hits: %d, external calls: %d\n",
			stats.RuleAttempts, stats.MemoHits, stats.ExternalCalls)
	}
	switch {
	case e != nil && opts.expectError:
		okColor.Fprintf(out, "failed as expected %s: ", in.name)
		fmt.Fprintln(out, e)
		return true
	case e != nil:
		failColor.Fprintf(out, "FAIL %s: ", in.name)
		fmt.Fprintln(out, e)
		return false
	case opts.expectError:
		failColor.Fprintf(out, "FAIL %s: expecting error, got success\n", in.name)
		return false
	}

	if e = writeTree(out, n, opts.format, opts.width); e != nil {
		failColor.Fprintf(out, "FAIL %s: ", in.name)
		fmt.Fprintln(out, e)
		return false
	}
	return true
}
