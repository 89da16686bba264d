package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

var syntaxFormats = []string{"table", "yaml", "json", "peg"}

func newSyntaxCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "syntax <grammar>",
		Short: "Print compiled grammar rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if e := checkFormat(format, syntaxFormats...); e != nil {
				return e
			}

			return a.withTimeout(cmd.Context(), cmd.OutOrStdout(), func(out io.Writer) error {
				return a.syntax(out, args[0], format)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, yaml, json, or peg")
	return cmd
}

func (a *app) syntax(out io.Writer, path, format string) error {
	p, e := a.newParser(path)
	if e != nil {
		return e
	}

	switch format {
	case "yaml":
		return writeYaml(out, newGrammarView(p.Grammar()))
	case "json":
		return writeJson(out, newGrammarView(p.Grammar()))
	case "peg":
		return p.Dump(out)
	default:
		writeTable(out, p.Grammar())
		return nil
	}
}
