package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <grammar>...",
		Short: "Load and validate grammar description files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTimeout(cmd.Context(), cmd.OutOrStdout(), func(out io.Writer) error {
				return a.check(out, args)
			})
		},
	}
}

func (a *app) check(out io.Writer, paths []string) error {
	failed := 0
	for _, path := range paths {
		g, e := a.loadGrammar(path)
		if e != nil {
			failColor.Fprintf(out, "FAIL %s\n", path)
			for _, ee := range multierr.Errors(e) {
				fmt.Fprintf(out, "  %s\n", ee)
			}
			failed++
			continue
		}

		okColor.Fprint(out, "ok")
		fmt.Fprintf(out, "   %s: %d rules, start rule %q", path, g.Len(), g.Start())
		if ext := g.Externals(); len(ext) > 0 {
			fmt.Fprintf(out, ", externals %v", ext)
		}
		fmt.Fprintln(out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d grammars failed", failed, len(paths))
	}
	return nil
}
