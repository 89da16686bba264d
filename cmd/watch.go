package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func newWatchCmd(a *app) *cobra.Command {
	opts := parseOptions{}
	cmd := &cobra.Command{
		Use:   "watch <grammar> <input-file>",
		Short: "Reparse input file each time it or grammar files change",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if e := checkFormat(opts.format, treeFormats...); e != nil {
				return e
			}

			w, e := fsnotify.NewWatcher()
			if e != nil {
				return e
			}
			defer w.Close()

			s := newWatchState(a, cmd, args[0], args[1], opts, w.Add)
			s.refresh()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return s.loop(ctx, w.Events, w.Errors)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.rule, "rule", "r", "", "rule to match (default is the start rule)")
	flags.StringVarP(&opts.format, "format", "f", "tree", "output format: tree, compact, sexpr, yaml, or json")
	return cmd
}

// watchState tracks files affecting watched parse result: input file and all grammar sources.
// Directories are watched instead of files so that replaced files are noticed.
type watchState struct {
	a       *app
	cmd     *cobra.Command
	grammar string
	input   string
	opts    parseOptions
	addDir  func(string) error
	files   map[string]bool
	dirs    map[string]bool
}

func newWatchState(a *app, cmd *cobra.Command, grammar, input string, opts parseOptions, addDir func(string) error) *watchState {
	return &watchState{
		a:       a,
		cmd:     cmd,
		grammar: filepath.Clean(grammar),
		input:   filepath.Clean(input),
		opts:    opts,
		addDir:  addDir,
		dirs:    make(map[string]bool),
	}
}

func (s *watchState) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) && s.files[filepath.Clean(ev.Name)] {
				s.a.logger.Debug("file changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
				s.refresh()
			}

		case e, ok := <-errs:
			if !ok {
				return nil
			}
			s.a.logger.Warn("watch error", zap.Error(e))
		}
	}
}

// refresh reloads grammar if needed and reparses input file.
func (s *watchState) refresh() {
	out := s.cmd.OutOrStdout()
	infoColor.Fprintf(out, "# %s\n", s.input)

	p, e := s.a.newParser(s.grammar)
	if e != nil {
		s.watchFiles([]string{s.grammar})
		failColor.Fprintf(out, "FAIL %s\n", s.grammar)
		for _, ee := range multierr.Errors(e) {
			fmt.Fprintf(out, "  %s\n", ee)
		}
		return
	}

	s.watchFiles(p.Grammar().Sources())
	content, e := afero.ReadFile(s.a.fs, s.input)
	if e != nil {
		failColor.Fprintf(out, "FAIL %s: ", s.input)
		fmt.Fprintln(out, e)
		return
	}

	s.a.parseInput(out, p, input{s.input, string(content)}, s.opts, false)
}

func (s *watchState) watchFiles(sources []string) {
	s.files = map[string]bool{s.input: true}
	for _, name := range sources {
		s.files[filepath.Clean(name)] = true
	}

	for name := range s.files {
		dir := filepath.Dir(name)
		if s.dirs[dir] {
			continue
		}

		if e := s.addDir(dir); e != nil {
			s.a.logger.Warn("cannot watch directory", zap.String("path", dir), zap.Error(e))
			continue
		}
		s.dirs[dir] = true
	}
}
