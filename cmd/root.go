// Package cmd implements packrat console utility commands.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ava12/packrat/grammar"
	"github.com/ava12/packrat/internal/grammarcache"
	"github.com/ava12/packrat/langdef"
)

const (
	defaultConfigFile = ".packrat.yaml"
	defaultTimeout    = 5 * time.Minute
	envPrefix         = "PACKRAT"
)

var errTimeout = errors.New("timed out")

// app holds state shared by commands of a single run.
type app struct {
	fs      afero.Fs
	v       *viper.Viper
	conf    settings
	logger  *zap.Logger
	cache   *grammarcache.Cache
	cfgFile string
	noColor bool
}

// NewRootCommand creates packrat command tree reading files from fs.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "packrat",
		Short:         "packrat - check PEG grammars and parse text with them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is "+defaultConfigFile+" if present)")
	flags.Bool("strict", false, "treat unknown intrinsics as errors")
	flags.String("start", "", "start rule (default is the first rule)")
	flags.Bool("debug", false, "log rule attempts")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	flags.Duration("timeout", defaultTimeout, "timeout for a single command run, output of a timed out command is discarded")
	for _, name := range []string{"strict", "start", "debug", "timeout"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newSyntaxCmd(a))
	root.AddCommand(newParseCmd(a))
	root.AddCommand(newWatchCmd(a))
	return root
}

// Execute runs packrat command with OS file system.
func Execute(ctx context.Context) error {
	return NewRootCommand(afero.NewOsFs()).ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command) error {
	e := a.loadSettings()
	if e != nil {
		return e
	}

	color.NoColor = !a.conf.Color
	a.logger = newLogger(a.conf.Debug, cmd.ErrOrStderr())
	a.cache, e = grammarcache.New(a.conf.CacheSize, a.loader())
	return e
}

func (a *app) loader() langdef.Loader {
	return langdef.Loader{
		Fs:     a.fs,
		Strict: a.conf.Strict,
		Start:  a.conf.Start,
		Logger: a.logger,
	}
}

func (a *app) loadGrammar(path string) (*grammar.Grammar, error) {
	g, hit, e := a.cache.Load(path)
	if e == nil {
		a.logger.Debug("grammar loaded", zap.String("path", path), zap.Bool("cached", hit), zap.Int("rules", g.Len()))
	}
	return g, e
}

// withTimeout runs f and waits for its completion or configured timeout.
// f writes to a buffer copied to out when f completes. Parsing cannot be interrupted,
// so after timeout f keeps running in background and its output is discarded.
func (a *app) withTimeout(ctx context.Context, out io.Writer, f func(out io.Writer) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, a.conf.Timeout)
	defer cancel()

	buf := &bytes.Buffer{}
	done := make(chan error, 1)
	go func() {
		done <- f(buf)
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return errTimeout
		}
		return ctx.Err()
	case e := <-done:
		if _, we := io.Copy(out, buf); we != nil && e == nil {
			e = we
		}
		return e
	}
}
