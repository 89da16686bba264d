package cmd

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ava12/packrat/internal/grammarcache"
	"github.com/ava12/packrat/parser"
	"github.com/ava12/packrat/source"
	"github.com/ava12/packrat/tree"
)

// settings is the resolved configuration: flags override config file values, config file overrides defaults.
type settings struct {
	Strict    bool
	Start     string
	Debug     bool
	Color     bool
	Timeout   time.Duration
	CacheSize int

	// Entities maps entity names to their values.
	Entities map[string][]string

	// Externals maps external predicate names to regular expressions matched at current position.
	Externals map[string]string
}

func (a *app) loadSettings() error {
	v := a.v
	v.SetFs(a.fs)
	v.SetDefault("color", true)
	v.SetDefault("cache-size", grammarcache.DefaultSize)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	file := a.cfgFile
	if file == "" {
		exists, _ := afero.Exists(a.fs, defaultConfigFile)
		if exists {
			file = defaultConfigFile
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if e := v.ReadInConfig(); e != nil {
			return fmt.Errorf("cannot read config %s: %w", file, e)
		}
	}

	a.conf = settings{
		Strict:    v.GetBool("strict"),
		Start:     v.GetString("start"),
		Debug:     v.GetBool("debug"),
		Color:     v.GetBool("color") && !a.noColor,
		Timeout:   v.GetDuration("timeout"),
		CacheSize: v.GetInt("cache-size"),
		Entities:  v.GetStringMapStringSlice("entities"),
		Externals: v.GetStringMapString("externals"),
	}
	if a.conf.Timeout <= 0 {
		a.conf.Timeout = defaultTimeout
	}
	return nil
}

func newLogger(debug bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.AddSync(w), level)
	return zap.New(core)
}

// regexpPredicate creates external predicate matching non-empty text by regular expression.
func regexpPredicate(name, pattern string) (parser.Predicate, error) {
	re, e := regexp.Compile(`^(?:` + pattern + `)`)
	if e != nil {
		return nil, fmt.Errorf("external %s: %w", name, e)
	}

	return func(c *source.Cursor, _ *tree.Node) bool {
		loc := re.FindStringIndex(c.Remaining())
		return loc != nil && loc[1] > 0 && c.Skip(loc[1])
	}, nil
}

// newParser creates parser with configured entities and externals.
func (a *app) newParser(path string) (*parser.Parser, error) {
	g, e := a.loadGrammar(path)
	if e != nil {
		return nil, e
	}

	p := parser.New(g,
		parser.WithLogger(a.logger),
		parser.WithEntities(a.conf.Entities),
		parser.WithDebug(a.conf.Debug))

	names := make([]string, 0, len(a.conf.Externals))
	for name := range a.conf.Externals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pred, e := regexpPredicate(name, a.conf.Externals[name])
		if e != nil {
			return nil, e
		}
		p.External(name, pred)
	}
	return p, nil
}
