package langdef

import (
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ava12/packrat/grammar"
	"github.com/ava12/packrat/internal/queue"
	"github.com/ava12/packrat/source"
)

// Loader loads grammar descriptions together with imported files.
// Zero value is usable: it reads files from OS file system and logs nothing.
type Loader struct {
	// Fs is used to read description and imported files, default is OS file system.
	Fs afero.Fs

	// Strict makes unknown intrinsic names an error.
	Strict bool

	// Start overrides the start rule.
	Start string

	// Logger receives debug messages about loaded files, default is no-op logger.
	Logger *zap.Logger
}

// ParseString parses grammar description and returns a grammar on success.
// Imports are read from OS file system relative to the current directory.
// Returns nil and error on failure.
func ParseString(name, content string) (*grammar.Grammar, error) {
	return (&Loader{}).LoadString(name, content)
}

// ParseBytes parses grammar description and returns a grammar on success.
// Returns nil and error on failure.
func ParseBytes(name string, content []byte) (*grammar.Grammar, error) {
	return (&Loader{}).LoadString(name, string(content))
}

// ParseFile reads grammar description from file and returns a grammar on success.
// Returns nil and error on failure.
func ParseFile(path string) (*grammar.Grammar, error) {
	return (&Loader{}).LoadFile(path)
}

// Parse parses grammar description and returns a grammar on success.
// Returns nil and error on failure.
func Parse(s *source.Source) (*grammar.Grammar, error) {
	return (&Loader{}).Load(s)
}

func (l *Loader) fs() afero.Fs {
	if l.Fs == nil {
		return afero.NewOsFs()
	}
	return l.Fs
}

func (l *Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// LoadString parses grammar description, name is used in error messages and to resolve imports.
func (l *Loader) LoadString(name, content string) (*grammar.Grammar, error) {
	return l.Load(source.New(name, content))
}

// LoadFile reads and parses grammar description file.
func (l *Loader) LoadFile(path string) (*grammar.Grammar, error) {
	content, e := afero.ReadFile(l.fs(), path)
	if e != nil {
		return nil, importError(nil, path, e)
	}

	return l.Load(source.New(path, string(content)))
}

// Load parses grammar description and all imported files, then builds and validates grammar.
func (l *Loader) Load(s *source.Source) (*grammar.Grammar, error) {
	log := l.logger()
	d, e := parseDescription(s)
	if e != nil {
		return nil, e
	}

	log.Debug("grammar description parsed", zap.String("source", s.Name()), zap.Int("rules", len(d.rules)))
	rules := d.rules
	sources := []string{s.Name()}
	loaded := map[string]bool{filepath.Clean(s.Name()): true}
	q := queue.New[importItem]()
	q.Append(resolveImports(s.Name(), d.imports)...)

	for !q.IsEmpty() {
		item, _ := q.First()
		if loaded[item.path] {
			log.Debug("import skipped", zap.String("path", item.path))
			continue
		}

		loaded[item.path] = true
		content, e := afero.ReadFile(l.fs(), item.path)
		if e != nil {
			return nil, importError(item.token, item.path, e)
		}

		d, e := parseDescription(source.New(item.path, string(content)))
		if e != nil {
			return nil, e
		}

		log.Debug("grammar description imported",
			zap.String("path", item.path), zap.String("by", item.token.SourceName()), zap.Int("rules", len(d.rules)))
		for _, r := range d.rules {
			r.Imported = true
			rules = append(rules, r)
		}
		sources = append(sources, item.path)
		q.Append(resolveImports(item.path, d.imports)...)
	}

	return grammar.New(rules, grammar.Options{Start: l.Start, Strict: l.Strict, Sources: sources})
}

func resolveImports(importer string, items []importItem) []importItem {
	dir := filepath.Dir(importer)
	res := make([]importItem, len(items))
	for i, item := range items {
		path := item.path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		res[i] = importItem{filepath.Clean(path), item.token}
	}
	return res
}
