package langdef

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ava12/packrat/grammar"
	"github.com/ava12/packrat/internal/test"
)

func memFs(t *testing.T, files map[string]string) afero.Fs {
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func TestImports(t *testing.T) {
	fs := memFs(t, map[string]string{
		"/g/main.peg":       "import \"lib/date.peg\"\ndate-time: date 'T' time\n",
		"/g/lib/date.peg":   "import \"time.peg\"\nimport \"../main.peg\"\ndate: <digit>+ '-' <digit>+\n",
		"/g/lib/time.peg":   "import \"date.peg\"\ntime: <digit>+ ':' <digit>+\n",
		"/g/lib/unused.peg": "unused: 'x'\n",
	})
	core, logs := observer.New(zap.DebugLevel)
	l := &Loader{Fs: fs, Logger: zap.New(core)}

	g, e := l.LoadFile("/g/main.peg")
	require.NoError(t, e)
	assert.Equal(t, []string{"date-time", "date", "time"}, g.Names())
	assert.Equal(t, []string{"/g/main.peg", "/g/lib/date.peg", "/g/lib/time.peg"}, g.Sources())
	assert.Equal(t, "date-time", g.Start())

	r, _ := g.Rule("time")
	assert.True(t, r.Imported)
	assert.Equal(t, "/g/lib/time.peg", r.Source)
	assert.Equal(t, 2, r.Line)
	r, _ = g.Rule("date-time")
	assert.False(t, r.Imported)

	assert.Equal(t, 2, logs.FilterMessage("grammar description imported").Len())
	assert.Equal(t, 2, logs.FilterMessage("import skipped").Len())
}

func TestImportFromString(t *testing.T) {
	fs := memFs(t, map[string]string{
		"/lib.peg": "word: <alpha>+\n",
	})
	l := &Loader{Fs: fs}
	g, e := l.LoadString("/main.peg", "import \"lib.peg\"\nphrase: word more*\nmore: ' ' word\n")
	require.NoError(t, e)
	assert.Equal(t, "phrase", g.FirstRule())
	assert.Equal(t, []string{"phrase", "more", "word"}, g.Names())
}

func TestImportedFirstRule(t *testing.T) {
	fs := memFs(t, map[string]string{
		"/lib.peg":  "lib: 'x'\n",
		"/main.peg": "# imports go first\nimport \"lib.peg\"\n\nmain: lib lib\n",
	})
	g, e := (&Loader{Fs: fs}).LoadFile("/main.peg")
	require.NoError(t, e)
	assert.Equal(t, "main", g.FirstRule())
	assert.Equal(t, "main", g.Start())
}

func TestImportErrors(t *testing.T) {
	fs := memFs(t, map[string]string{
		"/dup.peg":    "a: 'x'\n",
		"/broken.peg": "a: 'x\n",
		"/main.peg":   "a: 'a'\n",
	})
	l := &Loader{Fs: fs}

	_, e := l.LoadString("/main.peg", "import \"missing.peg\"\nb: 'b'")
	test.ExpectErrorCode(t, ImportError, e)
	assert.Contains(t, e.Error(), "/missing.peg")
	assert.Contains(t, e.Error(), "line 1")

	_, e = l.LoadString("/test.peg", "import \"dup.peg\"\na: 'a'")
	test.ExpectErrorCode(t, grammar.DuplicateRuleError, e)
	assert.Contains(t, e.Error(), "/test.peg:2")
	assert.Contains(t, e.Error(), "in /dup.peg at line 1")

	_, e = l.LoadString("/test.peg", "import \"broken.peg\"\nb: 'b'")
	require.Error(t, e)
	assert.Contains(t, e.Error(), "/broken.peg")

	_, e = l.LoadFile("/none.peg")
	test.ExpectErrorCode(t, ImportError, e)
}

func TestLoaderOptions(t *testing.T) {
	src := "a: b <no-such>\nb: 'b'\n"
	g, e := (&Loader{}).LoadString("opts.peg", src)
	require.NoError(t, e)
	assert.Equal(t, "a", g.Start())

	g, e = (&Loader{Start: "b"}).LoadString("opts.peg", src)
	require.NoError(t, e)
	assert.Equal(t, "b", g.Start())
	assert.Equal(t, "a", g.FirstRule())

	_, e = (&Loader{Start: "c"}).LoadString("opts.peg", src)
	test.ExpectErrorCode(t, grammar.UnknownStartError, e)

	_, e = (&Loader{Strict: true}).LoadString("opts.peg", src)
	test.ExpectErrorCode(t, grammar.UnknownIntrinsicError, e)
}
