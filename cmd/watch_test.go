package cmd

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ava12/packrat/internal/grammarcache"
)

func newWatchTest(t *testing.T, fs afero.Fs) (*watchState, *bytes.Buffer, *[]string) {
	color.NoColor = true
	a := &app{fs: fs, v: viper.New(), logger: zap.NewNop(), conf: settings{CacheSize: 4}}
	var e error
	a.cache, e = grammarcache.New(a.conf.CacheSize, a.loader())
	require.NoError(t, e)

	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	dirs := &[]string{}
	s := newWatchState(a, cmd, "/g/main.peg", "/in/data.txt", parseOptions{format: "sexpr"}, func(dir string) error {
		*dirs = append(*dirs, dir)
		return nil
	})
	return s, out, dirs
}

func feed(s *watchState, names ...string) error {
	events := make(chan fsnotify.Event, len(names))
	for _, name := range names {
		events <- fsnotify.Event{Name: name, Op: fsnotify.Write}
	}
	close(events)
	return s.loop(context.Background(), events, nil)
}

func TestWatch(t *testing.T) {
	fs := newFs(t, map[string]string{"/in/data.txt": "1"})
	s, out, dirs := newWatchTest(t, fs)

	s.refresh()
	assert.Equal(t, "# /in/data.txt\n(list (item \"1\"))\n", out.String())
	sort.Strings(*dirs)
	assert.Equal(t, []string{"/g", "/in"}, *dirs)

	out.Reset()
	require.NoError(t, afero.WriteFile(fs, "/in/data.txt", []byte("1,2"), 0o644))
	require.NoError(t, feed(s, "/in/data.txt", "/in/other.txt", "/g/bad.peg"))
	assert.Equal(t, "# /in/data.txt\n(list (item \"1\") (more \",\" (item \"2\")))\n", out.String())

	out.Reset()
	require.NoError(t, afero.WriteFile(fs, "/g/lib.peg", []byte("item: <alpha>+\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/in/data.txt", []byte("ab,c"), 0o644))
	require.NoError(t, feed(s, "/g/lib.peg"))
	assert.Equal(t, "# /in/data.txt\n(list (item \"a\" \"b\") (more \",\" (item \"c\")))\n", out.String())
	assert.Len(t, *dirs, 2)
}

func TestWatchBrokenGrammar(t *testing.T) {
	fs := newFs(t, map[string]string{"/in/data.txt": "1"})
	s, out, _ := newWatchTest(t, fs)

	require.NoError(t, afero.WriteFile(fs, "/g/main.peg", []byte("list: missing\n"), 0o644))
	s.refresh()
	assert.True(t, strings.HasPrefix(out.String(), "# /in/data.txt\nFAIL /g/main.peg\n"))
	assert.Contains(t, out.String(), `unknown rule "missing"`)

	out.Reset()
	require.NoError(t, afero.WriteFile(fs, "/g/main.peg", []byte("list: <digit>+\n"), 0o644))
	require.NoError(t, feed(s, "/g/main.peg"))
	assert.Equal(t, "# /in/data.txt\n(list \"1\")\n", out.String())

	out.Reset()
	require.NoError(t, fs.Remove("/in/data.txt"))
	require.NoError(t, feed(s, "/in/data.txt"))
	assert.Contains(t, out.String(), "FAIL /in/data.txt: ")
}
