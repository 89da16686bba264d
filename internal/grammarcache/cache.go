// Package grammarcache keeps recently loaded grammars keyed by description file name and loader options.
// A cached grammar is reused only while contents of all its source files stay the same.
package grammarcache

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"

	"github.com/ava12/packrat/grammar"
	"github.com/ava12/packrat/langdef"
)

// DefaultSize is the number of grammars kept when no size is configured.
const DefaultSize = 16

type entry struct {
	grammar *grammar.Grammar
	digest  uint64
}

// Cache is an LRU cache of loaded grammars. It is safe for concurrent use.
type Cache struct {
	loader langdef.Loader
	items  *lru.Cache[uint64, entry]
}

// New creates a cache holding at most size grammars loaded with l.
// Non-positive size means DefaultSize.
func New(size int, l langdef.Loader) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if l.Fs == nil {
		l.Fs = afero.NewOsFs()
	}

	items, e := lru.New[uint64, entry](size)
	if e != nil {
		return nil, e
	}

	return &Cache{loader: l, items: items}, nil
}

// Load returns grammar described in file path. Second result is true if grammar was taken from cache.
func (c *Cache) Load(path string) (*grammar.Grammar, bool, error) {
	key := c.key(path)
	if cached, has := c.items.Get(key); has {
		digest, e := c.digest(cached.grammar.Sources())
		if e == nil && digest == cached.digest {
			return cached.grammar, true, nil
		}

		c.items.Remove(key)
	}

	g, e := c.loader.LoadFile(path)
	if e != nil {
		return nil, false, e
	}

	digest, e := c.digest(g.Sources())
	if e != nil {
		return nil, false, e
	}

	c.items.Add(key, entry{g, digest})
	return g, false, nil
}

// Len returns the number of cached grammars.
func (c *Cache) Len() int {
	return c.items.Len()
}

// Purge drops all cached grammars.
func (c *Cache) Purge() {
	c.items.Purge()
}

func (c *Cache) key(path string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(path)
	_, _ = d.WriteString("\x00" + strconv.FormatBool(c.loader.Strict) + "\x00" + c.loader.Start)
	return d.Sum64()
}

func (c *Cache) digest(sources []string) (uint64, error) {
	d := xxhash.New()
	for _, name := range sources {
		content, e := afero.ReadFile(c.loader.Fs, name)
		if e != nil {
			return 0, e
		}

		_, _ = d.WriteString(name)
		_, _ = d.Write([]byte{0})
		_, _ = d.Write(content)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64(), nil
}
