// Package source defines source text and the cursor used to scan it.
package source

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Source is a named immutable text with line index.
// Source is safe for concurrent use.
type Source struct {
	name       string
	content    string
	lineStarts []int
}

// New creates a source. Content is never copied or modified.
func New(name, content string) *Source {
	s := &Source{name: name, content: content}
	lineCnt := strings.Count(content, "\n") + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(content) && j < lineCnt; i++ {
		if content[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}

	return s
}

// Name returns source name, may be empty.
func (s *Source) Name() string {
	return s.name
}

// Content returns the whole source text.
func (s *Source) Content() string {
	return s.content
}

// Len returns source length in bytes.
func (s *Source) Len() int {
	return len(s.content)
}

// Lines returns the number of lines, a source always has at least one line.
func (s *Source) Lines() int {
	return len(s.lineStarts)
}

// LineCol converts byte offset to 1-based line and column numbers.
// Columns are counted in runes. Offsets out of range are clamped.
func (s *Source) LineCol(pos int) (line, col int) {
	var lineIndex int
	if pos < 0 {
		pos = 0
		lineIndex = 0
	} else if pos >= len(s.content) {
		pos = len(s.content)
		lineIndex = len(s.lineStarts) - 1
	} else {
		lineIndex = s.findLineIndex(pos)
	}

	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCountInString(s.content[lineStart:pos]) + 1
}

// Pos converts 1-based line and column numbers to byte offset.
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.content)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1]
	for col > 1 && res < l && s.content[res] != '\n' {
		_, size := utf8.DecodeRuneInString(s.content[res:])
		res += size
		col--
	}
	return res
}

// Line returns the text of 1-based line without line terminator.
func (s *Source) Line(line int) string {
	if line <= 0 || line > len(s.lineStarts) {
		return ""
	}

	start := s.lineStarts[line-1]
	end := len(s.content)
	if line < len(s.lineStarts) {
		end = s.lineStarts[line] - 1
	}
	return strings.TrimSuffix(s.content[start:end], "\r")
}

func (s *Source) findLineIndex(pos int) int {
	return sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
}

// Pos describes position in a source.
type Pos struct {
	src            *Source
	pos, line, col int
}

// NewPos creates position for byte offset in src. src may be nil.
func NewPos(src *Source, pos int) Pos {
	res := Pos{src: src, pos: pos}
	if src != nil {
		res.line, res.col = src.LineCol(pos)
	}
	return res
}

// Source returns position source, may be nil.
func (p Pos) Source() *Source {
	return p.src
}

// SourceName returns source name or empty string.
func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}

// Pos returns byte offset.
func (p Pos) Pos() int {
	return p.pos
}

// Line returns 1-based line number or 0.
func (p Pos) Line() int {
	return p.line
}

// Col returns 1-based column number or 0.
func (p Pos) Col() int {
	return p.col
}
