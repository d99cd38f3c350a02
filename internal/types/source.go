package types

import (
	"fmt"
	"sort"
	"strings"
)

// Source is grammar text with a file name and a lazily built line index.
// Positions are never stored on tokens; they are derived from here.
type Source struct {
	Name       string
	Text       []byte
	lineStarts []int
}

// NewSource returns a Source for text.
func NewSource(name string, text []byte) *Source {
	return &Source{Name: name, Text: text}
}

// Position is a 1-based line and column in a Source.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

func (s *Source) index() {
	if s.lineStarts != nil {
		return
	}
	s.lineStarts = []int{0}
	for i := 0; i < len(s.Text); i++ {
		switch s.Text[i] {
		case '\n':
			s.lineStarts = append(s.lineStarts, i+1)
		case '\r':
			if i+1 < len(s.Text) && s.Text[i+1] == '\n' {
				i++
			}
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
}

// Position converts a byte offset into a line and column.
// Offsets past the end clamp to the end of the text.
func (s *Source) Position(offset ByteOffset) Position {
	s.index()
	off := min(int(offset), len(s.Text))
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > off
	})
	return Position{
		File:   s.Name,
		Offset: off,
		Line:   line,
		Column: off - s.lineStarts[line-1] + 1,
	}
}

// Line returns the text of the given 1-based line without its line ending.
func (s *Source) Line(line int) string {
	s.index()
	if line < 1 || line > len(s.lineStarts) {
		return ""
	}
	start := s.lineStarts[line-1]
	end := len(s.Text)
	if line < len(s.lineStarts) {
		end = s.lineStarts[line]
	}
	return strings.TrimRight(string(s.Text[start:end]), "\r\n")
}

// Excerpt renders the line containing offset followed by a caret line
// pointing at the column:
//
//	rule = "abc" @
//	             ^
func (s *Source) Excerpt(offset ByteOffset) string {
	pos := s.Position(offset)
	text := s.Line(pos.Line)
	var b strings.Builder
	b.WriteString(text)
	b.WriteByte('\n')
	for i := 0; i < pos.Column-1 && i < len(text); i++ {
		if text[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')
	return b.String()
}
