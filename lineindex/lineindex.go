// Package lineindex resolves byte offsets within a source text to line and
// column positions.
//
// Columns are counted in UTF-16 code units, which is what the source map
// format and editor protocols expect, rather than in bytes or runes. The
// index itself stores only the byte offset of each line start, so building
// it is a single scan and lookups are a binary search plus a scan of one
// line.
package lineindex

import (
	"fmt"
	"sort"
	"strings"
)

// Location is a zero-based line and column position. Column is measured in
// UTF-16 code units.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Before reports whether l comes before o in (line, column) order.
func (l Location) Before(o Location) bool {
	return l.Line < o.Line || (l.Line == o.Line && l.Column < o.Column)
}

// Index is a line-start table for one source text.
type Index struct {
	src    string
	starts []int // byte offset of the first byte of each line; starts[0] == 0
}

// New builds an Index for src. A line starts at offset 0 and after every
// '\n'; "\r\n" therefore introduces exactly one line like a bare '\n' does.
func New(src string) *Index {
	starts := []int{0}
	for i := 0; ; {
		j := strings.IndexByte(src[i:], '\n')
		if j < 0 {
			break
		}
		i += j + 1
		starts = append(starts, i)
	}
	return &Index{src: src, starts: starts}
}

// LineCount returns the number of lines in the source. The empty source has
// one (empty) line.
func (ix *Index) LineCount() int {
	return len(ix.starts)
}

// LineOf returns the zero-based line the byte offset falls on. Offsets past
// the end of the source resolve to the last line.
func (ix *Index) LineOf(offset int) int {
	// First line start greater than offset, minus one.
	return sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	}) - 1
}

// LineSpan returns the byte range [start, end) of the given zero-based line,
// excluding the line terminator.
func (ix *Index) LineSpan(line int) (start, end int) {
	start = ix.starts[line]
	if line+1 < len(ix.starts) {
		end = ix.starts[line+1]
		// Strip the terminator.
		if end > start && ix.src[end-1] == '\n' {
			end--
		}
		if end > start && ix.src[end-1] == '\r' {
			end--
		}
		return start, end
	}
	return start, len(ix.src)
}

// Line returns the text of the given zero-based line without its terminator.
func (ix *Index) Line(line int) string {
	start, end := ix.LineSpan(line)
	return ix.src[start:end]
}

// Locate resolves a byte offset to its Location. Offsets beyond the end of
// the source are clamped.
func (ix *Index) Locate(offset int) Location {
	if offset > len(ix.src) {
		offset = len(ix.src)
	}
	line := ix.LineOf(offset)
	return Location{
		Line:   line,
		Column: UTF16Len(ix.src[ix.starts[line]:offset]),
	}
}

// UTF16Len returns the length of s in UTF-16 code units. Bytes that are not
// valid UTF-8 decode as U+FFFD and count as one unit each.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n++
		if r >= 0x10000 {
			n++ // surrogate pair
		}
	}
	return n
}
