package erbast

import (
	"fmt"
	"sort"
)

// Position is a 1-based line and column in a source file.
// Columns count bytes, not runes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Location is a span of source text in line/column terms.
type Location struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsSingleLine returns true if start and end are on the same line.
func (l Location) IsSingleLine() bool {
	return l.Start.Line == l.End.Line
}

func (l Location) String() string {
	return l.Start.String() + "-" + l.End.String()
}

// Range is a half-open byte range [Start, End) in the source.
type Range struct {
	Start int
	End   int
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains returns true if the given offset is within this range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// LineIndex holds the start offset of every line in a source.
type LineIndex struct {
	starts []int
	size   int
}

// NewLineIndex builds a line index for source.
// Both LF and CRLF endings end a line at the LF.
func NewLineIndex(source string) *LineIndex {
	starts := []int{0}
	for idx := 0; idx < len(source); idx++ {
		if source[idx] == '\n' {
			starts = append(starts, idx+1)
		}
	}
	return &LineIndex{starts: starts, size: len(source)}
}

// LineCount returns the number of lines.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// Position converts a byte offset to a 1-based line and column.
// Offsets past the end clamp to the end of the source.
func (li *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > li.size {
		offset = li.size
	}

	lineIdx := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	}) - 1

	return Position{Line: lineIdx + 1, Column: offset - li.starts[lineIdx] + 1}
}

// Location converts a byte range to a Location.
func (li *LineIndex) Location(r Range) Location {
	return Location{Start: li.Position(r.Start), End: li.Position(r.End)}
}

// LineStart returns the byte offset where a 1-based line begins.
func (li *LineIndex) LineStart(line int) (int, bool) {
	if line < 1 || line > len(li.starts) {
		return 0, false
	}
	return li.starts[line-1], true
}
