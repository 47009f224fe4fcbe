package mdast

import (
	"github.com/yaklabco/gomdparse/pkg/cursor"
	"github.com/yaklabco/gomdparse/pkg/lines"
)

// Position is a 1-based line and column. Columns count bytes of the line's
// content after the block prefixes; 0 means the whole line.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if the position names a line.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Span is the source range of a node. End is inclusive for lines and
// exclusive for columns.
type Span struct {
	Start Position
	End   Position
}

// IsValid returns true if both ends are valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}

// IsSingleLine returns true if start and end are on the same line.
func (s Span) IsSingleLine() bool {
	return s.Start.Line == s.End.Line
}

// Lines returns the number of lines covered.
func (s Span) Lines() int {
	if !s.IsValid() {
		return 0
	}
	return s.End.Line - s.Start.Line + 1
}

// rowSpan covers whole physical rows, 0-based first row and count.
func rowSpan(start, extent int) Span {
	if extent <= 0 {
		return Span{}
	}
	return Span{
		Start: Position{Line: start + 1},
		End:   Position{Line: start + extent},
	}
}

// contentPosition maps a cursor position within a block's content lines to
// a source position.
func contentPosition(content []lines.Line, pos cursor.Pos) Position {
	if len(content) == 0 {
		return Position{}
	}
	if pos.Line >= len(content) {
		last := content[len(content)-1]
		return Position{Line: last.Index + 1, Column: len(last.Content) + 1}
	}
	return Position{Line: content[pos.Line].Index + 1, Column: pos.Char + 1}
}
