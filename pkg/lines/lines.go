// Package lines classifies raw Markdown text into logical lines.
//
// Lines live in an arena (Set) and are addressed by Handle. A slice of a line is
// a value that records the handle of the line it was cut from and the number of
// columns removed; slicing never mutates the arena.
package lines

import "strings"

// TabStop is the tab width used for every column computation.
const TabStop = 4

// Kind is the variant of a logical line.
type Kind uint8

// Line kinds.
const (
	// KindEmpty is a line with no characters at all.
	KindEmpty Kind = iota
	// KindEmptyish is a line holding only spaces and tabs.
	KindEmptyish
	// KindText is a line with visible content.
	KindText
	// KindComment is a run of physical rows folded into one HTML comment.
	KindComment
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindEmptyish:
		return "emptyish"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Handle addresses a line inside a Set.
type Handle int

// NoHandle marks the end of the line chain.
const NoHandle Handle = -1

// Row is one physical row of a folded comment line, kept verbatim.
type Row struct {
	Text string
	EOL  string
}

// Line is a logical line or a column-shifted view of one.
type Line struct {
	Kind Kind

	// Index is the 0-based physical row the line starts on.
	Index int

	// Column is the absolute column the view starts at (0 for arena lines).
	Column int

	// Prefix is the leading run of spaces and tabs.
	Prefix string

	// Indent is the rendered width of Prefix, in columns.
	Indent int

	// Content is the text after Prefix, without the line ending.
	Content string

	// EOL is the line ending: "\n", "\r\n" or "" for the last line.
	EOL string

	// Rows holds the folded physical rows of a comment line.
	Rows []Row

	// Origin is the arena line this view was cut from.
	Origin Handle

	// Shift is the number of columns removed from Origin.
	Shift int

	// Next links to the following logical line.
	Next Handle
}

// IsBlank reports whether the line has no visible content.
func (l Line) IsBlank() bool {
	return l.Kind == KindEmpty || l.Kind == KindEmptyish
}

// IsComment reports whether the line is a folded comment.
func (l Line) IsComment() bool {
	return l.Kind == KindComment
}

// Text returns the visible text of the line without its line ending.
// Comment lines join their rows with "\n".
func (l Line) Text() string {
	if l.Kind == KindComment {
		parts := make([]string, len(l.Rows))
		for i, row := range l.Rows {
			parts[i] = row.Text
		}
		return strings.Join(parts, "\n")
	}
	return l.Prefix + l.Content
}

// End returns the last physical row covered by the line.
func (l Line) End() int {
	if l.Kind == KindComment && len(l.Rows) > 0 {
		return l.Index + len(l.Rows) - 1
	}
	return l.Index
}

// WithContent returns a copy of the line whose content is replaced.
// Kind is recomputed from the new prefix/content pair.
func (l Line) WithContent(content string) Line {
	if l.Kind == KindComment {
		return l
	}
	l.Content = content
	l.Kind = kindOf(l.Prefix, l.Content)
	return l
}

// TrimRight returns a copy with trailing spaces and tabs removed from the content.
func (l Line) TrimRight() Line {
	return l.WithContent(strings.TrimRight(l.Content, " \t"))
}

// Unfold expands a comment line back into its physical rows, each classified
// as an ordinary line. Other lines are returned as a one-element slice.
func (l Line) Unfold() []Line {
	if l.Kind != KindComment {
		return []Line{l}
	}
	out := make([]Line, 0, len(l.Rows))
	for i, row := range l.Rows {
		line := newLine(l.Index+i, row.Text, row.EOL)
		line.Origin = l.Origin
		line.Next = l.Next
		out = append(out, line)
	}
	return out
}

// Set is the arena that owns the logical lines of one text.
type Set struct {
	lines []Line
}

// Len returns the number of logical lines.
func (s *Set) Len() int {
	return len(s.lines)
}

// At returns the line addressed by h.
func (s *Set) At(h Handle) Line {
	return s.lines[h]
}

// First returns the handle of the first line, or NoHandle for empty text.
func (s *Set) First() Handle {
	if len(s.lines) == 0 {
		return NoHandle
	}
	return 0
}

// All returns the logical lines in order. Callers must not modify the slice.
func (s *Set) All() []Line {
	return s.lines
}

// Next follows the forward link of l. It also works on slices, whose link
// is inherited from their parent.
func (s *Set) Next(l Line) (Line, bool) {
	if l.Next < 0 || int(l.Next) >= len(s.lines) {
		return Line{}, false
	}
	return s.lines[l.Next], true
}

// Parent returns the arena line a view was cut from.
func (s *Set) Parent(l Line) (Line, bool) {
	if l.Origin < 0 || int(l.Origin) >= len(s.lines) {
		return Line{}, false
	}
	return s.lines[l.Origin], true
}

// Reassemble reproduces the classified text byte for byte.
func (s *Set) Reassemble() string {
	var sb strings.Builder
	for _, line := range s.lines {
		if line.Kind == KindComment {
			for _, row := range line.Rows {
				sb.WriteString(row.Text)
				sb.WriteString(row.EOL)
			}
			continue
		}
		sb.WriteString(line.Prefix)
		sb.WriteString(line.Content)
		sb.WriteString(line.EOL)
	}
	return sb.String()
}

// Rows returns the number of physical rows covered by the set.
func (s *Set) Rows() int {
	if len(s.lines) == 0 {
		return 0
	}
	return s.lines[len(s.lines)-1].End() + 1
}

func kindOf(prefix, content string) Kind {
	switch {
	case content != "":
		return KindText
	case prefix != "":
		return KindEmptyish
	default:
		return KindEmpty
	}
}

// ColumnWidth returns the rendered width of a whitespace run starting at column.
func ColumnWidth(ws string, column int) int {
	col := column
	for i := 0; i < len(ws); i++ {
		if ws[i] == '\t' {
			col += TabStop - col%TabStop
		} else {
			col++
		}
	}
	return col - column
}

func splitPrefix(text string) (string, string) {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return text[:i], text[i:]
}

func newLine(index int, text, eol string) Line {
	prefix, content := splitPrefix(text)
	return Line{
		Kind:    kindOf(prefix, content),
		Index:   index,
		Prefix:  prefix,
		Indent:  ColumnWidth(prefix, 0),
		Content: content,
		EOL:     eol,
		Origin:  NoHandle,
		Next:    NoHandle,
	}
}

// FromString classifies a single physical row. It is used by block handlers
// that need to re-examine a synthesized line.
func FromString(index int, text string) Line {
	return newLine(index, text, "")
}
