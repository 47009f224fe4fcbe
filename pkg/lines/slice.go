package lines

import (
	"strings"
	"unicode/utf8"
)

// Slice returns a view of l with the first columns columns removed.
//
// A tab that straddles the cut is replaced by the spaces left over on the
// right of the cut. The remainder is re-split into prefix and content, so a
// slice taken past all content degrades Text to Emptyish or Empty. Comment
// lines are returned unchanged.
func Slice(l Line, columns int) Line {
	if l.Kind == KindComment || columns <= 0 {
		return l
	}

	text := l.Prefix + l.Content
	col := l.Column
	target := l.Column + columns
	leftover := 0
	pos := 0

	for pos < len(text) && col < target {
		switch text[pos] {
		case '\t':
			width := TabStop - col%TabStop
			if col+width > target {
				leftover = col + width - target
				col = target
			} else {
				col += width
			}
			pos++
		default:
			_, size := utf8.DecodeRuneInString(text[pos:])
			col++
			pos += size
		}
	}

	rest := strings.Repeat(" ", leftover) + text[pos:]
	prefix, content := splitPrefix(rest)

	out := l
	out.Column = col
	out.Prefix = prefix
	out.Content = content
	out.Indent = ColumnWidth(prefix, col)
	out.Kind = kindOf(prefix, content)
	out.Shift = l.Shift + (col - l.Column)
	return out
}

// SliceBytes removes the first n bytes of the line's prefix and content,
// advancing the column by their rendered width. It is used when a block
// prefix was matched by characters rather than by columns.
func SliceBytes(l Line, n int) Line {
	if l.Kind == KindComment || n <= 0 {
		return l
	}
	text := l.Prefix + l.Content
	if n > len(text) {
		n = len(text)
	}
	col := l.Column
	for i := 0; i < n; {
		if text[i] == '\t' {
			col += TabStop - col%TabStop
			i++
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		col++
		i += size
	}
	return Slice(l, col-l.Column)
}
