// Package cursor provides a bidirectional character cursor over a run of
// logical lines. Line boundaries are reported as the virtual LineBreak rune.
package cursor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/gomdparse/pkg/lines"
)

const (
	// LineBreak is returned at the end of every line except the last.
	LineBreak rune = '\n'
	// EOF is returned past the end of the last line.
	EOF rune = -1
)

// Pos is a position inside the run: the line offset from the first line and
// the byte offset inside that line's content.
type Pos struct {
	Line int
	Char int
}

// Before reports whether p comes before other.
func (p Pos) Before(other Pos) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Char < other.Char
}

// Cursor walks the content of a run of lines as one character stream.
type Cursor struct {
	text []string
	pos  Pos
}

// New returns a cursor positioned at the first character of ls.
// Only the content of each line is visible; prefixes are skipped.
func New(ls []lines.Line) *Cursor {
	text := make([]string, len(ls))
	for i, line := range ls {
		text[i] = line.Content
	}
	return &Cursor{text: text}
}

// FromStrings returns a cursor over plain strings, one per line.
func FromStrings(text ...string) *Cursor {
	return &Cursor{text: text}
}

// Position returns a snapshot of the current position.
func (c *Cursor) Position() Pos {
	return c.pos
}

// Restore moves the cursor back to a snapshot taken with Position.
func (c *Cursor) Restore(p Pos) {
	c.pos = p
}

// Lines returns the number of lines in the run.
func (c *Cursor) Lines() int {
	return len(c.text)
}

// LineText returns the content of line i.
func (c *Cursor) LineText(i int) string {
	return c.text[i]
}

// AtEOF reports whether the cursor is past the last character.
func (c *Cursor) AtEOF() bool {
	return c.Peek() == EOF
}

// AtLineEnd reports whether the cursor sits on a line break or at EOF.
func (c *Cursor) AtLineEnd() bool {
	r := c.Peek()
	return r == LineBreak || r == EOF
}

// AtLineStart reports whether the cursor is on the first character of a line.
func (c *Cursor) AtLineStart() bool {
	return c.pos.Char == 0
}

// Peek returns the rune under the cursor without moving.
func (c *Cursor) Peek() rune {
	r, _ := c.runeAt(c.pos)
	return r
}

// PeekN returns the rune n characters away from the cursor. Negative n looks
// behind. Line breaks count as one character. Out-of-range positions return
// EOF ahead of the run and LineBreak behind it.
func (c *Cursor) PeekN(n int) rune {
	saved := c.pos
	defer func() { c.pos = saved }()

	if n >= 0 {
		for range n {
			if c.Pop() == EOF {
				return EOF
			}
		}
		return c.Peek()
	}

	for range -n {
		if !c.Unpop() {
			return LineBreak
		}
	}
	return c.Peek()
}

// Pop returns the rune under the cursor and advances past it.
func (c *Cursor) Pop() rune {
	r, size := c.runeAt(c.pos)
	switch r {
	case EOF:
	case LineBreak:
		c.pos = Pos{Line: c.pos.Line + 1}
	default:
		c.pos.Char += size
	}
	return r
}

// Unpop moves the cursor back one character. It returns false at the start
// of the run.
func (c *Cursor) Unpop() bool {
	if c.pos.Char > 0 {
		_, size := utf8.DecodeLastRuneInString(c.text[c.pos.Line][:c.pos.Char])
		c.pos.Char -= size
		return true
	}
	if c.pos.Line == 0 {
		return false
	}
	c.pos.Line--
	c.pos.Char = len(c.text[c.pos.Line])
	return true
}

// Skip advances past every rune contained in set and returns the count.
func (c *Cursor) Skip(set string) int {
	n := 0
	for {
		r := c.Peek()
		if r == EOF || !strings.ContainsRune(set, r) {
			return n
		}
		c.Pop()
		n++
	}
}

// SkipSpace skips spaces and tabs, and at most one line break.
func (c *Cursor) SkipSpace() int {
	n := c.Skip(" \t")
	if c.Peek() == LineBreak {
		c.Pop()
		n++
		n += c.Skip(" \t")
	}
	return n
}

// Match applies re at the cursor, limited to the rest of the current line.
// The pattern must be anchored with \A or ^. On success the cursor advances
// past the match and the submatches are returned.
func (c *Cursor) Match(re *regexp.Regexp) ([]string, bool) {
	if c.pos.Line >= len(c.text) {
		return nil, false
	}
	rest := c.text[c.pos.Line][c.pos.Char:]
	loc := re.FindStringSubmatchIndex(rest)
	if loc == nil || loc[0] != 0 {
		return nil, false
	}
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = rest[loc[2*i]:loc[2*i+1]]
		}
	}
	c.pos.Char += loc[1]
	return groups, true
}

// TakeDelimited scans a balanced delimited span starting at the cursor.
// The rune under the cursor must be a key of pairs; the matching closer ends
// the span. Nested openers of the same kind are balanced when the opener and
// closer differ. A backslash escapes the following rune. The returned text
// excludes the outer delimiters. When acceptUnterminated is set, reaching the
// end of the run returns the text scanned so far with ok true; otherwise the
// cursor is restored and ok is false.
func (c *Cursor) TakeDelimited(pairs map[rune]rune, acceptUnterminated bool) (string, bool) {
	start := c.pos
	open := c.Peek()
	closer, ok := pairs[open]
	if !ok {
		return "", false
	}
	c.Pop()
	from := c.pos

	depth := 0
	for {
		at := c.pos
		r := c.Pop()
		switch {
		case r == EOF:
			if acceptUnterminated {
				return c.Slice(from, c.pos), true
			}
			c.pos = start
			return "", false
		case r == '\\':
			if next := c.Peek(); next != EOF && next != LineBreak {
				c.Pop()
			}
		case r == closer && depth == 0:
			return c.Slice(from, at), true
		case r == closer:
			depth--
		case r == open && open != closer:
			depth++
		}
	}
}

// Slice returns the text between two positions, with "\n" for line breaks.
func (c *Cursor) Slice(from, to Pos) string {
	if !from.Before(to) {
		return ""
	}
	if from.Line == to.Line {
		return c.text[from.Line][from.Char:to.Char]
	}
	var sb strings.Builder
	sb.WriteString(c.text[from.Line][from.Char:])
	for line := from.Line + 1; line < to.Line; line++ {
		sb.WriteByte('\n')
		sb.WriteString(c.text[line])
	}
	sb.WriteByte('\n')
	if to.Line < len(c.text) {
		sb.WriteString(c.text[to.Line][:to.Char])
	}
	return sb.String()
}

func (c *Cursor) runeAt(p Pos) (rune, int) {
	if p.Line >= len(c.text) {
		return EOF, 0
	}
	line := c.text[p.Line]
	if p.Char >= len(line) {
		if p.Line == len(c.text)-1 {
			return EOF, 0
		}
		return LineBreak, 0
	}
	r, size := utf8.DecodeRuneInString(line[p.Char:])
	return r, size
}
