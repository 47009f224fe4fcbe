package linkdef

import (
	"strings"

	"github.com/yaklabco/gomdparse/pkg/cursor"
)

// Status is the outcome of scanning a (possibly partial) definition.
type Status uint8

// Scan outcomes.
const (
	// Invalid means no amount of further input can make the text a definition.
	Invalid Status = iota
	// Incomplete means the text is a valid prefix of a definition.
	Incomplete
	// Complete means a full definition was found.
	Complete
)

// String returns the name of the status.
func (s Status) String() string {
	switch s {
	case Invalid:
		return "invalid"
	case Incomplete:
		return "incomplete"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// maxParenDepth bounds nesting of unescaped parentheses in a destination.
const maxParenDepth = 32

// Definition is a parsed link reference definition.
type Definition struct {
	// Label is the raw label text between the brackets.
	Label string

	// Destination is the unescaped link destination.
	Destination string

	// Title is the unescaped title, empty when absent.
	Title string

	// TitleChar is the opening title delimiter: '"', '\'' or '('.
	TitleChar byte
}

// Normalized returns the lookup key of the definition.
func (d Definition) Normalized() string {
	return NormalizeLabel(d.Label)
}

// Result describes the scan of definition text.
type Result struct {
	Definition Definition
	Status     Status

	// Lines is the number of input lines covered by a complete definition.
	Lines int
}

// Parse scans one link reference definition from the start of ls, where each
// element is the content of one line. A Complete result may cover fewer lines
// than given when a title on a later line turned out to be invalid.
func Parse(ls []string) Result {
	if len(ls) == 0 {
		return Result{Status: Incomplete}
	}
	cur := cursor.FromStrings(ls...)

	label, status := ScanLabel(cur)
	if status != Complete {
		return Result{Status: status}
	}
	if cur.Pop() != ':' {
		return Result{Status: Invalid}
	}

	cur.SkipSpace()
	if cur.AtEOF() {
		return Result{Status: Incomplete}
	}
	dest, ok := ScanDestination(cur)
	if !ok {
		return Result{Status: Invalid}
	}
	def := Definition{Label: label, Destination: dest}

	afterDest := cur.Position()
	spaces := cur.Skip(" \t")
	if cur.AtEOF() {
		return Result{Definition: def, Status: Complete, Lines: afterDest.Line + 1}
	}

	titleOnNewLine := false
	if cur.Peek() == cursor.LineBreak {
		cur.Pop()
		cur.Skip(" \t")
		titleOnNewLine = true
		if cur.AtEOF() {
			return Result{Definition: def, Status: Complete, Lines: afterDest.Line + 1}
		}
	} else if spaces == 0 {
		return Result{Status: Invalid}
	}

	// Without a title the definition ends with the destination line.
	fallback := func() Result {
		if titleOnNewLine {
			return Result{Definition: def, Status: Complete, Lines: afterDest.Line + 1}
		}
		return Result{Status: Invalid}
	}

	title, titleChar, status := ScanTitle(cur)
	switch status {
	case Incomplete:
		return Result{Status: Incomplete}
	case Invalid:
		return fallback()
	}
	cur.Skip(" \t")
	if !cur.AtLineEnd() {
		return fallback()
	}

	def.Title = title
	def.TitleChar = titleChar
	return Result{Definition: def, Status: Complete, Lines: cur.Position().Line + 1}
}

// ScanLabel scans a bracketed link label at the cursor. The label may span
// lines, must contain a non-whitespace character, no unescaped '[' and at most
// MaxLabelLength characters. Reaching the end of input yields Incomplete.
func ScanLabel(cur *cursor.Cursor) (string, Status) {
	start := cur.Position()
	if cur.Peek() != '[' {
		return "", Invalid
	}
	cur.Pop()
	from := cur.Position()

	for n := 0; ; n++ {
		if n > MaxLabelLength {
			cur.Restore(start)
			return "", Invalid
		}
		at := cur.Position()
		switch cur.Pop() {
		case cursor.EOF:
			cur.Restore(start)
			return "", Incomplete
		case '\\':
			if next := cur.Peek(); next == '[' || next == ']' || next == '\\' {
				cur.Pop()
			}
		case '[':
			cur.Restore(start)
			return "", Invalid
		case ']':
			label := cur.Slice(from, at)
			if strings.TrimSpace(label) == "" {
				cur.Restore(start)
				return "", Invalid
			}
			return label, Complete
		}
	}
}

// ScanDestination scans a link destination at the cursor: either a
// "<...>" form on a single line or a run of non-space characters with
// balanced parentheses. The returned destination is unescaped.
func ScanDestination(cur *cursor.Cursor) (string, bool) {
	start := cur.Position()

	if cur.Peek() == '<' {
		cur.Pop()
		from := cur.Position()
		for {
			at := cur.Position()
			switch cur.Pop() {
			case '>':
				return Unescape(cur.Slice(from, at)), true
			case '\\':
				if next := cur.Peek(); next != cursor.LineBreak && next != cursor.EOF {
					cur.Pop()
				}
			case '<', cursor.LineBreak, cursor.EOF:
				cur.Restore(start)
				return "", false
			}
		}
	}

	depth := 0
	for {
		r := cur.Peek()
		switch {
		case r == cursor.EOF || r == cursor.LineBreak || r == ' ' || r == '\t' || r < 0x20 || r == 0x7f:
			if depth != 0 {
				cur.Restore(start)
				return "", false
			}
			dest := cur.Slice(start, cur.Position())
			if dest == "" {
				return "", false
			}
			return Unescape(dest), true
		case r == '\\':
			cur.Pop()
			if next := cur.Peek(); next != cursor.EOF && next != cursor.LineBreak && next < 0x80 && IsASCIIPunct(byte(next)) {
				cur.Pop()
			}
			continue
		case r == '(':
			depth++
			if depth > maxParenDepth {
				cur.Restore(start)
				return "", false
			}
		case r == ')':
			if depth == 0 {
				dest := cur.Slice(start, cur.Position())
				if dest == "" {
					return "", false
				}
				return Unescape(dest), true
			}
			depth--
		}
		cur.Pop()
	}
}

// titlePairs maps each title opener to its closer.
//
//nolint:gochecknoglobals // Read-only lookup table
var titlePairs = map[rune]map[rune]rune{
	'"':  {'"': '"'},
	'\'': {'\'': '\''},
	'(':  {'(': ')'},
}

// ScanTitle scans a quoted or parenthesized link title at the cursor.
// A title still open at the end of input is Incomplete; a title containing a
// blank line is Invalid.
func ScanTitle(cur *cursor.Cursor) (string, byte, Status) {
	start := cur.Position()
	open := cur.Peek()
	pairs, ok := titlePairs[open]
	if !ok {
		return "", 0, Invalid
	}

	body, ok := cur.TakeDelimited(pairs, true)
	if !ok {
		cur.Restore(start)
		return "", 0, Invalid
	}
	if containsBlankLine(body) {
		cur.Restore(start)
		return "", 0, Invalid
	}
	if cur.AtEOF() && !closedAt(cur, pairs[open]) {
		cur.Restore(start)
		return "", 0, Incomplete
	}
	if open == '(' && strings.Contains(unescapedOnly(body), "(") {
		cur.Restore(start)
		return "", 0, Invalid
	}
	return Unescape(body), byte(open), Complete
}

// closedAt reports whether the rune just before the cursor closed a span.
func closedAt(cur *cursor.Cursor, closer rune) bool {
	if cur.PeekN(-1) != closer {
		return false
	}
	return cur.PeekN(-2) != '\\'
}

func containsBlankLine(s string) bool {
	for _, line := range strings.Split(s, "\n")[1:] {
		if strings.TrimSpace(line) == "" {
			return true
		}
	}
	return false
}

// unescapedOnly drops backslash-escaped characters from s.
func unescapedOnly(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
