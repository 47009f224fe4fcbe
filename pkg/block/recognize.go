package block

import (
	"strings"

	"github.com/yaklabco/gomdparse/pkg/lines"
)

// maxIndent is the indentation from which a line becomes indented code.
const maxIndent = 4

// isThematicBreak reports whether content is three or more '-', '*' or '_'
// characters of one kind, optionally separated by spaces or tabs.
func isThematicBreak(content string) bool {
	if content == "" {
		return false
	}
	marker := content[0]
	if marker != '-' && marker != '*' && marker != '_' {
		return false
	}
	count := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case marker:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

// atxHeading parses an ATX heading marker. It returns the level and the
// number of '#' characters.
func atxHeading(content string) (int, bool) {
	level := 0
	for level < len(content) && content[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, false
	}
	if level < len(content) && content[level] != ' ' && content[level] != '\t' {
		return 0, false
	}
	return level, true
}

// atxText strips the optional closing sequence from heading text.
func atxText(text string) string {
	text = strings.Trim(text, " \t")
	j := len(text)
	for j > 0 && text[j-1] == '#' {
		j--
	}
	switch {
	case j == 0:
		return ""
	case j < len(text) && (text[j-1] == ' ' || text[j-1] == '\t'):
		return strings.TrimRight(text[:j], " \t")
	default:
		return text
	}
}

// setextLevel reports whether line is a setext underline and its level.
func setextLevel(line lines.Line) (int, bool) {
	if line.Indent >= maxIndent || line.Content == "" {
		return 0, false
	}
	content := strings.TrimRight(line.Content, " \t")
	marker := content[0]
	if marker != '=' && marker != '-' {
		return 0, false
	}
	if strings.Trim(content, string(marker)) != "" {
		return 0, false
	}
	if marker == '=' {
		return 1, true
	}
	return 2, true
}

// fenceOpen parses an opening code fence.
func fenceOpen(content string) (byte, int, string, bool) {
	if content == "" || (content[0] != '`' && content[0] != '~') {
		return 0, 0, "", false
	}
	char := content[0]
	n := 0
	for n < len(content) && content[n] == char {
		n++
	}
	if n < 3 {
		return 0, 0, "", false
	}
	info := strings.Trim(content[n:], " \t")
	if char == '`' && strings.ContainsRune(info, '`') {
		return 0, 0, "", false
	}
	return char, n, info, true
}

// isFenceClose reports whether line closes a fence of char with at least n
// characters.
func isFenceClose(line lines.Line, char byte, n int) bool {
	if line.Indent >= maxIndent {
		return false
	}
	content := line.Content
	count := 0
	for count < len(content) && content[count] == char {
		count++
	}
	if count < n {
		return false
	}
	return strings.Trim(content[count:], " \t") == ""
}

// listMarker describes a parsed list item marker.
type listMarker struct {
	ordered bool
	marker  byte
	number  int
	width   int
}

// parseListMarker parses a bullet or ordered list marker at the start of
// content. The marker must be followed by whitespace or the end of the line.
func parseListMarker(content string) (listMarker, bool) {
	if content == "" {
		return listMarker{}, false
	}

	var m listMarker
	switch content[0] {
	case '-', '+', '*':
		m = listMarker{marker: content[0], width: 1}
	default:
		digits := 0
		number := 0
		for digits < len(content) && digits < 10 && content[digits] >= '0' && content[digits] <= '9' {
			number = number*10 + int(content[digits]-'0')
			digits++
		}
		if digits == 0 || digits > 9 || digits >= len(content) {
			return listMarker{}, false
		}
		delim := content[digits]
		if delim != '.' && delim != ')' {
			return listMarker{}, false
		}
		m = listMarker{ordered: true, marker: delim, number: number, width: digits + 1}
	}

	if m.width < len(content) && content[m.width] != ' ' && content[m.width] != '\t' {
		return listMarker{}, false
	}
	return m, true
}
