package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gomdparse/pkg/lines"
)

// Column widths of the line listing.
const (
	rowColumn  = 7
	kindColumn = 9
)

// FormatLines lists the logical lines of set, one per row: the physical rows
// covered, the line kind, the indent width and the text with its leading
// whitespace made visible.
func (s *Styles) FormatLines(set *lines.Set, width int) string {
	if width <= 0 {
		width = defaultTermWidth
	}

	var sb strings.Builder
	for _, line := range set.All() {
		rows := fmt.Sprintf("%d", line.Index+1)
		if end := line.End(); end != line.Index {
			rows = fmt.Sprintf("%d-%d", line.Index+1, end+1)
		}

		text := lineText(line)
		lead := fmt.Sprintf("%*s  %-*s %3d  ", rowColumn, rows, kindColumn, line.Kind, line.Indent)
		text = truncate(text, max(width-len(lead), minPreview))

		sb.WriteString(s.Location.Render(fmt.Sprintf("%*s", rowColumn, rows)))
		sb.WriteString("  ")
		sb.WriteString(s.Kind.Render(fmt.Sprintf("%-*s", kindColumn, line.Kind)))
		sb.WriteString(s.Dim.Render(fmt.Sprintf(" %3d  ", line.Indent)))
		sb.WriteString(s.Text.Render(text))
		sb.WriteString("\n")
	}
	return sb.String()
}

func lineText(line lines.Line) string {
	if line.IsComment() {
		first := ""
		if len(line.Rows) > 0 {
			first = line.Rows[0].Text
		}
		if more := len(line.Rows) - 1; more > 0 {
			return fmt.Sprintf("%s (+%d rows)", first, more)
		}
		return first
	}
	return visibleWhitespace(line.Prefix) + line.Content
}

// visibleWhitespace renders spaces as "·" and tabs as "→".
func visibleWhitespace(ws string) string {
	return strings.NewReplacer(" ", "·", "\t", "→").Replace(ws)
}
