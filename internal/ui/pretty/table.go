package pretty

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdparse/pkg/block"
	"github.com/yaklabco/gomdparse/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding   = 2
	minTypeWidth   = 12
	countWidth     = 7
	shareWidth     = 7
	heavySeparator = "="
)

// TableRow is one block type and how often it occurred.
type TableRow struct {
	Type  block.Type
	Count int
}

// TableFormatter formats block statistics as a table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// CollectRows totals block counts across all parsed files, most frequent
// first.
func CollectRows(result *runner.Result) []TableRow {
	totals := make(map[block.Type]int)
	if result != nil {
		for _, file := range result.Files {
			if file.Document == nil {
				continue
			}
			for typ, n := range file.Document.Stats() {
				totals[typ] += n
			}
		}
	}
	rows := make([]TableRow, 0, len(totals))
	for typ, n := range totals {
		rows = append(rows, TableRow{Type: typ, Count: n})
	}
	slices.SortFunc(rows, func(a, b TableRow) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})
	return rows
}

// FormatTable renders rows with a total line. It returns "" for no rows.
func (t *TableFormatter) FormatTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	total := 0
	typeWidth := minTypeWidth
	for _, row := range rows {
		total += row.Count
		typeWidth = max(typeWidth, len(row.Type))
	}
	typeWidth = min(typeWidth, t.termWidth-countWidth-shareWidth-2*tablePadding)
	width := typeWidth + countWidth + shareWidth + 2*tablePadding
	gap := strings.Repeat(" ", tablePadding)

	var builder strings.Builder
	header := padRight("TYPE", typeWidth) + gap + padLeft("COUNT", countWidth) + gap + padLeft("SHARE", shareWidth)
	builder.WriteString(t.styles.TableHeader.Render(header))
	builder.WriteString("\n")
	builder.WriteString(t.styles.Dim.Render(strings.Repeat(heavySeparator, width)))
	builder.WriteString("\n")

	for _, row := range rows {
		share := fmt.Sprintf("%.1f%%", 100*float64(row.Count)/float64(total))
		builder.WriteString(t.styles.Kind.Render(padRight(truncateString(string(row.Type), typeWidth), typeWidth)))
		builder.WriteString(gap + padLeft(strconv.Itoa(row.Count), countWidth))
		builder.WriteString(gap + t.styles.Dim.Render(padLeft(share, shareWidth)))
		builder.WriteString("\n")
	}

	builder.WriteString(t.styles.Dim.Render(strings.Repeat(heavySeparator, width)))
	builder.WriteString("\n")
	builder.WriteString(t.styles.Bold.Render(padRight("total", typeWidth) + gap + padLeft(strconv.Itoa(total), countWidth)))
	builder.WriteString("\n")
	return builder.String()
}

// padRight pads s to width. Styles are applied after padding.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen || maxLen < 4 {
		return str
	}
	return str[:maxLen-3] + "..."
}
