package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gomdparse/pkg/conformance"
	"github.com/yaklabco/gomdparse/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files parsed, 42 blocks, 1 error block, 2 mismatches in 1 file".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	parts := []string{
		s.Success.Render(fmt.Sprintf("%d %s parsed", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))),
		fmt.Sprintf("%d %s", stats.BlocksTotal, plural(stats.BlocksTotal, "block", "blocks")),
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}
	if stats.ErrorBlocks > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d error %s",
			stats.ErrorBlocks, plural(stats.ErrorBlocks, "block", "blocks"))))
	}
	if stats.Mismatches > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s in %d %s",
			stats.Mismatches, plural(stats.Mismatches, "mismatch", "mismatches"),
			stats.FilesWithMismatches, plural(stats.FilesWithMismatches, wordFile, wordFiles))))
	}
	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files discovered:  " + s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files parsed:      " + s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " + s.Error.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	builder.WriteString("  Blocks:            " + s.SummaryValue.Render(strconv.Itoa(stats.BlocksTotal)) + "\n")
	if stats.ErrorBlocks > 0 {
		builder.WriteString("  Error blocks:      " + s.Warning.Render(strconv.Itoa(stats.ErrorBlocks)) + "\n")
	}
	if stats.FilesWithMismatches > 0 {
		builder.WriteString("  Mismatched files:  " + s.Failure.Render(strconv.Itoa(stats.FilesWithMismatches)) + "\n")
	}
	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Parse failed"))
	case stats.FilesWithMismatches > 0:
		builder.WriteString(s.Failure.Render("Structure differs from CommonMark"))
	case stats.ErrorBlocks > 0:
		builder.WriteString(s.Warning.Render("Parsed with errors"))
	default:
		builder.WriteString(s.Success.Render("Parse succeeded"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// FormatMismatches renders a conformance result as a styled diff.
func (s *Styles) FormatMismatches(result *conformance.Result) string {
	diff := result.Diff()
	if diff == "" {
		return ""
	}
	var builder strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "---"), strings.HasPrefix(body, "+++"):
			builder.WriteString(s.DiffHeader.Render(body))
		case strings.HasPrefix(body, "-"):
			builder.WriteString(s.DiffRemove.Render(body))
		case strings.HasPrefix(body, "+"):
			builder.WriteString(s.DiffAdd.Render(body))
		default:
			builder.WriteString(body)
		}
		builder.WriteString("\n")
	}
	return builder.String()
}
