package conformance

import (
	"fmt"
	"strings"
)

// Op says on which side a mismatched entry appears.
type Op int

const (
	// OpMissing is an entry only goldmark produced.
	OpMissing Op = iota + 1

	// OpExtra is an entry only this parser produced.
	OpExtra
)

func (o Op) String() string {
	switch o {
	case OpMissing:
		return "missing"
	case OpExtra:
		return "extra"
	default:
		return "unknown"
	}
}

// Mismatch is one outline entry without a counterpart.
type Mismatch struct {
	Op    Op
	Entry Entry

	// Index is the entry's position in its own outline.
	Index int
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s", m.Op, m.Entry)
}

// diffOutlines returns the entries outside the longest common subsequence of
// the two outlines, in outline order.
func diffOutlines(reference, ours []Entry) []Mismatch {
	refLen, ourLen := len(reference), len(ours)

	// dp[i][j] is the LCS length of reference[i:] and ours[j:].
	dp := make([][]int, refLen+1)
	for idx := range dp {
		dp[idx] = make([]int, ourLen+1)
	}
	for row := refLen - 1; row >= 0; row-- {
		for col := ourLen - 1; col >= 0; col-- {
			if reference[row].Key() == ours[col].Key() {
				dp[row][col] = dp[row+1][col+1] + 1
			} else {
				dp[row][col] = max(dp[row+1][col], dp[row][col+1])
			}
		}
	}

	var out []Mismatch
	row, col := 0, 0
	for row < refLen && col < ourLen {
		switch {
		case reference[row].Key() == ours[col].Key():
			row++
			col++
		case dp[row+1][col] >= dp[row][col+1]:
			out = append(out, Mismatch{Op: OpMissing, Entry: reference[row], Index: row})
			row++
		default:
			out = append(out, Mismatch{Op: OpExtra, Entry: ours[col], Index: col})
			col++
		}
	}
	for ; row < refLen; row++ {
		out = append(out, Mismatch{Op: OpMissing, Entry: reference[row], Index: row})
	}
	for ; col < ourLen; col++ {
		out = append(out, Mismatch{Op: OpExtra, Entry: ours[col], Index: col})
	}
	return out
}

// formatDiff renders mismatches with "-" for goldmark-only and "+" for
// parser-only entries, indented by depth.
func formatDiff(path string, mismatches []Mismatch) string {
	if len(mismatches) == 0 {
		return ""
	}
	var sb strings.Builder
	if path != "" {
		fmt.Fprintf(&sb, "--- goldmark %s\n", path)
		fmt.Fprintf(&sb, "+++ gomdparse %s\n", path)
	}
	for _, m := range mismatches {
		prefix := "+"
		if m.Op == OpMissing {
			prefix = "-"
		}
		indent := strings.Repeat("  ", max(m.Entry.Depth-1, 0))
		sb.WriteString(prefix)
		sb.WriteString(indent)
		sb.WriteString(string(m.Entry.Kind))
		if m.Entry.Detail != "" {
			sb.WriteString(" ")
			sb.WriteString(m.Entry.Detail)
		}
		if m.Entry.Line > 0 {
			fmt.Fprintf(&sb, " @%d", m.Entry.Line)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
