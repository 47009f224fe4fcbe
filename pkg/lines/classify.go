package lines

import "strings"

const (
	commentOpen  = "<!--"
	commentClose = "-->"
)

type physicalRow struct {
	text string
	eol  string
}

// Classify scans text once and returns its logical lines.
//
// A run of rows starting with "<!--" at column 0 is folded into a single
// comment line when the comment closes with only whitespace after it and no
// visible character appears outside the comment anywhere in the run. A comment
// still open at the end of input is not folded.
func Classify(text string) *Set {
	rows := splitRows(text)
	set := &Set{lines: make([]Line, 0, len(rows))}

	for i := 0; i < len(rows); {
		end, folded := foldRun(rows, i)
		if folded {
			comment := make([]Row, 0, end-i+1)
			for _, row := range rows[i : end+1] {
				comment = append(comment, Row{Text: row.text, EOL: row.eol})
			}
			set.append(Line{
				Kind:    KindComment,
				Index:   i,
				Content: rows[i].text,
				EOL:     rows[end].eol,
				Rows:    comment,
			})
			i = end + 1
			continue
		}

		for ; i <= end; i++ {
			set.append(newLine(i, rows[i].text, rows[i].eol))
		}
	}

	return set
}

func (s *Set) append(line Line) {
	h := Handle(len(s.lines))
	line.Origin = h
	line.Next = NoHandle
	if h > 0 {
		s.lines[h-1].Next = h
	}
	s.lines = append(s.lines, line)
}

func splitRows(text string) []physicalRow {
	if text == "" {
		return nil
	}
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	rows := make([]physicalRow, 0, len(parts))
	for _, part := range parts {
		switch {
		case strings.HasSuffix(part, "\r\n"):
			rows = append(rows, physicalRow{text: part[:len(part)-2], eol: "\r\n"})
		case strings.HasSuffix(part, "\n"):
			rows = append(rows, physicalRow{text: part[:len(part)-1], eol: "\n"})
		default:
			rows = append(rows, physicalRow{text: part})
		}
	}
	return rows
}

// foldRun reports the last row of a foldable comment run starting at start.
// When the run cannot be folded it returns the last row that must be
// classified as ordinary text before scanning resumes.
func foldRun(rows []physicalRow, start int) (int, bool) {
	if !strings.HasPrefix(rows[start].text, commentOpen) {
		return start, false
	}

	inComment := false
	for j := start; j < len(rows); j++ {
		text := rows[j].text
		for k := 0; k < len(text); {
			if inComment {
				if strings.HasPrefix(text[k:], commentClose) {
					inComment = false
					k += len(commentClose)
					continue
				}
				k++
				continue
			}
			if strings.HasPrefix(text[k:], commentOpen) {
				inComment = true
				k += len(commentOpen)
				continue
			}
			if text[k] != ' ' && text[k] != '\t' {
				return j, false
			}
			k++
		}
		if !inComment {
			if j > start && text != "" && (text[0] == ' ' || text[0] == '\t') {
				return j, false
			}
			return j, true
		}
	}

	return len(rows) - 1, false
}
