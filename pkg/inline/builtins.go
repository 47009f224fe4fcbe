package inline

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yaklabco/gomdparse/pkg/cursor"
	"github.com/yaklabco/gomdparse/pkg/linkdef"
)

// RegisterDefaults registers the built-in inline traits.
func RegisterDefaults(r *Registry) error {
	elements := []ElementTrait{
		{Name: NameEscape, StartChars: `\`, Parse: parseEscape},
		{Name: NameEntity, StartChars: "&", Parse: parseEntity},
		{Name: NameCode, StartChars: "`", Parse: parseCodeSpan},
		{Name: NameAutolink, StartChars: "<", Parse: parseAutolink},
		{Name: NameHTML, StartChars: "<", Priority: 1, Parse: parseRawHTML},
	}
	for _, trait := range elements {
		if err := r.RegisterElement(trait); err != nil {
			return fmt.Errorf("register %s: %w", trait.Name, err)
		}
	}

	delimiters := []DelimiterTrait{
		{Name: NameEmphasis, StartChars: "*_", Category: Emphasis, ParseDelimiter: parseEmphasis},
		{Name: NameLink, StartChars: "[", Category: Nestable, CloseChar: ']', ParseDelimiter: parseBracket},
		{Name: NameImage, StartChars: "!", Category: Nestable, CloseChar: ']', ParseDelimiter: parseBangBracket},
	}
	for _, trait := range delimiters {
		if err := r.RegisterDelimiter(trait); err != nil {
			return fmt.Errorf("register %s: %w", trait.Name, err)
		}
	}

	return r.RegisterFollower(FollowerTrait{
		Name:        "link-target",
		StartDelims: []string{NameLink, NameImage},
		Parse:       parseLinkTarget,
	})
}

func parseEscape(_ *State, cur *cursor.Cursor) (Element, bool) {
	cur.Pop()
	next := cur.Peek()
	switch {
	case next == cursor.LineBreak:
		cur.Pop()
		return Element{Name: NameHardBreak}, true
	case next > 0 && next < 0x80 && linkdef.IsASCIIPunct(byte(next)):
		cur.Pop()
		return Element{Name: NameEscape, Text: string(next)}, true
	default:
		return Element{}, false
	}
}

func parseEntity(_ *State, cur *cursor.Cursor) (Element, bool) {
	at := cur.Position()
	rest := cur.LineText(at.Line)[at.Char:]
	n := linkdef.ReferenceLength(rest)
	if n == 0 {
		return Element{}, false
	}
	cur.Restore(cursor.Pos{Line: at.Line, Char: at.Char + n})
	return Element{Name: NameEntity, Text: html.UnescapeString(rest[:n])}, true
}

// parseCodeSpan matches a backtick run with the next run of the same length.
// Without one the opening run is literal text.
func parseCodeSpan(_ *State, cur *cursor.Cursor) (Element, bool) {
	n := cur.Skip("`")
	from := cur.Position()
	for !cur.AtEOF() {
		if cur.Peek() != '`' {
			cur.Pop()
			continue
		}
		at := cur.Position()
		if cur.Skip("`") != n {
			continue
		}
		text := strings.ReplaceAll(cur.Slice(from, at), "\n", " ")
		if len(text) >= 2 && text[0] == ' ' && text[len(text)-1] == ' ' && strings.Trim(text, " ") != "" {
			text = text[1 : len(text)-1]
		}
		return Element{Name: NameCode, Text: text}, true
	}
	cur.Restore(from)
	return Element{Name: NameLiteral, Text: strings.Repeat("`", n)}, true
}

//nolint:gochecknoglobals // Compiled once, read-only
var (
	autolinkURI   = regexp.MustCompile(`\A<([A-Za-z][A-Za-z0-9+.\-]{1,31}:[^\x00-\x20<>]*)>`)
	autolinkEmail = regexp.MustCompile(`\A<([A-Za-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~\-]+@[A-Za-z0-9](?:[A-Za-z0-9\-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]{0,61}[A-Za-z0-9])?)*)>`)

	rawHTML = regexp.MustCompile(`\A(?:` +
		`<[A-Za-z][A-Za-z0-9\-]*(?:[ \t]+[A-Za-z_:][A-Za-z0-9_.:\-]*(?:[ \t]*=[ \t]*(?:[^ \t"'=<>` + "`" + `]+|'[^']*'|"[^"]*"))?)*[ \t]*/?>` +
		`|</[A-Za-z][A-Za-z0-9\-]*[ \t]*>` +
		`|<!-->|<!--->|<!--.*?-->` +
		`|<\?.*?\?>` +
		`|<![A-Za-z][^>]*>` +
		`|<!\[CDATA\[.*?\]\]>` +
		`)`)
)

func parseAutolink(_ *State, cur *cursor.Cursor) (Element, bool) {
	if m, ok := cur.Match(autolinkURI); ok {
		return Element{Name: NameAutolink, Text: m[1], Destination: m[1]}, true
	}
	if m, ok := cur.Match(autolinkEmail); ok {
		return Element{Name: NameAutolink, Text: m[1], Destination: "mailto:" + m[1]}, true
	}
	return Element{}, false
}

// parseRawHTML matches inline HTML confined to the current line.
func parseRawHTML(_ *State, cur *cursor.Cursor) (Element, bool) {
	m, ok := cur.Match(rawHTML)
	if !ok {
		return Element{}, false
	}
	return Element{Name: NameHTML, Text: m[0]}, true
}

func parseBracket(_ *State, cur *cursor.Cursor) (*Delimiter, bool) {
	cur.Pop()
	return &Delimiter{Name: NameLink, Char: '[', Length: 1, Active: true, Opener: true}, true
}

func parseBangBracket(_ *State, cur *cursor.Cursor) (*Delimiter, bool) {
	if cur.Pop() != '!' || cur.Pop() != '[' {
		return nil, false
	}
	return &Delimiter{Name: NameImage, Char: '[', Length: 2, Active: true, Opener: true}, true
}

// parseLinkTarget reads what follows the closing bracket of a link or image:
// an inline destination and title, or a full, collapsed or shortcut
// reference resolved through the link table.
func parseLinkTarget(st *State, cur *cursor.Cursor, span Span) (Element, bool) {
	name := NameLink
	if span.Opener.Name == NameImage {
		name = NameImage
	}
	start := cur.Position()

	if cur.Peek() == '(' {
		if elem, ok := parseInlineTarget(cur); ok {
			elem.Name = name
			return elem, true
		}
		cur.Restore(start)
	}

	label, ref := span.Text, RefShortcut
	if cur.Peek() == '[' {
		if cur.PeekN(1) == ']' {
			cur.Pop()
			cur.Pop()
			ref = RefCollapsed
		} else if full, status := linkdef.ScanLabel(cur); status == linkdef.Complete {
			label, ref = full, RefFull
		} else {
			cur.Restore(start)
		}
	}
	if ref != RefFull && !shortLabel(label) {
		cur.Restore(start)
		return Element{}, false
	}

	if st.Links == nil {
		cur.Restore(start)
		return Element{}, false
	}
	entry, ok := st.Links.Lookup(label)
	if !ok {
		cur.Restore(start)
		return Element{}, false
	}
	return Element{
		Name:        name,
		Destination: entry.Destination,
		Title:       entry.Title,
		Label:       label,
		Reference:   ref,
	}, true
}

func parseInlineTarget(cur *cursor.Cursor) (Element, bool) {
	cur.Pop()
	cur.SkipSpace()

	var elem Element
	if cur.Peek() != ')' {
		dest, ok := linkdef.ScanDestination(cur)
		if !ok {
			return Element{}, false
		}
		elem.Destination = dest

		if cur.SkipSpace() > 0 && strings.ContainsRune(`"'(`, cur.Peek()) {
			title, _, status := linkdef.ScanTitle(cur)
			if status != linkdef.Complete {
				return Element{}, false
			}
			elem.Title = title
			cur.SkipSpace()
		}
	}
	if cur.Pop() != ')' {
		return Element{}, false
	}
	elem.Reference = RefInline
	return elem, true
}

// shortLabel reports whether bracket text can serve as a collapsed or
// shortcut reference label.
func shortLabel(label string) bool {
	if len(label) > linkdef.MaxLabelLength || strings.TrimSpace(label) == "" {
		return false
	}
	for i := 0; i < len(label); i++ {
		switch label[i] {
		case '\\':
			i++
		case '[', ']':
			return false
		}
	}
	return true
}
