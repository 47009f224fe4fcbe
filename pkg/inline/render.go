package inline

import (
	"html"
	"strings"
)

// Text returns the plain text of the content: literal text, element values
// and unused delimiter characters. Link and image targets are left out.
func (c *Content) Text() string {
	if c == nil {
		return ""
	}
	var sb strings.Builder
	c.plain(&sb, 0, len(c.Items))
	return sb.String()
}

func (c *Content) plain(sb *strings.Builder, from, to int) {
	for i := from; i < to; i++ {
		item := c.Items[i]
		switch item.Kind {
		case KindText:
			sb.WriteString(item.Text)
		case KindElement:
			switch item.Elem.Name {
			case NameSoftBreak, NameHardBreak:
				sb.WriteByte('\n')
			case NameLink, NameImage:
			default:
				sb.WriteString(item.Elem.Text)
			}
		case KindDelimiter:
			d := item.Delim
			switch {
			case d.Category == Emphasis:
				sb.WriteString(strings.Repeat(string(d.Char), d.Remaining))
			case !d.Resolved():
				sb.WriteString(item.Text)
			}
		}
	}
}

// String renders the content as HTML. It is meant for tests and debugging
// output rather than as a full renderer.
func (c *Content) String() string {
	if c == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < len(c.Items); i++ {
		item := c.Items[i]
		switch item.Kind {
		case KindText:
			sb.WriteString(html.EscapeString(item.Text))
		case KindElement:
			writeElement(&sb, item.Elem)
		case KindDelimiter:
			i = c.writeDelimiter(&sb, i)
		}
	}
	return sb.String()
}

func writeElement(sb *strings.Builder, elem *Element) {
	switch elem.Name {
	case NameCode:
		sb.WriteString("<code>" + html.EscapeString(elem.Text) + "</code>")
	case NameHTML:
		sb.WriteString(elem.Text)
	case NameAutolink:
		sb.WriteString(`<a href="` + html.EscapeString(elem.Destination) + `">` + html.EscapeString(elem.Text) + "</a>")
	case NameSoftBreak:
		sb.WriteByte('\n')
	case NameHardBreak:
		sb.WriteString("<br />\n")
	case NameLink, NameImage:
		// Written by the span opener.
	default:
		sb.WriteString(html.EscapeString(elem.Text))
	}
}

// writeDelimiter writes the delimiter at i and returns the index of the last
// item it consumed.
func (c *Content) writeDelimiter(sb *strings.Builder, i int) int {
	item := c.Items[i]
	d := item.Delim

	if d.Category == Emphasis {
		for _, tag := range d.Closes {
			sb.WriteString(closeTag(tag.Kind))
		}
		sb.WriteString(strings.Repeat(string(d.Char), d.Remaining))
		for _, tag := range d.Opens {
			sb.WriteString(openTag(tag.Kind))
		}
		return i
	}

	if !d.Resolved() {
		sb.WriteString(html.EscapeString(item.Text))
		return i
	}
	if !d.Opener {
		if d.Name == NameLink {
			sb.WriteString("</a>")
		}
		return d.Follower
	}

	target := c.Items[d.Follower].Elem
	if d.Name == NameImage {
		var alt strings.Builder
		c.plain(&alt, i+1, d.Partner)
		sb.WriteString(`<img src="` + html.EscapeString(target.Destination) + `" alt="` + html.EscapeString(alt.String()) + `"`)
		if target.Title != "" {
			sb.WriteString(` title="` + html.EscapeString(target.Title) + `"`)
		}
		sb.WriteString(" />")
		return d.Follower
	}

	sb.WriteString(`<a href="` + html.EscapeString(target.Destination) + `"`)
	if target.Title != "" {
		sb.WriteString(` title="` + html.EscapeString(target.Title) + `"`)
	}
	sb.WriteString(">")
	return i
}

func openTag(kind TagKind) string {
	if kind == TagStrong {
		return "<strong>"
	}
	return "<em>"
}

func closeTag(kind TagKind) string {
	if kind == TagStrong {
		return "</strong>"
	}
	return "</em>"
}
