package block

import (
	"github.com/yaklabco/gomdparse/pkg/lines"
)

// blockQuote is a container whose lines start with '>'.
type blockQuote struct{}

func (*blockQuote) Reset() {}

func (*blockQuote) Start(_ *Context, line lines.Line) (Decision, bool) {
	consumed, ok := quotePrefix(line)
	if !ok {
		return Decision{}, false
	}
	return accept(consumed), true
}

func (*blockQuote) Continue(_ *Context, line lines.Line) Decision {
	if consumed, ok := quotePrefix(line); ok {
		return accept(consumed)
	}
	if line.IsBlank() {
		return end()
	}
	return Decision{Kind: Soft}
}

// quotePrefix returns the columns taken by the '>' marker and one optional
// following space.
func quotePrefix(line lines.Line) (int, bool) {
	if line.Indent >= maxIndent || line.Content == "" || line.Content[0] != '>' {
		return 0, false
	}
	consumed := line.Indent + 1
	if len(line.Content) > 1 && (line.Content[1] == ' ' || line.Content[1] == '\t') {
		consumed++
	}
	return consumed, true
}

// listItem is a container opened by a bullet or ordered marker. Continuation
// lines must be indented to the item's content column; blank lines are
// tentative until indented content follows them.
type listItem struct {
	width        int
	startedBlank bool
	lines        int
	pendingBlank bool
}

func (h *listItem) Reset() {
	*h = listItem{}
}

func (h *listItem) Start(ctx *Context, line lines.Line) (Decision, bool) {
	if line.Indent >= maxIndent {
		return Decision{}, false
	}
	marker, ok := parseListMarker(line.Content)
	if !ok {
		return Decision{}, false
	}

	rest := line.Content[marker.width:]
	ws := rest[:len(rest)-len(trimLeadingSpace(rest))]
	blank := len(ws) == len(rest)

	if ctx.Interrupting && ctx.Interrupted == TypeParagraph {
		if blank || (marker.ordered && marker.number != 1) {
			return Decision{}, false
		}
	}

	padding := lines.ColumnWidth(ws, line.Column+line.Indent+marker.width)
	if blank || padding >= 5 {
		padding = 1
	}

	h.width = line.Indent + marker.width + padding
	h.startedBlank = blank
	ctx.Block.Attrs.ListItem = &ListItemAttrs{
		Ordered:       marker.ordered,
		Marker:        marker.marker,
		Number:        marker.number,
		ContentIndent: h.width,
	}
	return accept(h.width), true
}

func (h *listItem) Continue(_ *Context, line lines.Line) Decision {
	h.lines++

	switch {
	case line.IsBlank():
		if h.startedBlank && h.lines == 1 {
			return end()
		}
		h.pendingBlank = true
		return tentative(min(line.Indent, h.width))
	case line.Indent >= h.width:
		h.pendingBlank = false
		return accept(h.width)
	case h.pendingBlank:
		return reject()
	default:
		return Decision{Kind: Soft}
	}
}

func (h *listItem) EOF(*Context) Decision {
	if h.pendingBlank {
		return reject()
	}
	return end()
}

func trimLeadingSpace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}
