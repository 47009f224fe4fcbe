package block

import (
	"github.com/yaklabco/gomdparse/pkg/lines"
)

// emptySpace groups a run of blank lines.
type emptySpace struct{}

func (*emptySpace) Reset() {}

func (*emptySpace) Start(_ *Context, line lines.Line) (Decision, bool) {
	if !line.IsBlank() {
		return Decision{}, false
	}
	return accept(0), true
}

func (*emptySpace) Continue(_ *Context, line lines.Line) Decision {
	if line.IsBlank() {
		return accept(0)
	}
	return end()
}

// thematicBreak is a single-line horizontal rule.
type thematicBreak struct{}

func (*thematicBreak) Reset() {}

func (*thematicBreak) Start(_ *Context, line lines.Line) (Decision, bool) {
	if line.Indent >= maxIndent || !isThematicBreak(line.Content) {
		return Decision{}, false
	}
	return last(0), true
}

func (*thematicBreak) Continue(*Context, lines.Line) Decision {
	return end()
}

// atxHeader is a single-line "#" heading.
type atxHeader struct {
	level int
}

func (h *atxHeader) Reset() {
	h.level = 0
}

func (h *atxHeader) Start(ctx *Context, line lines.Line) (Decision, bool) {
	if line.Indent >= maxIndent {
		return Decision{}, false
	}
	level, ok := atxHeading(line.Content)
	if !ok {
		return Decision{}, false
	}
	h.level = level
	ctx.Block.Attrs.Heading = &HeadingAttrs{Level: level}
	return last(line.Indent + level), true
}

func (*atxHeader) Continue(*Context, lines.Line) Decision {
	return end()
}

func (*atxHeader) AcceptLine(_ *Context, line lines.Line) (lines.Line, bool) {
	line.Prefix = ""
	line.Indent = 0
	return line.WithContent(atxText(line.Content)), true
}

// paragraph takes every non-blank line. Its lines stay tentative so that a
// setext underline can hand them over to the setext header.
type paragraph struct{}

func (*paragraph) Reset() {}

func (*paragraph) Start(_ *Context, line lines.Line) (Decision, bool) {
	if line.IsBlank() {
		return Decision{}, false
	}
	return tentative(line.Indent), true
}

func (*paragraph) Continue(ctx *Context, line lines.Line) Decision {
	if line.IsBlank() {
		return end()
	}
	if _, ok := setextLevel(line); ok && !ctx.Lazy {
		return reject()
	}
	return soft(line.Indent)
}

// setextHeader is only reached after a paragraph rejects on its underline.
type setextHeader struct {
	underline bool
}

func (h *setextHeader) Reset() {
	h.underline = false
}

func (*setextHeader) Start(_ *Context, line lines.Line) (Decision, bool) {
	if line.IsBlank() {
		return Decision{}, false
	}
	return tentative(line.Indent), true
}

func (h *setextHeader) Continue(ctx *Context, line lines.Line) Decision {
	if line.IsBlank() {
		return reject()
	}
	if level, ok := setextLevel(line); ok && !ctx.Lazy {
		h.underline = true
		ctx.Block.Attrs.Heading = &HeadingAttrs{Level: level}
		return last(0)
	}
	return soft(line.Indent)
}

func (h *setextHeader) AcceptLine(_ *Context, line lines.Line) (lines.Line, bool) {
	if h.underline {
		return lines.Line{}, false
	}
	return line, true
}

func (*setextHeader) EOF(*Context) Decision {
	return reject()
}
