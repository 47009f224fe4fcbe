package block

import (
	"github.com/yaklabco/gomdparse/pkg/langdetect"
	"github.com/yaklabco/gomdparse/pkg/linkdef"
	"github.com/yaklabco/gomdparse/pkg/lines"
)

// indentedCode holds lines indented by four or more columns. Blank lines are
// tentative until more code follows them.
type indentedCode struct {
	pendingBlank bool
}

func (h *indentedCode) Reset() {
	h.pendingBlank = false
}

func (*indentedCode) Start(ctx *Context, line lines.Line) (Decision, bool) {
	if line.IsBlank() || line.Indent < maxIndent {
		return Decision{}, false
	}
	ctx.Block.Attrs.Code = &CodeAttrs{}
	return accept(maxIndent), true
}

func (h *indentedCode) Continue(_ *Context, line lines.Line) Decision {
	switch {
	case line.IsBlank():
		h.pendingBlank = true
		return tentative(min(line.Indent, maxIndent))
	case line.Indent >= maxIndent:
		h.pendingBlank = false
		return accept(maxIndent)
	case h.pendingBlank:
		return reject()
	default:
		return end()
	}
}

func (h *indentedCode) EOF(*Context) Decision {
	if h.pendingBlank {
		return reject()
	}
	return end()
}

// fencedCode runs from an opening fence to a matching closing fence or the
// end of the enclosing container.
type fencedCode struct {
	char   byte
	length int
	indent int
	skip   bool
	closed bool
}

func (h *fencedCode) Reset() {
	*h = fencedCode{}
}

func (h *fencedCode) Start(ctx *Context, line lines.Line) (Decision, bool) {
	if line.Indent >= maxIndent {
		return Decision{}, false
	}
	char, length, info, ok := fenceOpen(line.Content)
	if !ok {
		return Decision{}, false
	}
	h.char, h.length, h.indent = char, length, line.Indent
	h.skip = true

	info = linkdef.Unescape(info)
	ctx.Block.Attrs.Code = &CodeAttrs{
		Fenced:    true,
		FenceChar: char,
		FenceLen:  length,
		Info:      info,
		Language:  langdetect.FromInfo(info),
	}
	return accept(0), true
}

func (h *fencedCode) Continue(_ *Context, line lines.Line) Decision {
	if isFenceClose(line, h.char, h.length) {
		h.skip = true
		h.closed = true
		return last(0)
	}
	return accept(min(line.Indent, h.indent))
}

func (h *fencedCode) AcceptLine(_ *Context, line lines.Line) (lines.Line, bool) {
	if h.skip {
		h.skip = false
		return lines.Line{}, false
	}
	return line, true
}

func (h *fencedCode) Finalize(ctx *Context) {
	attrs := ctx.Block.Attrs.Code
	attrs.Closed = h.closed
	if attrs.Info == "" && ctx.Env.DetectLanguage && len(ctx.Block.Content) > 0 {
		attrs.DetectedLanguage = langdetect.DetectLines(ctx.Block.Content)
	}
}
