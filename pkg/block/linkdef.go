package block

import (
	"github.com/yaklabco/gomdparse/pkg/linkdef"
	"github.com/yaklabco/gomdparse/pkg/lines"
)

// linkDefinition holds one link reference definition. The accumulated text is
// re-scanned on every line: complete definitions commit, prefixes of one stay
// tentative.
type linkDefinition struct {
	buf     []string
	pending bool
}

func (h *linkDefinition) Reset() {
	h.buf = h.buf[:0]
	h.pending = false
}

func (h *linkDefinition) Start(_ *Context, line lines.Line) (Decision, bool) {
	if line.Indent >= maxIndent || line.Content == "" || line.Content[0] != '[' {
		return Decision{}, false
	}
	res := linkdef.Parse([]string{line.Content})
	switch {
	case res.Status == linkdef.Complete && res.Lines == 1:
		h.buf = append(h.buf, line.Content)
		return accept(line.Indent), true
	case res.Status == linkdef.Incomplete:
		h.buf = append(h.buf, line.Content)
		h.pending = true
		return tentative(line.Indent), true
	default:
		return Decision{}, false
	}
}

func (h *linkDefinition) Continue(_ *Context, line lines.Line) Decision {
	if line.IsBlank() {
		return h.stop()
	}

	res := linkdef.Parse(append(h.buf[:len(h.buf):len(h.buf)], line.Content))
	switch {
	case res.Status == linkdef.Complete && res.Lines == len(h.buf)+1:
		h.buf = append(h.buf, line.Content)
		h.pending = false
		return accept(line.Indent)
	case res.Status == linkdef.Incomplete:
		h.buf = append(h.buf, line.Content)
		h.pending = true
		return tentative(line.Indent)
	default:
		return h.stop()
	}
}

func (h *linkDefinition) stop() Decision {
	if h.pending {
		return reject()
	}
	return end()
}

func (h *linkDefinition) EOF(*Context) Decision {
	return h.stop()
}

func (*linkDefinition) Finalize(ctx *Context) {
	text := make([]string, len(ctx.Block.Content))
	for i, line := range ctx.Block.Content {
		text[i] = line.Content
	}
	res := linkdef.Parse(text)
	if res.Status == linkdef.Complete {
		def := res.Definition
		ctx.Block.Attrs.LinkDef = &def
	}
}
