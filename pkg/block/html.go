package block

import (
	"regexp"

	"github.com/yaklabco/gomdparse/pkg/lines"
)

// htmlKind is one of the HTML block start conditions. Kinds with a nil end
// pattern run until a blank line.
type htmlKind struct {
	kind  int
	start *regexp.Regexp
	end   *regexp.Regexp
}

//nolint:gochecknoglobals // Compiled once, read-only
var htmlKinds = []htmlKind{
	{
		kind:  1,
		start: regexp.MustCompile(`(?i)^<(?:script|pre|style|textarea)(?:[ \t>]|$)`),
		end:   regexp.MustCompile(`(?i)</(?:script|pre|style|textarea)>`),
	},
	{kind: 2, start: regexp.MustCompile(`^<!--`), end: regexp.MustCompile(`-->`)},
	{kind: 3, start: regexp.MustCompile(`^<\?`), end: regexp.MustCompile(`\?>`)},
	{kind: 4, start: regexp.MustCompile(`^<![A-Za-z]`), end: regexp.MustCompile(`>`)},
	{kind: 5, start: regexp.MustCompile(`^<!\[CDATA\[`), end: regexp.MustCompile(`\]\]>`)},
	{
		kind: 6,
		start: regexp.MustCompile(`(?i)^</?(?:address|article|aside|base|basefont|blockquote|body|caption|center|col|colgroup|dd|details|dialog|dir|div|dl|dt|fieldset|figcaption|figure|footer|form|frame|frameset|h[1-6]|head|header|hr|html|iframe|legend|li|link|main|menu|menuitem|nav|noframes|ol|optgroup|option|p|param|search|section|summary|table|tbody|td|tfoot|th|thead|title|tr|track|ul)(?:[ \t]|/?>|$)`),
	},
	{
		kind: 7,
		start: regexp.MustCompile(`^(?:<[A-Za-z][A-Za-z0-9-]*(?:[ \t]+[A-Za-z_:][A-Za-z0-9_.:-]*(?:[ \t]*=[ \t]*(?:[^ \t"'=<>` + "`" + `]+|'[^']*'|"[^"]*"))?)*[ \t]*/?>|</[A-Za-z][A-Za-z0-9-]*[ \t]*>)[ \t]*$`),
	},
}

// htmlBlock passes raw HTML through untouched.
type htmlBlock struct {
	kind *htmlKind
}

func (h *htmlBlock) Reset() {
	h.kind = nil
}

func (h *htmlBlock) Start(ctx *Context, line lines.Line) (Decision, bool) {
	if line.Indent >= maxIndent {
		return Decision{}, false
	}
	for i := range htmlKinds {
		kind := &htmlKinds[i]
		loc := kind.start.FindStringIndex(line.Content)
		if loc == nil {
			continue
		}
		h.kind = kind
		ctx.Block.Attrs.HTML = &HTMLAttrs{Kind: kind.kind}
		if kind.end != nil && kind.end.MatchString(line.Content[loc[1]:]) {
			return last(0), true
		}
		return accept(0), true
	}
	return Decision{}, false
}

func (h *htmlBlock) Continue(_ *Context, line lines.Line) Decision {
	if h.kind.end == nil {
		if line.IsBlank() {
			return end()
		}
		return accept(0)
	}
	if h.kind.end.MatchString(line.Text()) {
		return last(0)
	}
	return accept(0)
}
