// Package frontmatter adds a YAML front-matter block to the parser. The block
// is only recognized on the first line of a document, fenced by "---" and
// closed by "---" or "...".
package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomdparse/pkg/block"
	"github.com/yaklabco/gomdparse/pkg/lines"
	"github.com/yaklabco/gomdparse/pkg/parser"
)

// Type is the block type of front matter.
const Type block.Type = "front-matter"

// Name is the extension name used in configuration.
const Name = "frontmatter"

// Attrs is stored in the block's Attrs.Ext.
type Attrs struct {
	// Raw is the text between the fences.
	Raw string

	// Data is the decoded YAML mapping; nil when decoding failed.
	Data map[string]any

	// Err describes a decoding failure.
	Err string
}

// Extension registers the front-matter block type.
type Extension struct{}

// New returns the front-matter extension.
func New() Extension {
	return Extension{}
}

// Name returns the extension name.
func (Extension) Name() string {
	return Name
}

// Extend registers the front-matter trait at the head of the try-order.
func (Extension) Extend(p *parser.Parser) error {
	return p.Blocks().Register(block.Trait{
		Type:        Type,
		New:         func() block.Handler { return &handler{} },
		IsSingleton: true,
		HasContent:  true,
	}, block.AtStart())
}

// Get returns the front-matter attributes of doc, if any.
func Get(doc *parser.Document) (*Attrs, bool) {
	b, ok := doc.Singleton(Type)
	if !ok {
		return nil, false
	}
	attrs, ok := b.Attrs.Ext.(*Attrs)
	return attrs, ok
}

type handler struct {
	opening bool
	closing bool
}

func (h *handler) Reset() {
	h.opening = false
	h.closing = false
}

func (h *handler) Start(ctx *block.Context, line lines.Line) (block.Decision, bool) {
	if !ctx.DocumentStart || line.Indent != 0 || strings.TrimRight(line.Content, " \t") != "---" {
		return block.Decision{}, false
	}
	h.opening = true
	return block.AcceptDecision(0, true), true
}

func (h *handler) Continue(_ *block.Context, line lines.Line) block.Decision {
	switch strings.TrimRight(line.Text(), " \t") {
	case "---", "...":
		h.closing = true
		return block.LastDecision(0)
	default:
		return block.AcceptDecision(0, true)
	}
}

// EOF rejects an unclosed front matter so its lines are parsed as Markdown.
func (*handler) EOF(*block.Context) block.Decision {
	return block.RejectDecision()
}

func (h *handler) AcceptLine(_ *block.Context, line lines.Line) (lines.Line, bool) {
	if h.opening {
		h.opening = false
		return lines.Line{}, false
	}
	if h.closing {
		return lines.Line{}, false
	}
	return line, true
}

func (*handler) Finalize(ctx *block.Context) {
	raw := ctx.Block.Text()
	attrs := &Attrs{Raw: raw}
	ctx.Block.Attrs.Ext = attrs

	if strings.TrimSpace(raw) == "" {
		attrs.Data = map[string]any{}
		return
	}
	var data map[string]any
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		attrs.Err = fmt.Sprintf("decode front matter: %v", err)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	attrs.Data = data
}
