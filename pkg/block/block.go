// Package block turns logical lines into a tree of blocks.
//
// Block types are described by Traits held in a Registry; the registry's
// try-order decides which type gets the first chance to start on a line. An
// Engine consumes lines one at a time, asking the active block's Handler
// whether each line continues it, and backtracks to the block's last
// checkpoint when a handler rejects a line it had provisionally accepted.
package block

import (
	"github.com/yaklabco/gomdparse/pkg/inline"
	"github.com/yaklabco/gomdparse/pkg/linkdef"
	"github.com/yaklabco/gomdparse/pkg/lines"
)

// Type is the tag identifying a block type.
type Type string

// Built-in block types.
const (
	TypeDocument       Type = "document"
	TypeEmptySpace     Type = "empty-space"
	TypeIndentedCode   Type = "indented-code"
	TypeThematicBreak  Type = "thematic-break"
	TypeSectionHeader  Type = "section-header"
	TypeFencedCode     Type = "fenced-code"
	TypeBlockQuote     Type = "block-quote"
	TypeListItem       Type = "list-item"
	TypeLinkDefinition Type = "link-definition"
	TypeHTMLBlock      Type = "html-block"
	TypeParagraph      Type = "paragraph"
	TypeSetextHeader   Type = "setext-header"
	TypeList           Type = "list"
	TypeError          Type = "error"
)

// Block is a node of the block tree.
type Block struct {
	Type Type

	// Start is the physical row of the first line.
	Start int

	// Extent is the number of physical rows covered, comment rows included.
	Extent int

	// Content holds the content lines of leaf blocks, prefixes removed.
	Content []lines.Line

	// Inlines is the resolved inline content, set after inline processing.
	Inlines *inline.Content

	// Children holds the nested blocks of containers.
	Children []*Block

	// Interrupter is set when the block started by interrupting a soft
	// continuation of another block.
	Interrupter bool

	// Source names the text the block was parsed from when it differs from
	// the document's own, as for included files.
	Source string

	Attrs Attrs
}

// End returns the last physical row covered by the block.
func (b *Block) End() int {
	return b.Start + b.Extent - 1
}

// IsContainer reports whether the block holds child blocks.
func (b *Block) IsContainer() bool {
	switch b.Type {
	case TypeDocument, TypeBlockQuote, TypeListItem, TypeList:
		return true
	default:
		return b.Children != nil
	}
}

// Text joins the content lines with "\n".
func (b *Block) Text() string {
	n := 0
	for _, line := range b.Content {
		n += len(line.Content) + 1
	}
	buf := make([]byte, 0, n)
	for i, line := range b.Content {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, line.Text()...)
	}
	return string(buf)
}

// Attrs holds type-specific block attributes. At most one group is set.
type Attrs struct {
	Heading  *HeadingAttrs
	Code     *CodeAttrs
	ListItem *ListItemAttrs
	List     *ListAttrs
	HTML     *HTMLAttrs
	LinkDef  *linkdef.Definition

	// Error is the message carried by error marker blocks.
	Error string

	// Ext carries attributes of extension block types.
	Ext any
}

// HeadingAttrs describes ATX and setext headings.
type HeadingAttrs struct {
	Level int
}

// CodeAttrs describes indented and fenced code blocks.
type CodeAttrs struct {
	Fenced    bool
	FenceChar byte
	FenceLen  int

	// Info is the raw info string after the opening fence.
	Info string

	// Language is taken from the info string.
	Language string

	// DetectedLanguage is guessed from the content when Info is empty.
	DetectedLanguage string

	// Closed reports whether a closing fence was found.
	Closed bool
}

// ListItemAttrs describes a list item.
type ListItemAttrs struct {
	Ordered bool

	// Marker is the bullet character or, for ordered items, the delimiter.
	Marker byte

	// Number is the ordinal of ordered items.
	Number int

	// ContentIndent is the column width of the marker and its padding.
	ContentIndent int

	// Loose is set when a blank line separates two of the item's children
	// after nested lists are grouped.
	Loose bool
}

// ListAttrs describes a list aggregate.
type ListAttrs struct {
	Ordered bool
	Marker  byte
	Start   int
	Loose   bool
}

// HTMLAttrs describes an HTML block.
type HTMLAttrs struct {
	// Kind is the start condition (1-7) that opened the block.
	Kind int
}

// Walk calls fn for b and every descendant in document order. Returning false
// from fn skips the children of that block.
func Walk(b *Block, fn func(*Block) bool) {
	if b == nil {
		return
	}
	if !fn(b) {
		return
	}
	for _, child := range b.Children {
		Walk(child, fn)
	}
}

// FindAll returns every block of type t under b, in document order.
func FindAll(b *Block, t Type) []*Block {
	var out []*Block
	Walk(b, func(node *Block) bool {
		if node.Type == t {
			out = append(out, node)
		}
		return true
	})
	return out
}
