package mdast

import (
	"github.com/yaklabco/gomdparse/pkg/block"
	"github.com/yaklabco/gomdparse/pkg/inline"
)

// BlockAttrs holds attributes for block-level nodes.
type BlockAttrs struct {
	// Type is the parser's block type tag.
	Type block.Type

	// HeadingLevel is the heading level (1-6) for NodeHeading.
	HeadingLevel int

	// Setext is true for underlined headings.
	Setext bool

	// List holds list-specific attributes for NodeList and NodeListItem.
	List *ListAttrs

	// CodeBlock holds code block attributes for NodeCodeBlock.
	CodeBlock *CodeBlockAttrs

	// Link holds the definition of NodeLinkDefinition.
	Link *LinkAttrs

	// Literal is the raw content of code and HTML blocks.
	Literal string

	// Message is the text of NodeError.
	Message string

	// Ext carries the attributes of extension blocks.
	Ext any
}

// ListAttrs holds attributes for list and list item nodes.
type ListAttrs struct {
	Ordered bool

	// Marker is the bullet character, or the delimiter of ordered lists.
	Marker string

	// Start is the number of the first item of ordered lists, or the item
	// number on list items.
	Start int

	// Tight is true when no blank line separates the items or their children.
	Tight bool
}

// CodeBlockAttrs holds attributes for code block nodes.
type CodeBlockAttrs struct {
	FenceChar   byte
	FenceLength int

	// Info is the info string.
	Info string

	// Language is the declared language, or the detected one when the
	// fence has no info string.
	Language string

	// Indented is true for indented code blocks.
	Indented bool
}

// InlineAttrs holds attributes for inline-level nodes.
type InlineAttrs struct {
	// Text holds the text of NodeText, NodeCodeSpan, NodeHTMLInline and NodeRaw.
	Text string

	// Name is the element name of NodeRaw.
	Name string

	// Link holds link attributes for NodeLink and NodeImage.
	Link *LinkAttrs

	// EmphasisLevel is 1 for emphasis and 2 for strong.
	EmphasisLevel int
}

// ReferenceStyle indicates the syntax style of a link or image reference.
type ReferenceStyle uint8

const (
	// RefStyleInline represents inline links: [text](url) or ![alt](url).
	RefStyleInline ReferenceStyle = iota

	// RefStyleFull represents full reference links: [text][label].
	RefStyleFull

	// RefStyleCollapsed represents collapsed reference links: [label][].
	RefStyleCollapsed

	// RefStyleShortcut represents shortcut reference links: [label].
	RefStyleShortcut

	// RefStyleAutolink represents autolinks: <https://example.com>.
	RefStyleAutolink

	// RefStyleDefinition marks the target of a link definition.
	RefStyleDefinition
)

// String returns a human-readable name for the reference style.
func (s ReferenceStyle) String() string {
	switch s {
	case RefStyleInline:
		return "inline"
	case RefStyleFull:
		return "full"
	case RefStyleCollapsed:
		return "collapsed"
	case RefStyleShortcut:
		return "shortcut"
	case RefStyleAutolink:
		return "autolink"
	case RefStyleDefinition:
		return "definition"
	default:
		return "unknown"
	}
}

func referenceStyle(ref inline.Reference) ReferenceStyle {
	switch ref {
	case inline.RefFull:
		return RefStyleFull
	case inline.RefCollapsed:
		return RefStyleCollapsed
	case inline.RefShortcut:
		return RefStyleShortcut
	default:
		return RefStyleInline
	}
}

// LinkAttrs holds attributes for links, images and link definitions.
type LinkAttrs struct {
	Destination string
	Title       string

	// ReferenceLabel is the label of reference-style links and definitions.
	ReferenceLabel string

	ReferenceStyle ReferenceStyle
}
