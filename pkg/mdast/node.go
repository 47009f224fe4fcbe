// Package mdast is a renderer-facing view of a parsed document. The parser
// keeps inline content flat, with delimiters marked by the spans they open
// and close; FromDocument nests that content into a tree of Nodes beneath
// the block nodes.
package mdast

import "github.com/yaklabco/gomdparse/pkg/block"

// NodeKind classifies the type of a node.
type NodeKind uint16

// Node kinds for block-level and inline-level elements.
const (
	NodeDocument NodeKind = iota

	// Block-level nodes.
	NodeParagraph
	NodeHeading
	NodeList
	NodeListItem
	NodeBlockquote
	NodeCodeBlock
	NodeThematicBreak
	NodeHTMLBlock
	NodeLinkDefinition
	NodeBlankLines
	NodeError

	// NodeBlock is a block of an extension type; Block.Type names it.
	NodeBlock

	// Inline-level nodes.
	NodeText
	NodeEmphasis
	NodeStrong
	NodeCodeSpan
	NodeLink
	NodeImage
	NodeSoftBreak
	NodeHardBreak
	NodeHTMLInline

	// NodeRaw is an inline element of an extension type; Inline.Name names it.
	NodeRaw
)

//nolint:gochecknoglobals // Read-only lookup table
var kindNames = [...]string{
	NodeDocument:       "Document",
	NodeParagraph:      "Paragraph",
	NodeHeading:        "Heading",
	NodeList:           "List",
	NodeListItem:       "ListItem",
	NodeBlockquote:     "Blockquote",
	NodeCodeBlock:      "CodeBlock",
	NodeThematicBreak:  "ThematicBreak",
	NodeHTMLBlock:      "HTMLBlock",
	NodeLinkDefinition: "LinkDefinition",
	NodeBlankLines:     "BlankLines",
	NodeError:          "Error",
	NodeBlock:          "Block",
	NodeText:           "Text",
	NodeEmphasis:       "Emphasis",
	NodeStrong:         "Strong",
	NodeCodeSpan:       "CodeSpan",
	NodeLink:           "Link",
	NodeImage:          "Image",
	NodeSoftBreak:      "SoftBreak",
	NodeHardBreak:      "HardBreak",
	NodeHTMLInline:     "HTMLInline",
	NodeRaw:            "Raw",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is a single node of the tree.
type Node struct {
	Kind NodeKind

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Span locates the node in its source.
	Span Span

	// Source names the file the node came from when it is not the
	// document's own, as for included content.
	Source string

	// Block holds attributes for block-level nodes.
	Block *BlockAttrs

	// Inline holds attributes for inline-level nodes.
	Inline *InlineAttrs

	// Origin is the parsed block a block-level node was built from.
	Origin *block.Block
}

// IsBlock returns true if this is a block-level node.
func (n *Node) IsBlock() bool {
	return n.Kind <= NodeBlock
}

// IsInline returns true if this is an inline-level node.
func (n *Node) IsInline() bool {
	return n.Kind >= NodeText
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns the direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// PlainText concatenates the text of the inline descendants. Breaks become
// newlines and images contribute their alt text.
func (n *Node) PlainText() string {
	var buf []byte
	_ = Walk(n, func(node *Node) error {
		switch node.Kind {
		case NodeText, NodeCodeSpan, NodeHTMLInline, NodeRaw:
			buf = append(buf, node.Inline.Text...)
		case NodeSoftBreak, NodeHardBreak:
			buf = append(buf, '\n')
		}
		return nil
	})
	return string(buf)
}
