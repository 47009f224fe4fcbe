package mdast

import (
	"strings"

	"github.com/yaklabco/gomdparse/pkg/block"
	"github.com/yaklabco/gomdparse/pkg/inline"
	"github.com/yaklabco/gomdparse/pkg/parser"
)

// FromDocument builds the tree of a parsed document.
func FromDocument(doc *parser.Document) *Node {
	root := FromBlock(doc.Root)
	root.Source = doc.Source
	return root
}

// FromBlock builds the tree of b and its descendants.
func FromBlock(b *block.Block) *Node {
	n := blockNode(b)
	for _, child := range b.Children {
		AppendChild(n, FromBlock(child))
	}
	if b.Inlines != nil {
		nestInlines(n, b)
	}
	return n
}

func blockNode(b *block.Block) *Node {
	n := NewNode(blockKind(b.Type))
	n.Origin = b
	n.Source = b.Source
	n.Span = rowSpan(b.Start, b.Extent)
	attrs := n.Block
	attrs.Type = b.Type
	attrs.Ext = b.Attrs.Ext

	switch n.Kind {
	case NodeHeading:
		if b.Attrs.Heading != nil {
			attrs.HeadingLevel = b.Attrs.Heading.Level
		}
		attrs.Setext = b.Type == block.TypeSetextHeader
	case NodeList:
		if l := b.Attrs.List; l != nil {
			attrs.List = &ListAttrs{Ordered: l.Ordered, Marker: string(l.Marker), Start: l.Start, Tight: !l.Loose}
		}
	case NodeListItem:
		if item := b.Attrs.ListItem; item != nil {
			attrs.List = &ListAttrs{Ordered: item.Ordered, Marker: string(item.Marker), Start: item.Number, Tight: !item.Loose}
		}
	case NodeCodeBlock:
		attrs.Literal = b.Text()
		attrs.CodeBlock = codeAttrs(b)
	case NodeHTMLBlock:
		attrs.Literal = b.Text()
	case NodeLinkDefinition:
		if def := b.Attrs.LinkDef; def != nil {
			attrs.Link = &LinkAttrs{
				Destination:    def.Destination,
				Title:          def.Title,
				ReferenceLabel: def.Label,
				ReferenceStyle: RefStyleDefinition,
			}
		}
	case NodeError:
		attrs.Message = b.Attrs.Error
	}
	return n
}

func blockKind(t block.Type) NodeKind {
	switch t {
	case block.TypeDocument:
		return NodeDocument
	case block.TypeParagraph:
		return NodeParagraph
	case block.TypeSectionHeader, block.TypeSetextHeader:
		return NodeHeading
	case block.TypeList:
		return NodeList
	case block.TypeListItem:
		return NodeListItem
	case block.TypeBlockQuote:
		return NodeBlockquote
	case block.TypeFencedCode, block.TypeIndentedCode:
		return NodeCodeBlock
	case block.TypeThematicBreak:
		return NodeThematicBreak
	case block.TypeHTMLBlock:
		return NodeHTMLBlock
	case block.TypeLinkDefinition:
		return NodeLinkDefinition
	case block.TypeEmptySpace:
		return NodeBlankLines
	case block.TypeError:
		return NodeError
	default:
		return NodeBlock
	}
}

func codeAttrs(b *block.Block) *CodeBlockAttrs {
	code := b.Attrs.Code
	if code == nil {
		return &CodeBlockAttrs{Indented: b.Type == block.TypeIndentedCode}
	}
	lang := code.Language
	if lang == "" {
		lang = code.DetectedLanguage
	}
	return &CodeBlockAttrs{
		FenceChar:   code.FenceChar,
		FenceLength: code.FenceLen,
		Info:        code.Info,
		Language:    lang,
		Indented:    !code.Fenced,
	}
}

// openSpan is a node waiting for the delimiter that closes it.
type openSpan struct {
	node *Node

	// partner is the item index of the closing delimiter.
	partner int
}

// nester rebuilds nesting from flat inline content.
type nester struct {
	b     *block.Block
	items []inline.Item
	root  *Node
	open  []openSpan

	// closed is the span node most recently closed.
	closed *Node
}

func nestInlines(parent *Node, b *block.Block) {
	ns := &nester{b: b, items: b.Inlines.Items, root: parent}
	for i := 0; i < len(ns.items); i++ {
		i = ns.item(i)
	}
}

func (ns *nester) parent() *Node {
	if len(ns.open) == 0 {
		return ns.root
	}
	return ns.open[len(ns.open)-1].node
}

func (ns *nester) span(item inline.Item) Span {
	return Span{
		Start: contentPosition(ns.b.Content, item.Start),
		End:   contentPosition(ns.b.Content, item.End),
	}
}

// item adds item i and returns the index of the last item it consumed.
func (ns *nester) item(i int) int {
	item := ns.items[i]
	switch item.Kind {
	case inline.KindText:
		appendText(ns.parent(), item.Text, ns.span(item))
	case inline.KindElement:
		ns.element(item)
	case inline.KindDelimiter:
		if item.Delim.Category == inline.Emphasis {
			ns.emphasis(i)
			return i
		}
		return ns.nestable(i)
	}
	return i
}

func (ns *nester) element(item inline.Item) {
	elem := item.Elem
	span := ns.span(item)

	var n *Node
	switch elem.Name {
	case inline.NameEscape, inline.NameEntity, inline.NameLiteral:
		appendText(ns.parent(), elem.Text, span)
		return
	case inline.NameLink, inline.NameImage:
		// Followers are attached to their span by nestable.
		return
	case inline.NameCode:
		n = NewNode(NodeCodeSpan)
		n.Inline.Text = elem.Text
	case inline.NameHTML:
		n = NewNode(NodeHTMLInline)
		n.Inline.Text = elem.Text
	case inline.NameSoftBreak:
		n = NewNode(NodeSoftBreak)
	case inline.NameHardBreak:
		n = NewNode(NodeHardBreak)
	case inline.NameAutolink:
		n = NewNode(NodeLink)
		n.Inline.Link = &LinkAttrs{Destination: elem.Destination, ReferenceStyle: RefStyleAutolink}
		AppendChild(n, NewText(elem.Text))
	default:
		n = NewNode(NodeRaw)
		n.Inline.Name = elem.Name
		n.Inline.Text = elem.Text
	}
	n.Span = span
	AppendChild(ns.parent(), n)
}

// emphasis closes the spans ending at delimiter i, writes its unused
// characters and opens the spans starting there.
func (ns *nester) emphasis(i int) {
	item := ns.items[i]
	d := item.Delim
	span := ns.span(item)

	for _, tag := range d.Closes {
		if !ns.close(i) {
			appendText(ns.parent(), strings.Repeat(string(d.Char), int(tag.Kind)), span)
		}
	}
	if d.Remaining > 0 {
		appendText(ns.parent(), strings.Repeat(string(d.Char), d.Remaining), span)
	}
	for _, tag := range d.Opens {
		kind := NodeEmphasis
		if tag.Kind == inline.TagStrong {
			kind = NodeStrong
		}
		n := NewNode(kind)
		n.Inline.EmphasisLevel = int(tag.Kind)
		n.Span.Start = span.Start
		AppendChild(ns.parent(), n)
		ns.open = append(ns.open, openSpan{node: n, partner: tag.Partner})
	}
}

// nestable opens or closes a link or image span and returns the last item
// index consumed.
func (ns *nester) nestable(i int) int {
	item := ns.items[i]
	d := item.Delim
	span := ns.span(item)

	if !d.Resolved() {
		appendText(ns.parent(), item.Text, span)
		return i
	}

	if !d.Opener {
		if ns.close(i) && d.Follower >= 0 {
			ns.closed.Span.End = ns.span(ns.items[d.Follower]).End
			return d.Follower
		}
		return i
	}

	kind := NodeLink
	if d.Name == inline.NameImage {
		kind = NodeImage
	}
	n := NewNode(kind)
	n.Span.Start = span.Start
	if d.Follower >= 0 {
		if target := ns.items[d.Follower].Elem; target != nil {
			n.Inline.Link = &LinkAttrs{
				Destination:    target.Destination,
				Title:          target.Title,
				ReferenceLabel: target.Label,
				ReferenceStyle: referenceStyle(target.Reference),
			}
		}
	}
	AppendChild(ns.parent(), n)
	ns.open = append(ns.open, openSpan{node: n, partner: d.Partner})
	return i
}

// close ends the innermost open span closed by the delimiter at index at,
// together with any span left open inside it.
func (ns *nester) close(at int) bool {
	for j := len(ns.open) - 1; j >= 0; j-- {
		if ns.open[j].partner != at {
			continue
		}
		n := ns.open[j].node
		n.Span.End = ns.span(ns.items[at]).End
		ns.open = ns.open[:j]
		ns.closed = n
		return true
	}
	return false
}
