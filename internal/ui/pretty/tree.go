package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/gomdparse/pkg/mdast"
)

// Tree connectors.
const (
	branchMid  = "├─ "
	branchLast = "└─ "
	indentMid  = "│  "
	indentLast = "   "
	ellipsis   = "…"

	minPreview = 8
)

// TreePrinter renders a document tree, one node per line.
type TreePrinter struct {
	styles *Styles
	width  int

	// Inlines includes inline nodes beneath the blocks.
	Inlines bool

	// Blank includes blank-line blocks.
	Blank bool
}

// NewTreePrinter creates a printer that shortens text to fit width columns.
func NewTreePrinter(styles *Styles, width int) *TreePrinter {
	if width <= 0 {
		width = defaultTermWidth
	}
	return &TreePrinter{styles: styles, width: width, Inlines: true}
}

// Format renders root and its descendants.
func (p *TreePrinter) Format(root *mdast.Node) string {
	var sb strings.Builder
	sb.WriteString(p.label(root, 0))
	sb.WriteString("\n")
	p.children(&sb, root, "")
	return sb.String()
}

func (p *TreePrinter) children(sb *strings.Builder, n *mdast.Node, prefix string) {
	kids := p.visible(n)
	for i, child := range kids {
		last := i == len(kids)-1
		branch, indent := branchMid, indentMid
		if last {
			branch, indent = branchLast, indentLast
		}
		lead := prefix + branch
		sb.WriteString(p.styles.Connector.Render(lead))
		sb.WriteString(p.label(child, utf8.RuneCountInString(lead)))
		sb.WriteString("\n")
		p.children(sb, child, prefix+indent)
	}
}

func (p *TreePrinter) visible(n *mdast.Node) []*mdast.Node {
	var out []*mdast.Node
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.IsInline() && !p.Inlines {
			continue
		}
		if child.Kind == mdast.NodeBlankLines && !p.Blank {
			continue
		}
		out = append(out, child)
	}
	return out
}

// label renders one node; used is the width already taken on the line.
func (p *TreePrinter) label(n *mdast.Node, used int) string {
	name := KindName(n)
	loc := Location(n.Span)
	detail := Detail(n)

	taken := used + utf8.RuneCountInString(name) + len(loc) + 2
	parts := []string{p.styles.Kind.Render(name)}
	if detail != "" {
		parts = append(parts, p.styles.Detail.Render(detail))
		taken += utf8.RuneCountInString(detail) + 1
	}
	if loc != "" {
		parts = append(parts, p.styles.Location.Render(loc))
	}
	if text := Preview(n); text != "" {
		room := max(p.width-taken-3, minPreview)
		parts = append(parts, p.styles.Text.Render(strconv.Quote(truncate(text, room))))
	}
	return strings.Join(parts, " ")
}

// KindName names a node, using the type of extension blocks and elements.
func KindName(n *mdast.Node) string {
	switch {
	case n.Kind == mdast.NodeBlock && n.Block != nil:
		return string(n.Block.Type)
	case n.Kind == mdast.NodeRaw && n.Inline != nil:
		return n.Inline.Name
	default:
		return n.Kind.String()
	}
}

// Location renders a span as "line", "first-last" or "line:col".
func Location(span mdast.Span) string {
	switch {
	case !span.IsValid():
		return ""
	case span.Start.Column > 0:
		return fmt.Sprintf("%d:%d", span.Start.Line, span.Start.Column)
	case span.IsSingleLine():
		return strconv.Itoa(span.Start.Line)
	default:
		return fmt.Sprintf("%d-%d", span.Start.Line, span.End.Line)
	}
}

// Detail summarizes the attributes of a node.
func Detail(n *mdast.Node) string {
	if n.Block != nil {
		return blockDetail(n)
	}
	if n.Inline != nil && n.Inline.Link != nil {
		return n.Inline.Link.ReferenceStyle.String() + " " + n.Inline.Link.Destination
	}
	return ""
}

func blockDetail(n *mdast.Node) string {
	attrs := n.Block
	switch n.Kind {
	case mdast.NodeHeading:
		if attrs.Setext {
			return fmt.Sprintf("h%d setext", attrs.HeadingLevel)
		}
		return fmt.Sprintf("h%d", attrs.HeadingLevel)
	case mdast.NodeList, mdast.NodeListItem:
		if attrs.List == nil {
			return ""
		}
		out := attrs.List.Marker
		if attrs.List.Ordered {
			out = strconv.Itoa(attrs.List.Start) + attrs.List.Marker
		}
		if !attrs.List.Tight {
			out += " loose"
		}
		return out
	case mdast.NodeCodeBlock:
		if attrs.CodeBlock == nil {
			return ""
		}
		kind := "fenced"
		if attrs.CodeBlock.Indented {
			kind = "indented"
		}
		if attrs.CodeBlock.Language != "" {
			return kind + " " + attrs.CodeBlock.Language
		}
		return kind
	case mdast.NodeLinkDefinition:
		if attrs.Link != nil {
			return "[" + attrs.Link.ReferenceLabel + "] " + attrs.Link.Destination
		}
	case mdast.NodeError:
		return attrs.Message
	}
	return ""
}

// Preview is the literal text shown for leaf nodes.
func Preview(n *mdast.Node) string {
	switch n.Kind {
	case mdast.NodeText, mdast.NodeCodeSpan, mdast.NodeHTMLInline, mdast.NodeRaw:
		return n.Inline.Text
	case mdast.NodeCodeBlock, mdast.NodeHTMLBlock:
		return n.Block.Literal
	default:
		return ""
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + ellipsis
}
