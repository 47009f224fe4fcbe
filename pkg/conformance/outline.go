package conformance

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark/ast"

	"github.com/yaklabco/gomdparse/pkg/mdast"
)

// Kind names a block kind shared by both parsers.
type Kind string

// Block kinds compared by the checker.
const (
	KindParagraph     Kind = "paragraph"
	KindHeading       Kind = "heading"
	KindThematicBreak Kind = "thematic-break"
	KindCodeBlock     Kind = "code"
	KindBlockquote    Kind = "blockquote"
	KindList          Kind = "list"
	KindListItem      Kind = "list-item"
	KindHTMLBlock     Kind = "html"
)

// Entry is one block of an outline.
type Entry struct {
	// Depth is 1 for top-level blocks.
	Depth int
	Kind  Kind

	// Detail distinguishes variants of a kind, such as heading level.
	Detail string

	// Line is the 1-based first line, or 0 when unknown. It is not compared.
	Line int
}

// Key is the comparable form of the entry.
func (e Entry) Key() string {
	if e.Detail == "" {
		return fmt.Sprintf("%d %s", e.Depth, e.Kind)
	}
	return fmt.Sprintf("%d %s %s", e.Depth, e.Kind, e.Detail)
}

func (e Entry) String() string {
	key := e.Key()
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d)", key, e.Line)
	}
	return key
}

func headingDetail(level int) string {
	return fmt.Sprintf("h%d", level)
}

func listDetail(ordered bool) string {
	if ordered {
		return "ordered"
	}
	return "bullet"
}

func codeDetail(indented bool) string {
	if indented {
		return "indented"
	}
	return "fenced"
}

// outlineTree lists the blocks of a parsed tree down to maxDepth, or all of
// them when maxDepth is 0. Blank lines, link definitions, error markers and
// extension blocks have no counterpart and are left out.
func outlineTree(root *mdast.Node, maxDepth int) []Entry {
	var out []Entry
	var visit func(n *mdast.Node, depth int)
	visit = func(n *mdast.Node, depth int) {
		if maxDepth > 0 && depth > maxDepth {
			return
		}
		for child := n.FirstChild; child != nil; child = child.Next {
			if !child.IsBlock() {
				continue
			}
			entry := Entry{Depth: depth, Line: child.Span.Start.Line}
			switch child.Kind {
			case mdast.NodeParagraph:
				entry.Kind = KindParagraph
			case mdast.NodeHeading:
				entry.Kind = KindHeading
				entry.Detail = headingDetail(child.Block.HeadingLevel)
			case mdast.NodeThematicBreak:
				entry.Kind = KindThematicBreak
			case mdast.NodeCodeBlock:
				entry.Kind = KindCodeBlock
				entry.Detail = codeDetail(child.Block.CodeBlock != nil && child.Block.CodeBlock.Indented)
			case mdast.NodeBlockquote:
				entry.Kind = KindBlockquote
			case mdast.NodeList:
				entry.Kind = KindList
				entry.Detail = listDetail(child.Block.List != nil && child.Block.List.Ordered)
			case mdast.NodeListItem:
				entry.Kind = KindListItem
			case mdast.NodeHTMLBlock:
				entry.Kind = KindHTMLBlock
			default:
				continue
			}
			out = append(out, entry)
			visit(child, depth+1)
		}
	}
	visit(root, 1)
	return out
}

// outlineReference lists the blocks of a goldmark tree the same way.
func outlineReference(root ast.Node, source []byte, maxDepth int) []Entry {
	var out []Entry
	var visit func(n ast.Node, depth int)
	visit = func(n ast.Node, depth int) {
		if maxDepth > 0 && depth > maxDepth {
			return
		}
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			if child.Type() != ast.TypeBlock {
				continue
			}
			entry := Entry{Depth: depth, Line: firstLine(child, source)}
			switch node := child.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				// goldmark leaves an empty paragraph where it consumed link
				// reference definitions.
				if node.Lines().Len() == 0 {
					continue
				}
				entry.Kind = KindParagraph
			case *ast.Heading:
				entry.Kind = KindHeading
				entry.Detail = headingDetail(node.Level)
			case *ast.ThematicBreak:
				entry.Kind = KindThematicBreak
			case *ast.FencedCodeBlock:
				entry.Kind = KindCodeBlock
				entry.Detail = codeDetail(false)
			case *ast.CodeBlock:
				entry.Kind = KindCodeBlock
				entry.Detail = codeDetail(true)
			case *ast.Blockquote:
				entry.Kind = KindBlockquote
			case *ast.List:
				entry.Kind = KindList
				entry.Detail = listDetail(node.IsOrdered())
			case *ast.ListItem:
				entry.Kind = KindListItem
			case *ast.HTMLBlock:
				entry.Kind = KindHTMLBlock
			default:
				continue
			}
			out = append(out, entry)
			visit(child, depth+1)
		}
	}
	visit(root, 1)
	return out
}

// firstLine finds the line of the first source segment at or below n.
func firstLine(n ast.Node, source []byte) int {
	if segs := n.Lines(); segs != nil && segs.Len() > 0 {
		return bytes.Count(source[:segs.At(0).Start], []byte{'\n'}) + 1
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Type() != ast.TypeBlock {
			continue
		}
		if line := firstLine(child, source); line > 0 {
			return line
		}
	}
	return 0
}
