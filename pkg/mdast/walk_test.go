package mdast_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdparse/pkg/mdast"
)

// buildTestTree builds:
//
//	Document
//	  Heading
//	    Text
//	  Paragraph
//	    Text
//	    Emphasis
//	      Text
func buildTestTree() *mdast.Node {
	doc := mdast.NewNode(mdast.NodeDocument)

	heading := mdast.NewNode(mdast.NodeHeading)
	mdast.AppendChild(heading, mdast.NewText("title"))
	mdast.AppendChild(doc, heading)

	para := mdast.NewNode(mdast.NodeParagraph)
	mdast.AppendChild(para, mdast.NewText("plain "))
	emphasis := mdast.NewNode(mdast.NodeEmphasis)
	mdast.AppendChild(emphasis, mdast.NewText("loud"))
	mdast.AppendChild(para, emphasis)
	mdast.AppendChild(doc, para)

	return doc
}

func TestWalk(t *testing.T) {
	t.Parallel()

	var visited []mdast.NodeKind
	err := mdast.Walk(buildTestTree(), func(n *mdast.Node) error {
		visited = append(visited, n.Kind)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []mdast.NodeKind{
		mdast.NodeDocument,
		mdast.NodeHeading,
		mdast.NodeText,
		mdast.NodeParagraph,
		mdast.NodeText,
		mdast.NodeEmphasis,
		mdast.NodeText,
	}, visited)
}

func TestWalk_NilRoot(t *testing.T) {
	t.Parallel()

	called := false
	err := mdast.Walk(nil, func(*mdast.Node) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestWalk_Stop(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	count := 0
	err := mdast.Walk(buildTestTree(), func(n *mdast.Node) error {
		count++
		if n.Kind == mdast.NodeParagraph {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 4, count)
}

func TestWalk_SkipChildren(t *testing.T) {
	t.Parallel()

	var visited []mdast.NodeKind
	err := mdast.Walk(buildTestTree(), func(n *mdast.Node) error {
		visited = append(visited, n.Kind)
		if n.Kind == mdast.NodeHeading {
			return mdast.SkipChildren
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []mdast.NodeKind{
		mdast.NodeDocument,
		mdast.NodeHeading,
		mdast.NodeParagraph,
		mdast.NodeText,
		mdast.NodeEmphasis,
		mdast.NodeText,
	}, visited)
}

func TestWalk_DetachWhileWalking(t *testing.T) {
	t.Parallel()

	doc := buildTestTree()
	err := mdast.Walk(doc, func(n *mdast.Node) error {
		if n.Kind == mdast.NodeHeading {
			mdast.RemoveChild(doc, n)
			return mdast.SkipChildren
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []mdast.NodeKind{mdast.NodeParagraph}, kinds(doc.Children()))
}

func TestWalkWithContext(t *testing.T) {
	t.Parallel()

	var events []string
	enter := func(n *mdast.Node) error {
		events = append(events, "enter "+n.Kind.String())
		if n.Kind == mdast.NodeHeading {
			return mdast.SkipChildren
		}
		return nil
	}
	leave := func(n *mdast.Node) error {
		if n.IsBlock() {
			events = append(events, "leave "+n.Kind.String())
		}
		return nil
	}

	doc := mdast.NewNode(mdast.NodeDocument)
	heading := mdast.NewNode(mdast.NodeHeading)
	mdast.AppendChild(heading, mdast.NewText("x"))
	mdast.AppendChild(doc, heading)
	mdast.AppendChild(doc, mdast.NewNode(mdast.NodeThematicBreak))

	require.NoError(t, mdast.WalkWithContext(doc, enter, leave))
	assert.Equal(t, []string{
		"enter Document",
		"enter Heading",
		"leave Heading",
		"enter ThematicBreak",
		"leave ThematicBreak",
		"leave Document",
	}, events)

	require.NoError(t, mdast.WalkWithContext(doc, nil, nil))
}

func TestWalkBlocksAndInlines(t *testing.T) {
	t.Parallel()

	doc := buildTestTree()

	var blocks []mdast.NodeKind
	require.NoError(t, mdast.WalkBlocks(doc, func(n *mdast.Node) error {
		blocks = append(blocks, n.Kind)
		return nil
	}))
	assert.Equal(t, []mdast.NodeKind{mdast.NodeDocument, mdast.NodeHeading, mdast.NodeParagraph}, blocks)

	var inlines []mdast.NodeKind
	require.NoError(t, mdast.WalkInlines(doc, func(n *mdast.Node) error {
		inlines = append(inlines, n.Kind)
		return nil
	}))
	assert.Equal(t, []mdast.NodeKind{mdast.NodeText, mdast.NodeText, mdast.NodeEmphasis, mdast.NodeText}, inlines)
}

func TestFind(t *testing.T) {
	t.Parallel()

	doc := buildTestTree()

	texts := mdast.FindByKind(doc, mdast.NodeText)
	require.Len(t, texts, 3)
	assert.Equal(t, "title", texts[0].Inline.Text)

	first := mdast.FindFirst(doc, func(n *mdast.Node) bool { return n.IsInline() })
	require.NotNil(t, first)
	assert.Equal(t, "title", first.Inline.Text)

	assert.Nil(t, mdast.FindFirst(doc, func(n *mdast.Node) bool { return n.Kind == mdast.NodeImage }))
	assert.Empty(t, mdast.FindAll(doc, func(n *mdast.Node) bool { return n.Kind == mdast.NodeList }))
}
