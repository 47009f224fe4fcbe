package mdast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gomdparse/pkg/mdast"
)

func TestNode_Level(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind  mdast.NodeKind
		block bool
		name  string
	}{
		{kind: mdast.NodeDocument, block: true, name: "Document"},
		{kind: mdast.NodeLinkDefinition, block: true, name: "LinkDefinition"},
		{kind: mdast.NodeBlankLines, block: true, name: "BlankLines"},
		{kind: mdast.NodeError, block: true, name: "Error"},
		{kind: mdast.NodeBlock, block: true, name: "Block"},
		{kind: mdast.NodeText, block: false, name: "Text"},
		{kind: mdast.NodeStrong, block: false, name: "Strong"},
		{kind: mdast.NodeRaw, block: false, name: "Raw"},
		{kind: mdast.NodeKind(999), block: false, name: "Unknown"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			node := &mdast.Node{Kind: testCase.kind}
			assert.Equal(t, testCase.block, node.IsBlock())
			assert.Equal(t, !testCase.block, node.IsInline())
			assert.Equal(t, testCase.name, testCase.kind.String())
		})
	}
}

func TestNode_Children(t *testing.T) {
	t.Parallel()

	parent := mdast.NewNode(mdast.NodeParagraph)
	assert.False(t, parent.HasChildren())
	assert.Zero(t, parent.ChildCount())
	assert.Nil(t, parent.Children())

	first := mdast.NewText("a")
	second := mdast.NewNode(mdast.NodeSoftBreak)
	mdast.AppendChild(parent, first)
	mdast.AppendChild(parent, second)

	assert.True(t, parent.HasChildren())
	assert.Equal(t, 2, parent.ChildCount())
	assert.Equal(t, []*mdast.Node{first, second}, parent.Children())
}

func TestNode_PlainText(t *testing.T) {
	t.Parallel()

	para := mdast.NewNode(mdast.NodeParagraph)
	mdast.AppendChild(para, mdast.NewText("one "))
	em := mdast.NewNode(mdast.NodeEmphasis)
	mdast.AppendChild(em, mdast.NewText("two"))
	mdast.AppendChild(para, em)
	mdast.AppendChild(para, mdast.NewNode(mdast.NodeHardBreak))
	code := mdast.NewNode(mdast.NodeCodeSpan)
	code.Inline.Text = "three"
	mdast.AppendChild(para, code)

	assert.Equal(t, "one two\nthree", para.PlainText())
}

func TestSpan(t *testing.T) {
	t.Parallel()

	var zero mdast.Span
	assert.False(t, zero.IsValid())
	assert.Zero(t, zero.Lines())

	span := mdast.Span{Start: mdast.Position{Line: 2, Column: 3}, End: mdast.Position{Line: 4, Column: 1}}
	assert.True(t, span.IsValid())
	assert.False(t, span.IsSingleLine())
	assert.Equal(t, 3, span.Lines())
}
