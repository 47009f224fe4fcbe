package frontmatter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdparse/pkg/block"
	"github.com/yaklabco/gomdparse/pkg/ext/frontmatter"
	"github.com/yaklabco/gomdparse/pkg/parser"
)

func parse(t *testing.T, input string) *parser.Document {
	t.Helper()

	p, err := parser.New(parser.WithExtensions(frontmatter.New()))
	require.NoError(t, err)
	doc, err := p.Parse(context.Background(), input)
	require.NoError(t, err)
	return doc
}

func topTypes(doc *parser.Document) []block.Type {
	out := make([]block.Type, len(doc.Root.Children))
	for i, child := range doc.Root.Children {
		out[i] = child.Type
	}
	return out
}

func TestFrontMatter(t *testing.T) {
	t.Parallel()

	doc := parse(t, "---\ntitle: Hello\ntags:\n  - a\n  - b\n...\n# Body\n")

	assert.Equal(t, []block.Type{frontmatter.Type, block.TypeSectionHeader}, topTypes(doc))

	fm := doc.Root.Children[0]
	assert.Equal(t, 0, fm.Start)
	assert.Equal(t, 6, fm.Extent)

	attrs, ok := frontmatter.Get(doc)
	require.True(t, ok)
	assert.Empty(t, attrs.Err)
	assert.Equal(t, "title: Hello\ntags:\n  - a\n  - b", attrs.Raw)
	assert.Equal(t, "Hello", attrs.Data["title"])
	assert.Equal(t, []any{"a", "b"}, attrs.Data["tags"])
}

func TestFrontMatter_NotRecognized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []block.Type
	}{
		{
			name:  "unclosed becomes thematic break and text",
			input: "---\ntitle: x\n",
			want:  []block.Type{block.TypeThematicBreak, block.TypeParagraph},
		},
		{
			name:  "not on the first line",
			input: "intro\n\n---\na: b\n---\n",
			want: []block.Type{
				block.TypeParagraph,
				block.TypeEmptySpace,
				block.TypeThematicBreak,
				block.TypeSetextHeader,
			},
		},
		{
			name:  "indented fence",
			input: " ---\na: b\n---\n",
			want:  []block.Type{block.TypeThematicBreak, block.TypeSetextHeader},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			doc := parse(t, testCase.input)
			assert.Equal(t, testCase.want, topTypes(doc))
			_, ok := frontmatter.Get(doc)
			assert.False(t, ok)
		})
	}
}

func TestFrontMatter_Empty(t *testing.T) {
	t.Parallel()

	doc := parse(t, "---\n---\ntext\n")
	attrs, ok := frontmatter.Get(doc)
	require.True(t, ok)
	assert.Empty(t, attrs.Data)
	assert.Empty(t, attrs.Err)
}

func TestFrontMatter_InvalidYAML(t *testing.T) {
	t.Parallel()

	doc := parse(t, "---\nkey: [unclosed\n---\ntext\n")
	attrs, ok := frontmatter.Get(doc)
	require.True(t, ok)
	assert.Nil(t, attrs.Data)
	assert.Contains(t, attrs.Err, "decode front matter")

	paras := doc.Blocks(block.TypeParagraph)
	require.Len(t, paras, 1)
	assert.Equal(t, "text", paras[0].Inlines.Text())
}
