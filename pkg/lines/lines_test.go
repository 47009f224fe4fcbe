package lines_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdparse/pkg/lines"
)

func TestClassify_Kinds(t *testing.T) {
	t.Parallel()

	set := lines.Classify("# Title\n\n   \n\tcode\n")
	all := set.All()
	require.Len(t, all, 4)

	assert.Equal(t, lines.KindText, all[0].Kind)
	assert.Equal(t, lines.KindEmpty, all[1].Kind)
	assert.Equal(t, lines.KindEmptyish, all[2].Kind)
	assert.Equal(t, 3, all[2].Indent)
	assert.Equal(t, lines.KindText, all[3].Kind)
	assert.Equal(t, 4, all[3].Indent)
	assert.Equal(t, "code", all[3].Content)

	for i, line := range all {
		assert.Equal(t, i, line.Index)
	}
	assert.Equal(t, lines.Handle(1), all[0].Next)
	assert.Equal(t, lines.NoHandle, all[3].Next)
}

func TestClassify_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"a",
		"a\n",
		"a\r\nb\r\n",
		"\n\n\n",
		"  \t x\n\ty\n",
		"<!-- one -->\ntext\n",
		"<!--\nmulti\n-->\nafter",
		"<!-- never closed\nstill open\n",
		"text <!-- inline -->\n<!-- x --> y\n",
		"\r\n<!--\r\n-->  \r\n",
	}

	for _, input := range inputs {
		set := lines.Classify(input)
		assert.Equal(t, input, set.Reassemble(), "input %q", input)
	}
}

func TestClassify_CommentFolding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantKinds []lines.Kind
		wantRows  int
	}{
		{
			name:      "single line comment",
			input:     "<!-- note -->\n",
			wantKinds: []lines.Kind{lines.KindComment},
			wantRows:  1,
		},
		{
			name:      "multi line comment",
			input:     "<!--\nhidden\n-->   \npara\n",
			wantKinds: []lines.Kind{lines.KindComment, lines.KindText},
			wantRows:  3,
		},
		{
			name:      "unterminated at end of input",
			input:     "<!--\nhidden\n",
			wantKinds: []lines.Kind{lines.KindText, lines.KindText},
		},
		{
			name:      "text after closer",
			input:     "<!-- a --> b\n",
			wantKinds: []lines.Kind{lines.KindText},
		},
		{
			name:      "indented opener",
			input:     "  <!-- a -->\n",
			wantKinds: []lines.Kind{lines.KindText},
		},
		{
			name:      "indented closing continuation",
			input:     "<!--\n  -->\n",
			wantKinds: []lines.Kind{lines.KindText, lines.KindText},
		},
		{
			name:      "second comment on closing row",
			input:     "<!-- a --> <!--\nb -->\n",
			wantKinds: []lines.Kind{lines.KindComment},
			wantRows:  2,
		},
		{
			name:      "abort resumes after aborting row",
			input:     "<!-- a --> x\n<!-- b -->\n",
			wantKinds: []lines.Kind{lines.KindText, lines.KindComment},
			wantRows:  1,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			set := lines.Classify(testCase.input)
			all := set.All()
			kinds := make([]lines.Kind, len(all))
			for i, line := range all {
				kinds[i] = line.Kind
			}
			assert.Equal(t, testCase.wantKinds, kinds)

			for _, line := range all {
				if line.IsComment() {
					assert.Len(t, line.Rows, testCase.wantRows)
					assert.Equal(t, line.Index+testCase.wantRows-1, line.End())
				}
			}
		})
	}
}

func TestClassify_CommentIndexes(t *testing.T) {
	t.Parallel()

	set := lines.Classify("a\n<!--\nx\n-->\nb\n")
	all := set.All()
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[1].Index)
	assert.Equal(t, 3, all[1].End())
	assert.Equal(t, 4, all[2].Index)
	assert.Equal(t, 5, set.Rows())

	unfolded := all[1].Unfold()
	require.Len(t, unfolded, 3)
	assert.Equal(t, "x", unfolded[1].Content)
	assert.Equal(t, 2, unfolded[1].Index)
}

func TestSet_Next(t *testing.T) {
	t.Parallel()

	set := lines.Classify("a\n<!--\nx\n-->\nb")
	var texts []string
	for line, ok := set.At(set.First()), true; ok; line, ok = set.Next(line) {
		texts = append(texts, line.Text())
	}
	assert.Equal(t, []string{"a", "<!--\nx\n-->", "b"}, texts)

	sliced := lines.Slice(set.At(set.First()), 1)
	next, ok := set.Next(sliced)
	require.True(t, ok)
	assert.True(t, next.IsComment())

	_, ok = set.Next(set.All()[2])
	assert.False(t, ok)
}

func TestSlice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		columns     int
		wantPrefix  string
		wantContent string
		wantIndent  int
		wantKind    lines.Kind
	}{
		{"spaces", "    foo", 2, "  ", "foo", 2, lines.KindText},
		{"whole tab", "\tfoo", 4, "", "foo", 0, lines.KindText},
		{"split tab", "\tfoo", 1, "   ", "foo", 3, lines.KindText},
		{"marker then tab", ">\tfoo", 2, "  ", "foo", 2, lines.KindText},
		{"content chars", "> foo", 2, "", "foo", 0, lines.KindText},
		{"past content", "ab", 5, "", "", 0, lines.KindEmpty},
		{"only whitespace left", "-   ", 1, "   ", "", 3, lines.KindEmptyish},
		{"reindent after content", "-  bar", 1, "  ", "bar", 2, lines.KindText},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			line := lines.Classify(testCase.input).At(0)
			got := lines.Slice(line, testCase.columns)

			assert.Equal(t, testCase.wantPrefix, got.Prefix)
			assert.Equal(t, testCase.wantContent, got.Content)
			assert.Equal(t, testCase.wantIndent, got.Indent)
			assert.Equal(t, testCase.wantKind, got.Kind)
			assert.Equal(t, line.Origin, got.Origin)
		})
	}
}

func TestSlice_DoesNotMutateParent(t *testing.T) {
	t.Parallel()

	set := lines.Classify("  \tfoo\n")
	line := set.At(0)
	first := lines.Slice(line, 3)
	second := lines.Slice(first, 2)

	assert.Equal(t, "  \tfoo", set.At(0).Text())
	assert.Equal(t, 5, second.Shift)
	assert.Equal(t, 5, second.Column)

	parent, ok := set.Parent(second)
	require.True(t, ok)
	assert.Equal(t, line, parent)
}

func TestSlice_TabStopsFollowAbsoluteColumn(t *testing.T) {
	t.Parallel()

	line := lines.Classify(" \tx").At(0)
	assert.Equal(t, 4, line.Indent)

	shifted := lines.Slice(line, 1)
	assert.Equal(t, "\t", shifted.Prefix)
	assert.Equal(t, 3, shifted.Indent)
}

func TestSliceBytes(t *testing.T) {
	t.Parallel()

	line := lines.Classify(">\tfoo").At(0)
	got := lines.SliceBytes(line, 1)
	assert.Equal(t, "\t", got.Prefix)
	assert.Equal(t, 3, got.Indent)
	assert.Equal(t, 1, got.Column)
}

func TestLine_Helpers(t *testing.T) {
	t.Parallel()

	line := lines.Classify("  foo  ").At(0)
	assert.Equal(t, "foo", line.TrimRight().Content)
	assert.Equal(t, lines.KindEmptyish, line.WithContent("").Kind)
	assert.False(t, line.IsBlank())
	assert.Equal(t, "text", line.Kind.String())
}
