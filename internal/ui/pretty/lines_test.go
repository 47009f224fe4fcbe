package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gomdparse/internal/ui/pretty"
	"github.com/yaklabco/gomdparse/pkg/lines"
)

func TestStyles_FormatLines(t *testing.T) {
	t.Parallel()

	set := lines.Classify("# a\n\n \tb\n<!-- x\ny -->\n")
	got := pretty.NewStyles(false).FormatLines(set, 80)

	want := strings.Join([]string{
		"      1  text        0  # a",
		"      2  empty       0  ",
		"      3  text        4  ·→b",
		"    4-5  comment     0  <!-- x (+1 rows)",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestStyles_FormatLines_Truncates(t *testing.T) {
	t.Parallel()

	set := lines.Classify(strings.Repeat("x", 200) + "\n")
	got := pretty.NewStyles(false).FormatLines(set, 40)

	assert.LessOrEqual(t, len([]rune(strings.TrimSuffix(got, "\n"))), 40)
	assert.True(t, strings.HasSuffix(got, "…\n"))
}
