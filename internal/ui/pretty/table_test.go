package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gomdparse/internal/ui/pretty"
	"github.com/yaklabco/gomdparse/pkg/block"
)

func TestTableFormatter_FormatTable(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 80)
	assert.Empty(t, formatter.FormatTable(nil))

	got := formatter.FormatTable([]pretty.TableRow{
		{Type: block.TypeParagraph, Count: 3},
		{Type: block.TypeSectionHeader, Count: 1},
	})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	assert.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "TYPE"))
	assert.Contains(t, lines[2], string(block.TypeParagraph))
	assert.Contains(t, lines[2], "75.0%")
	assert.Contains(t, lines[3], "25.0%")
	assert.True(t, strings.HasPrefix(lines[5], "total"))
	assert.True(t, strings.HasSuffix(lines[5], " 4"))
}

func TestCollectRows_Nil(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pretty.CollectRows(nil))
}
