package parser

import (
	"github.com/yaklabco/gomdparse/pkg/block"
	"github.com/yaklabco/gomdparse/pkg/lines"
	"github.com/yaklabco/gomdparse/pkg/linkdef"
)

// Document is the result of one parse.
type Document struct {
	// Root is the document block; its children are the top-level blocks.
	Root *block.Block

	// Lines is the classified source text.
	Lines *lines.Set

	// Links holds the link definitions, first definition per label.
	Links *linkdef.Table

	// Singletons maps singleton block types to their one instance.
	Singletons map[block.Type]*block.Block

	// Source is the path the text was read from, empty for in-memory text.
	Source string

	// Rounds is the number of structural processing rounds that ran.
	Rounds int
}

// Walk visits every block in document order. Returning false from fn skips
// the block's children.
func (d *Document) Walk(fn func(*block.Block) bool) {
	block.Walk(d.Root, fn)
}

// Blocks returns every block of type t in document order.
func (d *Document) Blocks(t block.Type) []*block.Block {
	return block.FindAll(d.Root, t)
}

// Singleton returns the singleton block of type t.
func (d *Document) Singleton(t block.Type) (*block.Block, bool) {
	b, ok := d.Singletons[t]
	return b, ok
}

// Stats counts blocks by type.
func (d *Document) Stats() map[block.Type]int {
	counts := make(map[block.Type]int)
	d.Walk(func(b *block.Block) bool {
		if b != d.Root {
			counts[b.Type]++
		}
		return true
	})
	return counts
}

// Errors returns the error marker blocks, such as failed includes.
func (d *Document) Errors() []*block.Block {
	return d.Blocks(block.TypeError)
}
