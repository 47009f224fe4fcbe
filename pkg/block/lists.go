package block

// GroupLists replaces each run of compatible list items under b with a list
// aggregate, recursively. Items are compatible when they share the marker kind
// and delimiter. Blank lines between two items of one list stay inside the
// list's extent and make it loose; blank lines after the last item do not.
// An item is loose when a blank line separates two of its children once
// nested lists have been grouped, so blanks between nested items count only
// toward the nested list.
func GroupLists(b *Block) {
	for _, child := range b.Children {
		GroupLists(child)
	}
	if b.Type == TypeListItem && b.Attrs.ListItem != nil {
		b.Attrs.ListItem.Loose = blankBetween(b.Children)
	}
	if len(b.Children) == 0 {
		return
	}

	children := b.Children
	out := make([]*Block, 0, len(children))
	for i := 0; i < len(children); {
		first := children[i]
		if first.Type != TypeListItem {
			out = append(out, first)
			i++
			continue
		}

		items := []*Block{first}
		separated := false
		j := i + 1
	scan:
		for j < len(children) {
			switch next := children[j]; {
			case next.Type == TypeEmptySpace:
				k := j
				for k < len(children) && children[k].Type == TypeEmptySpace {
					k++
				}
				if k == len(children) || !sameList(first, children[k]) {
					break scan
				}
				separated = true
				j = k
			case sameList(first, next):
				items = append(items, next)
				j++
			default:
				break scan
			}
		}

		out = append(out, newList(items, separated))
		i = j
	}
	b.Children = out
}

func blankBetween(children []*Block) bool {
	for i := 1; i < len(children)-1; i++ {
		if children[i].Type == TypeEmptySpace {
			return true
		}
	}
	return false
}

func sameList(a, b *Block) bool {
	if b.Type != TypeListItem {
		return false
	}
	x, y := a.Attrs.ListItem, b.Attrs.ListItem
	return x.Ordered == y.Ordered && x.Marker == y.Marker
}

func newList(items []*Block, separated bool) *Block {
	first, lastItem := items[0], items[len(items)-1]
	attrs := first.Attrs.ListItem

	loose := separated
	for _, item := range items {
		if item.Attrs.ListItem.Loose {
			loose = true
		}
	}

	return &Block{
		Type:     TypeList,
		Start:    first.Start,
		Extent:   lastItem.End() - first.Start + 1,
		Children: items,
		Source:   first.Source,
		Attrs: Attrs{List: &ListAttrs{
			Ordered: attrs.Ordered,
			Marker:  attrs.Marker,
			Start:   attrs.Number,
			Loose:   loose,
		}},
	}
}
