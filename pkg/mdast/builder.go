package mdast

// NewNode creates a detached node of the specified kind.
func NewNode(kind NodeKind) *Node {
	n := &Node{Kind: kind}
	switch {
	case n.IsInline():
		n.Inline = &InlineAttrs{}
	default:
		n.Block = &BlockAttrs{}
	}
	return n
}

// NewText creates a text node.
func NewText(text string) *Node {
	n := NewNode(NodeText)
	n.Inline.Text = text
	return n
}

// AppendChild appends child to parent, detaching it from any previous parent.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	detach(child)

	child.Parent = parent
	child.Prev = parent.LastChild
	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}
	parent.LastChild = child
}

// InsertBefore inserts node before sibling, which must have a parent.
func InsertBefore(sibling, node *Node) {
	if sibling == nil || node == nil || sibling.Parent == nil {
		return
	}
	detach(node)

	node.Parent = sibling.Parent
	node.Prev = sibling.Prev
	node.Next = sibling
	if sibling.Prev != nil {
		sibling.Prev.Next = node
	} else {
		sibling.Parent.FirstChild = node
	}
	sibling.Prev = node
}

// RemoveChild removes child from parent. It does nothing when child belongs
// to another parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}
	detach(child)
}

// ReplaceChild puts replacement where old was.
func ReplaceChild(parent, old, replacement *Node) {
	if parent == nil || old == nil || replacement == nil || old.Parent != parent {
		return
	}
	InsertBefore(old, replacement)
	detach(old)
}

// Unwrap replaces n by its children.
func Unwrap(n *Node) {
	if n == nil || n.Parent == nil {
		return
	}
	for child := n.FirstChild; child != nil; {
		next := child.Next
		InsertBefore(n, child)
		child = next
	}
	detach(n)
}

// appendText adds text to parent, merging with a trailing text node.
func appendText(parent *Node, text string, span Span) {
	if text == "" {
		return
	}
	if last := parent.LastChild; last != nil && last.Kind == NodeText {
		last.Inline.Text += text
		if span.End.IsValid() {
			last.Span.End = span.End
		}
		return
	}
	n := NewText(text)
	n.Span = span
	AppendChild(parent, n)
}

func detach(n *Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	if n.Prev != nil {
		n.Prev.Next = n.Next
	} else {
		parent.FirstChild = n.Next
	}
	if n.Next != nil {
		n.Next.Prev = n.Prev
	} else {
		parent.LastChild = n.Prev
	}
	n.Parent = nil
	n.Prev = nil
	n.Next = nil
}
