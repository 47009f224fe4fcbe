package mdast

import "errors"

// SkipChildren may be returned by a WalkFunc to skip the node's children
// without stopping the walk.
var SkipChildren = errors.New("skip children") //nolint:errname,revive // Control value, not a failure

// errStopWalk ends a walk early without reporting an error.
var errStopWalk = errors.New("stop walk")

// WalkFunc is called for each node. A non-nil error other than SkipChildren
// stops the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal starting at root.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}
	if err := walkFunc(root); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for child := root.FirstChild; child != nil; {
		// Read Next first so walkFunc may detach the child.
		next := child.Next
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
		child = next
	}
	return nil
}

// WalkWithContext calls enter before and leave after a node's children.
// Either callback may be nil.
func WalkWithContext(root *Node, enter, leave WalkFunc) error {
	if root == nil {
		return nil
	}
	if enter != nil {
		if err := enter(root); err != nil {
			if !errors.Is(err, SkipChildren) {
				return err
			}
			if leave != nil {
				return leave(root)
			}
			return nil
		}
	}
	for child := root.FirstChild; child != nil; child = child.Next {
		if err := WalkWithContext(child, enter, leave); err != nil {
			return err
		}
	}
	if leave != nil {
		return leave(root)
	}
	return nil
}

// WalkBlocks walks the block-level nodes, skipping inline content.
func WalkBlocks(root *Node, fn WalkFunc) error {
	return Walk(root, func(n *Node) error {
		if !n.IsBlock() {
			return SkipChildren
		}
		return fn(n)
	})
}

// WalkInlines walks only inline-level nodes.
func WalkInlines(root *Node, fn WalkFunc) error {
	return Walk(root, func(n *Node) error {
		if n.IsInline() {
			return fn(n)
		}
		return nil
	})
}

// FindAll returns all nodes matching the predicate in document order.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node
	_ = Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})
	return result
}

// FindFirst returns the first node matching the predicate, or nil.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node
	_ = Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})
	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind == kind
	})
}
