package document

import "fmt"

// MoveChild removes the child at index from and reinserts it at index to,
// then renumbers every sibling so positions stay a contiguous permutation.
// The rewrite happens in one step under the single-writer discipline, so no
// observer sees duplicate or gapped positions.
func (n *Node) MoveChild(from, to int) error {
	count := len(n.children)
	if from < 0 || from >= count {
		return &ReorderError{Msg: fmt.Sprintf("source index %d out of range [0,%d)", from, count)}
	}
	if to < 0 || to >= count {
		return &ReorderError{Msg: fmt.Sprintf("target index %d out of range [0,%d)", to, count)}
	}
	if from == to {
		return nil
	}

	c := n.children[from]
	n.children = append(n.children[:from], n.children[from+1:]...)

	rest := make([]*Node, 0, count)
	rest = append(rest, n.children[:to]...)
	rest = append(rest, c)
	rest = append(rest, n.children[to:]...)
	n.children = rest

	n.renumber()
	return nil
}

// Reparent detaches node from its current parent and inserts it into
// newParent's children at index at. Moving a node into itself or into one of
// its own descendants is rejected.
func Reparent(node, newParent *Node, at int) error {
	if node.parent == nil {
		return &ReorderError{Msg: "cannot reparent the root node"}
	}
	if node.IsAncestorOf(newParent) {
		return &ReorderError{Msg: fmt.Sprintf("cannot move %s into itself or a descendant", node.Path())}
	}
	if at < 0 || at > len(newParent.children) {
		return &ReorderError{Msg: fmt.Sprintf("insert index %d out of range [0,%d]", at, len(newParent.children))}
	}

	// A same-parent reparent is just a reorder; removing the node first would
	// shift the insert index, so hand it to MoveChild with the index adjusted
	// for the slot the node vacates.
	if node.parent == newParent {
		to := at
		if to > node.Position {
			to--
		}
		return newParent.MoveChild(node.Position, to)
	}

	old := node.parent
	for i, c := range old.children {
		if c == node {
			old.children = append(old.children[:i], old.children[i+1:]...)
			break
		}
	}
	old.renumber()

	children := make([]*Node, 0, len(newParent.children)+1)
	children = append(children, newParent.children[:at]...)
	children = append(children, node)
	children = append(children, newParent.children[at:]...)
	newParent.children = children
	node.parent = newParent
	newParent.renumber()
	return nil
}
