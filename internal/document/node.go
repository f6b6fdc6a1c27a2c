// Package document implements the in-memory résumé tree: schema-guided
// construction from decoded JSON, the inverse serializer, the per-leaf
// AI-rewrite annotation engine, and index-stable sibling reordering.
package document

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/schema"
)

// containerKind records whether a non-leaf node originated from a JSON
// object or array, so the serializer reproduces the construct the builder
// consumed.
type containerKind int

const (
	containerAuto containerKind = iota
	containerObject
	containerArray
)

// Node is one entry of the hierarchical résumé document. A leaf carries a
// string value; a container owns an ordered list of children. Position is
// always a contiguous 0-based index among siblings.
type Node struct {
	ID         uuid.UUID
	Name       string
	Value      string
	Position   int
	Annotation Annotation

	// NameKey is the JSON key that supplied Name for a homogeneous-array
	// entry ("title", "company", ...). Empty for every other node.
	NameKey string

	children []*Node
	parent   *Node

	// shape is the shape decision the builder made for a section-level
	// node; zero for nested nodes. shapeSet distinguishes "decided" from
	// "infer on demand" for nodes created by interactive edits.
	shape    schema.Shape
	shapeSet bool
	kind     containerKind
}

// NewNode creates a detached node with a fresh stable ID.
func NewNode(name string) *Node {
	return &Node{ID: uuid.New(), Name: name}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// ChildAt returns the child at index i, or nil if out of range.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns a copy of the ordered child list. Mutating the returned
// slice does not affect the tree.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ForEachChild calls fn for every child in position order.
func (n *Node) ForEachChild(fn func(child *Node)) {
	for _, c := range n.children {
		fn(c)
	}
}

// Walk visits the node and its descendants in depth-first preorder. fn
// returning false prunes the subtree below the visited node.
func (n *Node) Walk(fn func(node *Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Child returns the first child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindByID locates a node in the subtree by its stable ID, or nil.
func (n *Node) FindByID(id uuid.UUID) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// Root walks the parent chain to the traversal anchor.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// IsAncestorOf reports whether n is other or one of other's ancestors.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Path renders the node's location from the root for diagnostics, using
// names where present and sibling indices where not.
func (n *Node) Path() string {
	if n.parent == nil {
		return "(root)"
	}
	var parts []string
	for p := n; p.parent != nil; p = p.parent {
		label := p.Name
		if label == "" {
			label = fmt.Sprintf("[%d]", p.Position)
		}
		parts = append(parts, label)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// AddChild appends a detached node to the child list, assigning its
// position. Adding a node that is already attached, or that is an ancestor
// of the receiver, is an error.
func (n *Node) AddChild(c *Node) error {
	if c.parent != nil {
		return &InvalidOperationError{Op: "add-child", Msg: fmt.Sprintf("node %q is already attached", c.Name)}
	}
	if c.IsAncestorOf(n) {
		return &InvalidOperationError{Op: "add-child", Msg: "node cannot be added beneath itself"}
	}
	c.parent = n
	c.Position = len(n.children)
	n.children = append(n.children, c)
	return nil
}

// RemoveChild detaches and returns the child at index i. The detached
// subtree keeps its internal structure but loses its back-reference into the
// tree; remaining siblings are renumbered to stay contiguous.
func (n *Node) RemoveChild(i int) (*Node, error) {
	if i < 0 || i >= len(n.children) {
		return nil, &InvalidOperationError{Op: "remove-child", Msg: fmt.Sprintf("index %d out of range [0,%d)", i, len(n.children))}
	}
	c := n.children[i]
	n.children = append(n.children[:i], n.children[i+1:]...)
	c.parent = nil
	c.Position = 0
	n.renumber()
	return c, nil
}

// renumber rewrites every child's position to its current index.
func (n *Node) renumber() {
	for i, c := range n.children {
		c.Position = i
	}
}

// addChild is the builder-internal append path; it assumes c is detached.
func (n *Node) addChild(c *Node) {
	c.parent = n
	c.Position = len(n.children)
	n.children = append(n.children, c)
}

// sectionShape returns the shape decision for a section-level node: the one
// recorded at build time if any, the registry entry for known names, and a
// structural inference for hand-created unknown sections.
func (n *Node) sectionShape() schema.Shape {
	if n.shapeSet {
		return n.shape
	}
	if schema.Known(n.Name) {
		return schema.ShapeFor(n.Name)
	}
	if n.IsLeaf() {
		return schema.Shape{Kind: schema.Scalar}
	}
	if n.kind == containerArray {
		return schema.Shape{Kind: schema.HomogeneousArray}
	}
	return schema.Shape{Kind: schema.OrderedObject}
}
