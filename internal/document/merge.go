package document

import (
	"fmt"

	"github.com/jonathan/resume-studio/internal/ir"
	"github.com/jonathan/resume-studio/internal/schema"
)

// ApplyRewrite re-ingests an AI-rewritten fragment of the same shape as the
// queued sub-document produced by SerializeQueued. Only leaves that are
// currently queued may be touched; each successfully merged leaf transitions
// to Confirmed. On any error the tree is left as it was: the fragment is
// validated and resolved to concrete leaves before the first mutation.
func ApplyRewrite(root *Node, fragment *ir.Value) error {
	if fragment == nil || fragment.Kind != ir.ObjectKind {
		return &BuildError{Msg: "rewrite fragment must be a JSON object"}
	}

	var updates []leafUpdate
	for i := range fragment.Members {
		m := fragment.Members[i]
		sec := root.Child(m.Key)
		if sec == nil {
			return &BuildError{Section: m.Key, Msg: "fragment names a section the document does not have"}
		}
		us, err := resolveSection(sec, m.Value)
		if err != nil {
			return err
		}
		updates = append(updates, us...)
	}

	for _, u := range updates {
		u.node.Value = u.value
		u.node.Annotation = AnnotationConfirmed
	}
	return nil
}

// leafUpdate is a resolved, validated pending mutation.
type leafUpdate struct {
	node  *Node
	value string
}

func resolveSection(sec *Node, val *ir.Value) ([]leafUpdate, error) {
	shape := sec.sectionShape()
	switch shape.Kind {
	case schema.Scalar:
		if !val.IsScalar() {
			return nil, &BuildError{Section: sec.Name, Msg: fmt.Sprintf("scalar section rewritten as %s", val.Kind)}
		}
		u, err := resolveLeaf(sec, val.Text())
		if err != nil {
			return nil, err
		}
		return []leafUpdate{u}, nil

	case schema.NumericTable:
		if val.Kind != ir.ObjectKind {
			return nil, &BuildError{Section: sec.Name, Msg: fmt.Sprintf("numeric-table section rewritten as %s", val.Kind)}
		}
		var updates []leafUpdate
		for i := range val.Members {
			m := val.Members[i]
			leaf := sec.Child(m.Key)
			if leaf == nil {
				return nil, &BuildError{Section: sec.Name, Msg: fmt.Sprintf("fragment names unknown table entry %q", m.Key)}
			}
			if m.Value.Kind != ir.NumberKind {
				return nil, &BuildError{Section: sec.Name, Msg: fmt.Sprintf("table entry %q rewritten as %s, want number", m.Key, m.Value.Kind)}
			}
			u, err := resolveLeaf(leaf, ir.FormatNumber(m.Value.Number))
			if err != nil {
				return nil, err
			}
			updates = append(updates, u)
		}
		return updates, nil

	case schema.PairedKeyArray:
		if val.Kind != ir.ArrayKind {
			return nil, &BuildError{Section: sec.Name, Msg: fmt.Sprintf("paired-key section rewritten as %s", val.Kind)}
		}
		var updates []leafUpdate
		for i, item := range val.Items {
			one := item.Get(shape.KeyOne)
			two := item.Get(shape.KeyTwo)
			if one == nil || two == nil {
				return nil, &BuildError{Section: sec.Name, Msg: fmt.Sprintf("fragment element %d missing %q or %q", i, shape.KeyOne, shape.KeyTwo)}
			}
			entry := sec.Child(one.Text())
			if entry == nil || len(entry.children) != 1 {
				return nil, &BuildError{Section: sec.Name, Msg: fmt.Sprintf("fragment element %q does not match a paired entry", one.Text())}
			}
			u, err := resolveLeaf(entry.children[0], two.Text())
			if err != nil {
				return nil, err
			}
			updates = append(updates, u)
		}
		return updates, nil

	case schema.HomogeneousArray:
		return resolveArray(sec, val)

	default:
		return resolveObject(sec, val)
	}
}

func resolveObject(node *Node, val *ir.Value) ([]leafUpdate, error) {
	if val.Kind != ir.ObjectKind {
		return nil, &BuildError{Section: node.Path(), Msg: fmt.Sprintf("object node rewritten as %s", val.Kind)}
	}
	var updates []leafUpdate
	for i := range val.Members {
		m := val.Members[i]
		child := node.Child(m.Key)
		if child == nil {
			return nil, &BuildError{Section: node.Path(), Msg: fmt.Sprintf("fragment names unknown field %q", m.Key)}
		}
		switch m.Value.Kind {
		case ir.ObjectKind:
			us, err := resolveObject(child, m.Value)
			if err != nil {
				return nil, err
			}
			updates = append(updates, us...)
		case ir.ArrayKind:
			us, err := resolveArray(child, m.Value)
			if err != nil {
				return nil, err
			}
			updates = append(updates, us...)
		default:
			u, err := resolveLeaf(child, m.Value.Text())
			if err != nil {
				return nil, err
			}
			updates = append(updates, u)
		}
	}
	return updates, nil
}

// resolveArray matches fragment elements back to array entries: object
// elements by their naming key, bare strings positionally against the queued
// anonymous leaves in order.
func resolveArray(node *Node, val *ir.Value) ([]leafUpdate, error) {
	if val.Kind != ir.ArrayKind {
		return nil, &BuildError{Section: node.Path(), Msg: fmt.Sprintf("array node rewritten as %s", val.Kind)}
	}
	var updates []leafUpdate

	var queuedLeaves []*Node
	for _, c := range node.children {
		if c.IsLeaf() && c.Name == "" && c.Annotation == AnnotationQueued {
			queuedLeaves = append(queuedLeaves, c)
		}
	}
	leafCursor := 0

	for i, item := range val.Items {
		switch item.Kind {
		case ir.ObjectKind:
			nameKey := schema.EntryNameKey(item)
			if nameKey == "" {
				return nil, &BuildError{Section: node.Path(), Msg: fmt.Sprintf("fragment element %d has no naming key", i)}
			}
			entry := node.Child(item.Get(nameKey).Text())
			if entry == nil {
				return nil, &BuildError{Section: node.Path(), Msg: fmt.Sprintf("fragment element %q does not match an entry", item.Get(nameKey).Text())}
			}
			inner := ir.NewObject()
			for j := range item.Members {
				if item.Members[j].Key == nameKey {
					continue
				}
				inner.Members = append(inner.Members, item.Members[j])
			}
			us, err := resolveObject(entry, inner)
			if err != nil {
				return nil, err
			}
			updates = append(updates, us...)
		case ir.ArrayKind:
			return nil, &BuildError{Section: node.Path(), Msg: fmt.Sprintf("fragment element %d is a nested array", i)}
		default:
			if leafCursor >= len(queuedLeaves) {
				return nil, &BuildError{Section: node.Path(), Msg: "fragment has more plain entries than queued leaves"}
			}
			u, err := resolveLeaf(queuedLeaves[leafCursor], item.Text())
			if err != nil {
				return nil, err
			}
			updates = append(updates, u)
			leafCursor++
		}
	}
	return updates, nil
}

func resolveLeaf(node *Node, text string) (leafUpdate, error) {
	if !node.IsLeaf() {
		return leafUpdate{}, &BuildError{Section: node.Path(), Msg: "fragment rewrites a non-leaf node"}
	}
	if node.Annotation != AnnotationQueued {
		return leafUpdate{}, &InvalidOperationError{Op: "rewrite", Msg: "node " + node.Path() + " is not queued for rewrite"}
	}
	return leafUpdate{node: node, value: text}, nil
}
