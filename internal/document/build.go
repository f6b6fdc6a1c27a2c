package document

import (
	"fmt"

	"github.com/jonathan/resume-studio/internal/ir"
	"github.com/jonathan/resume-studio/internal/schema"
)

// Builder constructs a document tree from a decoded JSON value. A Builder is
// single-use: building twice with the same instance is a caller contract
// violation and fails loudly instead of mutating a half-built tree.
type Builder struct {
	built bool
}

// NewBuilder returns a fresh single-use builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildDocument decodes a value tree into a document with a one-shot builder.
func BuildDocument(v *ir.Value) (*Node, error) {
	return NewBuilder().Build(v)
}

// Build walks the top-level members of v in source order, classifies each
// section key through the schema registry, and produces the document tree.
// Every created node gets its sibling index as Position and starts with
// AnnotationNone.
func (b *Builder) Build(v *ir.Value) (*Node, error) {
	if b.built {
		return nil, &InvalidOperationError{Op: "build", Msg: "builder has already produced a document"}
	}
	if v == nil || v.Kind != ir.ObjectKind {
		return nil, &BuildError{Msg: "top-level JSON value must be an object"}
	}
	b.built = true

	root := NewNode("")
	for i := range v.Members {
		sec, err := buildSection(v.Members[i].Key, v.Members[i].Value)
		if err != nil {
			return nil, err
		}
		root.addChild(sec)
	}
	return root, nil
}

func buildSection(key string, val *ir.Value) (*Node, error) {
	shape := schema.Classify(key, val)
	sec := NewNode(key)
	sec.shape = shape
	sec.shapeSet = true

	switch shape.Kind {
	case schema.Scalar:
		if !val.IsScalar() {
			return nil, &BuildError{Section: key, Msg: fmt.Sprintf("declared scalar but value is %s", val.Kind)}
		}
		sec.Value = val.Text()

	case schema.OrderedObject:
		if val.Kind != ir.ObjectKind {
			return nil, &BuildError{Section: key, Msg: fmt.Sprintf("declared ordered-object but value is %s", val.Kind)}
		}
		sec.kind = containerObject
		for i := range val.Members {
			if err := buildNested(sec, key, val.Members[i].Key, val.Members[i].Value); err != nil {
				return nil, err
			}
		}

	case schema.HomogeneousArray:
		if val.Kind != ir.ArrayKind {
			return nil, &BuildError{Section: key, Msg: fmt.Sprintf("declared homogeneous-array but value is %s", val.Kind)}
		}
		sec.kind = containerArray
		for _, item := range val.Items {
			if err := buildEntry(sec, key, item); err != nil {
				return nil, err
			}
		}

	case schema.PairedKeyArray:
		if val.Kind != ir.ArrayKind {
			return nil, &BuildError{Section: key, Msg: fmt.Sprintf("declared paired-key-array but value is %s", val.Kind)}
		}
		sec.kind = containerArray
		for i, item := range val.Items {
			entry, err := buildPairedEntry(key, shape, i, item)
			if err != nil {
				return nil, err
			}
			sec.addChild(entry)
		}

	case schema.NumericTable:
		if val.Kind != ir.ObjectKind {
			return nil, &BuildError{Section: key, Msg: fmt.Sprintf("declared numeric-table but value is %s", val.Kind)}
		}
		sec.kind = containerObject
		for i := range val.Members {
			m := val.Members[i]
			if m.Value.Kind != ir.NumberKind {
				return nil, &BuildError{Section: key, Msg: fmt.Sprintf("numeric-table entry %q is %s, want number", m.Key, m.Value.Kind)}
			}
			leaf := NewNode(m.Key)
			leaf.Value = ir.FormatNumber(m.Value.Number)
			sec.addChild(leaf)
		}
	}
	return sec, nil
}

// buildNested attaches one named value inside an ordered object: scalars
// become leaves, objects and arrays become containers, preserving source
// order throughout.
func buildNested(parent *Node, section, name string, val *ir.Value) error {
	switch val.Kind {
	case ir.ObjectKind:
		child := NewNode(name)
		child.kind = containerObject
		parent.addChild(child)
		for i := range val.Members {
			if err := buildNested(child, section, val.Members[i].Key, val.Members[i].Value); err != nil {
				return err
			}
		}
	case ir.ArrayKind:
		child := NewNode(name)
		child.kind = containerArray
		parent.addChild(child)
		for _, item := range val.Items {
			if err := buildEntry(child, section, item); err != nil {
				return err
			}
		}
	default:
		child := NewNode(name)
		child.Value = val.Text()
		parent.addChild(child)
	}
	return nil
}

// buildEntry attaches one array element. Object elements with a title-like
// key are named by it and keep the remaining keys as children; bare scalars
// become anonymous leaves.
func buildEntry(parent *Node, section string, item *ir.Value) error {
	switch item.Kind {
	case ir.ObjectKind:
		nameKey := schema.EntryNameKey(item)
		entry := NewNode("")
		entry.kind = containerObject
		if nameKey != "" {
			entry.Name = item.Get(nameKey).Text()
			entry.NameKey = nameKey
		}
		parent.addChild(entry)
		for i := range item.Members {
			m := item.Members[i]
			if m.Key == nameKey {
				continue
			}
			if err := buildNested(entry, section, m.Key, m.Value); err != nil {
				return err
			}
		}
	case ir.ArrayKind:
		entry := NewNode("")
		entry.kind = containerArray
		parent.addChild(entry)
		for _, inner := range item.Items {
			if err := buildEntry(entry, section, inner); err != nil {
				return err
			}
		}
	default:
		leaf := NewNode("")
		leaf.Value = item.Text()
		parent.addChild(leaf)
	}
	return nil
}

// buildPairedEntry maps one two-field record: the value under the first
// registry key names the entry, the value under the second becomes its
// single grandchild leaf.
func buildPairedEntry(section string, shape schema.Shape, index int, item *ir.Value) (*Node, error) {
	if item.Kind != ir.ObjectKind {
		return nil, &BuildError{Section: section, Msg: fmt.Sprintf("paired-key element %d is %s, want object", index, item.Kind)}
	}
	one := item.Get(shape.KeyOne)
	two := item.Get(shape.KeyTwo)
	if one == nil || two == nil {
		return nil, &BuildError{Section: section, Msg: fmt.Sprintf("paired-key element %d missing key %q or %q", index, shape.KeyOne, shape.KeyTwo)}
	}
	if len(item.Members) != 2 {
		return nil, &BuildError{Section: section, Msg: fmt.Sprintf("paired-key element %d has keys beyond %q and %q", index, shape.KeyOne, shape.KeyTwo)}
	}

	entry := NewNode(one.Text())
	entry.kind = containerObject
	leaf := NewNode(shape.KeyTwo)
	leaf.Value = two.Text()
	entry.addChild(leaf)
	return entry, nil
}
