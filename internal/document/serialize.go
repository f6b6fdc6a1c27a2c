package document

import (
	"fmt"
	"strconv"

	"github.com/jonathan/resume-studio/internal/encode"
	"github.com/jonathan/resume-studio/internal/ir"
	"github.com/jonathan/resume-studio/internal/schema"
)

// Serialize renders the document tree back to JSON text. It is the
// structural inverse of Build: each section re-emits through the same shape
// decision the builder recorded, so an unedited document reproduces the
// structure it was decoded from. Sections that cannot satisfy their shape
// abort the whole serialization; no partial output is ever returned.
func Serialize(root *Node) (string, error) {
	v, err := toValue(root)
	if err != nil {
		return "", err
	}
	return encode.Encode(v)
}

// ToValue converts the document tree into the generic value representation
// without rendering text. Exposed for collaborators that re-ingest the
// structure directly.
func ToValue(root *Node) (*ir.Value, error) {
	return toValue(root)
}

func toValue(root *Node) (*ir.Value, error) {
	out := ir.NewObject()
	for _, sec := range root.children {
		v, err := serializeSection(sec)
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, ir.Member{Key: sec.Name, Value: v})
	}
	return out, nil
}

func serializeSection(sec *Node) (*ir.Value, error) {
	shape := sec.sectionShape()
	switch shape.Kind {
	case schema.Scalar:
		if !sec.IsLeaf() {
			return nil, &SerializeError{Path: sec.Path(), Msg: "scalar section has children"}
		}
		return ir.FromString(sec.Value), nil

	case schema.OrderedObject:
		if sec.IsLeaf() && sec.Value != "" {
			return nil, &SerializeError{Path: sec.Path(), Msg: "ordered-object section holds a bare value"}
		}
		return serializeObject(sec)

	case schema.HomogeneousArray:
		if sec.IsLeaf() && sec.Value != "" {
			return nil, &SerializeError{Path: sec.Path(), Msg: "array section holds a bare value"}
		}
		return serializeArray(sec)

	case schema.PairedKeyArray:
		arr := &ir.Value{Kind: ir.ArrayKind}
		for _, entry := range sec.children {
			v, err := serializePairedEntry(shape, entry)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, v)
		}
		return arr, nil

	case schema.NumericTable:
		obj := ir.NewObject()
		for _, leaf := range sec.children {
			if !leaf.IsLeaf() {
				return nil, &SerializeError{Path: leaf.Path(), Msg: "numeric-table entry has children"}
			}
			f, err := strconv.ParseFloat(leaf.Value, 64)
			if err != nil {
				return nil, &SerializeError{Path: leaf.Path(), Msg: fmt.Sprintf("value %q is not numeric", leaf.Value)}
			}
			obj.Members = append(obj.Members, ir.Member{Key: leaf.Name, Value: ir.FromNumber(f)})
		}
		return obj, nil
	}
	return nil, &SerializeError{Path: sec.Path(), Msg: "section has no resolvable shape"}
}

// serializeObject emits a node's children as an ordered JSON object.
func serializeObject(n *Node) (*ir.Value, error) {
	obj := ir.NewObject()
	for _, c := range n.children {
		v, err := serializeNested(c)
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, ir.Member{Key: c.Name, Value: v})
	}
	return obj, nil
}

// serializeNested emits one named node inside an object: containers become
// the construct they were built from, leaves become strings.
func serializeNested(n *Node) (*ir.Value, error) {
	switch n.kind {
	case containerObject:
		return serializeObject(n)
	case containerArray:
		return serializeArray(n)
	default:
		if !n.IsLeaf() {
			return serializeObject(n)
		}
		return ir.FromString(n.Value), nil
	}
}

// serializeArray emits a node's children as a JSON array of entries.
func serializeArray(n *Node) (*ir.Value, error) {
	arr := &ir.Value{Kind: ir.ArrayKind}
	for _, entry := range n.children {
		v, err := serializeEntry(entry)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, v)
	}
	return arr, nil
}

// serializeEntry emits one array element. Entries that were named by a
// title-like key put that key back first, preserving the original member
// order of the source document.
func serializeEntry(n *Node) (*ir.Value, error) {
	if n.kind == containerArray {
		return serializeArray(n)
	}
	if n.IsLeaf() && n.kind != containerObject && n.Name == "" {
		return ir.FromString(n.Value), nil
	}

	obj := ir.NewObject()
	if n.NameKey != "" {
		obj.Members = append(obj.Members, ir.Member{Key: n.NameKey, Value: ir.FromString(n.Name)})
	} else if n.Name != "" {
		// Hand-created entries that were never bound to a source key emit
		// their label under "name".
		obj.Members = append(obj.Members, ir.Member{Key: "name", Value: ir.FromString(n.Name)})
	}
	for _, c := range n.children {
		v, err := serializeNested(c)
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, ir.Member{Key: c.Name, Value: v})
	}
	return obj, nil
}

func serializePairedEntry(shape schema.Shape, entry *Node) (*ir.Value, error) {
	if len(entry.children) != 1 {
		return nil, &SerializeError{
			Path: entry.Path(),
			Msg:  fmt.Sprintf("paired-key entry must carry exactly one %q child, has %d children", shape.KeyTwo, len(entry.children)),
		}
	}
	leaf := entry.children[0]
	if !leaf.IsLeaf() {
		return nil, &SerializeError{Path: leaf.Path(), Msg: "paired-key value must be a leaf"}
	}
	obj := ir.NewObject()
	obj.Members = append(obj.Members, ir.Member{Key: shape.KeyOne, Value: ir.FromString(entry.Name)})
	obj.Members = append(obj.Members, ir.Member{Key: shape.KeyTwo, Value: ir.FromString(leaf.Value)})
	return obj, nil
}
