package document

import (
	"strconv"

	"github.com/jonathan/resume-studio/internal/encode"
	"github.com/jonathan/resume-studio/internal/ir"
	"github.com/jonathan/resume-studio/internal/schema"
)

// SerializeQueued renders the sub-document restricted to leaves queued for
// rewrite. Sections without queued leaves are omitted entirely; array
// entries keep their naming key so the rewritten fragment can be matched
// back to the originating nodes by ApplyRewrite.
func SerializeQueued(root *Node) (string, error) {
	v, err := QueuedValue(root)
	if err != nil {
		return "", err
	}
	return encode.Encode(v)
}

// QueuedValue builds the queued-only sub-document as a value tree.
func QueuedValue(root *Node) (*ir.Value, error) {
	out := ir.NewObject()
	for _, sec := range root.children {
		if sec.QueuedCount() == 0 {
			continue
		}
		v, err := queuedSection(sec)
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, ir.Member{Key: sec.Name, Value: v})
	}
	return out, nil
}

func queuedSection(sec *Node) (*ir.Value, error) {
	shape := sec.sectionShape()
	switch shape.Kind {
	case schema.Scalar:
		return ir.FromString(sec.Value), nil

	case schema.NumericTable:
		obj := ir.NewObject()
		for _, leaf := range sec.children {
			if leaf.Annotation != AnnotationQueued {
				continue
			}
			f, err := strconv.ParseFloat(leaf.Value, 64)
			if err != nil {
				return nil, &SerializeError{Path: leaf.Path(), Msg: "value " + strconv.Quote(leaf.Value) + " is not numeric"}
			}
			obj.Members = append(obj.Members, ir.Member{Key: leaf.Name, Value: ir.FromNumber(f)})
		}
		return obj, nil

	case schema.PairedKeyArray:
		arr := &ir.Value{Kind: ir.ArrayKind}
		for _, entry := range sec.children {
			if entry.QueuedCount() == 0 {
				continue
			}
			v, err := serializePairedEntry(shape, entry)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, v)
		}
		return arr, nil

	case schema.HomogeneousArray:
		return queuedArray(sec)

	default:
		return queuedObject(sec)
	}
}

func queuedObject(n *Node) (*ir.Value, error) {
	obj := ir.NewObject()
	for _, c := range n.children {
		if c.QueuedCount() == 0 {
			continue
		}
		var (
			v   *ir.Value
			err error
		)
		switch {
		case c.kind == containerArray:
			v, err = queuedArray(c)
		case c.IsLeaf() && c.kind != containerObject:
			v = ir.FromString(c.Value)
		default:
			v, err = queuedObject(c)
		}
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, ir.Member{Key: c.Name, Value: v})
	}
	return obj, nil
}

func queuedArray(n *Node) (*ir.Value, error) {
	arr := &ir.Value{Kind: ir.ArrayKind}
	for _, entry := range n.children {
		if entry.QueuedCount() == 0 {
			continue
		}
		if entry.IsLeaf() && entry.kind != containerObject && entry.Name == "" {
			arr.Items = append(arr.Items, ir.FromString(entry.Value))
			continue
		}
		obj := ir.NewObject()
		if entry.NameKey != "" {
			obj.Members = append(obj.Members, ir.Member{Key: entry.NameKey, Value: ir.FromString(entry.Name)})
		} else if entry.Name != "" {
			obj.Members = append(obj.Members, ir.Member{Key: "name", Value: ir.FromString(entry.Name)})
		}
		inner, err := queuedObject(entry)
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, inner.Members...)
		arr.Items = append(arr.Items, obj)
	}
	return arr, nil
}
