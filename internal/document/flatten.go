package document

import (
	"strconv"

	"github.com/jonathan/resume-studio/internal/schema"
)

// FlattenContext derives the read-only key→value view the template/export
// collaborator consumes, honoring the same shape classification the builder
// and serializer use. Scalars flatten to strings, object sections to nested
// maps, array sections to lists of entry maps, and numeric tables to
// key→float maps. The result shares no structure with the tree.
func FlattenContext(root *Node) map[string]any {
	ctx := make(map[string]any, len(root.children))
	for _, sec := range root.children {
		ctx[sec.Name] = flattenSection(sec)
	}
	return ctx
}

func flattenSection(sec *Node) any {
	shape := sec.sectionShape()
	switch shape.Kind {
	case schema.Scalar:
		return sec.Value
	case schema.NumericTable:
		table := make(map[string]float64, len(sec.children))
		for _, leaf := range sec.children {
			f, err := strconv.ParseFloat(leaf.Value, 64)
			if err != nil {
				continue
			}
			table[leaf.Name] = f
		}
		return table
	case schema.PairedKeyArray:
		entries := make([]map[string]string, 0, len(sec.children))
		for _, entry := range sec.children {
			m := map[string]string{shape.KeyOne: entry.Name}
			if len(entry.children) == 1 {
				m[shape.KeyTwo] = entry.children[0].Value
			}
			entries = append(entries, m)
		}
		return entries
	case schema.HomogeneousArray:
		return flattenArray(sec)
	default:
		return flattenObject(sec)
	}
}

func flattenObject(n *Node) map[string]any {
	m := make(map[string]any, len(n.children))
	for _, c := range n.children {
		m[c.Name] = flattenNested(c)
	}
	return m
}

func flattenNested(n *Node) any {
	if n.IsLeaf() && n.kind != containerObject && n.kind != containerArray {
		return n.Value
	}
	if n.kind == containerArray {
		return flattenArray(n)
	}
	return flattenObject(n)
}

func flattenArray(n *Node) []any {
	entries := make([]any, 0, len(n.children))
	for _, entry := range n.children {
		if entry.IsLeaf() && entry.kind != containerObject && entry.NameKey == "" && entry.Name == "" {
			entries = append(entries, entry.Value)
			continue
		}
		m := make(map[string]any, len(entry.children)+1)
		if entry.NameKey != "" {
			m[entry.NameKey] = entry.Name
		} else if entry.Name != "" {
			m["name"] = entry.Name
		}
		for _, c := range entry.children {
			m[c.Name] = flattenNested(c)
		}
		entries = append(entries, m)
	}
	return entries
}
