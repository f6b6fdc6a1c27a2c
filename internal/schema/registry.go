// Package schema declares the structural shape of every known résumé
// section. The table is compiled in, not loaded from configuration: section
// names are a fixed, reviewed vocabulary, and adding one is a code change.
package schema

import "github.com/jonathan/resume-studio/internal/ir"

// Kind is the declared structural pattern for a section key's value.
type Kind int

const (
	// Scalar is a single string/number/bool value.
	Scalar Kind = iota
	// OrderedObject is a nested object whose member order is meaningful.
	OrderedObject
	// HomogeneousArray is an array of like-shaped entries (jobs, schools,
	// projects), each optionally named by a title-like key.
	HomogeneousArray
	// PairedKeyArray is an array of two-field records, e.g. a publication
	// keyed by name and year.
	PairedKeyArray
	// NumericTable is an object of numeric values (font sizes, spacing).
	NumericTable
)

// String returns a human-readable name for the shape kind.
func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case OrderedObject:
		return "ordered-object"
	case HomogeneousArray:
		return "homogeneous-array"
	case PairedKeyArray:
		return "paired-key-array"
	case NumericTable:
		return "numeric-table"
	}
	return "unknown"
}

// Shape is a section's declared pattern. KeyOne/KeyTwo are only meaningful
// for PairedKeyArray and name the two record fields in emission order.
type Shape struct {
	Kind   Kind
	KeyOne string
	KeyTwo string
}

// sections is the closed vocabulary of résumé section keys.
var sections = map[string]Shape{
	"basics":  {Kind: OrderedObject},
	"contact": {Kind: OrderedObject},

	"summary":   {Kind: Scalar},
	"objective": {Kind: Scalar},
	"headline":  {Kind: Scalar},

	"experience":     {Kind: HomogeneousArray},
	"education":      {Kind: HomogeneousArray},
	"projects":       {Kind: HomogeneousArray},
	"skills":         {Kind: HomogeneousArray},
	"certifications": {Kind: HomogeneousArray},
	"volunteer":      {Kind: HomogeneousArray},

	"publications": {Kind: PairedKeyArray, KeyOne: "name", KeyTwo: "year"},
	"languages":    {Kind: PairedKeyArray, KeyOne: "language", KeyTwo: "fluency"},
	"awards":       {Kind: PairedKeyArray, KeyOne: "title", KeyTwo: "year"},

	"font_sizes":      {Kind: NumericTable},
	"section_spacing": {Kind: NumericTable},
}

// nameKeys are the keys, in precedence order, that name an entry of a
// homogeneous array section.
var nameKeys = []string{"title", "name", "company", "institution", "school", "label"}

// ShapeFor returns the declared shape for a section key. Unrecognized keys
// default to Scalar; builders that want structure-aware fallback use
// Classify instead.
func ShapeFor(key string) Shape {
	if s, ok := sections[key]; ok {
		return s
	}
	return Shape{Kind: Scalar}
}

// Known reports whether key is part of the compiled vocabulary.
func Known(key string) bool {
	_, ok := sections[key]
	return ok
}

// Classify resolves the shape for a section key given its actual value.
// Known keys use the registry; unknown keys degrade gracefully through a
// structural heuristic instead of failing the whole build:
//
//   - an array whose elements are all objects → HomogeneousArray
//   - any other array → HomogeneousArray (elements become plain leaves)
//   - an object → OrderedObject
//   - anything else → Scalar
func Classify(key string, v *ir.Value) Shape {
	if s, ok := sections[key]; ok {
		return s
	}
	switch v.Kind {
	case ir.ArrayKind:
		return Shape{Kind: HomogeneousArray}
	case ir.ObjectKind:
		return Shape{Kind: OrderedObject}
	default:
		return Shape{Kind: Scalar}
	}
}

// EntryNameKey returns the title-like key naming an array entry object, or
// "" if the entry carries none.
func EntryNameKey(entry *ir.Value) string {
	for _, k := range nameKeys {
		if entry.Has(k) {
			return k
		}
	}
	return ""
}
