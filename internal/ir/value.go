// Package ir provides the order-preserving generic JSON value tree shared by
// the decoder, the document builder, and the serializer.
package ir

import "strconv"

// Kind identifies which variant of the Value union is populated.
type Kind int

const (
	// NullKind is the JSON null literal.
	NullKind Kind = iota
	// BoolKind is a JSON true/false literal.
	BoolKind
	// NumberKind is a JSON number, held as a float64.
	NumberKind
	// StringKind is a JSON string.
	StringKind
	// ArrayKind is an ordered JSON array.
	ArrayKind
	// ObjectKind is a JSON object whose member order is the order keys
	// first appeared in the source text.
	ObjectKind
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case ObjectKind:
		return "object"
	}
	return "unknown"
}

// Member is one key/value pair of an object. Keys within one object are
// unique; the decoder rejects duplicates.
type Member struct {
	Key   string
	Value *Value
}

// Value is a closed tagged union over the JSON grammar. Exactly the field
// selected by Kind is meaningful.
type Value struct {
	Kind    Kind
	Bool    bool
	Number  float64
	Str     string
	Items   []*Value // ArrayKind
	Members []Member // ObjectKind, insertion order preserved
}

// Null returns a null value.
func Null() *Value {
	return &Value{Kind: NullKind}
}

// FromBool returns a bool value.
func FromBool(b bool) *Value {
	return &Value{Kind: BoolKind, Bool: b}
}

// FromNumber returns a number value.
func FromNumber(f float64) *Value {
	return &Value{Kind: NumberKind, Number: f}
}

// FromString returns a string value.
func FromString(s string) *Value {
	return &Value{Kind: StringKind, Str: s}
}

// NewArray returns an array value holding the given items.
func NewArray(items ...*Value) *Value {
	return &Value{Kind: ArrayKind, Items: items}
}

// NewObject returns an empty object value.
func NewObject() *Value {
	return &Value{Kind: ObjectKind}
}

// Set appends a member, or replaces the value of an existing key in place so
// member order is unaffected by updates.
func (v *Value) Set(key string, val *Value) {
	for i := range v.Members {
		if v.Members[i].Key == key {
			v.Members[i].Value = val
			return
		}
	}
	v.Members = append(v.Members, Member{Key: key, Value: val})
}

// Get returns the member value for key, or nil if the key is absent or the
// value is not an object.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != ObjectKind {
		return nil
	}
	for i := range v.Members {
		if v.Members[i].Key == key {
			return v.Members[i].Value
		}
	}
	return nil
}

// Has reports whether an object value contains the key.
func (v *Value) Has(key string) bool {
	return v.Get(key) != nil
}

// Keys returns the object's keys in member order.
func (v *Value) Keys() []string {
	if v == nil || v.Kind != ObjectKind {
		return nil
	}
	keys := make([]string, len(v.Members))
	for i := range v.Members {
		keys[i] = v.Members[i].Key
	}
	return keys
}

// IsScalar reports whether the value is a leaf of the JSON grammar
// (null, bool, number, or string).
func (v *Value) IsScalar() bool {
	switch v.Kind {
	case NullKind, BoolKind, NumberKind, StringKind:
		return true
	}
	return false
}

// Text returns the string rendering of a scalar value used when a JSON leaf
// becomes a document field: strings pass through, numbers and bools are
// stringified, null becomes the empty string. Non-scalars return "".
func (v *Value) Text() string {
	switch v.Kind {
	case StringKind:
		return v.Str
	case NumberKind:
		return FormatNumber(v.Number)
	case BoolKind:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

// FormatNumber renders a float as a fixed-point string with no
// locale-dependent formatting and no exponent for the magnitudes a résumé
// document carries (font sizes, years, spacing values).
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
