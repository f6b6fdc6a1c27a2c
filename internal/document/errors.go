package document

import "fmt"

// BuildError reports a schema-shape mismatch between a section's declared
// shape and the JSON value actually found while building the tree.
type BuildError struct {
	Section string
	Msg     string
}

func (e *BuildError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("build error: %s", e.Msg)
	}
	return fmt.Sprintf("build error in section %q: %s", e.Section, e.Msg)
}

// SerializeError reports a node whose current structure cannot satisfy its
// declared shape. Path identifies the offending node from the root.
type SerializeError struct {
	Path string
	Msg  string
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("serialize error at %s: %s", e.Path, e.Msg)
}

// ReorderError reports an invalid move: out-of-range indices or an attempt
// to move a node into itself or a descendant.
type ReorderError struct {
	Msg string
}

func (e *ReorderError) Error() string {
	return fmt.Sprintf("reorder error: %s", e.Msg)
}

// InvalidOperationError reports a contract violation by the caller, such as
// toggling the annotation of a non-leaf node or reusing a Builder.
type InvalidOperationError struct {
	Op  string
	Msg string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation %q: %s", e.Op, e.Msg)
}
