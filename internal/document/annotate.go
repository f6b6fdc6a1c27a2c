package document

// Annotation is the per-leaf AI-rewrite state.
type Annotation int

const (
	// AnnotationNone marks an untouched field.
	AnnotationNone Annotation = iota
	// AnnotationQueued marks a field queued for AI-assisted rewriting.
	AnnotationQueued
	// AnnotationConfirmed marks a field the AI rewrote and the user accepted.
	AnnotationConfirmed
)

// String returns the wire name of the annotation state.
func (a Annotation) String() string {
	switch a {
	case AnnotationNone:
		return "none"
	case AnnotationQueued:
		return "queued"
	case AnnotationConfirmed:
		return "confirmed"
	}
	return "unknown"
}

// ParseAnnotation maps a wire name back to an annotation state.
func ParseAnnotation(s string) (Annotation, error) {
	switch s {
	case "none":
		return AnnotationNone, nil
	case "queued":
		return AnnotationQueued, nil
	case "confirmed":
		return AnnotationConfirmed, nil
	}
	return AnnotationNone, &InvalidOperationError{Op: "parse-annotation", Msg: "unknown annotation state " + s}
}

// next advances the user-driven toggle cycle None → Queued → Confirmed → None.
func (a Annotation) next() Annotation {
	switch a {
	case AnnotationNone:
		return AnnotationQueued
	case AnnotationQueued:
		return AnnotationConfirmed
	default:
		return AnnotationNone
	}
}

// ToggleAnnotation advances a leaf to the next annotation state. Toggling a
// container is a caller contract violation.
func (n *Node) ToggleAnnotation() error {
	if !n.IsLeaf() {
		return &InvalidOperationError{Op: "toggle", Msg: "annotation toggled on non-leaf node " + n.Path()}
	}
	n.Annotation = n.Annotation.next()
	return nil
}

// MarkAllDescendants sets every leaf in the subtree (the node included, if
// it is a leaf) to the given state in one batch.
func (n *Node) MarkAllDescendants(a Annotation) {
	n.Walk(func(node *Node) bool {
		if node.IsLeaf() {
			node.Annotation = a
		}
		return true
	})
}

// QueuedCount derives the number of descendant leaves currently queued for
// rewrite. It is computed by traversal on every call so it can never go
// stale relative to the leaf states.
func (n *Node) QueuedCount() int {
	count := 0
	n.Walk(func(node *Node) bool {
		if node.IsLeaf() && node.Annotation == AnnotationQueued {
			count++
		}
		return true
	})
	return count
}
