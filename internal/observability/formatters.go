// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-studio/internal/document"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintOutline outputs a human-readable summary of the document's sections
// with their child counts and queued-for-rewrite badges.
func (p *Printer) PrintOutline(root *document.Node) {
	if root == nil {
		return
	}

	var sb strings.Builder
	sections := root.Children()
	sb.WriteString(fmt.Sprintf("Sections: %d\n\n", len(sections)))

	count := min(len(sections), maxItemsToShow)
	for i := 0; i < count; i++ {
		sec := sections[i]
		label := sec.Name
		if label == "" {
			label = "(unnamed)"
		}
		sb.WriteString(fmt.Sprintf("• %s", label))
		if sec.IsLeaf() {
			value := sec.Value
			if len(value) > 30 {
				value = value[:27] + "..."
			}
			sb.WriteString(fmt.Sprintf(" = %q", value))
		} else {
			sb.WriteString(fmt.Sprintf(" (%d entries)", sec.ChildCount()))
		}
		if queued := sec.QueuedCount(); queued > 0 {
			sb.WriteString(fmt.Sprintf(" [%d queued]", queued))
		}
		sb.WriteString("\n")
	}

	if len(sections) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more sections", len(sections)-maxItemsToShow))
	}

	p.printBox("DOCUMENT OUTLINE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQueuedSummary outputs the fields currently queued for AI rewriting.
func (p *Printer) PrintQueuedSummary(root *document.Node) {
	if root == nil {
		return
	}

	var queued []*document.Node
	root.Walk(func(n *document.Node) bool {
		if n.IsLeaf() && n.Annotation == document.AnnotationQueued {
			queued = append(queued, n)
		}
		return true
	})

	if len(queued) == 0 {
		p.printBox("QUEUED FOR REWRITE", "No fields queued")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d fields queued:\n\n", len(queued)))

	count := min(len(queued), maxItemsToShow)
	for i := 0; i < count; i++ {
		path := queued[i].Path()
		if len(path) > 45 {
			path = path[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s\n", path))
	}

	if len(queued) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more fields", len(queued)-maxItemsToShow))
	}

	p.printBox("QUEUED FOR REWRITE", strings.TrimSuffix(sb.String(), "\n"))
}
