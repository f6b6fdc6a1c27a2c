package observability

import (
	"strings"
	"testing"

	"github.com/jonathan/resume-studio/internal/document"
	"github.com/jonathan/resume-studio/internal/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDoc(t *testing.T, input string) *document.Node {
	t.Helper()
	v, err := parse.Decode([]byte(input))
	require.NoError(t, err)
	doc, err := document.BuildDocument(v)
	require.NoError(t, err)
	return doc
}

func TestPrintOutline_ShowsSectionsAndCounts(t *testing.T) {
	doc := buildDoc(t, `{"summary":"Engineer","experience":[{"company":"A"},{"company":"B"}]}`)

	var sb strings.Builder
	NewPrinter(&sb).PrintOutline(doc)
	out := sb.String()

	assert.Contains(t, out, "DOCUMENT OUTLINE")
	assert.Contains(t, out, "Sections: 2")
	assert.Contains(t, out, "summary")
	assert.Contains(t, out, "experience (2 entries)")
}

func TestPrintOutline_ShowsQueuedBadge(t *testing.T) {
	doc := buildDoc(t, `{"experience":[{"company":"A","role":"Dev"}]}`)
	entry := doc.Child("experience").ChildAt(0)
	require.NoError(t, entry.Child("role").ToggleAnnotation())

	var sb strings.Builder
	NewPrinter(&sb).PrintOutline(doc)
	assert.Contains(t, sb.String(), "[1 queued]")
}

func TestPrintOutline_NilRootIsNoop(t *testing.T) {
	var sb strings.Builder
	NewPrinter(&sb).PrintOutline(nil)
	assert.Empty(t, sb.String())
}

func TestPrintQueuedSummary_ListsPaths(t *testing.T) {
	doc := buildDoc(t, `{"basics":{"name":"Ada"},"summary":"x"}`)
	require.NoError(t, doc.Child("basics").Child("name").ToggleAnnotation())

	var sb strings.Builder
	NewPrinter(&sb).PrintQueuedSummary(doc)
	out := sb.String()

	assert.Contains(t, out, "QUEUED FOR REWRITE")
	assert.Contains(t, out, "1 fields queued")
	assert.Contains(t, out, "basics/name")
}

func TestPrintQueuedSummary_EmptyQueue(t *testing.T) {
	doc := buildDoc(t, `{"summary":"x"}`)

	var sb strings.Builder
	NewPrinter(&sb).PrintQueuedSummary(doc)
	assert.Contains(t, sb.String(), "No fields queued")
}
