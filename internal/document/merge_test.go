package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyFragment(t *testing.T, doc *Node, fragment string) error {
	t.Helper()
	return ApplyRewrite(doc, mustDecode(t, fragment))
}

func TestApplyRewrite_ScalarSection(t *testing.T) {
	doc := mustBuild(t, `{"summary": "old text"}`)
	require.NoError(t, doc.Child("summary").ToggleAnnotation())

	require.NoError(t, applyFragment(t, doc, `{"summary": "sharper text"}`))

	sec := doc.Child("summary")
	assert.Equal(t, "sharper text", sec.Value)
	assert.Equal(t, AnnotationConfirmed, sec.Annotation)
	assert.Equal(t, 0, doc.QueuedCount())
}

func TestApplyRewrite_ArrayEntryMatchedByNamingKey(t *testing.T) {
	doc := mustBuild(t, `{"experience": [
		{"company": "Acme", "role": "Dev"},
		{"company": "Initech", "role": "SRE"}
	]}`)
	second := doc.Child("experience").ChildAt(1)
	require.NoError(t, second.Child("role").ToggleAnnotation())

	require.NoError(t, applyFragment(t, doc, `{"experience": [{"company": "Initech", "role": "Senior SRE"}]}`))

	assert.Equal(t, "Senior SRE", second.Child("role").Value)
	assert.Equal(t, AnnotationConfirmed, second.Child("role").Annotation)
	// The untouched entry is untouched.
	assert.Equal(t, "Dev", doc.Child("experience").ChildAt(0).Child("role").Value)
}

func TestApplyRewrite_PlainEntriesMatchedPositionally(t *testing.T) {
	doc := mustBuild(t, `{"hobbies": ["chess", "running", "sailing"]}`)
	hobbies := doc.Child("hobbies")
	require.NoError(t, hobbies.ChildAt(0).ToggleAnnotation())
	require.NoError(t, hobbies.ChildAt(2).ToggleAnnotation())

	require.NoError(t, applyFragment(t, doc, `{"hobbies": ["speed chess", "offshore sailing"]}`))

	assert.Equal(t, "speed chess", hobbies.ChildAt(0).Value)
	assert.Equal(t, "running", hobbies.ChildAt(1).Value, "unqueued leaf skipped by positional matching")
	assert.Equal(t, "offshore sailing", hobbies.ChildAt(2).Value)
}

func TestApplyRewrite_NumericTable(t *testing.T) {
	doc := mustBuild(t, `{"font_sizes": {"body": 10.5, "heading": 14}}`)
	require.NoError(t, doc.Child("font_sizes").Child("body").ToggleAnnotation())

	require.NoError(t, applyFragment(t, doc, `{"font_sizes": {"body": 11}}`))
	assert.Equal(t, "11", doc.Child("font_sizes").Child("body").Value)
}

func TestApplyRewrite_PairedEntry(t *testing.T) {
	doc := mustBuild(t, `{"publications": [{"name": "Paper A", "year": "2020"}]}`)
	entry := doc.Child("publications").ChildAt(0)
	require.NoError(t, entry.ChildAt(0).ToggleAnnotation())

	require.NoError(t, applyFragment(t, doc, `{"publications": [{"name": "Paper A", "year": "2021"}]}`))
	assert.Equal(t, "2021", entry.ChildAt(0).Value)
}

func TestApplyRewrite_RoundTripWithQueuedFragment(t *testing.T) {
	doc := mustBuild(t, `{"summary": "old", "experience": [{"company": "Acme", "role": "Dev"}]}`)
	require.NoError(t, doc.Child("summary").ToggleAnnotation())
	require.NoError(t, doc.Child("experience").ChildAt(0).Child("role").ToggleAnnotation())

	// The queued sub-document itself is a valid rewrite fragment.
	queued, err := SerializeQueued(doc)
	require.NoError(t, err)
	require.NoError(t, applyFragment(t, doc, queued))

	assert.Equal(t, 0, doc.QueuedCount())
	assert.Equal(t, AnnotationConfirmed, doc.Child("summary").Annotation)
}

func TestApplyRewrite_NonQueuedTargetRejected(t *testing.T) {
	doc := mustBuild(t, `{"summary": "keep me"}`)

	err := applyFragment(t, doc, `{"summary": "overwrite"}`)
	require.Error(t, err)

	var opErr *InvalidOperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "rewrite", opErr.Op)
	assert.Equal(t, "keep me", doc.Child("summary").Value)
}

func TestApplyRewrite_UnknownSectionRejected(t *testing.T) {
	doc := mustBuild(t, `{"summary": "x"}`)

	err := applyFragment(t, doc, `{"missing": "y"}`)
	require.Error(t, err)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "missing", buildErr.Section)
}

func TestApplyRewrite_UnknownFieldRejected(t *testing.T) {
	doc := mustBuild(t, `{"basics": {"name": "Ada"}}`)
	require.NoError(t, doc.Child("basics").Child("name").ToggleAnnotation())

	err := applyFragment(t, doc, `{"basics": {"nickname": "A"}}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field "nickname"`)
}

func TestApplyRewrite_NonObjectFragmentRejected(t *testing.T) {
	doc := mustBuild(t, `{"summary": "x"}`)

	err := applyFragment(t, doc, `["not", "an", "object"]`)
	require.Error(t, err)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
}

func TestApplyRewrite_AtomicOnPartialFailure(t *testing.T) {
	doc := mustBuild(t, `{"summary": "old", "objective": "stay"}`)
	require.NoError(t, doc.Child("summary").ToggleAnnotation())
	// "objective" is deliberately not queued, so the second member fails.

	err := applyFragment(t, doc, `{"summary": "new", "objective": "clobber"}`)
	require.Error(t, err)

	// The failure happened after "summary" resolved, but before anything
	// was mutated.
	assert.Equal(t, "old", doc.Child("summary").Value)
	assert.Equal(t, AnnotationQueued, doc.Child("summary").Annotation)
	assert.Equal(t, "stay", doc.Child("objective").Value)
}

func TestApplyRewrite_TooManyPlainEntriesRejected(t *testing.T) {
	doc := mustBuild(t, `{"hobbies": ["chess"]}`)
	require.NoError(t, doc.Child("hobbies").ChildAt(0).ToggleAnnotation())

	err := applyFragment(t, doc, `{"hobbies": ["a", "b"]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more plain entries than queued leaves")
}

func TestApplyRewrite_UnmatchedEntryNameRejected(t *testing.T) {
	doc := mustBuild(t, `{"experience": [{"company": "Acme", "role": "Dev"}]}`)

	err := applyFragment(t, doc, `{"experience": [{"company": "Ghost", "role": "x"}]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match an entry")
}
