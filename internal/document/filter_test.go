package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeQueued_EmptyWhenNothingQueued(t *testing.T) {
	doc := mustBuild(t, `{"summary": "x", "experience": [{"company": "A"}]}`)

	out, err := SerializeQueued(doc)
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
}

func TestSerializeQueued_ScalarSection(t *testing.T) {
	doc := mustBuild(t, `{"summary": "Engineer", "objective": "skip me"}`)
	require.NoError(t, doc.Child("summary").ToggleAnnotation())

	out, err := SerializeQueued(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"Engineer"}`, out)
}

func TestSerializeQueued_ArrayEntriesKeepNamingKey(t *testing.T) {
	doc := mustBuild(t, `{"experience": [
		{"company": "Acme", "role": "Dev", "start": "2020"},
		{"company": "Initech", "role": "SRE"}
	]}`)
	first := doc.Child("experience").ChildAt(0)
	require.NoError(t, first.Child("role").ToggleAnnotation())

	out, err := SerializeQueued(doc)
	require.NoError(t, err)
	// Only the queued leaf appears, prefixed by the naming key so the
	// fragment can be matched back.
	assert.Equal(t, `{"experience":[{"company":"Acme","role":"Dev"}]}`, out)
}

func TestSerializeQueued_AnonymousLeavesStayPlain(t *testing.T) {
	doc := mustBuild(t, `{"hobbies": ["chess", "running", "sailing"]}`)
	hobbies := doc.Child("hobbies")
	require.NoError(t, hobbies.ChildAt(0).ToggleAnnotation())
	require.NoError(t, hobbies.ChildAt(2).ToggleAnnotation())

	out, err := SerializeQueued(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"hobbies":["chess","sailing"]}`, out)
}

func TestSerializeQueued_NumericTableSubset(t *testing.T) {
	doc := mustBuild(t, `{"font_sizes": {"body": 10.5, "heading": 14}}`)
	require.NoError(t, doc.Child("font_sizes").Child("heading").ToggleAnnotation())

	out, err := SerializeQueued(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"font_sizes":{"heading":14}}`, out)
}

func TestSerializeQueued_PairedEntriesWhole(t *testing.T) {
	doc := mustBuild(t, `{"publications": [
		{"name": "Paper A", "year": "2020"},
		{"name": "Paper B", "year": "2021"}
	]}`)
	second := doc.Child("publications").ChildAt(1)
	require.NoError(t, second.ChildAt(0).ToggleAnnotation())

	out, err := SerializeQueued(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"publications":[{"name":"Paper B","year":"2021"}]}`, out)
}

func TestSerializeQueued_NestedObjectPath(t *testing.T) {
	doc := mustBuild(t, `{"basics": {"name": "Ada", "contact": {"email": "a@b.c", "phone": "555"}}}`)
	contact := doc.Child("basics").Child("contact")
	require.NoError(t, contact.Child("phone").ToggleAnnotation())

	out, err := SerializeQueued(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"basics":{"contact":{"phone":"555"}}}`, out)
}
