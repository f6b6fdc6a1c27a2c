package document

import (
	"testing"

	"github.com/jonathan/resume-studio/internal/ir"
	"github.com/jonathan/resume-studio/internal/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip decodes input, builds the document, serializes it back, and
// asserts structural equality with the original value tree.
func roundTrip(t *testing.T, input string) {
	t.Helper()
	original := mustDecode(t, input)

	doc, err := BuildDocument(original)
	require.NoError(t, err)

	out, err := Serialize(doc)
	require.NoError(t, err)

	reparsed, err := parse.Decode([]byte(out))
	require.NoError(t, err, "serializer output must be valid JSON: %s", out)
	assert.True(t, ir.Equal(original, reparsed), "round trip changed the document:\n in: %s\nout: %s", input, out)
}

func TestSerialize_RoundTripFullDocument(t *testing.T) {
	roundTrip(t, `{
		"basics": {"name": "Ada Lovelace", "contact": {"email": "ada@example.com", "phone": "555"}},
		"summary": "Engineer and analyst",
		"experience": [
			{"company": "Acme", "role": "Dev", "highlights": ["Led team", "Shipped v2"]},
			{"company": "Initech", "role": "SRE"}
		],
		"education": [{"institution": "Cambridge", "degree": "BA"}],
		"publications": [{"name": "Notes", "year": "1843"}],
		"languages": [{"language": "French", "fluency": "C1"}],
		"font_sizes": {"body": 10.5, "heading": 14},
		"section_spacing": {"before": 6, "after": 3.5}
	}`)
}

func TestSerialize_RoundTripUnknownSections(t *testing.T) {
	roundTrip(t, `{"hobbies": ["chess", "running"], "custom_meta": {"source": "import", "tags": ["a"]}}`)
}

func TestSerialize_RoundTripEmptyContainers(t *testing.T) {
	roundTrip(t, `{"experience": [], "basics": {}, "font_sizes": {}, "publications": []}`)
	roundTrip(t, `{}`)
}

func TestSerialize_RoundTripEscapedStrings(t *testing.T) {
	roundTrip(t, `{"summary": "line one\nline \"two\" \\ done\ttab"}`)
}

func TestSerialize_NonStringScalarsNormalizeToStrings(t *testing.T) {
	// Building coerces scalar section values to text, so numbers and bools
	// come back out as JSON strings. The second trip is stable.
	doc := mustBuild(t, `{"years": 42, "remote": true, "middle_name": null}`)

	out, err := Serialize(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"years":"42","remote":"true","middle_name":""}`, out)

	reparsed := mustDecode(t, out)
	doc2, err := BuildDocument(reparsed)
	require.NoError(t, err)
	out2, err := Serialize(doc2)
	require.NoError(t, err)

	v2 := mustDecode(t, out2)
	assert.True(t, ir.Equal(reparsed, v2), "second trip must be lossless:\n1st: %s\n2nd: %s", out, out2)
}

func TestSerialize_RoundTripNumericPrecision(t *testing.T) {
	roundTrip(t, `{"font_sizes": {"a": 0.1, "b": 10, "c": 1234.5678}}`)
}

func TestSerialize_KeyOrderPreserved(t *testing.T) {
	doc := mustBuild(t, `{"zeta": "1", "summary": "x", "alpha": "2"}`)

	out, err := Serialize(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"1","summary":"x","alpha":"2"}`, out)
}

func TestSerialize_NameKeyEmittedFirst(t *testing.T) {
	doc := mustBuild(t, `{"experience": [{"company": "Acme", "role": "Dev"}]}`)

	out, err := Serialize(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"experience":[{"company":"Acme","role":"Dev"}]}`, out)
}

func TestSerialize_HandMadeEntryFallsBackToName(t *testing.T) {
	doc := mustBuild(t, `{"experience": []}`)
	exp := doc.Child("experience")

	entry := NewNode("Freelance")
	entry.kind = containerObject
	require.NoError(t, exp.AddChild(entry))
	role := NewNode("role")
	role.Value = "Consultant"
	require.NoError(t, entry.AddChild(role))

	out, err := Serialize(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"experience":[{"name":"Freelance","role":"Consultant"}]}`, out)
}

func TestSerialize_PairedEntryBadArityFails(t *testing.T) {
	doc := mustBuild(t, `{"publications": [{"name": "Paper", "year": "2020"}]}`)
	entry := doc.Child("publications").ChildAt(0)

	extra := NewNode("venue")
	extra.Value = "ICML"
	require.NoError(t, entry.AddChild(extra))

	_, err := Serialize(doc)
	require.Error(t, err)

	var serErr *SerializeError
	require.ErrorAs(t, err, &serErr)
	assert.Contains(t, serErr.Msg, "exactly one")
}

func TestSerialize_NumericTableNonNumericValueFails(t *testing.T) {
	doc := mustBuild(t, `{"font_sizes": {"body": 10}}`)
	doc.Child("font_sizes").Child("body").Value = "ten"

	_, err := Serialize(doc)
	require.Error(t, err)

	var serErr *SerializeError
	require.ErrorAs(t, err, &serErr)
	assert.Contains(t, serErr.Path, "font_sizes")
	assert.Contains(t, serErr.Msg, "not numeric")
}

func TestSerialize_NoPartialOutputOnFailure(t *testing.T) {
	doc := mustBuild(t, `{"summary": "ok", "font_sizes": {"body": 10}}`)
	doc.Child("font_sizes").Child("body").Value = "broken"

	out, err := Serialize(doc)
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestToValue_SharesSerializerSemantics(t *testing.T) {
	doc := mustBuild(t, `{"summary": "x", "hobbies": ["a"]}`)

	v, err := ToValue(doc)
	require.NoError(t, err)
	require.Equal(t, ir.ObjectKind, v.Kind)
	assert.Equal(t, []string{"summary", "hobbies"}, v.Keys())
	assert.Equal(t, ir.ArrayKind, v.Get("hobbies").Kind)
}
