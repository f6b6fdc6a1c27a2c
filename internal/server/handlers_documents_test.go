package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/autosave"
	"github.com/jonathan/resume-studio/internal/document"
	"github.com/jonathan/resume-studio/internal/parse"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a server with no backing store; tests seed sessions
// directly and exercise the session-bound handlers.
func newTestServer() *Server {
	return &Server{
		maxDepth:      parse.DefaultMaxDepth,
		autosaveQuiet: time.Hour,
		sessions:      make(map[uuid.UUID]*session),
	}
}

func seedSession(t *testing.T, s *Server, content string) (uuid.UUID, *session) {
	t.Helper()
	v, err := parse.Decode([]byte(content))
	require.NoError(t, err)
	doc, err := document.BuildDocument(v)
	require.NoError(t, err)

	id := uuid.New()
	sess := &session{doc: doc, title: "test document"}
	sess.saver = autosave.NewScheduler(time.Hour, func() {})
	t.Cleanup(sess.saver.Close)
	s.sessions[id] = sess
	return id, sess
}

func doRequest(s *Server, handler http.HandlerFunc, method, body string, docID uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/documents/"+docID.String(), strings.NewReader(body))
	req.SetPathValue("id", docID.String())
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleGetDocument_ReturnsSerializedContent(t *testing.T) {
	s := newTestServer()
	id, _ := seedSession(t, s, `{"summary":"Engineer"}`)

	rec := doRequest(s, s.handleGetDocument, http.MethodGet, "", id)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.DocumentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "test document", resp.Title)
	assert.JSONEq(t, `{"summary":"Engineer"}`, string(resp.Content))
}

func TestHandleGetDocument_InvalidID(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/documents/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	s.handleGetDocument(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleOutline_CarriesQueuedCounts(t *testing.T) {
	s := newTestServer()
	id, sess := seedSession(t, s, `{"experience":[{"company":"Acme","role":"Dev"}]}`)
	entry := sess.doc.Child("experience").ChildAt(0)
	require.NoError(t, entry.Child("role").ToggleAnnotation())

	rec := doRequest(s, s.handleOutline, http.MethodGet, "", id)
	require.Equal(t, http.StatusOK, rec.Code)

	var outline types.OutlineNode
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outline))
	assert.Equal(t, 1, outline.QueuedCount)
	require.Len(t, outline.Children, 1)
	exp := outline.Children[0]
	assert.Equal(t, "experience", exp.Name)
	assert.Equal(t, 1, exp.QueuedCount)
	require.Len(t, exp.Children, 1)
	assert.Equal(t, "Acme", exp.Children[0].Name)
}

func TestHandleContext_FlattensDocument(t *testing.T) {
	s := newTestServer()
	id, _ := seedSession(t, s, `{"summary":"Engineer","font_sizes":{"body":10.5}}`)

	rec := doRequest(s, s.handleContext, http.MethodGet, "", id)
	require.Equal(t, http.StatusOK, rec.Code)

	var ctx map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ctx))
	assert.Equal(t, "Engineer", ctx["summary"])
	fonts, ok := ctx["font_sizes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 10.5, fonts["body"])
}

func TestHandleQueued_ReturnsSubDocument(t *testing.T) {
	s := newTestServer()
	id, sess := seedSession(t, s, `{"summary":"Engineer","objective":"skip"}`)
	require.NoError(t, sess.doc.Child("summary").ToggleAnnotation())

	rec := doRequest(s, s.handleQueued, http.MethodGet, "", id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"summary":"Engineer"}`, rec.Body.String())
}

func TestHandleToggle_AdvancesState(t *testing.T) {
	s := newTestServer()
	id, sess := seedSession(t, s, `{"summary":"Engineer"}`)
	leaf := sess.doc.Child("summary")

	body := `{"node_id":"` + leaf.ID.String() + `"}`
	rec := doRequest(s, s.handleToggle, http.MethodPost, body, id)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "queued", resp["annotation"])
	assert.Equal(t, float64(1), resp["queued_count"])
	assert.Equal(t, document.AnnotationQueued, leaf.Annotation)
}

func TestHandleToggle_UnknownNode(t *testing.T) {
	s := newTestServer()
	id, _ := seedSession(t, s, `{"summary":"x"}`)

	body := `{"node_id":"` + uuid.NewString() + `"}`
	rec := doRequest(s, s.handleToggle, http.MethodPost, body, id)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleToggle_ContainerRejected(t *testing.T) {
	s := newTestServer()
	id, sess := seedSession(t, s, `{"basics":{"name":"Ada"}}`)

	body := `{"node_id":"` + sess.doc.Child("basics").ID.String() + `"}`
	rec := doRequest(s, s.handleToggle, http.MethodPost, body, id)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMark_BulkSetsSubtree(t *testing.T) {
	s := newTestServer()
	id, sess := seedSession(t, s, `{"experience":[{"company":"A","role":"Dev"},{"company":"B","role":"SRE"}]}`)
	exp := sess.doc.Child("experience")

	body := `{"node_id":"` + exp.ID.String() + `","state":"queued"}`
	rec := doRequest(s, s.handleMark, http.MethodPost, body, id)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp["queued_count"])
}

func TestHandleMark_InvalidState(t *testing.T) {
	s := newTestServer()
	id, sess := seedSession(t, s, `{"summary":"x"}`)

	body := `{"node_id":"` + sess.doc.Child("summary").ID.String() + `","state":"pending"}`
	rec := doRequest(s, s.handleMark, http.MethodPost, body, id)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleReorder_MovesChild(t *testing.T) {
	s := newTestServer()
	id, sess := seedSession(t, s, `{"experience":[{"company":"A"},{"company":"B"},{"company":"C"}]}`)
	exp := sess.doc.Child("experience")

	body := `{"parent_id":"` + exp.ID.String() + `","from":0,"to":2}`
	rec := doRequest(s, s.handleReorder, http.MethodPost, body, id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A", exp.ChildAt(2).Name)
}

func TestHandleReorder_OutOfRange(t *testing.T) {
	s := newTestServer()
	id, sess := seedSession(t, s, `{"experience":[{"company":"A"}]}`)
	exp := sess.doc.Child("experience")

	body := `{"parent_id":"` + exp.ID.String() + `","from":0,"to":5}`
	rec := doRequest(s, s.handleReorder, http.MethodPost, body, id)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRewrite_MergesFragment(t *testing.T) {
	s := newTestServer()
	id, sess := seedSession(t, s, `{"summary":"old"}`)
	require.NoError(t, sess.doc.Child("summary").ToggleAnnotation())

	body := `{"fragment":{"summary":"new text"}}`
	rec := doRequest(s, s.handleRewrite, http.MethodPost, body, id)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "new text", sess.doc.Child("summary").Value)
	assert.Equal(t, document.AnnotationConfirmed, sess.doc.Child("summary").Annotation)
}

func TestHandleRewrite_NonQueuedTargetRejected(t *testing.T) {
	s := newTestServer()
	id, sess := seedSession(t, s, `{"summary":"keep"}`)

	body := `{"fragment":{"summary":"clobber"}}`
	rec := doRequest(s, s.handleRewrite, http.MethodPost, body, id)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "keep", sess.doc.Child("summary").Value)
}

func TestHandleRewrite_FragmentWithDuplicateKeysRejected(t *testing.T) {
	s := newTestServer()
	id, sess := seedSession(t, s, `{"summary":"old"}`)
	require.NoError(t, sess.doc.Child("summary").ToggleAnnotation())

	// The strict decoder runs on fragments too.
	body := `{"fragment":{"summary":"a","summary":"b"}}`
	rec := doRequest(s, s.handleRewrite, http.MethodPost, body, id)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "old", sess.doc.Child("summary").Value)
}

func TestHandleReplaceDocument_SwapsTree(t *testing.T) {
	s := newTestServer()
	id, sess := seedSession(t, s, `{"summary":"old"}`)

	body := `{"content":{"summary":"new","headline":"dev"}}`
	rec := doRequest(s, s.handleReplaceDocument, http.MethodPut, body, id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new", sess.doc.Child("summary").Value)
	assert.Equal(t, "dev", sess.doc.Child("headline").Value)
}

func TestHandleReplaceDocument_BadContentLeavesDocUntouched(t *testing.T) {
	s := newTestServer()
	id, sess := seedSession(t, s, `{"summary":"old"}`)

	body := `{"content":{"summary":["not","scalar"]}}`
	rec := doRequest(s, s.handleReplaceDocument, http.MethodPut, body, id)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "old", sess.doc.Child("summary").Value)
}

func TestBuildOutline_LeafCarriesValue(t *testing.T) {
	s := newTestServer()
	_, sess := seedSession(t, s, `{"summary":"Engineer"}`)

	outline := buildOutline(sess.doc)
	require.Len(t, outline.Children, 1)
	assert.Equal(t, "summary", outline.Children[0].Name)
	assert.Equal(t, "Engineer", outline.Children[0].Value)
	assert.Equal(t, "none", outline.Children[0].Annotation)
}
