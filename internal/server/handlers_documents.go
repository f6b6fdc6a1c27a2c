package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/autosave"
	"github.com/jonathan/resume-studio/internal/document"
	"github.com/jonathan/resume-studio/internal/parse"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

// session is one open document. All tree mutations take the session mutex:
// the document tree itself is single-writer.
type session struct {
	mu    sync.Mutex
	doc   *document.Node
	title string
	saver *autosave.Scheduler
}

// buildTree runs the decode→build half of the import path. The previous
// in-memory document is never touched on failure: the new tree is built
// completely before any caller swaps it in.
func (s *Server) buildTree(content []byte) (*document.Node, error) {
	if s.schemaContent != "" {
		if err := schemas.ValidateResumeString(s.schemaContent, string(content)); err != nil {
			return nil, err
		}
	}
	v, err := parse.DecodeWithOptions(content, parse.Options{MaxDepth: s.maxDepth})
	if err != nil {
		return nil, err
	}
	return document.BuildDocument(v)
}

// openSession returns the editing session for a document, loading it from
// the store on first access.
func (s *Server) openSession(ctx context.Context, id uuid.UUID) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}

	rec, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	doc, err := s.buildTree(rec.Content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		return existing, nil
	}
	sess = &session{doc: doc, title: rec.Title}
	sess.saver = autosave.NewScheduler(s.autosaveQuiet, func() { s.saveSession(id) })
	s.sessions[id] = sess
	return sess, nil
}

// saveSession serializes a session's document and writes it to the store.
// A serialization failure aborts the save; it is logged, never written as
// partial output, and the next edit reschedules the attempt.
func (s *Server) saveSession(id uuid.UUID) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return
	}

	sess.mu.Lock()
	content, err := document.Serialize(sess.doc)
	sess.mu.Unlock()
	if err != nil {
		log.Printf("autosave aborted for document %s: %v", id, err)
		return
	}

	if err := s.store.SaveDocument(context.Background(), id, []byte(content)); err != nil {
		log.Printf("autosave failed for document %s: %v", id, err)
	}
}

// closeSession flushes and discards a session, if open.
func (s *Server) closeSession(id uuid.UUID) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if ok {
		sess.saver.Close()
	}
}

// documentID extracts the {id} path segment.
func (s *Server) documentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid document id")
		return uuid.Nil, false
	}
	return id, true
}

// sessionFor loads the session for the request's document, writing the
// error response itself when that fails.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (uuid.UUID, *session, bool) {
	id, ok := s.documentID(w, r)
	if !ok {
		return uuid.Nil, nil, false
	}
	sess, err := s.openSession(r.Context(), id)
	if err != nil {
		s.documentError(w, err)
		return uuid.Nil, nil, false
	}
	if sess == nil {
		s.errorResponse(w, http.StatusNotFound, "Document not found")
		return uuid.Nil, nil, false
	}
	return id, sess, true
}

// documentError maps core errors onto HTTP statuses. Contract violations
// (invalid indices, toggling a container) are warnings, not crashes.
func (s *Server) documentError(w http.ResponseWriter, err error) {
	var (
		decodeErr    *parse.DecodeError
		buildErr     *document.BuildError
		serializeErr *document.SerializeError
		reorderErr   *document.ReorderError
		invalidOp    *document.InvalidOperationError
		schemaErr    *schemas.ValidationError
	)
	switch {
	case errors.As(err, &decodeErr), errors.As(err, &buildErr), errors.As(err, &schemaErr):
		s.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &reorderErr), errors.As(err, &invalidOp):
		log.Printf("warning: rejected edit: %v", err)
		s.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &serializeErr):
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
	default:
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// handleImportDocument creates a document from raw résumé JSON.
func (s *Server) handleImportDocument(w http.ResponseWriter, r *http.Request) {
	var req types.ImportDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := s.buildTree(req.Content)
	if err != nil {
		s.documentError(w, err)
		return
	}

	content, err := document.Serialize(doc)
	if err != nil {
		s.documentError(w, err)
		return
	}

	id, err := s.store.CreateDocument(r.Context(), req.Title, []byte(content))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store document: "+err.Error())
		return
	}

	sess := &session{doc: doc, title: req.Title}
	sess.saver = autosave.NewScheduler(s.autosaveQuiet, func() { s.saveSession(id) })
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.jsonResponse(w, http.StatusCreated, types.DocumentResponse{
		ID:      id,
		Title:   req.Title,
		Content: json.RawMessage(content),
	})
}

// handleListDocuments lists stored documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	sums, err := s.store.ListDocuments(r.Context(), 0)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]types.DocumentSummaryResponse, 0, len(sums))
	for _, sum := range sums {
		out = append(out, types.DocumentSummaryResponse{
			ID:        sum.ID,
			Title:     sum.Title,
			CreatedAt: sum.CreatedAt,
			UpdatedAt: sum.UpdatedAt,
		})
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleGetDocument returns the current serialized document.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	content, err := document.Serialize(sess.doc)
	title := sess.title
	sess.mu.Unlock()
	if err != nil {
		s.documentError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.DocumentResponse{
		ID:      id,
		Title:   title,
		Content: json.RawMessage(content),
	})
}

// handleReplaceDocument swaps in a freshly built tree. The old tree stays
// untouched unless decode and build both succeed.
func (s *Server) handleReplaceDocument(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	var req types.ReplaceDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := s.buildTree(req.Content)
	if err != nil {
		s.documentError(w, err)
		return
	}

	sess.mu.Lock()
	sess.doc = doc
	sess.mu.Unlock()
	sess.saver.Note()

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "replaced"})
}

// handleDeleteDocument closes the session and removes the stored document.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.documentID(w, r)
	if !ok {
		return
	}
	s.closeSession(id)
	if err := s.store.DeleteDocument(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleOutline returns the tree outline with queued-count badges.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	outline := buildOutline(sess.doc)
	sess.mu.Unlock()
	s.jsonResponse(w, http.StatusOK, outline)
}

func buildOutline(n *document.Node) types.OutlineNode {
	out := types.OutlineNode{
		ID:          n.ID,
		Name:        n.Name,
		Position:    n.Position,
		Annotation:  n.Annotation.String(),
		QueuedCount: n.QueuedCount(),
	}
	if n.IsLeaf() {
		out.Value = n.Value
		return out
	}
	n.ForEachChild(func(c *document.Node) {
		out.Children = append(out.Children, buildOutline(c))
	})
	return out
}

// handleContext returns the flattened template context.
func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	ctx := document.FlattenContext(sess.doc)
	sess.mu.Unlock()
	s.jsonResponse(w, http.StatusOK, ctx)
}

// handleQueued returns the sub-document of fields queued for rewrite.
func (s *Server) handleQueued(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	sess.mu.Lock()
	content, err := document.SerializeQueued(sess.doc)
	sess.mu.Unlock()
	if err != nil {
		s.documentError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, json.RawMessage(content))
}

// handleToggle advances one leaf's annotation state.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	var req types.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	nodeID := uuid.MustParse(req.NodeID)

	sess.mu.Lock()
	node := sess.doc.FindByID(nodeID)
	var err error
	var annotation string
	var queued int
	if node != nil {
		err = node.ToggleAnnotation()
		if err == nil {
			annotation = node.Annotation.String()
			queued = sess.doc.QueuedCount()
		}
	}
	sess.mu.Unlock()

	if node == nil {
		s.errorResponse(w, http.StatusNotFound, "Node not found")
		return
	}
	if err != nil {
		s.documentError(w, err)
		return
	}
	sess.saver.Note()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"annotation":   annotation,
		"queued_count": queued,
	})
}

// handleMark bulk-sets the annotation of every leaf under a node.
func (s *Server) handleMark(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	var req types.MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := document.ParseAnnotation(req.State)
	if err != nil {
		s.documentError(w, err)
		return
	}
	nodeID := uuid.MustParse(req.NodeID)

	sess.mu.Lock()
	node := sess.doc.FindByID(nodeID)
	if node != nil {
		node.MarkAllDescendants(state)
	}
	queued := sess.doc.QueuedCount()
	sess.mu.Unlock()

	if node == nil {
		s.errorResponse(w, http.StatusNotFound, "Node not found")
		return
	}
	sess.saver.Note()
	s.jsonResponse(w, http.StatusOK, map[string]any{"queued_count": queued})
}

// handleReorder moves a child among its siblings.
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	var req types.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	parentID := uuid.MustParse(req.ParentID)

	sess.mu.Lock()
	parent := sess.doc.FindByID(parentID)
	var err error
	if parent != nil {
		err = parent.MoveChild(req.From, req.To)
	}
	sess.mu.Unlock()

	if parent == nil {
		s.errorResponse(w, http.StatusNotFound, "Node not found")
		return
	}
	if err != nil {
		s.documentError(w, err)
		return
	}
	sess.saver.Note()
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "moved"})
}

// handleRewrite merges an AI-rewritten fragment back into queued nodes.
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	var req types.RewriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	fragment, err := parse.DecodeWithOptions(req.Fragment, parse.Options{MaxDepth: s.maxDepth})
	if err != nil {
		s.documentError(w, err)
		return
	}

	sess.mu.Lock()
	err = document.ApplyRewrite(sess.doc, fragment)
	queued := sess.doc.QueuedCount()
	sess.mu.Unlock()

	if err != nil {
		s.documentError(w, err)
		return
	}
	sess.saver.Note()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":       "merged",
		"queued_count": queued,
	})
}
