// Package types provides request and response definitions for the document
// editing API.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ImportDocumentRequest creates a document from raw résumé JSON.
type ImportDocumentRequest struct {
	Title   string          `json:"title" validate:"required,min=1"`
	Content json.RawMessage `json:"content" validate:"required"`
}

// ReplaceDocumentRequest replaces a document's content with new résumé JSON.
type ReplaceDocumentRequest struct {
	Content json.RawMessage `json:"content" validate:"required"`
}

// ToggleRequest advances one leaf's annotation state.
type ToggleRequest struct {
	NodeID string `json:"node_id" validate:"required,uuid"`
}

// MarkRequest bulk-sets the annotation state of every leaf under a node.
type MarkRequest struct {
	NodeID string `json:"node_id" validate:"required,uuid"`
	State  string `json:"state" validate:"required,oneof=none queued confirmed"`
}

// ReorderRequest moves a child among its siblings.
type ReorderRequest struct {
	ParentID string `json:"parent_id" validate:"required,uuid"`
	From     int    `json:"from" validate:"gte=0"`
	To       int    `json:"to" validate:"gte=0"`
}

// RewriteRequest merges an AI-rewritten fragment back into the document.
type RewriteRequest struct {
	Fragment json.RawMessage `json:"fragment" validate:"required"`
}

// DocumentResponse carries a document's serialized content.
type DocumentResponse struct {
	ID      uuid.UUID       `json:"id"`
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

// DocumentSummaryResponse is a listing row.
type DocumentSummaryResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OutlineNode is one node of the tree outline returned to editors, with the
// badge count of queued descendants.
type OutlineNode struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Value       string        `json:"value,omitempty"`
	Position    int           `json:"position"`
	Annotation  string        `json:"annotation"`
	QueuedCount int           `json:"queued_count"`
	Children    []OutlineNode `json:"children,omitempty"`
}

// Validate validates the ImportDocumentRequest using the validator.
func (r *ImportDocumentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ReplaceDocumentRequest using the validator.
func (r *ReplaceDocumentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ToggleRequest using the validator.
func (r *ToggleRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the MarkRequest using the validator.
func (r *MarkRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ReorderRequest using the validator.
func (r *ReorderRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the RewriteRequest using the validator.
func (r *RewriteRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
