package store

import (
	"time"

	"github.com/google/uuid"
)

// DocumentRecord is a stored document with its serialized JSON content.
type DocumentRecord struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   []byte    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentSummary is a document listing row without content.
type DocumentSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
