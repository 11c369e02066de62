// Package store persists saved visualization documents.
//
// This package defines the Store interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for serve mode deployments
//
// A Document holds the raw source text of a visualization plus metadata.
// Graphs and layouts are not persisted here; they are derived from the
// source on demand and cached by pkg/cache.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrEmptyID is returned when a document has no ID.
	ErrEmptyID = errors.New("document id is empty")
)

// Document is a saved visualization source with metadata.
type Document struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Source    string    `json:"source" bson:"source"`
	GraphHash string    `json:"graph_hash" bson:"graph_hash"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// New creates a document with a fresh ID and timestamps.
func New(name, source string) *Document {
	now := time.Now().UTC()
	return &Document{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps the update timestamp.
func (d *Document) Touch() {
	d.UpdatedAt = time.Now().UTC()
}

// Store is the interface for document storage backends.
type Store interface {
	// Get retrieves a document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	Get(ctx context.Context, id string) (*Document, error)

	// Put stores a document, replacing any existing document with the same ID.
	Put(ctx context.Context, doc *Document) error

	// Delete removes a document.
	// Returns ErrNotFound if the document doesn't exist.
	Delete(ctx context.Context, id string) error

	// List returns all documents, newest first.
	List(ctx context.Context) ([]*Document, error)

	// Close releases any resources held by the backend.
	Close(ctx context.Context) error
}
