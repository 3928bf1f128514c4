// Package docstore provides a minimal document-collection store, modeled as
// named collections of schemaless JSON documents with opaque identifiers.
package docstore

import (
	"context"
	"errors"
)

// Store errors.
var (
	// ErrUnavailable wraps backing-store I/O failures.
	ErrUnavailable = errors.New("document store unavailable")

	// ErrNoDocument is returned when a document id is absent from a collection.
	ErrNoDocument = errors.New("no such document")
)

// Document is a stored document together with its identifier.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is the document-collection abstraction consumed by the equipment
// repository. All operations are context-aware and may fail with
// ErrUnavailable. There are no transactions spanning multiple documents.
type Store interface {
	// Insert stores a new document and returns its assigned id.
	Insert(ctx context.Context, collection string, data map[string]any) (string, error)

	// GetAll returns every document in a collection, newest first.
	GetAll(ctx context.Context, collection string) ([]Document, error)

	// GetByID returns a single document, or ErrNoDocument.
	GetByID(ctx context.Context, collection, id string) (*Document, error)

	// Update merges patch into an existing document's fields.
	// Fails with ErrNoDocument if the id is absent.
	Update(ctx context.Context, collection, id string, patch map[string]any) error

	// Delete removes a document. Fails with ErrNoDocument if already absent.
	Delete(ctx context.Context, collection, id string) error
}
