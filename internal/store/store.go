// Package store defines the document store boundary used by the repositories.
//
// A document is a raw JSON object addressed by (collection, id) and carrying a
// version that increases by one on every write. Updates are conditional on
// the version the caller last read, which is the only mutual exclusion the
// services rely on.
package store

import (
	"context"
	"errors"
)

// Collections used by the service.
const (
	CollectionGames  = "games"
	CollectionParks  = "parks"
	CollectionUsers  = "users"
	CollectionEmails = "emails"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrVersionConflict = errors.New("document version conflict")
	ErrAlreadyExists   = errors.New("document already exists")
)

// Document is a stored JSON object with its identity and version.
type Document struct {
	ID      string
	Version int64
	Data    []byte
}

// Store is implemented by every backend (memory, redis, sql).
type Store interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Create stores a new document at version 1. An empty id is replaced
	// with a generated one; an existing id yields ErrAlreadyExists.
	Create(ctx context.Context, collection, id string, data []byte) (*Document, error)

	// Update applies patch if the stored version equals expectedVersion.
	// It returns ErrNotFound or ErrVersionConflict otherwise.
	Update(ctx context.Context, collection, id string, patch Patch, expectedVersion int64) (*Document, error)

	// Find returns every document of the collection matching pred. A nil
	// predicate matches everything.
	Find(ctx context.Context, collection string, pred Predicate) ([]Document, error)

	// Delete removes the document or returns ErrNotFound.
	Delete(ctx context.Context, collection, id string) error

	Close() error
}
