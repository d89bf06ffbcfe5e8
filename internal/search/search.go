// Package search contains the full-text index abstraction for document
// records. The index is keyed by the same id the blob store generates, and
// owns the searchable projection of each document (including extracted text).
package search

import (
	"context"
	"errors"

	"healthdocs/internal/model"
)

// ErrDocNotFound is returned by Get when no record exists under the id.
var ErrDocNotFound = errors.New("document not found in index")

// Index is an inverted-index store supporting filtered full-text queries.
// Implementations must be safe for concurrent use.
type Index interface {
	// EnsureIndex creates the index schema if it does not exist yet. It is an
	// explicit idempotent migration step, run once at startup.
	EnsureIndex(ctx context.Context) error

	// Index writes the searchable projection of doc under doc.ID.
	Index(ctx context.Context, doc model.Document) error

	// Get returns the record stored under id.
	// Returns ErrDocNotFound when the id does not exist.
	Get(ctx context.Context, id string) (model.Document, error)

	// Delete removes the record stored under id.
	Delete(ctx context.Context, id string) error

	// Search runs a full-text query against content, filtered to documents
	// with access_level <= accessLevel, and to category when non-empty.
	// Results come back in the index's relevance order.
	Search(ctx context.Context, query, category string, accessLevel, size int) ([]model.Document, error)

	// List returns up to size documents with access_level <= accessLevel,
	// newest first, along with the total number of matching documents.
	List(ctx context.Context, accessLevel, size int) ([]model.Document, int, error)
}
