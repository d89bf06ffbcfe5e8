// Package storage contains the blob store abstraction for original document
// binaries. Implementations must be safe for concurrent use and rely on
// streaming I/O only.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned by Find when no binary exists under the id.
var ErrObjectNotFound = errors.New("object not found")

// DocumentMeta is the per-object metadata record stored alongside a binary.
type DocumentMeta struct {
	Category    string
	AccessLevel int
	UploadedBy  string
	DataUpload  time.Time
}

// FileInfo describes a stored binary.
type FileInfo struct {
	ID       string
	Filename string
	Size     int64
	Meta     DocumentMeta
}

// BlobStore is binary storage keyed by a store-generated identifier. The id
// returned by Put is the correlation key shared with the search index.
type BlobStore interface {
	// Put stores the stream plus metadata under a freshly generated id and
	// returns that id. Size should be the exact byte count if known, -1 otherwise.
	Put(ctx context.Context, r io.Reader, size int64, filename string, meta DocumentMeta) (string, error)
	// Find retrieves a binary and its metadata by id.
	// Returns ErrObjectNotFound when the id does not exist.
	Find(ctx context.Context, id string) (io.ReadCloser, FileInfo, error)
	// Delete removes a binary by id.
	Delete(ctx context.Context, id string) error
}
