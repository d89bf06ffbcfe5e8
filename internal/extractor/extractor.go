// Package extractor provides text extraction from uploaded documents.
package extractor

// Extractor converts a document on disk into a plain text representation.
// Implementations must be pure: no shared state, no side effects beyond
// reading the input file.
type Extractor interface {
	// Convert reads the file at path and returns its extracted text.
	// Failure is a recoverable, reportable condition, not fatal to the process.
	Convert(path string) (string, error)
}
