package service

import "errors"

// Failure taxonomy for the document core. Collaborator errors are wrapped
// around one of these sentinels with the original cause preserved, so the API
// layer can distinguish caller errors, missing resources, denied access, and
// infrastructure failures.
var (
	// ErrInvalidInput marks caller errors: wrong extension, empty payload,
	// missing required parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtractionFailed marks a document the extractor rejected.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrStorageFailed marks blob store failures.
	ErrStorageFailed = errors.New("binary storage failed")

	// ErrIndexingFailed marks search index failures. On the write path the
	// compensating delete of the binary has already succeeded.
	ErrIndexingFailed = errors.New("document indexing failed")

	// ErrCompensationFailed marks the worst case: the index write failed and
	// the compensating delete failed too, leaving an orphaned binary. It must
	// never be downgraded to ErrIndexingFailed or silent success.
	ErrCompensationFailed = errors.New("compensating delete failed, binary orphaned")

	// ErrNotFound marks a lookup of a nonexistent document.
	ErrNotFound = errors.New("document not found")

	// ErrAccessDenied marks a caller without clearance for the document.
	ErrAccessDenied = errors.New("access denied")
)
