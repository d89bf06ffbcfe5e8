package model

import "time"

// Document represents an ingested PDF in the system: the binary lives in the
// blob store, the searchable projection (including the extracted text) lives in
// the search index under the same ID.
// This is a pure domain model with no store-specific dependencies or tags.
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	AccessLevel int       `json:"access_level"`
	UploadedBy  string    `json:"uploaded_by"`
	DataUpload  time.Time `json:"data_upload"`
}

// Visible reports whether the document may be seen by a caller with the given
// access level. Higher caller clearance subsumes all documents at or below it.
func (d Document) Visible(callerAccessLevel int) bool {
	return d.AccessLevel <= callerAccessLevel
}
