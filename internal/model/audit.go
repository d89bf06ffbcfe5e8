package model

import "time"

// Ingest audit outcomes. Orphaned rows mark binaries left behind by a failed
// compensating delete and are the queue for out-of-band remediation.
const (
	AuditOutcomeIndexed    = "indexed"
	AuditOutcomeRolledBack = "rolled_back"
	AuditOutcomeOrphaned   = "orphaned"
)

// IngestAudit is one row per ingestion attempt that reached the blob store.
type IngestAudit struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Filename    string    `json:"filename"`
	Category    string    `json:"category"`
	AccessLevel int       `json:"access_level"`
	UploadedBy  string    `json:"uploaded_by"`
	Outcome     string    `json:"outcome"`
	ErrorText   string    `json:"error_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
