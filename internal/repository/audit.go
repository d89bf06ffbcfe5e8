package repository

import (
	"context"

	"healthdocs/internal/model"
)

// AuditRepository persists ingestion audit rows. No business logic here,
// strictly persistence operations.
type AuditRepository interface {
	// Create inserts a new audit row. The caller provides ID and CreatedAt.
	Create(ctx context.Context, rec *model.IngestAudit) error

	// ListByOutcome returns the most recent audit rows with the given outcome,
	// newest first. Used for operational review of orphaned binaries.
	ListByOutcome(ctx context.Context, outcome string, limit int) ([]model.IngestAudit, error)
}
