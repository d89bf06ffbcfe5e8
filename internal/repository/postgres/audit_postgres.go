package postgres

import (
	"context"
	"database/sql"

	"healthdocs/internal/model"
	"healthdocs/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Create inserts a new audit row.
func (r *AuditPostgres) Create(ctx context.Context, rec *model.IngestAudit) error {
	const q = `
		INSERT INTO ingest_audit (id, document_id, filename, category, access_level, uploaded_by, outcome, error_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, q,
		rec.ID,
		rec.DocumentID,
		rec.Filename,
		rec.Category,
		rec.AccessLevel,
		rec.UploadedBy,
		rec.Outcome,
		rec.ErrorText,
		rec.CreatedAt,
	)
	return err
}

// ListByOutcome returns the most recent audit rows for one outcome.
func (r *AuditPostgres) ListByOutcome(ctx context.Context, outcome string, limit int) ([]model.IngestAudit, error) {
	const q = `
		SELECT id, document_id, filename, category, access_level, uploaded_by, outcome, error_text, created_at
		FROM ingest_audit
		WHERE outcome = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, outcome, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.IngestAudit, 0)
	for rows.Next() {
		var a model.IngestAudit
		if err := rows.Scan(
			&a.ID,
			&a.DocumentID,
			&a.Filename,
			&a.Category,
			&a.AccessLevel,
			&a.UploadedBy,
			&a.Outcome,
			&a.ErrorText,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
