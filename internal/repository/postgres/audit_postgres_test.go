package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"healthdocs/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestAuditPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	rec := &model.IngestAudit{
		ID:          "audit-uuid",
		DocumentID:  "doc-uuid",
		Filename:    "report.pdf",
		Category:    "Clinical",
		AccessLevel: 2,
		UploadedBy:  "u1",
		Outcome:     model.AuditOutcomeIndexed,
		CreatedAt:   now,
	}

	mock.ExpectExec("INSERT INTO ingest_audit").
		WithArgs(rec.ID, rec.DocumentID, rec.Filename, rec.Category, rec.AccessLevel, rec.UploadedBy, rec.Outcome, rec.ErrorText, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(ctx, rec)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditPostgres_Create_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditPostgres(db)

	mock.ExpectExec("INSERT INTO ingest_audit").
		WillReturnError(errors.New("db fail"))

	err = repo.Create(context.Background(), &model.IngestAudit{ID: "id"})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditPostgres_ListByOutcome(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditPostgres(db)
	ctx := context.Background()

	t.Run("returns rows", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "document_id", "filename", "category", "access_level", "uploaded_by", "outcome", "error_text", "created_at"}).
			AddRow("a1", "d1", "report.pdf", "Clinical", 2, "u1", model.AuditOutcomeOrphaned, "delete failed", time.Now())

		mock.ExpectQuery(`(?s)SELECT .+ FROM ingest_audit\s+WHERE outcome =`).
			WithArgs(model.AuditOutcomeOrphaned, 50).
			WillReturnRows(rows)

		items, err := repo.ListByOutcome(ctx, model.AuditOutcomeOrphaned, 50)

		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, "d1", items[0].DocumentID)
		assert.Equal(t, model.AuditOutcomeOrphaned, items[0].Outcome)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT .+ FROM ingest_audit\s+WHERE outcome =`).
			WillReturnError(errors.New("db fail"))

		_, err := repo.ListByOutcome(ctx, model.AuditOutcomeOrphaned, 50)

		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
