package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"healthdocs/internal/extractor"
	"healthdocs/internal/model"
	"healthdocs/internal/repository"
	"healthdocs/internal/search"
	"healthdocs/internal/storage"
)

const (
	// maxListSize caps List results. Callers needing more must wait for cursor
	// pagination; the result's Total lets them detect truncation.
	maxListSize = 1000

	searchSize = 100
)

var ingestOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "document_ingest_outcomes_total",
		Help: "Ingestion attempts that reached the blob store, by final outcome.",
	},
	[]string{"outcome"},
)

// DocumentListResult is the service-level DTO for access-filtered listings.
// Total counts all visible documents; when Total exceeds len(Items) the page
// was truncated at maxListSize.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService is the document core: the ingestion coordinator (write
// path) and the retrieval service (read path) over the blob store and the
// search index.
type DocumentService interface {
	// Ingest extracts text from the PDF, persists the binary with metadata,
	// and indexes the extracted text under the store-generated id. A failed
	// index write triggers a compensating delete of the binary, so a document
	// findable via search always has a retrievable binary.
	Ingest(ctx context.Context, r io.Reader, size int64, filename, category string, accessLevel int, uploadedBy string) (string, error)

	// Search runs an access-filtered full-text query. category narrows the
	// result when non-empty. An empty result is not an error.
	Search(ctx context.Context, query, category string, accessLevel int) ([]model.Document, error)

	// List returns all documents visible at accessLevel, newest first, capped
	// at maxListSize.
	List(ctx context.Context, accessLevel int) (*DocumentListResult, error)

	// GetMarkdown returns the indexed record (extracted text and filename) by
	// id. It performs no access check: ids are only discoverable through
	// access-filtered search and list.
	GetMarkdown(ctx context.Context, id string) (*model.Document, error)

	// Download streams the original binary. The caller must have clearance
	// for the document's access level.
	Download(ctx context.Context, id string, accessLevel int) (io.ReadCloser, storage.FileInfo, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store   storage.BlobStore
	index   search.Index
	extract extractor.Extractor
	audit   repository.AuditRepository
}

// NewDocumentService constructs a new DocumentService. audit may be nil, in
// which case attempt outcomes are only logged and counted.
func NewDocumentService(store storage.BlobStore, index search.Index, extract extractor.Extractor, audit repository.AuditRepository) DocumentService {
	return &documentService{store: store, index: index, extract: extract, audit: audit}
}

func (s *documentService) Ingest(ctx context.Context, r io.Reader, size int64, filename, category string, accessLevel int, uploadedBy string) (string, error) {
	if r == nil || size == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrInvalidInput)
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return "", fmt.Errorf("%w: only PDF files are accepted", ErrInvalidInput)
	}

	// Stage the payload in a private temp file for extraction. The file is
	// removed on every exit path.
	tmp, err := os.CreateTemp("", "healthdocs-upload-*.pdf")
	if err != nil {
		return "", fmt.Errorf("%w: stage upload: %w", ErrExtractionFailed, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	written, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("%w: stage upload: %w", ErrExtractionFailed, err)
	}
	if written == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrInvalidInput)
	}

	// Extraction runs before any store write so a malformed upload never
	// consumes storage.
	content, err := s.extract.Convert(tmpPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return "", fmt.Errorf("%w: reopen staged upload: %w", ErrStorageFailed, err)
	}
	defer f.Close()

	now := time.Now().UTC()
	meta := storage.DocumentMeta{
		Category:    category,
		AccessLevel: accessLevel,
		UploadedBy:  uploadedBy,
		DataUpload:  now,
	}
	id, err := s.store.Put(ctx, f, written, filename, meta)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorageFailed, err)
	}

	// The binary is committed. Indexing and any compensation must still run
	// when the caller has cancelled or timed out, otherwise an unindexed
	// binary would be stranded without an attempted compensation.
	dctx := context.WithoutCancel(ctx)

	doc := model.Document{
		ID:          id,
		Filename:    filename,
		Content:     content,
		Category:    category,
		AccessLevel: accessLevel,
		UploadedBy:  uploadedBy,
		DataUpload:  now,
	}
	if err := s.index.Index(dctx, doc); err != nil {
		if delErr := s.store.Delete(dctx, id); delErr != nil {
			s.recordOutcome(dctx, doc, model.AuditOutcomeOrphaned, fmt.Sprintf("index: %v; compensating delete: %v", err, delErr))
			return "", fmt.Errorf("%w: index write: %w; delete binary %s: %w", ErrCompensationFailed, err, id, delErr)
		}
		s.recordOutcome(dctx, doc, model.AuditOutcomeRolledBack, err.Error())
		return "", fmt.Errorf("%w: %w", ErrIndexingFailed, err)
	}

	s.recordOutcome(dctx, doc, model.AuditOutcomeIndexed, "")
	return id, nil
}

func (s *documentService) Search(ctx context.Context, query, category string, accessLevel int) ([]model.Document, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	docs, err := s.index.Search(ctx, query, category, accessLevel, searchSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexingFailed, err)
	}
	return docs, nil
}

func (s *documentService) List(ctx context.Context, accessLevel int) (*DocumentListResult, error) {
	docs, total, err := s.index.List(ctx, accessLevel, maxListSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexingFailed, err)
	}
	return &DocumentListResult{Items: docs, Total: total}, nil
}

func (s *documentService) GetMarkdown(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	doc, err := s.index.Get(ctx, id)
	if err != nil {
		if errors.Is(err, search.ErrDocNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrIndexingFailed, err)
	}
	return &doc, nil
}

func (s *documentService) Download(ctx context.Context, id string, accessLevel int) (io.ReadCloser, storage.FileInfo, error) {
	if id == "" {
		return nil, storage.FileInfo{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	rc, info, err := s.store.Find(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.FileInfo{}, ErrNotFound
		}
		return nil, storage.FileInfo{}, fmt.Errorf("%w: %w", ErrStorageFailed, err)
	}
	if info.Meta.AccessLevel > accessLevel {
		rc.Close()
		return nil, storage.FileInfo{}, ErrAccessDenied
	}
	return rc, info, nil
}

// recordOutcome counts, logs, and best-effort persists the attempt outcome.
// Orphaned outcomes are always logged at error level: they mean the blob
// store and the index have diverged and need out-of-band remediation.
func (s *documentService) recordOutcome(ctx context.Context, doc model.Document, outcome, errText string) {
	ingestOutcomes.WithLabelValues(outcome).Inc()

	if outcome == model.AuditOutcomeOrphaned {
		logJSON(map[string]any{
			"component":     "ingest",
			"event":         "compensation_failed",
			"level":         "error",
			"document_id":   doc.ID,
			"filename":      doc.Filename,
			"error_message": errText,
		})
	}

	if s.audit == nil {
		return
	}
	rec := &model.IngestAudit{
		ID:          uuid.NewString(),
		DocumentID:  doc.ID,
		Filename:    doc.Filename,
		Category:    doc.Category,
		AccessLevel: doc.AccessLevel,
		UploadedBy:  doc.UploadedBy,
		Outcome:     outcome,
		ErrorText:   errText,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.audit.Create(ctx, rec); err != nil {
		logJSON(map[string]any{
			"component":     "ingest",
			"event":         "audit_write_failed",
			"level":         "error",
			"document_id":   doc.ID,
			"outcome":       outcome,
			"error_message": err.Error(),
		})
	}
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal log entry: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
