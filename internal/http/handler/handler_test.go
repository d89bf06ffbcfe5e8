package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"healthdocs/internal/model"
	"healthdocs/internal/service"
	serviceMocks "healthdocs/internal/service/mocks"
	"healthdocs/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, svc service.DocumentService) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, db, svc)
	return app, dbMock
}

func multipartUpload(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("%PDF-1.4 fake bytes"))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decodeJSON(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	app, dbMock := newTestApp(t, nil)

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeJSON(t, resp.Body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db down"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestUpload(t *testing.T) {
	fields := map[string]string{
		"category":     "Clinical",
		"access_level": "2",
		"user_id":      "u1",
	}

	t.Run("created", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		mSvc.On("Ingest", mock.Anything, mock.Anything, mock.Anything, "report.pdf", "Clinical", 2, "u1").
			Return("doc-1", nil)

		body, ct := multipartUpload(t, "report.pdf", fields)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/", body)
		req.Header.Set("Content-Type", ct)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		out := decodeJSON(t, resp.Body)
		assert.Equal(t, "doc-1", out["id"])
		mSvc.AssertExpectations(t)
	})

	t.Run("missing file", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		body, ct := multipartUpload(t, "", fields)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/", body)
		req.Header.Set("Content-Type", ct)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid access level", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		body, ct := multipartUpload(t, "report.pdf", map[string]string{
			"category":     "Clinical",
			"access_level": "not-a-number",
			"user_id":      "u1",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/", body)
		req.Header.Set("Content-Type", ct)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejected extension maps to 400", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		mSvc.On("Ingest", mock.Anything, mock.Anything, mock.Anything, "notes.txt", "Clinical", 2, "u1").
			Return("", service.ErrInvalidInput)

		body, ct := multipartUpload(t, "notes.txt", fields)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/", body)
		req.Header.Set("Content-Type", ct)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		out := decodeJSON(t, resp.Body)
		errEnv := out["error"].(map[string]any)
		assert.Equal(t, "INVALID_INPUT", errEnv["code"])
	})

	t.Run("unreadable pdf maps to 500 with distinct code", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		mSvc.On("Ingest", mock.Anything, mock.Anything, mock.Anything, "report.pdf", "Clinical", 2, "u1").
			Return("", service.ErrExtractionFailed)

		body, ct := multipartUpload(t, "report.pdf", fields)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/", body)
		req.Header.Set("Content-Type", ct)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		out := decodeJSON(t, resp.Body)
		errEnv := out["error"].(map[string]any)
		assert.Equal(t, "EXTRACTION_FAILED", errEnv["code"])
	})

	t.Run("compensation failure maps to 500 with distinct code", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		mSvc.On("Ingest", mock.Anything, mock.Anything, mock.Anything, "report.pdf", "Clinical", 2, "u1").
			Return("", service.ErrCompensationFailed)

		body, ct := multipartUpload(t, "report.pdf", fields)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/", body)
		req.Header.Set("Content-Type", ct)

		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		out := decodeJSON(t, resp.Body)
		errEnv := out["error"].(map[string]any)
		assert.Equal(t, "COMPENSATION_FAILED", errEnv["code"])
	})
}

func TestSearch(t *testing.T) {
	t.Run("returns hits", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		mSvc.On("Search", mock.Anything, "hypertension", "Clinical", 3).
			Return([]model.Document{{ID: "doc-1", Filename: "report.pdf"}}, nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet,
			"/api/v1/documents/search?query=hypertension&category=Clinical&access_level=3", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		out := decodeJSON(t, resp.Body)
		hits := out["result"].([]any)
		require.Len(t, hits, 1)
		mSvc.AssertExpectations(t)
	})

	t.Run("missing access level", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/documents/search?query=x", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("index failure maps to 500", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		mSvc.On("Search", mock.Anything, "x", "", 3).Return(nil, service.ErrIndexingFailed)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet,
			"/api/v1/documents/search?query=x&access_level=3", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		out := decodeJSON(t, resp.Body)
		errEnv := out["error"].(map[string]any)
		assert.Equal(t, "INDEXING_FAILED", errEnv["code"])
	})
}

func TestList(t *testing.T) {
	mSvc := new(serviceMocks.MockDocumentService)
	app, _ := newTestApp(t, mSvc)

	mSvc.On("List", mock.Anything, 2).Return(&service.DocumentListResult{
		Items: []model.Document{{ID: "doc-1", Filename: "report.pdf", Category: "Clinical"}},
		Total: 1,
	}, nil)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/documents/list?access_level=2", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeJSON(t, resp.Body)
	assert.Equal(t, float64(1), out["total"])
	items := out["data"].([]any)
	require.Len(t, items, 1)
	mSvc.AssertExpectations(t)
}

func TestMarkdown(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		mSvc.On("GetMarkdown", mock.Anything, "doc-1").
			Return(&model.Document{ID: "doc-1", Filename: "report.pdf", Content: "# extracted"}, nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1/markdown", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		out := decodeJSON(t, resp.Body)
		assert.Equal(t, "# extracted", out["content"])
		assert.Equal(t, "report.pdf", out["filename"])
	})

	t.Run("not found", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		mSvc.On("GetMarkdown", mock.Anything, "missing").Return(nil, service.ErrNotFound)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/documents/missing/markdown", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDownload(t *testing.T) {
	t.Run("streams the binary with disposition header", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		rc := io.NopCloser(strings.NewReader("%PDF-1.4 fake bytes"))
		info := storage.FileInfo{ID: "doc-1", Filename: "report.pdf", Size: 19}
		mSvc.On("Download", mock.Anything, "doc-1", 2).Return(rc, info, nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/documents/download/doc-1?access_level=2", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `filename="report.pdf"`)
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF-1.4 fake bytes", string(b))
	})

	t.Run("access denied", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		mSvc.On("Download", mock.Anything, "doc-1", 1).
			Return(nil, storage.FileInfo{}, service.ErrAccessDenied)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/documents/download/doc-1?access_level=1", nil))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app, _ := newTestApp(t, mSvc)

		mSvc.On("Download", mock.Anything, "missing", 2).
			Return(nil, storage.FileInfo{}, service.ErrNotFound)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/documents/download/missing?access_level=2", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
