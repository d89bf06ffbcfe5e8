package mocks

import (
	"context"
	"io"

	"healthdocs/internal/model"
	"healthdocs/internal/service"
	"healthdocs/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Ingest(ctx context.Context, r io.Reader, size int64, filename, category string, accessLevel int, uploadedBy string) (string, error) {
	args := m.Called(ctx, r, size, filename, category, accessLevel, uploadedBy)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) Search(ctx context.Context, query, category string, accessLevel int) ([]model.Document, error) {
	args := m.Called(ctx, query, category, accessLevel)
	docs, _ := args.Get(0).([]model.Document)
	return docs, args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, accessLevel int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, accessLevel)
	res, _ := args.Get(0).(*service.DocumentListResult)
	return res, args.Error(1)
}

func (m *MockDocumentService) GetMarkdown(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*model.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, id string, accessLevel int) (io.ReadCloser, storage.FileInfo, error) {
	args := m.Called(ctx, id, accessLevel)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(storage.FileInfo), args.Error(2)
}
