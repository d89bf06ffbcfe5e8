package mocks

import (
	"context"
	"io"

	"healthdocs/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, r io.Reader, size int64, filename string, meta storage.DocumentMeta) (string, error) {
	args := m.Called(ctx, r, size, filename, meta)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Find(ctx context.Context, id string) (io.ReadCloser, storage.FileInfo, error) {
	args := m.Called(ctx, id)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(storage.FileInfo), args.Error(2)
}

func (m *MockBlobStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
