package mocks

import (
	"context"

	"healthdocs/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockIndex struct {
	mock.Mock
}

func (m *MockIndex) EnsureIndex(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockIndex) Index(ctx context.Context, doc model.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockIndex) Get(ctx context.Context, id string) (model.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Document), args.Error(1)
}

func (m *MockIndex) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIndex) Search(ctx context.Context, query, category string, accessLevel, size int) ([]model.Document, error) {
	args := m.Called(ctx, query, category, accessLevel, size)
	docs, _ := args.Get(0).([]model.Document)
	return docs, args.Error(1)
}

func (m *MockIndex) List(ctx context.Context, accessLevel, size int) ([]model.Document, int, error) {
	args := m.Called(ctx, accessLevel, size)
	docs, _ := args.Get(0).([]model.Document)
	return docs, args.Int(1), args.Error(2)
}
