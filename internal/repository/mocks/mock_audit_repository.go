package mocks

import (
	"context"

	"healthdocs/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, rec *model.IngestAudit) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByOutcome(ctx context.Context, outcome string, limit int) ([]model.IngestAudit, error) {
	args := m.Called(ctx, outcome, limit)
	items, _ := args.Get(0).([]model.IngestAudit)
	return items, args.Error(1)
}
