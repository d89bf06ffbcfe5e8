package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Convert(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}
