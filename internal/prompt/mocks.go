package prompt

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) Text(ctx context.Context, spec TextSpec) (string, error) {
	args := m.Called(ctx, spec.Message)
	return args.String(0), args.Error(1)
}

func (m *MockPrompter) Select(ctx context.Context, message, hint string, choices []Choice) (string, error) {
	args := m.Called(ctx, message, choices)
	return args.String(0), args.Error(1)
}

func (m *MockPrompter) Confirm(ctx context.Context, message string) (bool, error) {
	args := m.Called(ctx, message)
	return args.Bool(0), args.Error(1)
}
