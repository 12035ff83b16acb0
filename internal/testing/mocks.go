package testing

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTool is a mock implementation of the certtool.Tool interface.
type MockTool struct {
	mock.Mock
}

// CreateCA records the call and returns the configured error.
func (m *MockTool) CreateCA(ctx context.Context, certsDir, caKey string) error {
	args := m.Called(ctx, certsDir, caKey)
	return args.Error(0)
}

// CreateClient records the call and returns the configured error.
func (m *MockTool) CreateClient(ctx context.Context, certsDir, caKey, user string) error {
	args := m.Called(ctx, certsDir, caKey, user)
	return args.Error(0)
}

// CreateNode records the call and returns the configured error.
func (m *MockTool) CreateNode(ctx context.Context, certsDir, caKey string, hosts []string) error {
	args := m.Called(ctx, certsDir, caKey, hosts)
	return args.Error(0)
}
