package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockCoverStore is a testify mock of the cover image store used by the
// book handler.
type MockCoverStore struct {
	mock.Mock
}

// Save reads the image so callers see the body consumed, then returns the
// configured path.
func (m *MockCoverStore) Save(ctx context.Context, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// Remove is a mock implementation of the cover store Remove method.
func (m *MockCoverStore) Remove(ctx context.Context, publicPath string) error {
	args := m.Called(ctx, publicPath)
	return args.Error(0)
}
