package mocks

import (
	"context"

	"docissuer/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Highest(ctx context.Context, key model.SequenceKey) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockSequenceRepository) CompareAndSwap(ctx context.Context, key model.SequenceKey, old, new int) (bool, error) {
	args := m.Called(ctx, key, old, new)
	return args.Bool(0), args.Error(1)
}

type MockIssuedScanner struct {
	mock.Mock
}

func (m *MockIssuedScanner) HighestIssued(ctx context.Context, key model.SequenceKey) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}
