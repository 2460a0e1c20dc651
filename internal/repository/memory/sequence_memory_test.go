package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docissuer/internal/model"
	"docissuer/internal/repository/mocks"
)

func TestSequenceMemory_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	key := model.SequenceKey{Prefix: "INV", Year: 2026}
	s := NewSequenceMemory(nil)

	got, err := s.Highest(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	ok, err := s.CompareAndSwap(ctx, key, 0, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CompareAndSwap(ctx, key, 0, 1)
	require.NoError(t, err)
	assert.False(t, ok, "stale expectation must lose")

	got, err = s.Highest(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	other, err := s.Highest(ctx, model.SequenceKey{Prefix: "INV", Year: 2027})
	require.NoError(t, err)
	assert.Equal(t, 0, other)
}

func TestSequenceMemory_SeedsFromScanner(t *testing.T) {
	ctx := context.Background()
	key := model.SequenceKey{Prefix: "CERT", Year: 2025}
	scanner := new(mocks.MockIssuedScanner)
	scanner.On("HighestIssued", mock.Anything, key).Return(41, nil)

	s := NewSequenceMemory(scanner)

	got, err := s.Highest(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 41, got)

	ok, err := s.CompareAndSwap(ctx, key, 0, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.CompareAndSwap(ctx, key, 41, 42)
	require.NoError(t, err)
	assert.True(t, ok)

	// seeded namespaces no longer consult the scanner
	got, err = s.Highest(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestSequenceMemory_ScannerError(t *testing.T) {
	ctx := context.Background()
	key := model.SequenceKey{Prefix: "CI", Year: 2026}
	scanner := new(mocks.MockIssuedScanner)
	scanner.On("HighestIssued", mock.Anything, key).Return(0, errors.New("db down"))

	s := NewSequenceMemory(scanner)

	_, err := s.CompareAndSwap(ctx, key, 0, 1)
	assert.EqualError(t, err, "db down")
}
