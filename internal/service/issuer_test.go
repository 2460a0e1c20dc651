package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"docissuer/internal/model"
	"docissuer/internal/numbering"
	"docissuer/internal/render"
	"docissuer/internal/repository/memory"
	"docissuer/internal/storage"
	storagemocks "docissuer/internal/storage/mocks"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type harness struct {
	issuer *Issuer
	alloc  *numbering.Allocator
	store  storage.Storage
}

// newHarness wires the real allocator, renderer and filesystem store. Only
// the record repositories are mocked by the individual tests.
func newHarness(t *testing.T) harness {
	t.Helper()
	store, err := storage.NewFilesystem(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)
	alloc := numbering.New(memory.NewSequenceMemory(nil))
	renderer := render.New(render.DefaultTheme(), render.WithCompression(false))
	iss := NewIssuer(alloc, renderer, store, zaptest.NewLogger(t), WithClock(func() time.Time { return fixedNow }))
	return harness{issuer: iss, alloc: alloc, store: store}
}

// echo makes a Create or Update mock return the record it was given.
func echo[T any]() func(context.Context, *T) *T {
	return func(_ context.Context, rec *T) *T { return rec }
}

func anyCtx() any { return mock.Anything }

func mustExist(t *testing.T, s storage.Storage, key string) {
	t.Helper()
	ok, err := storage.Exists(context.Background(), s, key)
	require.NoError(t, err)
	require.True(t, ok, "expected %s to be stored", key)
}

func student() *model.Student {
	return &model.Student{ID: 1, Name: "Ada Lovelace", Email: "ada@example.test", Phone: "555-0100"}
}

func course() *model.Course {
	return &model.Course{ID: 2, Name: "Analytical Engines", Description: "Punch cards", DurationMonths: 6, Fee: dec("1000")}
}

func batch(courseID int64) *model.Batch {
	return &model.Batch{ID: 3, CourseID: courseID, Name: "Spring 2026"}
}

func TestIssuer_FetchStorageOutage(t *testing.T) {
	store := new(storagemocks.MockStorage)
	store.On("Stat", anyCtx(), "invoices/invoice_INV-2026-0001.pdf").
		Return(storage.ObjectInfo{}, errors.New("connection refused"))
	iss := NewIssuer(nil, nil, store, zaptest.NewLogger(t))

	regenerated := false
	_, err := iss.fetch(context.Background(), model.ClassInvoice, "INV-2026-0001", "invoices/invoice_INV-2026-0001.pdf",
		func(context.Context) (model.RenderedArtifact, error) {
			regenerated = true
			return model.RenderedArtifact{}, nil
		})

	require.ErrorContains(t, err, "connection refused")
	assert.NotErrorIs(t, err, ErrArtifactNotFound)
	assert.False(t, regenerated, "an unreachable store must not trigger regeneration")
	store.AssertExpectations(t)
}

func TestIssuer_RemoveKeepsRowWhenDeleteFails(t *testing.T) {
	store := new(storagemocks.MockStorage)
	store.On("Delete", anyCtx(), "certificates/certificate_CERT-2026-0001.pdf").Return(errors.New("access denied"))
	iss := NewIssuer(nil, nil, store, zaptest.NewLogger(t))

	rowDeleted := false
	err := iss.remove(context.Background(), "certificates/certificate_CERT-2026-0001.pdf", func(context.Context) error {
		rowDeleted = true
		return nil
	})

	assert.ErrorContains(t, err, "access denied")
	assert.False(t, rowDeleted)
}

func TestIssuer_RemoveWithoutArtifact(t *testing.T) {
	store := new(storagemocks.MockStorage)
	iss := NewIssuer(nil, nil, store, zaptest.NewLogger(t))

	rowDeleted := false
	err := iss.remove(context.Background(), "", func(context.Context) error {
		rowDeleted = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, rowDeleted)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
