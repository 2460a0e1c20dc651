package mocks

import (
	"context"

	"docissuer/internal/model"
	"docissuer/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockRecordRepository[T any] struct {
	mock.Mock
}

func (m *MockRecordRepository[T]) Create(ctx context.Context, rec *T) (*T, error) {
	args := m.Called(ctx, rec)
	if f, ok := args.Get(0).(func(context.Context, *T) *T); ok {
		return f(ctx, rec), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRecordRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRecordRepository[T]) FindByNumber(ctx context.Context, number string) (*T, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRecordRepository[T]) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[T], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[T]), args.Error(1)
}

func (m *MockRecordRepository[T]) SetPDFPath(ctx context.Context, id, path string) error {
	args := m.Called(ctx, id, path)
	return args.Error(0)
}

func (m *MockRecordRepository[T]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInvoiceRepository struct {
	MockRecordRepository[model.Invoice]
}

type MockCustomInvoiceRepository struct {
	MockRecordRepository[model.CustomInvoice]
}

func (m *MockCustomInvoiceRepository) Update(ctx context.Context, rec *model.CustomInvoice) (*model.CustomInvoice, error) {
	args := m.Called(ctx, rec)
	if f, ok := args.Get(0).(func(context.Context, *model.CustomInvoice) *model.CustomInvoice); ok {
		return f(ctx, rec), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomInvoice), args.Error(1)
}

type MockCertificateRepository struct {
	MockRecordRepository[model.Certificate]
}

func (m *MockCertificateRepository) ExistsForStudentCourse(ctx context.Context, studentID, courseID int64) (bool, error) {
	args := m.Called(ctx, studentID, courseID)
	return args.Bool(0), args.Error(1)
}

var (
	_ repository.InvoiceRepository       = (*MockInvoiceRepository)(nil)
	_ repository.CustomInvoiceRepository = (*MockCustomInvoiceRepository)(nil)
	_ repository.CertificateRepository   = (*MockCertificateRepository)(nil)
)
