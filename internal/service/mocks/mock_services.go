package mocks

import (
	"context"

	"docissuer/internal/model"
	"docissuer/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Issue(ctx context.Context, in service.InvoiceInput) (*model.Invoice, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, q service.ListQuery) (*service.ListResult[model.Invoice], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Invoice]), args.Error(1)
}

func (m *MockInvoiceService) Get(ctx context.Context, id string) (*model.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Download(ctx context.Context, id string) (model.RenderedArtifact, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.RenderedArtifact), args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockCustomInvoiceService struct {
	mock.Mock
}

func (m *MockCustomInvoiceService) Issue(ctx context.Context, in service.CustomInvoiceInput) (*model.CustomInvoice, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomInvoice), args.Error(1)
}

func (m *MockCustomInvoiceService) Update(ctx context.Context, id string, in service.CustomInvoiceInput) (*model.CustomInvoice, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomInvoice), args.Error(1)
}

func (m *MockCustomInvoiceService) List(ctx context.Context, q service.ListQuery) (*service.ListResult[model.CustomInvoice], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.CustomInvoice]), args.Error(1)
}

func (m *MockCustomInvoiceService) Get(ctx context.Context, id string) (*model.CustomInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomInvoice), args.Error(1)
}

func (m *MockCustomInvoiceService) Download(ctx context.Context, id string) (model.RenderedArtifact, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.RenderedArtifact), args.Error(1)
}

func (m *MockCustomInvoiceService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockCertificateService struct {
	mock.Mock
}

func (m *MockCertificateService) Issue(ctx context.Context, in service.CertificateInput) (*model.Certificate, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Certificate), args.Error(1)
}

func (m *MockCertificateService) Verify(ctx context.Context, certificateID string) (*service.Verification, error) {
	args := m.Called(ctx, certificateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Verification), args.Error(1)
}

func (m *MockCertificateService) List(ctx context.Context, q service.ListQuery) (*service.ListResult[model.Certificate], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Certificate]), args.Error(1)
}

func (m *MockCertificateService) Get(ctx context.Context, id string) (*model.Certificate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Certificate), args.Error(1)
}

func (m *MockCertificateService) Download(ctx context.Context, id string) (model.RenderedArtifact, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.RenderedArtifact), args.Error(1)
}

func (m *MockCertificateService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var (
	_ service.InvoiceService       = (*MockInvoiceService)(nil)
	_ service.CustomInvoiceService = (*MockCustomInvoiceService)(nil)
	_ service.CertificateService   = (*MockCertificateService)(nil)
)
