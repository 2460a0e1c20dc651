package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docissuer/internal/model"
	"docissuer/internal/repository"
	repoMocks "docissuer/internal/repository/mocks"
	"docissuer/internal/storage"
)

type invoiceMocks struct {
	repo     *repoMocks.MockInvoiceRepository
	entities *repoMocks.MockEntityRepository
	balances *repoMocks.MockBalanceRepository
}

func newInvoiceService(t *testing.T) (InvoiceService, invoiceMocks, harness) {
	h := newHarness(t)
	m := invoiceMocks{
		repo:     new(repoMocks.MockInvoiceRepository),
		entities: new(repoMocks.MockEntityRepository),
		balances: new(repoMocks.MockBalanceRepository),
	}
	return NewInvoiceService(h.issuer, m.repo, m.entities, m.balances), m, h
}

func TestInvoiceService_Issue(t *testing.T) {
	ctx := context.Background()
	svc, m, h := newInvoiceService(t)
	batchID := int64(3)

	m.entities.On("Student", anyCtx(), int64(1)).Return(student(), nil)
	m.entities.On("Course", anyCtx(), int64(2)).Return(course(), nil)
	m.entities.On("Batch", anyCtx(), batchID).Return(batch(2), nil)
	m.repo.On("Create", anyCtx(), mock.MatchedBy(func(inv *model.Invoice) bool {
		return inv.Number == "INV-2026-0001" && inv.ID != "" && inv.Amount.Equal(dec("600"))
	})).Return(echo[model.Invoice](), nil)
	m.balances.On("StudentBalance", anyCtx(), int64(1)).
		Return(model.AccountBalance{TotalOwed: dec("1000"), TotalPaid: dec("600")}, nil)
	m.repo.On("SetPDFPath", anyCtx(), mock.Anything, "invoices/invoice_INV-2026-0001.pdf").Return(nil)

	inv, err := svc.Issue(ctx, InvoiceInput{
		StudentID:   1,
		CourseID:    2,
		BatchID:     &batchID,
		Amount:      dec("600"),
		PaymentDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0001", inv.Number)
	assert.Equal(t, "invoices/invoice_INV-2026-0001.pdf", inv.PDFPath)
	mustExist(t, h.store, inv.PDFPath)
	m.repo.AssertExpectations(t)
	m.balances.AssertExpectations(t)
}

func TestInvoiceService_Issue_Validation(t *testing.T) {
	paid := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		in    InvoiceInput
		field string
	}{
		{"missing student", InvoiceInput{CourseID: 2, Amount: dec("1"), PaymentDate: paid}, "student"},
		{"missing course", InvoiceInput{StudentID: 1, Amount: dec("1"), PaymentDate: paid}, "course"},
		{"missing payment date", InvoiceInput{StudentID: 1, CourseID: 2, Amount: dec("1")}, "payment_date"},
		{"zero amount", InvoiceInput{StudentID: 1, CourseID: 2, Amount: dec("0"), PaymentDate: paid}, "amount"},
		{"negative amount", InvoiceInput{StudentID: 1, CourseID: 2, Amount: dec("-5"), PaymentDate: paid}, "amount"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, m, _ := newInvoiceService(t)
			_, err := svc.Issue(context.Background(), tc.in)

			var fe *model.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.field, fe.Field)
			m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestInvoiceService_Issue_BatchOfOtherCourse(t *testing.T) {
	svc, m, _ := newInvoiceService(t)
	batchID := int64(3)
	m.entities.On("Student", anyCtx(), int64(1)).Return(student(), nil)
	m.entities.On("Course", anyCtx(), int64(2)).Return(course(), nil)
	m.entities.On("Batch", anyCtx(), batchID).Return(batch(99), nil)

	_, err := svc.Issue(context.Background(), InvoiceInput{
		StudentID: 1, CourseID: 2, BatchID: &batchID, Amount: dec("10"), PaymentDate: fixedNow,
	})
	assert.ErrorIs(t, err, model.ErrInvalidField)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceService_Issue_UnknownStudent(t *testing.T) {
	svc, m, _ := newInvoiceService(t)
	m.entities.On("Student", anyCtx(), int64(7)).Return(nil, repository.ErrNotFound)

	_, err := svc.Issue(context.Background(), InvoiceInput{StudentID: 7, CourseID: 2, Amount: dec("10"), PaymentDate: fixedNow})
	var fe *model.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "student", fe.Field)
}

func TestInvoiceService_Issue_RenderFailureKeepsRecord(t *testing.T) {
	svc, m, _ := newInvoiceService(t)
	m.entities.On("Student", anyCtx(), int64(1)).Return(student(), nil)
	m.entities.On("Course", anyCtx(), int64(2)).Return(course(), nil)
	m.repo.On("Create", anyCtx(), mock.Anything).Return(echo[model.Invoice](), nil)
	m.balances.On("StudentBalance", anyCtx(), int64(1)).Return(model.AccountBalance{}, errors.New("db down"))

	inv, err := svc.Issue(context.Background(), InvoiceInput{StudentID: 1, CourseID: 2, Amount: dec("10"), PaymentDate: fixedNow})
	require.NoError(t, err)
	assert.Empty(t, inv.PDFPath)
	m.repo.AssertNotCalled(t, "SetPDFPath", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Issue_CreateFailureLeavesGap(t *testing.T) {
	svc, m, h := newInvoiceService(t)
	m.entities.On("Student", anyCtx(), int64(1)).Return(student(), nil)
	m.entities.On("Course", anyCtx(), int64(2)).Return(course(), nil)
	m.repo.On("Create", anyCtx(), mock.Anything).Return(nil, errors.New("insert failed")).Once()

	_, err := svc.Issue(context.Background(), InvoiceInput{StudentID: 1, CourseID: 2, Amount: dec("10"), PaymentDate: fixedNow})
	assert.ErrorContains(t, err, "insert failed")

	next, err := h.alloc.Allocate(context.Background(), model.PrefixInvoice, 2026)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-0002", next.String())
}

func TestInvoiceService_Download_Regenerates(t *testing.T) {
	ctx := context.Background()
	svc, m, _ := newInvoiceService(t)
	inv := &model.Invoice{
		Record:      model.Record{ID: "inv-1", Number: "INV-2026-0004", CreatedAt: fixedNow},
		StudentID:   1,
		CourseID:    2,
		Amount:      dec("1000"),
		PaymentDate: fixedNow,
	}
	m.repo.On("FindByID", anyCtx(), "inv-1").Return(inv, nil)
	m.entities.On("Student", anyCtx(), int64(1)).Return(student(), nil)
	m.entities.On("Course", anyCtx(), int64(2)).Return(course(), nil)
	m.balances.On("StudentBalance", anyCtx(), int64(1)).
		Return(model.AccountBalance{TotalOwed: dec("1000"), TotalPaid: dec("1000")}, nil)
	m.repo.On("SetPDFPath", anyCtx(), "inv-1", "invoices/invoice_INV-2026-0004.pdf").Return(nil).Once()

	art, err := svc.Download(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "invoice_INV-2026-0004.pdf", art.Filename)
	assert.Equal(t, model.ContentTypePDF, art.ContentType)
	assert.True(t, len(art.Data) > 4 && string(art.Data[:4]) == "%PDF")
	m.repo.AssertExpectations(t)
}

func TestInvoiceService_Download_StoredPathMissingObject(t *testing.T) {
	svc, m, _ := newInvoiceService(t)
	inv := &model.Invoice{
		Record:    model.Record{ID: "inv-2", Number: "INV-2026-0005", PDFPath: "invoices/invoice_INV-2026-0005.pdf", CreatedAt: fixedNow},
		StudentID: 1, CourseID: 2, Amount: dec("10"), PaymentDate: fixedNow,
	}
	m.repo.On("FindByID", anyCtx(), "inv-2").Return(inv, nil)
	m.entities.On("Student", anyCtx(), int64(1)).Return(nil, repository.ErrNotFound)

	_, err := svc.Download(context.Background(), "inv-2")
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestInvoiceService_GetListDelete(t *testing.T) {
	ctx := context.Background()
	svc, m, h := newInvoiceService(t)

	_, err := svc.Get(ctx, "")
	assert.ErrorIs(t, err, ErrIDRequired)

	m.repo.On("FindByID", anyCtx(), "missing").Return(nil, repository.ErrNotFound)
	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	m.repo.On("List", anyCtx(), repository.PageQuery{Limit: 10, Offset: 0}).
		Return(&repository.PageResult[model.Invoice]{Items: []model.Invoice{{}}, Total: 1}, nil)
	res, err := svc.List(ctx, ListQuery{Limit: 0, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	m.repo.On("List", anyCtx(), repository.PageQuery{Limit: 100, Offset: 20, Search: "ada", Ordering: "-payment_date", StudentID: 4}).
		Return(&repository.PageResult[model.Invoice]{}, nil)
	_, err = svc.List(ctx, ListQuery{Limit: 100000000, Offset: 20, Search: "  ada ", Ordering: "-payment_date", StudentID: 4})
	require.NoError(t, err)
	m.repo.AssertCalled(t, "List", anyCtx(), repository.PageQuery{Limit: 100, Offset: 20, Search: "ada", Ordering: "-payment_date", StudentID: 4})

	key := "invoices/invoice_INV-2026-0009.pdf"
	_, err = h.store.Put(ctx, key, strings.NewReader("pdf"), storage.PutObjectOptions{Size: -1})
	require.NoError(t, err)
	m.repo.On("FindByID", anyCtx(), "inv-9").Return(&model.Invoice{Record: model.Record{ID: "inv-9", PDFPath: key}}, nil)
	m.repo.On("Delete", anyCtx(), "inv-9").Return(nil)

	require.NoError(t, svc.Delete(ctx, "inv-9"))
	ok, err := storage.Exists(ctx, h.store, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
