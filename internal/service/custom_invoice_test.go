package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docissuer/internal/model"
	repoMocks "docissuer/internal/repository/mocks"
	"docissuer/internal/storage"
)

func customInput() CustomInvoiceInput {
	return CustomInvoiceInput{
		Recipient:   model.Recipient{Name: "Acme Ltd", Address: "1 Long Road"},
		PaymentDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Items: []model.LineItem{
			{Name: "Tuition", Quantity: dec("2"), UnitPrice: dec("500")},
		},
		TaxPercentage: dec("10"),
		Discount:      dec("50"),
		AmountPaid:    dec("1050"),
	}
}

func TestCustomInvoiceService_Issue(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	repo := new(repoMocks.MockCustomInvoiceRepository)
	svc := NewCustomInvoiceService(h.issuer, repo)

	repo.On("Create", anyCtx(), mock.MatchedBy(func(ci *model.CustomInvoice) bool {
		return ci.Number == "CINV-2026-0001" && ci.Totals.TotalAmount.Equal(dec("1050"))
	})).Return(echo[model.CustomInvoice](), nil)
	repo.On("SetPDFPath", anyCtx(), mock.Anything, "invoices/custom/custom_invoice_CINV-2026-0001.pdf").Return(nil)

	ci, err := svc.Issue(ctx, customInput())
	require.NoError(t, err)
	assert.True(t, ci.Totals.Subtotal.Equal(dec("1000")))
	assert.True(t, ci.Totals.TaxAmount.Equal(dec("100")))
	mustExist(t, h.store, ci.PDFPath)

	data, _, err := storage.ReadAll(ctx, h.store, ci.PDFPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "(PAID IN FULL)")
	repo.AssertExpectations(t)
}

func TestCustomInvoiceService_Issue_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CustomInvoiceInput)
		field  string
	}{
		{"no items", func(in *CustomInvoiceInput) { in.Items = nil }, "items"},
		{"blank recipient", func(in *CustomInvoiceInput) { in.Recipient.Name = "  " }, "recipient.name"},
		{"missing payment date", func(in *CustomInvoiceInput) { in.PaymentDate = time.Time{} }, "payment_date"},
		{"unnamed item", func(in *CustomInvoiceInput) { in.Items[0].Name = "" }, "items[0].name"},
		{"zero quantity", func(in *CustomInvoiceInput) { in.Items[0].Quantity = dec("0") }, "items[0].quantity"},
		{"negative price", func(in *CustomInvoiceInput) { in.Items[0].UnitPrice = dec("-1") }, "items[0].unit_price"},
		{"tax above 100", func(in *CustomInvoiceInput) { in.TaxPercentage = dec("100.01") }, "tax_percentage"},
		{"negative discount", func(in *CustomInvoiceInput) { in.Discount = dec("-1") }, "discount"},
		{"negative payment", func(in *CustomInvoiceInput) { in.AmountPaid = dec("-1") }, "amount_paid"},
		{"three place tax", func(in *CustomInvoiceInput) { in.TaxPercentage = dec("12.345") }, "tax_percentage"},
		{"sub-cent discount", func(in *CustomInvoiceInput) { in.Discount = dec("0.005") }, "discount"},
		{"sub-cent payment", func(in *CustomInvoiceInput) { in.AmountPaid = dec("10.001") }, "amount_paid"},
		{"three place quantity", func(in *CustomInvoiceInput) { in.Items[0].Quantity = dec("1.125") }, "items[0].quantity"},
		{"sub-cent price", func(in *CustomInvoiceInput) { in.Items[0].UnitPrice = dec("9.999") }, "items[0].unit_price"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			repo := new(repoMocks.MockCustomInvoiceRepository)
			svc := NewCustomInvoiceService(h.issuer, repo)

			in := customInput()
			tc.mutate(&in)
			_, err := svc.Issue(context.Background(), in)

			var fe *model.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.field, fe.Field)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

// Stored totals are reloaded from NUMERIC columns before rendering; the
// totals recomputed from the reloaded row must equal those returned at issue.
func TestCustomInvoiceService_Issue_TotalsSurviveColumnScale(t *testing.T) {
	h := newHarness(t)
	repo := new(repoMocks.MockCustomInvoiceRepository)
	svc := NewCustomInvoiceService(h.issuer, repo)

	in := customInput()
	in.Items = []model.LineItem{
		{Name: "Tuition", Quantity: dec("2.5"), UnitPrice: dec("333.33")},
		{Name: "Lab", Quantity: dec("0.75"), UnitPrice: dec("0.07")},
	}
	in.TaxPercentage = dec("12.35")
	in.Discount = dec("0.01")

	var created *model.CustomInvoice
	repo.On("Create", anyCtx(), mock.Anything).Return(func(_ context.Context, ci *model.CustomInvoice) *model.CustomInvoice {
		created = ci
		return ci
	}, nil)
	repo.On("SetPDFPath", anyCtx(), mock.Anything, mock.Anything).Return(nil)

	ci, err := svc.Issue(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, created)

	reloaded := model.ComputeTotals(ci.Items,
		ci.Totals.TaxPercentage.Round(2), ci.Totals.Discount.Round(2))
	assert.True(t, reloaded.TotalAmount.Equal(ci.Totals.TotalAmount),
		"recomputed %s, stored %s", reloaded.TotalAmount, ci.Totals.TotalAmount)
	for _, d := range []decimal.Decimal{ci.Totals.Subtotal, ci.Totals.TaxAmount, ci.Totals.TotalAmount} {
		assert.True(t, d.Equal(d.Truncate(8)), "%s does not fit NUMERIC(20,8)", d)
	}
}

func TestCustomInvoiceService_Update_RecomputesAndRerenders(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	repo := new(repoMocks.MockCustomInvoiceRepository)
	svc := NewCustomInvoiceService(h.issuer, repo)

	existing := &model.CustomInvoice{
		Record:      model.Record{ID: "ci-1", Number: "CINV-2026-0003", CreatedAt: fixedNow.Add(-48 * time.Hour)},
		Recipient:   model.Recipient{Name: "Acme Ltd"},
		PaymentDate: fixedNow,
		Items:       []model.LineItem{{Name: "Old", Quantity: dec("1"), UnitPrice: dec("1")}},
	}
	existing.Recompute()
	repo.On("FindByID", anyCtx(), "ci-1").Return(existing, nil)
	repo.On("Update", anyCtx(), mock.MatchedBy(func(ci *model.CustomInvoice) bool {
		return ci.Number == "CINV-2026-0003" && ci.Totals.TotalAmount.Equal(dec("1050")) && ci.UpdatedAt.Equal(fixedNow)
	})).Return(echo[model.CustomInvoice](), nil)
	repo.On("SetPDFPath", anyCtx(), "ci-1", "invoices/custom/custom_invoice_CINV-2026-0003.pdf").Return(nil)

	in := customInput()
	in.AmountPaid = dec("600")
	ci, err := svc.Update(ctx, "ci-1", in)
	require.NoError(t, err)
	assert.Equal(t, "CINV-2026-0003", ci.Number)

	data, _, err := storage.ReadAll(ctx, h.store, ci.PDFPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "(BALANCE DUE: $450.00)")
	repo.AssertExpectations(t)
}

func TestCustomInvoiceService_Update_NotFound(t *testing.T) {
	h := newHarness(t)
	repo := new(repoMocks.MockCustomInvoiceRepository)
	svc := NewCustomInvoiceService(h.issuer, repo)
	repo.On("FindByID", anyCtx(), "nope").Return(nil, ErrNotFound)

	_, err := svc.Update(context.Background(), "nope", customInput())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomInvoiceService_Download_UsesStoredArtifact(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	repo := new(repoMocks.MockCustomInvoiceRepository)
	svc := NewCustomInvoiceService(h.issuer, repo)

	key := "invoices/custom/custom_invoice_CINV-2026-0002.pdf"
	_, err := h.store.Put(ctx, key, strings.NewReader("stored bytes"), storage.PutObjectOptions{Size: -1, ContentType: model.ContentTypePDF})
	require.NoError(t, err)
	repo.On("FindByID", anyCtx(), "ci-2").
		Return(&model.CustomInvoice{Record: model.Record{ID: "ci-2", Number: "CINV-2026-0002", PDFPath: key}}, nil)

	art, err := svc.Download(ctx, "ci-2")
	require.NoError(t, err)
	assert.Equal(t, "stored bytes", string(art.Data))
	assert.Equal(t, "custom_invoice_CINV-2026-0002.pdf", art.Filename)
	repo.AssertNotCalled(t, "SetPDFPath", mock.Anything, mock.Anything, mock.Anything)
}
