package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RenderableDocument is the fully resolved input of the renderer. Variant
// selects which payload is read; the other payloads are ignored.
type RenderableDocument struct {
	Variant    DocumentClass
	Identifier DocumentIdentifier
	// RenderedAt is printed in the footer. It is supplied by the caller so
	// that identical input always produces identical bytes.
	RenderedAt time.Time

	Invoice       *InvoiceView
	CustomInvoice *CustomInvoiceView
	Certificate   *CertificateView
}

// InvoiceView is the display data of a course-fee invoice.
type InvoiceView struct {
	Recipient      Recipient
	CourseName     string
	DurationMonths int
	BatchName      string
	Amount         decimal.Decimal
	PaymentDate    time.Time
	IssueDate      time.Time
	// Balance is the recipient's aggregate across all their courses and
	// invoices, provided by the account-balance collaborator.
	Balance AccountBalance
}

// CustomInvoiceView is the display data of a custom invoice.
type CustomInvoiceView struct {
	Recipient     Recipient
	PaymentDate   time.Time
	IssueDate     time.Time
	Items         []LineItem
	TaxPercentage decimal.Decimal
	Discount      decimal.Decimal
	AmountPaid    decimal.Decimal
	Notes         string
}

// Totals recomputes the invoice totals from the items.
func (v *CustomInvoiceView) Totals() Totals {
	return ComputeTotals(v.Items, v.TaxPercentage, v.Discount)
}

// Balance compares the invoice total against what has been paid on it.
func (v *CustomInvoiceView) Balance() AccountBalance {
	return AccountBalance{TotalOwed: v.Totals().TotalAmount, TotalPaid: v.AmountPaid}
}

// CertificateView is the display data of a completion certificate.
type CertificateView struct {
	RecipientName  string
	CourseName     string
	DurationMonths int
	BatchName      string
	CompletionDate time.Time
	IssueDate      time.Time
}
