package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record holds the bookkeeping shared by every issued document row.
type Record struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	PDFPath   string    `json:"pdf_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Invoice is a course-fee invoice issued to an enrolled student.
type Invoice struct {
	Record
	StudentID   int64           `json:"student"`
	CourseID    int64           `json:"course"`
	BatchID     *int64          `json:"batch,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
}

// CustomInvoice is an invoice to an arbitrary recipient with free-form items.
// The Totals are a cache of ComputeTotals over Items and must be refreshed
// whenever Items, the tax percentage or the discount change.
type CustomInvoice struct {
	Record
	Recipient   Recipient       `json:"recipient"`
	PaymentDate time.Time       `json:"payment_date"`
	Items       []LineItem      `json:"items"`
	Totals      Totals          `json:"totals"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Notes       string          `json:"notes,omitempty"`
}

// Recompute refreshes the cached totals from the current items.
func (ci *CustomInvoice) Recompute() {
	ci.Totals = ComputeTotals(ci.Items, ci.Totals.TaxPercentage, ci.Totals.Discount)
}

// Certificate is a course completion certificate.
type Certificate struct {
	Record
	StudentID      int64     `json:"student"`
	CourseID       int64     `json:"course"`
	BatchID        *int64    `json:"batch,omitempty"`
	CompletionDate time.Time `json:"completion_date"`
	IssuedAt       time.Time `json:"issued_at"`
}

// Recipient is the bill-to party of an invoice.
type Recipient struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Student, Course and Batch are display projections of records owned by the
// entity store.
type Student struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Course struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	DurationMonths int             `json:"duration"`
	Fee            decimal.Decimal `json:"fee"`
}

type Batch struct {
	ID             int64     `json:"id"`
	CourseID       int64     `json:"course"`
	Name           string    `json:"name"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	InstructorName string    `json:"instructor_name"`
}
