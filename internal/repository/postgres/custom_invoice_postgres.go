package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"docissuer/internal/model"
	"docissuer/internal/repository"
)

// CustomInvoicePostgres is a PostgreSQL implementation of
// repository.CustomInvoiceRepository. Line items are kept in a JSONB column;
// the totals columns mirror whatever the caller computed.
type CustomInvoicePostgres struct {
	db *sql.DB
}

// NewCustomInvoicePostgres creates a new CustomInvoicePostgres repository.
func NewCustomInvoicePostgres(db *sql.DB) *CustomInvoicePostgres {
	return &CustomInvoicePostgres{db: db}
}

var _ repository.CustomInvoiceRepository = (*CustomInvoicePostgres)(nil)

const customInvoiceColumns = `id, invoice_number, recipient_name, recipient_email, recipient_phone, recipient_address,
	payment_date, items, subtotal, tax_percentage, tax_amount, discount, total_amount, amount_paid, notes,
	pdf_path, created_at, updated_at`

func scanCustomInvoice(row interface{ Scan(...any) error }) (*model.CustomInvoice, error) {
	var (
		ci    model.CustomInvoice
		items []byte
	)
	if err := row.Scan(
		&ci.ID,
		&ci.Number,
		&ci.Recipient.Name,
		&ci.Recipient.Email,
		&ci.Recipient.Phone,
		&ci.Recipient.Address,
		&ci.PaymentDate,
		&items,
		&ci.Totals.Subtotal,
		&ci.Totals.TaxPercentage,
		&ci.Totals.TaxAmount,
		&ci.Totals.Discount,
		&ci.Totals.TotalAmount,
		&ci.AmountPaid,
		&ci.Notes,
		&ci.PDFPath,
		&ci.CreatedAt,
		&ci.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(items, &ci.Items); err != nil {
		return nil, fmt.Errorf("decode items of %s: %w", ci.Number, err)
	}
	return &ci, nil
}

// Create inserts a new custom invoice row and returns the stored record.
func (r *CustomInvoicePostgres) Create(ctx context.Context, ci *model.CustomInvoice) (*model.CustomInvoice, error) {
	items, err := json.Marshal(ci.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	const q = `
		INSERT INTO custom_invoices (id, invoice_number, recipient_name, recipient_email, recipient_phone, recipient_address,
			payment_date, items, subtotal, tax_percentage, tax_amount, discount, total_amount, amount_paid, notes,
			pdf_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING ` + customInvoiceColumns
	row := r.db.QueryRowContext(ctx, q,
		ci.ID,
		ci.Number,
		ci.Recipient.Name,
		ci.Recipient.Email,
		ci.Recipient.Phone,
		ci.Recipient.Address,
		ci.PaymentDate,
		items,
		ci.Totals.Subtotal,
		ci.Totals.TaxPercentage,
		ci.Totals.TaxAmount,
		ci.Totals.Discount,
		ci.Totals.TotalAmount,
		ci.AmountPaid,
		ci.Notes,
		ci.PDFPath,
		ci.CreatedAt,
		ci.UpdatedAt,
	)
	return scanCustomInvoice(row)
}

// Update rewrites the editable columns and clears the stored artifact path,
// since the previous rendering no longer matches the row.
func (r *CustomInvoicePostgres) Update(ctx context.Context, ci *model.CustomInvoice) (*model.CustomInvoice, error) {
	items, err := json.Marshal(ci.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	const q = `
		UPDATE custom_invoices
		SET recipient_name = $2, recipient_email = $3, recipient_phone = $4, recipient_address = $5,
			payment_date = $6, items = $7, subtotal = $8, tax_percentage = $9, tax_amount = $10,
			discount = $11, total_amount = $12, amount_paid = $13, notes = $14, pdf_path = '', updated_at = $15
		WHERE id = $1
		RETURNING ` + customInvoiceColumns
	row := r.db.QueryRowContext(ctx, q,
		ci.ID,
		ci.Recipient.Name,
		ci.Recipient.Email,
		ci.Recipient.Phone,
		ci.Recipient.Address,
		ci.PaymentDate,
		items,
		ci.Totals.Subtotal,
		ci.Totals.TaxPercentage,
		ci.Totals.TaxAmount,
		ci.Totals.Discount,
		ci.Totals.TotalAmount,
		ci.AmountPaid,
		ci.Notes,
		ci.UpdatedAt,
	)
	return scanCustomInvoice(row)
}

// FindByID fetches a single custom invoice by its ID.
func (r *CustomInvoicePostgres) FindByID(ctx context.Context, id string) (*model.CustomInvoice, error) {
	const q = `SELECT ` + customInvoiceColumns + ` FROM custom_invoices WHERE id = $1`
	return scanCustomInvoice(r.db.QueryRowContext(ctx, q, id))
}

// FindByNumber fetches a custom invoice by its exact invoice number.
func (r *CustomInvoicePostgres) FindByNumber(ctx context.Context, number string) (*model.CustomInvoice, error) {
	const q = `SELECT ` + customInvoiceColumns + ` FROM custom_invoices WHERE invoice_number = $1`
	return scanCustomInvoice(r.db.QueryRowContext(ctx, q, number))
}

var customInvoiceListing = listing{
	from:       "custom_invoices r",
	columns:    qualify("r", customInvoiceColumns),
	searchable: []string{"r.invoice_number", "r.recipient_name", "r.recipient_email"},
	orderable: map[string]string{
		"invoice_number": "r.invoice_number",
		"payment_date":   "r.payment_date",
		"created_at":     "r.created_at",
		"total_amount":   "r.total_amount",
	},
	defaultOrder: "r.created_at DESC, r.id DESC",
}

// List returns a page of custom invoices. They have no student, so
// pq.StudentID is not applied.
func (r *CustomInvoicePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.CustomInvoice], error) {
	return listRows(ctx, r.db, customInvoiceListing, pq, scanCustomInvoice)
}

// SetPDFPath stores the artifact path of a custom invoice.
func (r *CustomInvoicePostgres) SetPDFPath(ctx context.Context, id, path string) error {
	const q = `UPDATE custom_invoices SET pdf_path = $2, updated_at = now() WHERE id = $1`
	return execOne(ctx, r.db, q, id, path)
}

// Delete removes a custom invoice by ID.
func (r *CustomInvoicePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM custom_invoices WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
