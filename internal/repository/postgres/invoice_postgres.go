package postgres

import (
	"context"
	"database/sql"
	"errors"

	"docissuer/internal/model"
	"docissuer/internal/repository"
)

// InvoicePostgres is a PostgreSQL implementation of repository.InvoiceRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type InvoicePostgres struct {
	db *sql.DB
}

// NewInvoicePostgres creates a new InvoicePostgres repository.
func NewInvoicePostgres(db *sql.DB) *InvoicePostgres {
	return &InvoicePostgres{db: db}
}

var _ repository.InvoiceRepository = (*InvoicePostgres)(nil)

const invoiceColumns = `id, invoice_number, student_id, course_id, batch_id, amount, payment_date, pdf_path, created_at, updated_at`

func scanInvoice(row interface{ Scan(...any) error }) (*model.Invoice, error) {
	var inv model.Invoice
	if err := row.Scan(
		&inv.ID,
		&inv.Number,
		&inv.StudentID,
		&inv.CourseID,
		&inv.BatchID,
		&inv.Amount,
		&inv.PaymentDate,
		&inv.PDFPath,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// Create inserts a new invoice row and returns the stored record.
func (r *InvoicePostgres) Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error) {
	const q = `
		INSERT INTO invoices (id, invoice_number, student_id, course_id, batch_id, amount, payment_date, pdf_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + invoiceColumns
	row := r.db.QueryRowContext(ctx, q,
		inv.ID,
		inv.Number,
		inv.StudentID,
		inv.CourseID,
		inv.BatchID,
		inv.Amount,
		inv.PaymentDate,
		inv.PDFPath,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	return scanInvoice(row)
}

// FindByID fetches a single invoice by its ID.
func (r *InvoicePostgres) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.db.QueryRowContext(ctx, q, id))
}

// FindByNumber fetches a single invoice by its exact invoice number.
func (r *InvoicePostgres) FindByNumber(ctx context.Context, number string) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_number = $1`
	return scanInvoice(r.db.QueryRowContext(ctx, q, number))
}

var invoiceListing = listing{
	from:       "invoices r JOIN students s ON s.id = r.student_id JOIN courses c ON c.id = r.course_id",
	columns:    qualify("r", invoiceColumns),
	searchable: []string{"r.invoice_number", "s.name", "c.name"},
	orderable: map[string]string{
		"invoice_number": "r.invoice_number",
		"payment_date":   "r.payment_date",
		"created_at":     "r.created_at",
	},
	defaultOrder:  "r.created_at DESC, r.id DESC",
	studentColumn: "r.student_id",
}

// List returns a page of invoices, newest first unless pq.Ordering says
// otherwise. Search covers the number, student name and course name.
func (r *InvoicePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Invoice], error) {
	return listRows(ctx, r.db, invoiceListing, pq, scanInvoice)
}

// SetPDFPath stores the artifact path of an invoice.
func (r *InvoicePostgres) SetPDFPath(ctx context.Context, id, path string) error {
	const q = `UPDATE invoices SET pdf_path = $2, updated_at = now() WHERE id = $1`
	return execOne(ctx, r.db, q, id, path)
}

// Delete removes an invoice by ID. It does not return an error if the row does not exist.
func (r *InvoicePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM invoices WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, db *sql.DB, q string, args ...any) error {
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
