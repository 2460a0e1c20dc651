package repository

import (
	"context"
	"errors"

	"docissuer/internal/model"
)

var (
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert collides with a uniqueness
	// rule of the business key (not the primary key).
	ErrDuplicate = errors.New("duplicate record")
)

// SequenceRepository persists the highest allocated sequence per numbering
// namespace. No business logic here; the allocator owns the retry policy.
type SequenceRepository interface {
	// Highest returns the highest sequence already taken in the namespace,
	// or 0 when nothing has been issued for it yet.
	Highest(ctx context.Context, key model.SequenceKey) (int, error)

	// CompareAndSwap moves the marker from old to new. It returns false,
	// without error, when another writer changed the marker first.
	CompareAndSwap(ctx context.Context, key model.SequenceKey, old, new int) (bool, error)
}

// IssuedScanner finds the highest sequence among identifiers already
// persisted on document rows. Counter stores use it to seed a namespace that
// has no marker yet.
type IssuedScanner interface {
	HighestIssued(ctx context.Context, key model.SequenceKey) (int, error)
}

// RecordRepository defines data access for one class of issued document.
type RecordRepository[T any] interface {
	// Create inserts a new record and returns the stored row.
	Create(ctx context.Context, rec *T) (*T, error)

	// FindByID returns a record by its ID.
	FindByID(ctx context.Context, id string) (*T, error)

	// FindByNumber returns a record by its exact canonical identifier.
	FindByNumber(ctx context.Context, number string) (*T, error)

	// List returns a paginated list of records and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[T], error)

	// SetPDFPath records where the rendered artifact was stored.
	SetPDFPath(ctx context.Context, id, path string) error

	// Delete removes a record by ID. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}

type InvoiceRepository interface {
	RecordRepository[model.Invoice]
}

type CustomInvoiceRepository interface {
	RecordRepository[model.CustomInvoice]

	// Update rewrites the recipient, items and cached totals of a record.
	Update(ctx context.Context, rec *model.CustomInvoice) (*model.CustomInvoice, error)
}

type CertificateRepository interface {
	RecordRepository[model.Certificate]

	// ExistsForStudentCourse reports whether a certificate was already issued
	// for the pair.
	ExistsForStudentCourse(ctx context.Context, studentID, courseID int64) (bool, error)
}

// EntityRepository resolves referenced entities to their display values.
// Lookups of unknown IDs return ErrNotFound.
type EntityRepository interface {
	Student(ctx context.Context, id int64) (*model.Student, error)
	Course(ctx context.Context, id int64) (*model.Course, error)
	Batch(ctx context.Context, id int64) (*model.Batch, error)
}

// BalanceRepository aggregates what a student owes and has paid.
type BalanceRepository interface {
	StudentBalance(ctx context.Context, studentID int64) (model.AccountBalance, error)
}

// PageQuery selects one page of records.
type PageQuery struct {
	Limit  int
	Offset int
	// Search is matched case-insensitively as a substring of the document
	// number and the display names of the record.
	Search string
	// Ordering names one sortable field, "-" prefixed for descending.
	// Unknown fields fall back to the default order.
	Ordering string
	// StudentID keeps only that student's records when non-zero.
	StudentID int64
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
