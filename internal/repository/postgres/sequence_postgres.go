package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docissuer/internal/model"
	"docissuer/internal/repository"
)

// SequencePostgres stores one row per numbering namespace in
// document_sequences. A namespace without a row is seeded by scanning the
// identifiers already persisted on the owning document table.
type SequencePostgres struct {
	db *sql.DB
}

// NewSequencePostgres creates a new SequencePostgres repository.
func NewSequencePostgres(db *sql.DB) *SequencePostgres {
	return &SequencePostgres{db: db}
}

var (
	_ repository.SequenceRepository = (*SequencePostgres)(nil)
	_ repository.IssuedScanner      = (*SequencePostgres)(nil)
)

// issuedColumns maps a prefix to the table and column holding its identifiers.
var issuedColumns = map[string]struct{ table, column string }{
	model.PrefixInvoice:       {"invoices", "invoice_number"},
	model.PrefixCustomInvoice: {"custom_invoices", "invoice_number"},
	model.PrefixCertificate:   {"certificates", "certificate_id"},
}

// Highest returns the stored marker, falling back to the issued-identifier scan.
func (r *SequencePostgres) Highest(ctx context.Context, key model.SequenceKey) (int, error) {
	const q = `SELECT highest FROM document_sequences WHERE prefix = $1 AND year = $2`
	var highest int
	err := r.db.QueryRowContext(ctx, q, key.Prefix, key.Year).Scan(&highest)
	if err == nil {
		return highest, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return r.HighestIssued(ctx, key)
}

// HighestIssued finds the last identifier of the namespace. Identifiers are
// fixed width, so the lexicographic maximum is also the numeric maximum.
func (r *SequencePostgres) HighestIssued(ctx context.Context, key model.SequenceKey) (int, error) {
	src, ok := issuedColumns[key.Prefix]
	if !ok {
		return 0, fmt.Errorf("%w: prefix %q", model.ErrInvalidDocumentClass, key.Prefix)
	}
	q := fmt.Sprintf(`SELECT %[2]s FROM %[1]s WHERE %[2]s LIKE $1 ORDER BY %[2]s DESC LIMIT 1`, src.table, src.column)

	var last string
	err := r.db.QueryRowContext(ctx, q, key.String()+"-%").Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	id, err := model.ParseIdentifier(last)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", key, err)
	}
	return id.Sequence, nil
}

// CompareAndSwap advances the namespace marker from old to new. The update
// is conditional on the current value; when no row exists yet the first
// inserter wins and every other concurrent inserter sees a conflict.
func (r *SequencePostgres) CompareAndSwap(ctx context.Context, key model.SequenceKey, old, new int) (bool, error) {
	const qUpdate = `
		UPDATE document_sequences
		SET highest = $3, updated_at = now()
		WHERE prefix = $1 AND year = $2 AND highest = $4
	`
	res, err := r.db.ExecContext(ctx, qUpdate, key.Prefix, key.Year, new, old)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n == 1 {
		return true, nil
	}

	const qInsert = `
		INSERT INTO document_sequences (prefix, year, highest)
		VALUES ($1, $2, $3)
		ON CONFLICT (prefix, year) DO NOTHING
	`
	res, err = r.db.ExecContext(ctx, qInsert, key.Prefix, key.Year, new)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
