package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"docissuer/internal/model"
	"docissuer/internal/repository"
)

// CertificatePostgres is a PostgreSQL implementation of repository.CertificateRepository.
type CertificatePostgres struct {
	db *sql.DB
}

// NewCertificatePostgres creates a new CertificatePostgres repository.
func NewCertificatePostgres(db *sql.DB) *CertificatePostgres {
	return &CertificatePostgres{db: db}
}

var _ repository.CertificateRepository = (*CertificatePostgres)(nil)

// certificateStudentCourseKey is the name Postgres gives UNIQUE (student_id, course_id).
const certificateStudentCourseKey = "certificates_student_id_course_id_key"

// uniqueViolation is SQLSTATE 23505.
const uniqueViolation = "23505"

const certificateColumns = `id, certificate_id, student_id, course_id, batch_id, completion_date, pdf_path, issued_at, created_at, updated_at`

func scanCertificate(row interface{ Scan(...any) error }) (*model.Certificate, error) {
	var c model.Certificate
	if err := row.Scan(
		&c.ID,
		&c.Number,
		&c.StudentID,
		&c.CourseID,
		&c.BatchID,
		&c.CompletionDate,
		&c.PDFPath,
		&c.IssuedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new certificate row and returns the stored record.
func (r *CertificatePostgres) Create(ctx context.Context, c *model.Certificate) (*model.Certificate, error) {
	const q = `
		INSERT INTO certificates (id, certificate_id, student_id, course_id, batch_id, completion_date, pdf_path, issued_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + certificateColumns
	row := r.db.QueryRowContext(ctx, q,
		c.ID,
		c.Number,
		c.StudentID,
		c.CourseID,
		c.BatchID,
		c.CompletionDate,
		c.PDFPath,
		c.IssuedAt,
		c.CreatedAt,
		c.UpdatedAt,
	)
	stored, err := scanCertificate(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == certificateStudentCourseKey {
			return nil, fmt.Errorf("%w: certificate for student %d and course %d", repository.ErrDuplicate, c.StudentID, c.CourseID)
		}
		return nil, err
	}
	return stored, nil
}

// FindByID fetches a single certificate by its ID.
func (r *CertificatePostgres) FindByID(ctx context.Context, id string) (*model.Certificate, error) {
	const q = `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1`
	return scanCertificate(r.db.QueryRowContext(ctx, q, id))
}

// FindByNumber fetches a certificate by its exact certificate ID.
func (r *CertificatePostgres) FindByNumber(ctx context.Context, number string) (*model.Certificate, error) {
	const q = `SELECT ` + certificateColumns + ` FROM certificates WHERE certificate_id = $1`
	return scanCertificate(r.db.QueryRowContext(ctx, q, number))
}

var certificateListing = listing{
	from:       "certificates r JOIN students s ON s.id = r.student_id JOIN courses c ON c.id = r.course_id",
	columns:    qualify("r", certificateColumns),
	searchable: []string{"r.certificate_id", "s.name", "c.name"},
	orderable: map[string]string{
		"certificate_id":  "r.certificate_id",
		"completion_date": "r.completion_date",
		"issued_at":       "r.issued_at",
	},
	defaultOrder:  "r.issued_at DESC, r.id DESC",
	studentColumn: "r.student_id",
}

// List returns a page of certificates, most recently issued first by default.
func (r *CertificatePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Certificate], error) {
	return listRows(ctx, r.db, certificateListing, pq, scanCertificate)
}

// ExistsForStudentCourse reports whether the pair already holds a certificate.
func (r *CertificatePostgres) ExistsForStudentCourse(ctx context.Context, studentID, courseID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM certificates WHERE student_id = $1 AND course_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, studentID, courseID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// SetPDFPath stores the artifact path of a certificate.
func (r *CertificatePostgres) SetPDFPath(ctx context.Context, id, path string) error {
	const q = `UPDATE certificates SET pdf_path = $2, updated_at = now() WHERE id = $1`
	return execOne(ctx, r.db, q, id, path)
}

// Delete removes a certificate by ID.
func (r *CertificatePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM certificates WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
