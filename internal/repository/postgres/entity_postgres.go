package postgres

import (
	"context"
	"database/sql"
	"errors"

	"docissuer/internal/model"
	"docissuer/internal/repository"
)

// EntityPostgres reads students, courses and batches for display and
// aggregates student balances. The tables are owned by the records platform;
// this repository never writes to them.
type EntityPostgres struct {
	db *sql.DB
}

// NewEntityPostgres creates a new EntityPostgres repository.
func NewEntityPostgres(db *sql.DB) *EntityPostgres {
	return &EntityPostgres{db: db}
}

var (
	_ repository.EntityRepository  = (*EntityPostgres)(nil)
	_ repository.BalanceRepository = (*EntityPostgres)(nil)
)

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// Student fetches a student by primary key.
func (r *EntityPostgres) Student(ctx context.Context, id int64) (*model.Student, error) {
	const q = `SELECT id, name, email, phone FROM students WHERE id = $1`
	var s model.Student
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.Email, &s.Phone); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// Course fetches a course by primary key.
func (r *EntityPostgres) Course(ctx context.Context, id int64) (*model.Course, error) {
	const q = `SELECT id, name, description, duration, fee FROM courses WHERE id = $1`
	var c model.Course
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Description, &c.DurationMonths, &c.Fee); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Batch fetches a batch by primary key.
func (r *EntityPostgres) Batch(ctx context.Context, id int64) (*model.Batch, error) {
	const q = `SELECT id, course_id, name, start_date, end_date, instructor_name FROM batches WHERE id = $1`
	var b model.Batch
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.CourseID, &b.Name, &b.StartDate, &b.EndDate, &b.InstructorName); err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// StudentBalance sums the fees of every course the student is enrolled in
// and the amounts of every invoice issued to them.
func (r *EntityPostgres) StudentBalance(ctx context.Context, studentID int64) (model.AccountBalance, error) {
	const q = `
		SELECT
			COALESCE((SELECT SUM(c.fee) FROM student_courses sc JOIN courses c ON c.id = sc.course_id WHERE sc.student_id = $1), 0),
			COALESCE((SELECT SUM(i.amount) FROM invoices i WHERE i.student_id = $1), 0)
	`
	var b model.AccountBalance
	if err := r.db.QueryRowContext(ctx, q, studentID).Scan(&b.TotalOwed, &b.TotalPaid); err != nil {
		return model.AccountBalance{}, err
	}
	return b, nil
}
