package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"docissuer/internal/model"
	"docissuer/internal/repository"
)

// InvoiceInput is the request to bill a student for a course.
type InvoiceInput struct {
	StudentID   int64           `json:"student"`
	CourseID    int64           `json:"course"`
	BatchID     *int64          `json:"batch,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
}

// InvoiceService defines the course-fee invoice use cases.
type InvoiceService interface {
	// Issue validates the input, numbers and stores the invoice, then
	// renders its PDF.
	Issue(ctx context.Context, in InvoiceInput) (*model.Invoice, error)
	List(ctx context.Context, q ListQuery) (*ListResult[model.Invoice], error)
	Get(ctx context.Context, id string) (*model.Invoice, error)
	// Download returns the PDF, regenerating it when it is missing.
	Download(ctx context.Context, id string) (model.RenderedArtifact, error)
	Delete(ctx context.Context, id string) error
}

type invoiceService struct {
	*Issuer
	repo     repository.InvoiceRepository
	entities repository.EntityRepository
	balances repository.BalanceRepository
}

// NewInvoiceService constructs a new InvoiceService.
func NewInvoiceService(iss *Issuer, repo repository.InvoiceRepository, entities repository.EntityRepository, balances repository.BalanceRepository) InvoiceService {
	return &invoiceService{Issuer: iss, repo: repo, entities: entities, balances: balances}
}

func validateInvoiceInput(in InvoiceInput) error {
	switch {
	case in.StudentID <= 0:
		return model.MissingField("student")
	case in.CourseID <= 0:
		return model.MissingField("course")
	case in.PaymentDate.IsZero():
		return model.MissingField("payment_date")
	case !in.Amount.IsPositive():
		return model.InvalidField("amount", "must be greater than 0")
	}
	return nil
}

// enrollment resolves the student, course and optional batch of a request.
type enrollment struct {
	student *model.Student
	course  *model.Course
	batch   *model.Batch
}

func resolveEnrollment(ctx context.Context, entities repository.EntityRepository, studentID, courseID int64, batchID *int64) (enrollment, error) {
	var e enrollment
	var err error
	if e.student, err = entities.Student(ctx, studentID); err != nil {
		return e, entityError("student", err)
	}
	if e.course, err = entities.Course(ctx, courseID); err != nil {
		return e, entityError("course", err)
	}
	if batchID != nil {
		if e.batch, err = entities.Batch(ctx, *batchID); err != nil {
			return e, entityError("batch", err)
		}
		if e.batch.CourseID != e.course.ID {
			return e, model.InvalidField("batch", "must belong to the selected course")
		}
	}
	return e, nil
}

func entityError(field string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return model.InvalidField(field, "does not exist")
	}
	return fmt.Errorf("resolve %s: %w", field, err)
}

func (e enrollment) batchName() string {
	if e.batch == nil {
		return ""
	}
	return e.batch.Name
}

func (s *invoiceService) Issue(ctx context.Context, in InvoiceInput) (*model.Invoice, error) {
	ctx, span := tracer.Start(ctx, "service.IssueInvoice")
	defer span.End()

	if err := validateInvoiceInput(in); err != nil {
		return nil, err
	}
	e, err := resolveEnrollment(ctx, s.entities, in.StudentID, in.CourseID, in.BatchID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	id, err := s.number(ctx, model.ClassInvoice, now)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("document.number", id.String()))

	inv := &model.Invoice{
		Record:      model.Record{ID: uuid.New().String(), Number: id.String(), CreatedAt: now, UpdatedAt: now},
		StudentID:   in.StudentID,
		CourseID:    in.CourseID,
		BatchID:     in.BatchID,
		Amount:      in.Amount,
		PaymentDate: in.PaymentDate,
	}
	stored, err := s.repo.Create(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	s.log.Info("invoice_issued", zap.String("number", stored.Number), zap.Int64("student_id", stored.StudentID))

	doc, err := s.renderable(ctx, stored, e)
	if err != nil {
		s.log.Warn("artifact_publish_failed", zap.String("number", stored.Number), zap.Error(err))
		return stored, nil
	}
	stored.PDFPath = s.publishAfterCreate(ctx, doc, s.setPath(stored.ID))
	return stored, nil
}

// renderable builds the display document. The balance is read after the
// invoice row exists so that the new payment is included.
func (s *invoiceService) renderable(ctx context.Context, inv *model.Invoice, e enrollment) (model.RenderableDocument, error) {
	id, err := model.ParseIdentifier(inv.Number)
	if err != nil {
		return model.RenderableDocument{}, err
	}
	bal, err := s.balances.StudentBalance(ctx, inv.StudentID)
	if err != nil {
		return model.RenderableDocument{}, fmt.Errorf("student balance: %w", err)
	}
	return model.RenderableDocument{
		Variant:    model.ClassInvoice,
		Identifier: id,
		RenderedAt: s.clock(),
		Invoice: &model.InvoiceView{
			Recipient: model.Recipient{
				Name:  e.student.Name,
				Email: e.student.Email,
				Phone: e.student.Phone,
			},
			CourseName:     e.course.Name,
			DurationMonths: e.course.DurationMonths,
			BatchName:      e.batchName(),
			Amount:         inv.Amount,
			PaymentDate:    inv.PaymentDate,
			IssueDate:      date(inv.CreatedAt.In(s.loc)),
			Balance:        bal,
		},
	}, nil
}

func (s *invoiceService) setPath(id string) func(context.Context, string) error {
	return func(ctx context.Context, p string) error { return s.repo.SetPDFPath(ctx, id, p) }
}

func (s *invoiceService) List(ctx context.Context, q ListQuery) (*ListResult[model.Invoice], error) {
	return listRecords[model.Invoice](ctx, s.repo, q)
}

func (s *invoiceService) Get(ctx context.Context, id string) (*model.Invoice, error) {
	return findRecord[model.Invoice](ctx, s.repo, id)
}

func (s *invoiceService) Download(ctx context.Context, id string) (model.RenderedArtifact, error) {
	ctx, span := tracer.Start(ctx, "service.DownloadInvoice")
	defer span.End()

	inv, err := s.Get(ctx, id)
	if err != nil {
		return model.RenderedArtifact{}, err
	}
	return s.fetch(ctx, model.ClassInvoice, inv.Number, inv.PDFPath, func(ctx context.Context) (model.RenderedArtifact, error) {
		e, err := resolveEnrollment(ctx, s.entities, inv.StudentID, inv.CourseID, inv.BatchID)
		if err != nil {
			return model.RenderedArtifact{}, err
		}
		doc, err := s.renderable(ctx, inv, e)
		if err != nil {
			return model.RenderedArtifact{}, err
		}
		return s.publish(ctx, doc, s.setPath(inv.ID))
	})
}

func (s *invoiceService) Delete(ctx context.Context, id string) error {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, inv.PDFPath, func(ctx context.Context) error { return s.repo.Delete(ctx, id) })
}
