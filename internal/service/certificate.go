package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"docissuer/internal/model"
	"docissuer/internal/repository"
)

// ErrCertificateExists rejects a second certificate for the same student and course.
var ErrCertificateExists = errors.New("certificate already exists for this student and course")

// ErrCertificateIDRequired is returned by Verify for blank input.
var ErrCertificateIDRequired = errors.New("certificate id is required")

// CertificateInput is the request to certify a course completion.
type CertificateInput struct {
	StudentID      int64     `json:"student"`
	CourseID       int64     `json:"course"`
	BatchID        *int64    `json:"batch,omitempty"`
	CompletionDate time.Time `json:"completion_date"`
}

// Verification is the public answer to a certificate lookup.
type Verification struct {
	CertificateID     string    `json:"certificate_id"`
	StudentName       string    `json:"student_name"`
	CourseName        string    `json:"course_name"`
	CourseDescription string    `json:"course_description,omitempty"`
	DurationMonths    int       `json:"course_duration"`
	BatchName         string    `json:"batch_name,omitempty"`
	CompletionDate    time.Time `json:"completion_date"`
	IssuedAt          time.Time `json:"issued_at"`
}

// CertificateService defines the certificate use cases.
type CertificateService interface {
	Issue(ctx context.Context, in CertificateInput) (*model.Certificate, error)
	// Verify looks up a certificate by its public identifier. The input is
	// trimmed and upper-cased, then matched exactly.
	Verify(ctx context.Context, certificateID string) (*Verification, error)
	List(ctx context.Context, q ListQuery) (*ListResult[model.Certificate], error)
	Get(ctx context.Context, id string) (*model.Certificate, error)
	Download(ctx context.Context, id string) (model.RenderedArtifact, error)
	Delete(ctx context.Context, id string) error
}

type certificateService struct {
	*Issuer
	repo     repository.CertificateRepository
	entities repository.EntityRepository
}

// NewCertificateService constructs a new CertificateService.
func NewCertificateService(iss *Issuer, repo repository.CertificateRepository, entities repository.EntityRepository) CertificateService {
	return &certificateService{Issuer: iss, repo: repo, entities: entities}
}

func (s *certificateService) Issue(ctx context.Context, in CertificateInput) (*model.Certificate, error) {
	ctx, span := tracer.Start(ctx, "service.IssueCertificate")
	defer span.End()

	switch {
	case in.StudentID <= 0:
		return nil, model.MissingField("student")
	case in.CourseID <= 0:
		return nil, model.MissingField("course")
	case in.CompletionDate.IsZero():
		return nil, model.MissingField("completion_date")
	}
	e, err := resolveEnrollment(ctx, s.entities, in.StudentID, in.CourseID, in.BatchID)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsForStudentCourse(ctx, in.StudentID, in.CourseID)
	if err != nil {
		return nil, fmt.Errorf("check existing certificate: %w", err)
	}
	if exists {
		return nil, certificateExists()
	}

	now := s.clock()
	id, err := s.number(ctx, model.ClassCertificate, now)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("document.number", id.String()))

	cert := &model.Certificate{
		Record:         model.Record{ID: uuid.New().String(), Number: id.String(), CreatedAt: now, UpdatedAt: now},
		StudentID:      in.StudentID,
		CourseID:       in.CourseID,
		BatchID:        in.BatchID,
		CompletionDate: in.CompletionDate,
		IssuedAt:       now,
	}
	stored, err := s.repo.Create(ctx, cert)
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent issue for the same pair won the insert.
		return nil, certificateExists()
	}
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	s.log.Info("certificate_issued", zap.String("number", stored.Number), zap.Int64("student_id", stored.StudentID))

	doc, err := s.renderable(stored, e)
	if err != nil {
		s.log.Warn("artifact_publish_failed", zap.String("number", stored.Number), zap.Error(err))
		return stored, nil
	}
	stored.PDFPath = s.publishAfterCreate(ctx, doc, s.setPath(stored.ID))
	return stored, nil
}

func certificateExists() error {
	return &model.FieldError{Field: "course", Reason: ErrCertificateExists.Error(), Err: ErrCertificateExists}
}

func (s *certificateService) renderable(c *model.Certificate, e enrollment) (model.RenderableDocument, error) {
	id, err := model.ParseIdentifier(c.Number)
	if err != nil {
		return model.RenderableDocument{}, err
	}
	return model.RenderableDocument{
		Variant:    model.ClassCertificate,
		Identifier: id,
		RenderedAt: s.clock(),
		Certificate: &model.CertificateView{
			RecipientName:  e.student.Name,
			CourseName:     e.course.Name,
			DurationMonths: e.course.DurationMonths,
			BatchName:      e.batchName(),
			CompletionDate: c.CompletionDate,
			IssueDate:      date(c.IssuedAt.In(s.loc)),
		},
	}, nil
}

func (s *certificateService) setPath(id string) func(context.Context, string) error {
	return func(ctx context.Context, p string) error { return s.repo.SetPDFPath(ctx, id, p) }
}

func (s *certificateService) Verify(ctx context.Context, certificateID string) (*Verification, error) {
	ctx, span := tracer.Start(ctx, "service.VerifyCertificate")
	defer span.End()

	number := model.NormalizeIdentifier(certificateID)
	if number == "" {
		return nil, ErrCertificateIDRequired
	}
	c, err := s.repo.FindByNumber(ctx, number)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e, err := resolveEnrollment(ctx, s.entities, c.StudentID, c.CourseID, c.BatchID)
	if err != nil {
		return nil, err
	}
	return &Verification{
		CertificateID:     c.Number,
		StudentName:       e.student.Name,
		CourseName:        e.course.Name,
		CourseDescription: e.course.Description,
		DurationMonths:    e.course.DurationMonths,
		BatchName:         e.batchName(),
		CompletionDate:    c.CompletionDate,
		IssuedAt:          c.IssuedAt,
	}, nil
}

func (s *certificateService) List(ctx context.Context, q ListQuery) (*ListResult[model.Certificate], error) {
	return listRecords[model.Certificate](ctx, s.repo, q)
}

func (s *certificateService) Get(ctx context.Context, id string) (*model.Certificate, error) {
	return findRecord[model.Certificate](ctx, s.repo, id)
}

func (s *certificateService) Download(ctx context.Context, id string) (model.RenderedArtifact, error) {
	ctx, span := tracer.Start(ctx, "service.DownloadCertificate")
	defer span.End()

	c, err := s.Get(ctx, id)
	if err != nil {
		return model.RenderedArtifact{}, err
	}
	return s.fetch(ctx, model.ClassCertificate, c.Number, c.PDFPath, func(ctx context.Context) (model.RenderedArtifact, error) {
		e, err := resolveEnrollment(ctx, s.entities, c.StudentID, c.CourseID, c.BatchID)
		if err != nil {
			return model.RenderedArtifact{}, err
		}
		doc, err := s.renderable(c, e)
		if err != nil {
			return model.RenderedArtifact{}, err
		}
		return s.publish(ctx, doc, s.setPath(c.ID))
	})
}

func (s *certificateService) Delete(ctx context.Context, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, c.PDFPath, func(ctx context.Context) error { return s.repo.Delete(ctx, id) })
}
