package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"docissuer/internal/model"
	"docissuer/internal/repository"
)

var hundred = decimal.NewFromInt(100)

// moneyPlaces is the scale of every amount the caller supplies. Derived
// totals of such inputs fit the stored columns exactly.
const moneyPlaces = 2

func tooPrecise(d decimal.Decimal) bool {
	return !d.Equal(d.Truncate(moneyPlaces))
}

// CustomInvoiceInput is the request to bill an arbitrary recipient. Totals
// are always derived from Items and never accepted from the caller.
type CustomInvoiceInput struct {
	Recipient     model.Recipient  `json:"recipient"`
	PaymentDate   time.Time        `json:"payment_date"`
	Items         []model.LineItem `json:"items"`
	TaxPercentage decimal.Decimal  `json:"tax_percentage"`
	Discount      decimal.Decimal  `json:"discount"`
	AmountPaid    decimal.Decimal  `json:"amount_paid"`
	Notes         string           `json:"notes,omitempty"`
}

// CustomInvoiceService defines the custom invoice use cases.
type CustomInvoiceService interface {
	Issue(ctx context.Context, in CustomInvoiceInput) (*model.CustomInvoice, error)
	// Update replaces the recipient, items and amounts of an existing
	// invoice. The number is kept and the PDF is rendered again.
	Update(ctx context.Context, id string, in CustomInvoiceInput) (*model.CustomInvoice, error)
	List(ctx context.Context, q ListQuery) (*ListResult[model.CustomInvoice], error)
	Get(ctx context.Context, id string) (*model.CustomInvoice, error)
	Download(ctx context.Context, id string) (model.RenderedArtifact, error)
	Delete(ctx context.Context, id string) error
}

type customInvoiceService struct {
	*Issuer
	repo repository.CustomInvoiceRepository
}

// NewCustomInvoiceService constructs a new CustomInvoiceService.
func NewCustomInvoiceService(iss *Issuer, repo repository.CustomInvoiceRepository) CustomInvoiceService {
	return &customInvoiceService{Issuer: iss, repo: repo}
}

func validateCustomInvoiceInput(in CustomInvoiceInput) error {
	if strings.TrimSpace(in.Recipient.Name) == "" {
		return model.MissingField("recipient.name")
	}
	if in.PaymentDate.IsZero() {
		return model.MissingField("payment_date")
	}
	if len(in.Items) == 0 {
		return model.MissingField("items")
	}
	for i, it := range in.Items {
		field := "items[" + strconv.Itoa(i) + "]"
		switch {
		case strings.TrimSpace(it.Name) == "":
			return model.MissingField(field + ".name")
		case !it.Quantity.IsPositive():
			return model.InvalidField(field+".quantity", "must be greater than 0")
		case tooPrecise(it.Quantity):
			return model.InvalidField(field+".quantity", "at most 2 decimal places")
		case it.UnitPrice.IsNegative():
			return model.InvalidField(field+".unit_price", "must not be negative")
		case tooPrecise(it.UnitPrice):
			return model.InvalidField(field+".unit_price", "at most 2 decimal places")
		}
	}
	switch {
	case in.TaxPercentage.IsNegative() || in.TaxPercentage.GreaterThan(hundred):
		return model.InvalidField("tax_percentage", "must be between 0 and 100")
	case tooPrecise(in.TaxPercentage):
		return model.InvalidField("tax_percentage", "at most 2 decimal places")
	case in.Discount.IsNegative():
		return model.InvalidField("discount", "must not be negative")
	case tooPrecise(in.Discount):
		return model.InvalidField("discount", "at most 2 decimal places")
	case in.AmountPaid.IsNegative():
		return model.InvalidField("amount_paid", "must not be negative")
	case tooPrecise(in.AmountPaid):
		return model.InvalidField("amount_paid", "at most 2 decimal places")
	}
	return nil
}

func applyCustomInvoiceInput(ci *model.CustomInvoice, in CustomInvoiceInput) {
	ci.Recipient = in.Recipient
	ci.PaymentDate = in.PaymentDate
	ci.Items = in.Items
	ci.AmountPaid = in.AmountPaid
	ci.Notes = in.Notes
	ci.Totals = model.ComputeTotals(in.Items, in.TaxPercentage, in.Discount)
}

func (s *customInvoiceService) Issue(ctx context.Context, in CustomInvoiceInput) (*model.CustomInvoice, error) {
	ctx, span := tracer.Start(ctx, "service.IssueCustomInvoice")
	defer span.End()

	if err := validateCustomInvoiceInput(in); err != nil {
		return nil, err
	}

	now := s.clock()
	id, err := s.number(ctx, model.ClassCustomInvoice, now)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("document.number", id.String()))

	ci := &model.CustomInvoice{
		Record: model.Record{ID: uuid.New().String(), Number: id.String(), CreatedAt: now, UpdatedAt: now},
	}
	applyCustomInvoiceInput(ci, in)

	stored, err := s.repo.Create(ctx, ci)
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	s.log.Info("custom_invoice_issued",
		zap.String("number", stored.Number),
		zap.String("total", stored.Totals.TotalAmount.StringFixed(2)),
	)

	doc, err := s.renderable(stored)
	if err != nil {
		s.log.Warn("artifact_publish_failed", zap.String("number", stored.Number), zap.Error(err))
		return stored, nil
	}
	stored.PDFPath = s.publishAfterCreate(ctx, doc, s.setPath(stored.ID))
	return stored, nil
}

func (s *customInvoiceService) Update(ctx context.Context, id string, in CustomInvoiceInput) (*model.CustomInvoice, error) {
	ctx, span := tracer.Start(ctx, "service.UpdateCustomInvoice")
	defer span.End()

	ci, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateCustomInvoiceInput(in); err != nil {
		return nil, err
	}
	applyCustomInvoiceInput(ci, in)
	ci.UpdatedAt = s.clock()

	updated, err := s.repo.Update(ctx, ci)
	if err != nil {
		return nil, fmt.Errorf("db update failed: %w", err)
	}

	doc, err := s.renderable(updated)
	if err != nil {
		return nil, err
	}
	art, err := s.publish(ctx, doc, s.setPath(updated.ID))
	if err != nil {
		// The row is already updated; Download will render it again.
		s.log.Warn("artifact_publish_failed", zap.String("number", updated.Number), zap.Error(err))
		updated.PDFPath = ""
		return updated, nil
	}
	updated.PDFPath = art.Path
	s.log.Info("custom_invoice_updated", zap.String("number", updated.Number))
	return updated, nil
}

func (s *customInvoiceService) renderable(ci *model.CustomInvoice) (model.RenderableDocument, error) {
	id, err := model.ParseIdentifier(ci.Number)
	if err != nil {
		return model.RenderableDocument{}, err
	}
	return model.RenderableDocument{
		Variant:    model.ClassCustomInvoice,
		Identifier: id,
		RenderedAt: s.clock(),
		CustomInvoice: &model.CustomInvoiceView{
			Recipient:     ci.Recipient,
			PaymentDate:   ci.PaymentDate,
			IssueDate:     date(ci.CreatedAt.In(s.loc)),
			Items:         ci.Items,
			TaxPercentage: ci.Totals.TaxPercentage,
			Discount:      ci.Totals.Discount,
			AmountPaid:    ci.AmountPaid,
			Notes:         ci.Notes,
		},
	}, nil
}

func (s *customInvoiceService) setPath(id string) func(context.Context, string) error {
	return func(ctx context.Context, p string) error { return s.repo.SetPDFPath(ctx, id, p) }
}

func (s *customInvoiceService) List(ctx context.Context, q ListQuery) (*ListResult[model.CustomInvoice], error) {
	return listRecords[model.CustomInvoice](ctx, s.repo, q)
}

func (s *customInvoiceService) Get(ctx context.Context, id string) (*model.CustomInvoice, error) {
	return findRecord[model.CustomInvoice](ctx, s.repo, id)
}

func (s *customInvoiceService) Download(ctx context.Context, id string) (model.RenderedArtifact, error) {
	ctx, span := tracer.Start(ctx, "service.DownloadCustomInvoice")
	defer span.End()

	ci, err := s.Get(ctx, id)
	if err != nil {
		return model.RenderedArtifact{}, err
	}
	return s.fetch(ctx, model.ClassCustomInvoice, ci.Number, ci.PDFPath, func(ctx context.Context) (model.RenderedArtifact, error) {
		doc, err := s.renderable(ci)
		if err != nil {
			return model.RenderedArtifact{}, err
		}
		return s.publish(ctx, doc, s.setPath(ci.ID))
	})
}

func (s *customInvoiceService) Delete(ctx context.Context, id string) error {
	ci, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, ci.PDFPath, func(ctx context.Context) error { return s.repo.Delete(ctx, id) })
}
