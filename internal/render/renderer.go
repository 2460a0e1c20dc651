// Package render turns resolved documents into PDF artifacts.
//
// Rendering is a pure function of the RenderableDocument and the Theme: the
// clock is never read, and the PDF creation date is the document's
// RenderedAt, so identical input yields byte-identical output.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docissuer/internal/model"
)

var (
	ErrMissingRequiredField       = model.ErrMissingRequiredField
	ErrUnsupportedDocumentVariant = errors.New("unsupported document variant")
)

var tracer = otel.Tracer("docissuer/render")

type template struct {
	orientation string
	title       string
	validate    func(model.RenderableDocument) error
	draw        func(*page, model.RenderableDocument)
}

var templates = map[model.DocumentClass]template{
	model.ClassInvoice: {
		orientation: "P",
		title:       "Invoice",
		validate:    validateInvoice,
		draw: func(p *page, doc model.RenderableDocument) {
			drawInvoice(p, doc, invoiceSheetFor(doc, p.fmt))
		},
	},
	model.ClassCustomInvoice: {
		orientation: "P",
		title:       "Invoice",
		validate:    validateCustomInvoice,
		draw: func(p *page, doc model.RenderableDocument) {
			drawInvoice(p, doc, customInvoiceSheetFor(doc, p.fmt))
		},
	},
	model.ClassCertificate: {
		orientation: "L",
		title:       "Certificate of Completion",
		validate:    validateCertificate,
		draw:        drawCertificate,
	},
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithCompression toggles PDF stream compression. It is on by default.
func WithCompression(on bool) Option {
	return func(r *Renderer) { r.compress = on }
}

// WithMetrics records render durations and failures.
func WithMetrics(m *Metrics) Option {
	return func(r *Renderer) { r.metrics = m }
}

// Renderer renders documents with a fixed theme. It holds no mutable state
// and is safe for concurrent use.
type Renderer struct {
	theme    Theme
	compress bool
	metrics  *Metrics
}

// New creates a Renderer.
func New(theme Theme, opts ...Option) *Renderer {
	r := &Renderer{theme: theme, compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() Theme { return r.theme }

// Render produces the PDF artifact of doc together with its storage path.
func (r *Renderer) Render(ctx context.Context, doc model.RenderableDocument) (model.RenderedArtifact, error) {
	_, span := tracer.Start(ctx, "render.Render",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("document.variant", string(doc.Variant)),
			attribute.String("document.identifier", doc.Identifier.String()),
		),
	)
	defer span.End()

	start := time.Now()
	art, err := r.render(doc)
	r.metrics.observe(doc.Variant, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render")
		return model.RenderedArtifact{}, err
	}
	span.SetAttributes(attribute.Int("document.bytes", len(art.Data)))
	return art, nil
}

func (r *Renderer) render(doc model.RenderableDocument) (model.RenderedArtifact, error) {
	tpl, ok := templates[doc.Variant]
	if !ok {
		return model.RenderedArtifact{}, fmt.Errorf("%w: %q", ErrUnsupportedDocumentVariant, doc.Variant)
	}
	if doc.Identifier.IsZero() {
		return model.RenderedArtifact{}, model.MissingField("identifier")
	}
	if want, _ := doc.Variant.Prefix(); doc.Identifier.Prefix != want {
		return model.RenderedArtifact{}, model.InvalidField("identifier", "prefix does not match "+string(doc.Variant))
	}
	if doc.RenderedAt.IsZero() {
		return model.RenderedArtifact{}, model.MissingField("rendered_at")
	}
	if err := tpl.validate(doc); err != nil {
		return model.RenderedArtifact{}, err
	}

	p := newPage(r.theme, pageSettings{
		orientation: tpl.orientation,
		title:       tpl.title + " " + doc.Identifier.String(),
		renderedAt:  doc.RenderedAt,
		compress:    r.compress,
	})
	tpl.draw(p, doc)
	data, err := p.bytes()
	if err != nil {
		return model.RenderedArtifact{}, fmt.Errorf("write pdf %s: %w", doc.Identifier, err)
	}

	return model.RenderedArtifact{
		Path:        model.ArtifactPath(doc.Variant, doc.Identifier),
		Filename:    model.ArtifactFilename(doc.Variant, doc.Identifier),
		ContentType: model.ContentTypePDF,
		Data:        data,
	}, nil
}
