// Package service issues numbered documents and keeps their PDF artifacts
// available for download.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"docissuer/internal/model"
	"docissuer/internal/repository"
	"docissuer/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("document not found")
	// ErrArtifactNotFound means the PDF is neither stored nor reproducible.
	ErrArtifactNotFound = errors.New("pdf artifact not found")
)

var tracer = otel.Tracer("docissuer/service")

// Allocator hands out document identifiers.
type Allocator interface {
	AllocateFor(ctx context.Context, class model.DocumentClass, year int) (model.DocumentIdentifier, error)
}

// Renderer turns a resolved document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, doc model.RenderableDocument) (model.RenderedArtifact, error)
}

// ListQuery selects a page of records. See repository.PageQuery.
type ListQuery = repository.PageQuery

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// ListResult is the service-level DTO for paginated records.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

// Option customizes an Issuer.
type Option func(*Issuer)

// WithClock replaces time.Now. Tests pin it.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// WithLocation sets the zone used for the numbering year and issue dates.
func WithLocation(loc *time.Location) Option {
	return func(i *Issuer) {
		if loc != nil {
			i.loc = loc
		}
	}
}

// Issuer holds the collaborators shared by every document class.
type Issuer struct {
	alloc    Allocator
	renderer Renderer
	store    storage.Storage
	log      *zap.Logger
	now      func() time.Time
	loc      *time.Location
}

// NewIssuer wires the shared issuance pipeline.
func NewIssuer(alloc Allocator, renderer Renderer, store storage.Storage, log *zap.Logger, opts ...Option) *Issuer {
	if log == nil {
		log = zap.NewNop()
	}
	i := &Issuer{
		alloc:    alloc,
		renderer: renderer,
		store:    store,
		log:      log.With(zap.String("component", "issuer")),
		now:      time.Now,
		loc:      time.UTC,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Issuer) clock() time.Time {
	return i.now().In(i.loc)
}

// number reserves the next identifier of class in the current year.
func (i *Issuer) number(ctx context.Context, class model.DocumentClass, at time.Time) (model.DocumentIdentifier, error) {
	id, err := i.alloc.AllocateFor(ctx, class, at.Year())
	if err != nil {
		return model.DocumentIdentifier{}, fmt.Errorf("allocate %s number: %w", class, err)
	}
	return id, nil
}

// publish renders doc, stores the bytes and records the path on the owning
// row. The path depends only on the identifier, so a rerun overwrites the
// previous artifact.
func (i *Issuer) publish(ctx context.Context, doc model.RenderableDocument, setPath func(context.Context, string) error) (model.RenderedArtifact, error) {
	art, err := i.renderer.Render(ctx, doc)
	if err != nil {
		return model.RenderedArtifact{}, fmt.Errorf("render %s: %w", doc.Identifier, err)
	}
	_, err = i.store.Put(ctx, art.Path, bytes.NewReader(art.Data), storage.PutObjectOptions{
		Size:        int64(len(art.Data)),
		ContentType: art.ContentType,
		Metadata:    map[string]string{"document-number": doc.Identifier.String()},
	})
	if err != nil {
		return model.RenderedArtifact{}, fmt.Errorf("store %s: %w", art.Path, err)
	}
	if err := setPath(ctx, art.Path); err != nil {
		return model.RenderedArtifact{}, fmt.Errorf("record pdf path of %s: %w", doc.Identifier, err)
	}
	return art, nil
}

// publishAfterCreate is publish for a freshly persisted record. The record
// stays valid when its artifact cannot be produced; Download regenerates it.
func (i *Issuer) publishAfterCreate(ctx context.Context, doc model.RenderableDocument, setPath func(context.Context, string) error) string {
	art, err := i.publish(ctx, doc, setPath)
	if err != nil {
		i.log.Warn("artifact_publish_failed",
			zap.String("number", doc.Identifier.String()),
			zap.Error(err),
		)
		return ""
	}
	return art.Path
}

// fetch returns the stored artifact, regenerating it when the recorded path
// is empty or the object has gone missing.
func (i *Issuer) fetch(ctx context.Context, class model.DocumentClass, number, pdfPath string, regenerate func(context.Context) (model.RenderedArtifact, error)) (model.RenderedArtifact, error) {
	log := i.log.With(zap.String("number", number))

	if pdfPath != "" {
		ok, err := storage.Exists(ctx, i.store, pdfPath)
		if err != nil {
			return model.RenderedArtifact{}, fmt.Errorf("stat %s: %w", pdfPath, err)
		}
		if !ok {
			log.Info("artifact_missing", zap.String("path", pdfPath))
			pdfPath = ""
		}
	}
	if pdfPath == "" {
		art, err := regenerate(ctx)
		if err != nil {
			log.Error("artifact_regenerate_failed", zap.Error(err))
			return model.RenderedArtifact{}, fmt.Errorf("%w: %s: %v", ErrArtifactNotFound, number, err)
		}
		log.Info("artifact_regenerated", zap.String("path", art.Path))
		pdfPath = art.Path
	}

	data, info, err := storage.ReadAll(ctx, i.store, pdfPath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return model.RenderedArtifact{}, fmt.Errorf("%w: %s", ErrArtifactNotFound, number)
	}
	if err != nil {
		return model.RenderedArtifact{}, err
	}
	id, _ := model.ParseIdentifier(number)
	contentType := info.ContentType
	if contentType == "" {
		contentType = model.ContentTypePDF
	}
	return model.RenderedArtifact{
		Path:        pdfPath,
		Filename:    model.ArtifactFilename(class, id),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// remove deletes the artifact first and keeps the row when that fails, so a
// stored object is never orphaned.
func (i *Issuer) remove(ctx context.Context, pdfPath string, deleteRow func(context.Context) error) error {
	if pdfPath != "" {
		if err := i.store.Delete(ctx, pdfPath); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	return deleteRow(ctx)
}

func findRecord[T any](ctx context.Context, repo repository.RecordRepository[T], id string) (*T, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	rec, err := repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// listRecords clamps the page window before querying: limit defaults to 10
// and never exceeds 100, offset is never negative.
func listRecords[T any](ctx context.Context, repo repository.RecordRepository[T], q ListQuery) (*ListResult[T], error) {
	switch {
	case q.Limit <= 0:
		q.Limit = defaultListLimit
	case q.Limit > maxListLimit:
		q.Limit = maxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Search = strings.TrimSpace(q.Search)
	res, err := repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ListResult[T]{Items: res.Items, Total: res.Total}, nil
}

// date truncates t to midnight in its own location.
func date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
