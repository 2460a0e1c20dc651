// Package numbering allocates sequential document identifiers.
//
// Allocation is serialized per (prefix, year) namespace by an in-process
// lock, and each step is committed with a compare-and-swap on the sequence
// store so that several processes sharing one database stay unique too. A
// lost swap is retried with a fresh read up to a fixed bound.
//
// The guarantee is uniqueness, not gaplessness: the marker is advanced before
// the owning record is written, so a failed document creation leaves a gap.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"docissuer/internal/model"
	"docissuer/internal/repository"
)

// DefaultMaxAttempts bounds the compare-and-swap loop.
const DefaultMaxAttempts = 5

// maxSequence is the largest value that fits the fixed-width suffix.
const maxSequence = 9999

var (
	ErrInvalidDocumentClass = model.ErrInvalidDocumentClass
	ErrAllocationConflict   = errors.New("allocation conflict: retry budget exhausted")
	ErrSequenceExhausted    = errors.New("sequence exhausted for namespace")
	ErrInvalidYear          = errors.New("invalid allocation year")
)

var knownPrefixes = map[string]bool{
	model.PrefixInvoice:       true,
	model.PrefixCustomInvoice: true,
	model.PrefixCertificate:   true,
}

var tracer = otel.Tracer("docissuer/numbering")

// Option customizes an Allocator.
type Option func(*Allocator)

// WithMaxAttempts overrides DefaultMaxAttempts. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(a *Allocator) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

// WithMetrics records allocation outcomes.
func WithMetrics(m *Metrics) Option {
	return func(a *Allocator) { a.metrics = m }
}

// Allocator hands out document identifiers. It is safe for concurrent use.
type Allocator struct {
	store       repository.SequenceRepository
	maxAttempts int
	metrics     *Metrics

	mu    sync.Mutex
	locks map[model.SequenceKey]*sync.Mutex
}

// New creates an Allocator backed by store.
func New(store repository.SequenceRepository, opts ...Option) *Allocator {
	a := &Allocator{
		store:       store,
		maxAttempts: DefaultMaxAttempts,
		locks:       make(map[model.SequenceKey]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate reserves the next identifier of (prefix, year). The year is
// supplied by the caller; the allocator never reads the clock.
func (a *Allocator) Allocate(ctx context.Context, prefix string, year int) (model.DocumentIdentifier, error) {
	if !knownPrefixes[prefix] {
		return model.DocumentIdentifier{}, fmt.Errorf("%w: prefix %q", ErrInvalidDocumentClass, prefix)
	}
	if year < 1 || year > 9999 {
		return model.DocumentIdentifier{}, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	key := model.SequenceKey{Prefix: prefix, Year: year}

	ctx, span := tracer.Start(ctx, "numbering.Allocate")
	defer span.End()
	span.SetAttributes(attribute.String("numbering.key", key.String()))

	lock := a.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		highest, err := a.store.Highest(ctx, key)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "read highest")
			return model.DocumentIdentifier{}, fmt.Errorf("read highest %s: %w", key, err)
		}
		next := highest + 1
		if next > maxSequence {
			span.SetStatus(codes.Error, "exhausted")
			return model.DocumentIdentifier{}, fmt.Errorf("%w: %s", ErrSequenceExhausted, key)
		}

		ok, err := a.store.CompareAndSwap(ctx, key, highest, next)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "swap")
			return model.DocumentIdentifier{}, fmt.Errorf("advance %s: %w", key, err)
		}
		if ok {
			a.metrics.observeAllocated(prefix, attempt)
			span.SetAttributes(attribute.Int("numbering.sequence", next), attribute.Int("numbering.attempts", attempt))
			return model.DocumentIdentifier{Prefix: prefix, Year: year, Sequence: next}, nil
		}
		a.metrics.observeConflict(prefix)
	}

	a.metrics.observeExhausted(prefix)
	span.SetStatus(codes.Error, "conflict")
	return model.DocumentIdentifier{}, fmt.Errorf("%w: %s after %d attempts", ErrAllocationConflict, key, a.maxAttempts)
}

// AllocateFor is Allocate keyed by document class instead of prefix.
func (a *Allocator) AllocateFor(ctx context.Context, class model.DocumentClass, year int) (model.DocumentIdentifier, error) {
	prefix, err := class.Prefix()
	if err != nil {
		return model.DocumentIdentifier{}, err
	}
	return a.Allocate(ctx, prefix, year)
}

func (a *Allocator) lockFor(key model.SequenceKey) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.locks[key]
	if !ok {
		l = &sync.Mutex{}
		a.locks[key] = l
	}
	return l
}
