// Package memory holds process-local repository implementations, used by
// single-instance deployments and by tests.
package memory

import (
	"context"
	"sync"

	"docissuer/internal/model"
	"docissuer/internal/repository"
)

// SequenceMemory keeps sequence markers in a map. It is safe for concurrent
// use by multiple goroutines.
type SequenceMemory struct {
	mu      sync.Mutex
	highest map[model.SequenceKey]int
	scanner repository.IssuedScanner
}

// NewSequenceMemory creates an empty store. scanner may be nil; when set it
// seeds namespaces that have no marker yet.
func NewSequenceMemory(scanner repository.IssuedScanner) *SequenceMemory {
	return &SequenceMemory{
		highest: make(map[model.SequenceKey]int),
		scanner: scanner,
	}
}

var _ repository.SequenceRepository = (*SequenceMemory)(nil)

// Highest returns the current marker of key.
func (s *SequenceMemory) Highest(ctx context.Context, key model.SequenceKey) (int, error) {
	s.mu.Lock()
	v, ok := s.highest[key]
	s.mu.Unlock()
	if ok {
		return v, nil
	}
	if s.scanner == nil {
		return 0, nil
	}
	return s.scanner.HighestIssued(ctx, key)
}

// CompareAndSwap sets the marker to new if it still equals old.
func (s *SequenceMemory) CompareAndSwap(ctx context.Context, key model.SequenceKey, old, new int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.highest[key]
	if !ok && s.scanner != nil {
		scanned, err := s.scanner.HighestIssued(ctx, key)
		if err != nil {
			return false, err
		}
		cur = scanned
	}
	if cur != old {
		return false, nil
	}
	s.highest[key] = new
	return true, nil
}
