// Package memory provides an in-memory ports.RunStore, suitable for tests
// and single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/NikBellini/web-graph/pkg/domain"
)

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	runs map[string]*domain.RunReport
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		runs: make(map[string]*domain.RunReport),
	}
}

// Save persists a copy of the report in memory.
func (s *Store) Save(ctx context.Context, runID string, report *domain.RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = report.Clone()
	return nil
}

// Load retrieves a copy of the report, so callers cannot mutate stored data
// through the returned pointer.
func (s *Store) Load(ctx context.Context, runID string) (*domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.runs[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return report.Clone(), nil
}

// Delete removes the report.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
	return nil
}

// List returns the known run IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	return ids, nil
}
