package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"cohortcompare/internal/domain"
)

// In-memory stores back unit tests and local development. They favor
// clarity over performance.
type InMemoryRunStore struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]domain.Run
	last uuid.UUID
}

func NewInMemoryRunStore() *InMemoryRunStore {
	return &InMemoryRunStore{runs: make(map[uuid.UUID]domain.Run)}
}

func (s *InMemoryRunStore) Create(_ context.Context, run domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	s.last = run.ID
	return nil
}

func (s *InMemoryRunStore) Update(_ context.Context, run domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; !ok {
		return ErrNotFound
	}
	s.runs[run.ID] = run
	return nil
}

func (s *InMemoryRunStore) Get(_ context.Context, id uuid.UUID) (domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if run, ok := s.runs[id]; ok {
		return run, nil
	}
	return domain.Run{}, ErrNotFound
}

func (s *InMemoryRunStore) Latest(_ context.Context) (domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if run, ok := s.runs[s.last]; ok {
		return run, nil
	}
	return domain.Run{}, ErrNotFound
}

type InMemoryDiscrepancyStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]domain.Discrepancy
}

func NewInMemoryDiscrepancyStore() *InMemoryDiscrepancyStore {
	return &InMemoryDiscrepancyStore{entries: make(map[uuid.UUID][]domain.Discrepancy)}
}

func (s *InMemoryDiscrepancyStore) Append(_ context.Context, runID uuid.UUID, source domain.Source, records []domain.ClassifiedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.entries[runID] = append(s.entries[runID], domain.NewDiscrepancy(runID, source, rec))
	}
	return nil
}

func (s *InMemoryDiscrepancyStore) ListByRun(_ context.Context, runID uuid.UUID, source domain.Source) ([]domain.Discrepancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Discrepancy
	for _, d := range s.entries[runID] {
		if source == "" || d.Source == source {
			out = append(out, d)
		}
	}
	return out, nil
}
