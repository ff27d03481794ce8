// Package store persists reconciliation runs and their classified
// discrepancies. Stores are interface-driven so the service can run against
// in-memory implementations in tests and Postgres in production.
package store

import (
	"context"

	"github.com/google/uuid"

	"cohortcompare/internal/domain"
)

// RunStore records run metadata.
type RunStore interface {
	Create(ctx context.Context, run domain.Run) error
	Update(ctx context.Context, run domain.Run) error
	Get(ctx context.Context, id uuid.UUID) (domain.Run, error)
	Latest(ctx context.Context) (domain.Run, error)
}

// DiscrepancyStore appends the classified unmatched records of a run and
// serves them back per run and registry side.
type DiscrepancyStore interface {
	Append(ctx context.Context, runID uuid.UUID, source domain.Source, records []domain.ClassifiedRecord) error
	// ListByRun returns the discrepancies of a run. An empty source
	// returns both sides.
	ListByRun(ctx context.Context, runID uuid.UUID, source domain.Source) ([]domain.Discrepancy, error)
}
