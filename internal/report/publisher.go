// Package report publishes per-run discrepancy summaries for downstream
// consumers. Delivery retries and alerting live with those consumers, not
// here.
package report

import (
	"context"
	"sync"

	"cohortcompare/internal/domain"
)

// RunReport is the event emitted after a run's discrepancies are persisted.
type RunReport struct {
	Run            domain.Run                                `json:"run"`
	CategoryCounts map[domain.Source]map[domain.Category]int `json:"category_counts"`
}

// Publisher emits run reports.
type Publisher interface {
	Publish(ctx context.Context, report RunReport) error
}

// InMemoryPublisher collects reports for tests and local runs.
type InMemoryPublisher struct {
	mu      sync.Mutex
	reports []RunReport
}

func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

func (p *InMemoryPublisher) Publish(_ context.Context, report RunReport) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, report)
	return nil
}

// Reports returns a copy of everything published so far.
func (p *InMemoryPublisher) Reports() []RunReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]RunReport(nil), p.reports...)
}
