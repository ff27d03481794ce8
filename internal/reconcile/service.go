// Package reconcile orchestrates one full reconciliation run: ingest both
// extracts, compute the set difference, classify every unmatched record,
// persist the results, and publish the run report.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"cohortcompare/internal/classify"
	"cohortcompare/internal/compare"
	"cohortcompare/internal/domain"
	"cohortcompare/internal/ingest"
	"cohortcompare/internal/platform/metrics"
	"cohortcompare/internal/report"
	"cohortcompare/internal/store"
)

// Service wires the comparison core to its collaborators. The core stays
// pure; everything stateful lives behind the injected interfaces.
type Service struct {
	reader     *ingest.Reader
	classifier *classify.Classifier
	runs       store.RunStore
	discs      store.DiscrepancyStore
	publisher  report.Publisher
	cache      SummaryCache
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithReader sets the extract reader used by RunFromFiles.
func WithReader(reader *ingest.Reader) Option {
	return func(s *Service) { s.reader = reader }
}

// WithClassifier overrides the default classifier (tests fix the clock).
func WithClassifier(classifier *classify.Classifier) Option {
	return func(s *Service) { s.classifier = classifier }
}

// WithPublisher enables run report publishing.
func WithPublisher(publisher report.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// WithSummaryCache enables latest-run summary caching.
func WithSummaryCache(cache SummaryCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New builds a Service over the given stores.
func New(runs store.RunStore, discs store.DiscrepancyStore, opts ...Option) (*Service, error) {
	if runs == nil {
		return nil, fmt.Errorf("run store is required")
	}
	if discs == nil {
		return nil, fmt.Errorf("discrepancy store is required")
	}

	s := &Service{
		reader:     ingest.NewReader(),
		classifier: classify.New(),
		runs:       runs,
		discs:      discs,
		logger:     slog.Default(),
		tracer:     otel.Tracer("cohortcompare/reconcile"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RunFromFiles ingests both extracts from disk and reconciles them.
func (s *Service) RunFromFiles(ctx context.Context, caasPath, bssPath string) (domain.Run, error) {
	caas, err := s.reader.ReadFile(caasPath, domain.SourceCAAS)
	if err != nil {
		return domain.Run{}, fmt.Errorf("ingest CAAS extract: %w", err)
	}
	bss, err := s.reader.ReadFile(bssPath, domain.SourceBSS)
	if err != nil {
		return domain.Run{}, fmt.Errorf("ingest BSS extract: %w", err)
	}
	return s.Run(ctx, caas, bss)
}

// Run executes one reconciliation over already-ingested records. Failures
// are synchronous: the first error aborts the run and is recorded on it.
// There is no per-record skip and no retry inside the core.
func (s *Service) Run(ctx context.Context, caas, bss []domain.ParticipantRecord) (domain.Run, error) {
	run := domain.Run{
		ID:        uuid.New(),
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now().UTC(),
		CAASTotal: len(caas),
		BSSTotal:  len(bss),
	}

	ctx, span := s.tracer.Start(ctx, "reconcile.run",
		trace.WithAttributes(
			attribute.String("run.id", run.ID.String()),
			attribute.Int("caas.total", len(caas)),
			attribute.Int("bss.total", len(bss)),
		))
	defer span.End()

	if err := s.runs.Create(ctx, run); err != nil {
		return domain.Run{}, fmt.Errorf("create run: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RunsStarted.Inc()
	}
	s.logger.InfoContext(ctx, "reconciliation run started",
		"run_id", run.ID,
		"caas_total", len(caas),
		"bss_total", len(bss),
	)

	if len(caas) == 0 || len(bss) == 0 {
		// Non-fatal: the diff degrades to a pass-through of the other side.
		s.logger.WarnContext(ctx, "extract is empty",
			"run_id", run.ID,
			"error", domain.ErrEmptyInput,
		)
	}

	result, err := compare.Diff(caas, bss)
	if err != nil {
		return s.fail(ctx, run, fmt.Errorf("set difference: %w", err))
	}
	run.CAASUnmatched = len(result.OnlyA)
	run.BSSUnmatched = len(result.OnlyB)

	var classifiedCAAS, classifiedBSS []domain.ClassifiedRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		classifiedCAAS, err = s.classifier.Classify(gctx, result.OnlyA)
		return err
	})
	g.Go(func() error {
		var err error
		classifiedBSS, err = s.classifier.Classify(gctx, result.OnlyB)
		return err
	})
	if err := g.Wait(); err != nil {
		return s.fail(ctx, run, fmt.Errorf("classify: %w", err))
	}

	if err := s.discs.Append(ctx, run.ID, domain.SourceCAAS, classifiedCAAS); err != nil {
		return s.fail(ctx, run, fmt.Errorf("persist CAAS discrepancies: %w", err))
	}
	if err := s.discs.Append(ctx, run.ID, domain.SourceBSS, classifiedBSS); err != nil {
		return s.fail(ctx, run, fmt.Errorf("persist BSS discrepancies: %w", err))
	}

	run.Status = domain.RunStatusSucceeded
	run.FinishedAt = time.Now().UTC()

	if s.publisher != nil {
		runReport := report.RunReport{
			Run: run,
			CategoryCounts: map[domain.Source]map[domain.Category]int{
				domain.SourceCAAS: countByCategory(classifiedCAAS),
				domain.SourceBSS:  countByCategory(classifiedBSS),
			},
		}
		if err := s.publisher.Publish(ctx, runReport); err != nil {
			return s.fail(ctx, run, fmt.Errorf("publish run report: %w", err))
		}
	}

	if err := s.runs.Update(ctx, run); err != nil {
		return s.fail(ctx, run, fmt.Errorf("finalize run: %w", err))
	}

	if s.cache != nil {
		// Cache misses only degrade reads; a run never fails on them.
		if err := s.cache.SetLatest(ctx, run); err != nil {
			s.logger.WarnContext(ctx, "caching run summary failed",
				"run_id", run.ID,
				"error", err,
			)
		}
	}

	s.observe(run, classifiedCAAS, classifiedBSS)
	s.logger.InfoContext(ctx, "reconciliation run finished",
		"run_id", run.ID,
		"caas_unmatched", run.CAASUnmatched,
		"bss_unmatched", run.BSSUnmatched,
	)
	return run, nil
}

// GetRun returns run metadata.
func (s *Service) GetRun(ctx context.Context, id uuid.UUID) (domain.Run, error) {
	return s.runs.Get(ctx, id)
}

// LatestRun returns the most recent run, served from the summary cache when
// possible.
func (s *Service) LatestRun(ctx context.Context) (domain.Run, error) {
	if s.cache != nil {
		if run, ok, err := s.cache.GetLatest(ctx); err == nil && ok {
			return run, nil
		} else if err != nil {
			s.logger.WarnContext(ctx, "summary cache read failed", "error", err)
		}
	}
	return s.runs.Latest(ctx)
}

// Discrepancies lists a run's classified records, optionally filtered by
// registry side.
func (s *Service) Discrepancies(ctx context.Context, runID uuid.UUID, source domain.Source) ([]domain.Discrepancy, error) {
	return s.discs.ListByRun(ctx, runID, source)
}

func (s *Service) fail(ctx context.Context, run domain.Run, err error) (domain.Run, error) {
	run.Status = domain.RunStatusFailed
	run.Error = err.Error()
	run.FinishedAt = time.Now().UTC()

	if updateErr := s.runs.Update(ctx, run); updateErr != nil {
		s.logger.ErrorContext(ctx, "recording run failure failed",
			"run_id", run.ID,
			"error", updateErr,
		)
	}
	if s.metrics != nil {
		s.metrics.RunsFailed.Inc()
	}
	s.logger.ErrorContext(ctx, "reconciliation run failed",
		"run_id", run.ID,
		"error", err,
	)
	return run, err
}

func (s *Service) observe(run domain.Run, caas, bss []domain.ClassifiedRecord) {
	if s.metrics == nil {
		return
	}
	s.metrics.RunsSucceeded.Inc()
	s.metrics.RunDuration.Observe(run.FinishedAt.Sub(run.StartedAt).Seconds())
	for source, records := range map[domain.Source][]domain.ClassifiedRecord{
		domain.SourceCAAS: caas,
		domain.SourceBSS:  bss,
	} {
		for _, rec := range records {
			s.metrics.Discrepancies.
				WithLabelValues(string(source), strconv.Itoa(int(rec.Category))).
				Inc()
		}
	}
}

func countByCategory(records []domain.ClassifiedRecord) map[domain.Category]int {
	counts := make(map[domain.Category]int)
	for _, rec := range records {
		counts[rec.Category]++
	}
	return counts
}
