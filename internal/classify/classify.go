// Package classify assigns a discrepancy category to every unmatched
// registry record. Classification is per-record with no cross-record state,
// so the input is processed in parallel chunks.
package classify

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"cohortcompare/internal/domain"
)

// Cohort age band: screening eligibility covers ages 44 through 73
// inclusive (lower bound inclusive, upper bound exclusive).
const (
	CohortMinAge = 44
	CohortMaxAge = 74
)

// chunkSize balances goroutine overhead against parallelism for typical
// extract sizes.
const chunkSize = 1024

// Classifier evaluates the ordered category rules against records. The
// run date is injected so tests and replays are deterministic.
type Classifier struct {
	now     func() time.Time
	workers int
}

// Option configures the Classifier.
type Option func(*Classifier)

// WithNow overrides the run-date source.
func WithNow(now func() time.Time) Option {
	return func(c *Classifier) {
		c.now = now
	}
}

// WithWorkers caps the number of concurrent classification chunks.
func WithWorkers(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.workers = n
		}
	}
}

// New builds a Classifier with the real clock unless overridden.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		now:     time.Now,
		workers: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify assigns exactly one category to every record. The output has the
// same length and order as the input; every input record appears exactly
// once. A record with an incomplete identity key aborts the whole call with
// *domain.InvalidRecordError - there is no per-record skip.
func (c *Classifier) Classify(ctx context.Context, records []domain.ParticipantRecord) ([]domain.ClassifiedRecord, error) {
	// The run date is fixed once so a run spanning midnight classifies
	// every record against the same calendar day.
	today := c.now()

	out := make([]domain.ClassifiedRecord, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for start := 0; start < len(records); start += chunkSize {
		end := min(start+chunkSize, len(records))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				if err := records[i].Validate(); err != nil {
					return err
				}
				out[i] = domain.ClassifiedRecord{
					ParticipantRecord: records[i],
					Category:          categorize(records[i], today),
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// categorize applies the category rules in their fixed precedence order.
// Several predicates can hold at once; the order below is the tie-break and
// must not be rearranged. In particular, within the cohort age band a male
// record is category 7 regardless of any GP-registration category already
// matched.
func categorize(r domain.ParticipantRecord, today time.Time) domain.Category {
	age := Age(r.DateOfBirth, today)

	switch {
	case age >= CohortMinAge && age < CohortMaxAge:
		category := domain.CategoryUndetermined
		if !r.RegisteredWithGP() {
			if r.HasDeathRemovalReason() {
				category = domain.CategoryNoGPDeathRemoval
			} else {
				category = domain.CategoryNoGPOtherRemoval
			}
		} else if strings.HasPrefix(r.PrimaryCareProvider, domain.DummyPracticePrefix) {
			category = domain.CategoryDummyGPPractice
		}
		// Male is the dominant explanation inside the cohort band: it
		// overrides 4/5/6 and applies even when none of them matched.
		if r.IsMale() {
			category = domain.CategoryCohortMale
		}
		return category

	case age < CohortMinAge:
		// The high-risk flag exists only on the BSS record shape; when
		// the shape lacks the field no determination is possible.
		switch {
		case r.IsHigherRisk == nil:
			return domain.CategoryUndetermined
		case *r.IsHigherRisk:
			return domain.CategoryBelowCohortHighRisk
		default:
			return domain.CategoryBelowCohortNotHighRisk
		}

	default: // age >= CohortMaxAge
		return domain.CategoryAboveCohort
	}
}
