// Package ingest reads registry extract files into typed participant
// records: headers are normalized, empty strings collapse to absent values,
// and duplicate identity keys are suppressed so the comparison core can
// assume key-unique inputs.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"cohortcompare/internal/domain"
	pkgerrors "cohortcompare/pkg/errors"
)

// Canonical column names the core depends on. Everything else is carried as
// an opaque attribute.
const (
	colNHSNumber    = "nhs_number"
	colDateOfBirth  = "date_of_birth"
	colProvider     = "primary_care_provider"
	colRemoval      = "reason_for_removal"
	colGender       = "gender"
	colIsHigherRisk = "is_higher_risk"
)

// dobLayouts are the date renderings seen in extract files: ISO dates in
// the BSS feed, compact digits in the CAAS feed.
var dobLayouts = []string{domain.DateLayout, "20060102"}

// Reader converts one extract into participant records.
type Reader struct {
	aliases map[string]string
	logger  *slog.Logger
}

// Option configures the Reader.
type Option func(*Reader)

// WithAliases maps upstream column names to canonical ones, so feed renames
// are configuration rather than code changes.
func WithAliases(aliases map[string]string) Option {
	return func(r *Reader) {
		r.aliases = aliases
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// NewReader builds a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFile reads a CSV extract from disk.
func (r *Reader) ReadFile(path string, source domain.Source) ([]domain.ParticipantRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeBadRequest, fmt.Sprintf("open %s extract", source))
	}
	defer f.Close()
	return r.Read(f, source)
}

// Read parses a CSV extract. The first row must be a header. Records with a
// duplicate identity key are dropped (first occurrence wins); records with
// a missing key column or unparsable date of birth abort the read with
// *domain.InvalidRecordError.
func (r *Reader) Read(src io.Reader, source domain.Source) ([]domain.ParticipantRecord, error) {
	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeBadRequest, fmt.Sprintf("read %s header", source))
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = r.canonical(name)
	}

	var (
		records []domain.ParticipantRecord
		seen    = make(map[domain.IdentityKey]struct{})
		dropped int
	)

	for row := 1; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.CodeBadRequest, fmt.Sprintf("read %s row %d", source, row))
		}

		rec, err := parseRecord(columns, fields, row)
		if err != nil {
			return nil, err
		}

		if _, dup := seen[rec.Key()]; dup {
			dropped++
			continue
		}
		seen[rec.Key()] = struct{}{}
		records = append(records, rec)
	}

	if dropped > 0 {
		r.logger.Warn("dropped duplicate identity keys from extract",
			"source", source,
			"dropped", dropped,
		)
	}

	return records, nil
}

// canonical lowercases a header and applies the configured alias map.
func (r *Reader) canonical(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	if alias, ok := r.aliases[normalized]; ok {
		return alias
	}
	return normalized
}

func parseRecord(columns, fields []string, row int) (domain.ParticipantRecord, error) {
	rec := domain.ParticipantRecord{}

	for i, col := range columns {
		if i >= len(fields) {
			break
		}
		value := strings.TrimSpace(fields[i])
		if value == "" {
			continue
		}

		switch col {
		case colNHSNumber:
			rec.NHSNumber = value
		case colDateOfBirth:
			dob, err := parseDOB(value)
			if err != nil {
				return domain.ParticipantRecord{}, &domain.InvalidRecordError{
					Key:    domain.IdentityKey{NHSNumber: rec.NHSNumber},
					Reason: fmt.Sprintf("row %d: unparsable date_of_birth %q", row, value),
				}
			}
			rec.DateOfBirth = dob
		case colProvider:
			rec.PrimaryCareProvider = value
		case colRemoval:
			rec.ReasonForRemoval = value
		case colGender:
			rec.Gender = strings.ToUpper(value)
		case colIsHigherRisk:
			risk, err := strconv.ParseBool(strings.ToLower(value))
			if err != nil {
				return domain.ParticipantRecord{}, &domain.InvalidRecordError{
					Key:    domain.IdentityKey{NHSNumber: rec.NHSNumber},
					Reason: fmt.Sprintf("row %d: unparsable is_higher_risk %q", row, value),
				}
			}
			rec.IsHigherRisk = &risk
		default:
			if rec.Attributes == nil {
				rec.Attributes = make(map[string]string)
			}
			rec.Attributes[col] = value
		}
	}

	if err := rec.Validate(); err != nil {
		return domain.ParticipantRecord{}, err
	}
	return rec, nil
}

func parseDOB(value string) (time.Time, error) {
	for _, layout := range dobLayouts {
		if dob, err := time.Parse(layout, value); err == nil {
			return dob, nil
		}
	}
	return time.Time{}, fmt.Errorf("no known date layout matches %q", value)
}
