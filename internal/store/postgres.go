package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	// Registers the pgx database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"cohortcompare/internal/domain"
)

// Open connects to Postgres through the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the schema. Safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reconciliation_runs (
			id UUID PRIMARY KEY,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ,
			caas_total INTEGER NOT NULL DEFAULT 0,
			bss_total INTEGER NOT NULL DEFAULT 0,
			caas_unmatched INTEGER NOT NULL DEFAULT 0,
			bss_unmatched INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS discrepancies (
			id UUID PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES reconciliation_runs(id),
			source TEXT NOT NULL,
			nhs_number TEXT NOT NULL,
			date_of_birth DATE NOT NULL,
			primary_care_provider TEXT NOT NULL DEFAULT '',
			reason_for_removal TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			is_higher_risk BOOLEAN,
			category_id SMALLINT NOT NULL,
			attributes JSONB
		)`,
		`CREATE INDEX IF NOT EXISTS discrepancies_run_idx ON discrepancies (run_id, source)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// PostgresRunStore persists run metadata.
type PostgresRunStore struct {
	db *sql.DB
}

func NewPostgresRunStore(db *sql.DB) *PostgresRunStore {
	return &PostgresRunStore{db: db}
}

func (s *PostgresRunStore) Create(ctx context.Context, run domain.Run) error {
	query := `
		INSERT INTO reconciliation_runs
			(id, status, error, started_at, finished_at, caas_total, bss_total, caas_unmatched, bss_unmatched)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.Status, run.Error, run.StartedAt, nullableTime(run.FinishedAt),
		run.CAASTotal, run.BSSTotal, run.CAASUnmatched, run.BSSUnmatched,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *PostgresRunStore) Update(ctx context.Context, run domain.Run) error {
	query := `
		UPDATE reconciliation_runs
		SET status = $2, error = $3, finished_at = $4,
			caas_total = $5, bss_total = $6, caas_unmatched = $7, bss_unmatched = $8
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		run.ID, run.Status, run.Error, nullableTime(run.FinishedAt),
		run.CAASTotal, run.BSSTotal, run.CAASUnmatched, run.BSSUnmatched,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresRunStore) Get(ctx context.Context, id uuid.UUID) (domain.Run, error) {
	query := `
		SELECT id, status, error, started_at, finished_at, caas_total, bss_total, caas_unmatched, bss_unmatched
		FROM reconciliation_runs
		WHERE id = $1
	`
	return s.scanRun(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresRunStore) Latest(ctx context.Context) (domain.Run, error) {
	query := `
		SELECT id, status, error, started_at, finished_at, caas_total, bss_total, caas_unmatched, bss_unmatched
		FROM reconciliation_runs
		ORDER BY started_at DESC
		LIMIT 1
	`
	return s.scanRun(s.db.QueryRowContext(ctx, query))
}

func (s *PostgresRunStore) scanRun(row *sql.Row) (domain.Run, error) {
	var (
		run      domain.Run
		finished sql.NullTime
	)
	err := row.Scan(&run.ID, &run.Status, &run.Error, &run.StartedAt, &finished,
		&run.CAASTotal, &run.BSSTotal, &run.CAASUnmatched, &run.BSSUnmatched)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Run{}, ErrNotFound
	}
	if err != nil {
		return domain.Run{}, fmt.Errorf("scan run: %w", err)
	}
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return run, nil
}

// PostgresDiscrepancyStore persists classified records.
type PostgresDiscrepancyStore struct {
	db *sql.DB
}

func NewPostgresDiscrepancyStore(db *sql.DB) *PostgresDiscrepancyStore {
	return &PostgresDiscrepancyStore{db: db}
}

func (s *PostgresDiscrepancyStore) Append(ctx context.Context, runID uuid.UUID, source domain.Source, records []domain.ClassifiedRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO discrepancies
			(id, run_id, source, nhs_number, date_of_birth, primary_care_provider,
			 reason_for_removal, gender, is_higher_risk, category_id, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for _, rec := range records {
		d := domain.NewDiscrepancy(runID, source, rec)

		var attributes []byte
		if len(d.Attributes) > 0 {
			attributes, err = json.Marshal(d.Attributes)
			if err != nil {
				return fmt.Errorf("marshal attributes: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx, query,
			d.ID, d.RunID, d.Source, d.NHSNumber, d.DateOfBirth,
			d.PrimaryCareProvider, d.ReasonForRemoval, d.Gender, d.IsHigherRisk,
			int(d.Category), attributes,
		)
		if err != nil {
			return fmt.Errorf("insert discrepancy: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

func (s *PostgresDiscrepancyStore) ListByRun(ctx context.Context, runID uuid.UUID, source domain.Source) ([]domain.Discrepancy, error) {
	query := `
		SELECT id, run_id, source, nhs_number, date_of_birth, primary_care_provider,
			reason_for_removal, gender, is_higher_risk, category_id, attributes
		FROM discrepancies
		WHERE run_id = $1 AND ($2 = '' OR source = $2)
	`
	rows, err := s.db.QueryContext(ctx, query, runID, string(source))
	if err != nil {
		return nil, fmt.Errorf("list discrepancies: %w", err)
	}
	defer rows.Close()

	var out []domain.Discrepancy
	for rows.Next() {
		var (
			d          domain.Discrepancy
			risk       sql.NullBool
			attributes []byte
		)
		if err := rows.Scan(&d.ID, &d.RunID, &d.Source, &d.NHSNumber, &d.DateOfBirth,
			&d.PrimaryCareProvider, &d.ReasonForRemoval, &d.Gender, &risk,
			&d.Category, &attributes); err != nil {
			return nil, fmt.Errorf("scan discrepancy: %w", err)
		}
		if risk.Valid {
			value := risk.Bool
			d.IsHigherRisk = &value
		}
		if len(attributes) > 0 {
			if err := json.Unmarshal(attributes, &d.Attributes); err != nil {
				return nil, fmt.Errorf("unmarshal attributes: %w", err)
			}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
