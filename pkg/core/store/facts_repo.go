package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"secxbrl/pkg/core/report"
)

// Schema creates the fact_records table. Dates stay text: report and
// fact dates are YYYYMMDD strings or filename prefixes, not guaranteed
// parseable dates.
const Schema = `
CREATE TABLE IF NOT EXISTS fact_records (
    id             BIGSERIAL PRIMARY KEY,
    run_id         UUID NOT NULL,
    ticker         TEXT NOT NULL,
    source_file    TEXT NOT NULL,
    report_date    TEXT NOT NULL,
    fact_date      TEXT NOT NULL,
    section        TEXT NOT NULL DEFAULT '',
    sub_section    TEXT NOT NULL DEFAULT '',
    dimension      TEXT NOT NULL DEFAULT '',
    member         TEXT NOT NULL DEFAULT '',
    field_name     TEXT NOT NULL,
    fact_value     TEXT NOT NULL,
    value_rounding TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const schemaIndex = `
CREATE INDEX IF NOT EXISTS idx_fact_records_ticker_report
    ON fact_records (ticker, report_date)`

// FactRepo writes resolved records in bulk.
type FactRepo struct {
	pool *pgxpool.Pool
}

// NewFactRepo creates a repository over the given pool.
func NewFactRepo(pool *pgxpool.Pool) *FactRepo {
	return &FactRepo{pool: pool}
}

// EnsureSchema creates the fact_records table if it does not exist.
func (r *FactRepo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{Schema, schemaIndex} {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// SaveRecords bulk-inserts one filing's records via COPY.
func (r *FactRepo) SaveRecords(ctx context.Context, runID, ticker, sourceFile string, records []report.ResolvedRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []any{
			runID, ticker, sourceFile,
			rec.ReportDate, rec.FactDate,
			rec.Section, rec.SubSection,
			rec.Dimension, rec.Member,
			rec.FieldName, rec.Value, rec.Decimals,
		})
	}

	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"fact_records"},
		[]string{
			"run_id", "ticker", "source_file",
			"report_date", "fact_date",
			"section", "sub_section",
			"dimension", "member",
			"field_name", "fact_value", "value_rounding",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy fact records: %w", err)
	}
	return nil
}
