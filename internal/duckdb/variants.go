package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/varanno/internal/annotate"
)

// flushThreshold is the number of buffered rows that triggers an append.
const flushThreshold = 10000

// RunInfo describes one recorded annotation run.
type RunInfo struct {
	ID        string
	Input     string
	StartedAt time.Time
	Records   int64
	Annotated int64
	Skipped   int64
}

// RunWriter is an annotate.AnnotationWriter that appends rows to the store
// under a single run id.
type RunWriter struct {
	store   *Store
	runID   string
	nextSeq int64
	pending []*annotate.AnnotatedVariant
}

// BeginRun registers a new run for input and returns a writer for its rows.
func (s *Store) BeginRun(input string) (*RunWriter, error) {
	id := uuid.NewString()
	if _, err := s.db.Exec(
		`INSERT INTO runs (run_id, input, started_at, records, annotated, skipped) VALUES (?, ?, ?, 0, 0, 0)`,
		id, input, time.Now().UTC(),
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &RunWriter{store: s, runID: id}, nil
}

// RunID returns the id rows are written under.
func (w *RunWriter) RunID() string {
	return w.runID
}

// WriteHeader is a no-op; the table schema is the header.
func (w *RunWriter) WriteHeader() error { return nil }

// Write buffers a row, appending the buffer once it is large enough.
func (w *RunWriter) Write(row *annotate.AnnotatedVariant) error {
	w.pending = append(w.pending, row)
	if len(w.pending) >= flushThreshold {
		return w.Flush()
	}
	return nil
}

// Flush appends all buffered rows.
func (w *RunWriter) Flush() error {
	if len(w.pending) == 0 {
		return nil
	}
	if err := w.store.appendRows(w.runID, w.nextSeq, w.pending); err != nil {
		return err
	}
	w.nextSeq += int64(len(w.pending))
	w.pending = w.pending[:0]
	return nil
}

// Finish records the run's counts from its summary.
func (w *RunWriter) Finish(s *annotate.Summary) error {
	_, err := w.store.db.Exec(
		`UPDATE runs SET records = ?, annotated = ?, skipped = ? WHERE run_id = ?`,
		int64(s.Records), int64(s.Annotated), int64(len(s.Skipped)), w.runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// appendRows batch-inserts rows using the Appender API, numbering them from firstSeq.
func (s *Store) appendRows(runID string, firstSeq int64, rows []*annotate.AnnotatedVariant) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "annotated_variants")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for i, r := range rows {
		if err := appender.AppendRow(
			runID, firstSeq+int64(i),
			r.VariantID, r.VariantType, r.VariantEffect,
			r.CoverageDepth, r.VariantReads,
			r.VariantPercent, r.AlleleFrequency,
			r.AdditionalInfo,
		); err != nil {
			return fmt.Errorf("append annotated variant: %w", err)
		}
	}

	return appender.Flush()
}

const rowColumns = `variant_id, variant_type, variant_effect, coverage_depth,
	variant_reads, variant_percent, allele_frequency, additional_info`

// RunRows returns the rows of a run in output order.
func (s *Store) RunRows(runID string) ([]*annotate.AnnotatedVariant, error) {
	rows, err := s.db.Query(`SELECT `+rowColumns+`
		FROM annotated_variants WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run rows: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// LookupVariant returns every stored row for a variant id across runs.
func (s *Store) LookupVariant(variantID string) ([]*annotate.AnnotatedVariant, error) {
	rows, err := s.db.Query(`SELECT `+rowColumns+`
		FROM annotated_variants WHERE variant_id = ? ORDER BY run_id, seq`, variantID)
	if err != nil {
		return nil, fmt.Errorf("query variant: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Runs lists recorded runs, most recent first.
func (s *Store) Runs() ([]RunInfo, error) {
	rows, err := s.db.Query(`SELECT run_id, input, started_at, records, annotated, skipped
		FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.ID, &r.Input, &r.StartedAt, &r.Records, &r.Annotated, &r.Skipped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// scanRows scans result rows into annotated variants.
func scanRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*annotate.AnnotatedVariant, error) {
	var out []*annotate.AnnotatedVariant
	for rows.Next() {
		var v annotate.AnnotatedVariant
		if err := rows.Scan(
			&v.VariantID, &v.VariantType, &v.VariantEffect, &v.CoverageDepth,
			&v.VariantReads, &v.VariantPercent, &v.AlleleFrequency, &v.AdditionalInfo,
		); err != nil {
			return nil, fmt.Errorf("scan annotated variant: %w", err)
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotated variants: %w", err)
	}
	return out, nil
}
