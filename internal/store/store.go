// Package store keeps a history of translation runs in SQLite. It is an audit
// log: nothing in it is consulted to skip or reuse a translation.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/valpere/htmlbr/internal"
)

// ErrRunNotFound is returned when a run ID matches no row.
var ErrRunNotFound = errors.New("run not found")

const (
	RunRunning   = "running"
	RunCompleted = "completed"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input_file TEXT NOT NULL,
		output_file TEXT NOT NULL,
		model TEXT NOT NULL,
		status TEXT DEFAULT 'running',
		total INTEGER DEFAULT 0,
		succeeded INTEGER DEFAULT 0,
		skipped INTEGER DEFAULT 0,
		failed INTEGER DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	-- run_rows keeps one outcome per input row; row_idx preserves input order
	CREATE TABLE IF NOT EXISTS run_rows (
		run_id TEXT NOT NULL,
		row_idx INTEGER NOT NULL,
		row_key TEXT NOT NULL,
		source_text TEXT NOT NULL,
		non_textual BOOLEAN DEFAULT FALSE,
		status TEXT NOT NULL,
		output_text TEXT NOT NULL DEFAULT '',
		error_kind TEXT NOT NULL DEFAULT '',
		error_detail TEXT NOT NULL DEFAULT '',
		status_code INTEGER DEFAULT 0,
		PRIMARY KEY (run_id, row_idx),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Run is a row from the runs table.
type Run struct {
	ID         string
	InputFile  string
	OutputFile string
	Model      string
	Status     string
	Summary    internal.Summary
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateRun records the start of a run and returns its ID.
func (s *Store) CreateRun(ctx context.Context, inputFile, outputFile, model string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_file, output_file, model, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, inputFile, outputFile, model, RunRunning, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// SaveRows stores every row outcome of a run in a single transaction.
// Saving again replaces rows with the same index.
func (s *Store) SaveRows(ctx context.Context, runID string, result internal.BatchResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO run_rows (run_id, row_idx, row_key, source_text, non_textual, status, output_text, error_kind, error_detail, status_code)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range result {
		o := r.Outcome
		if _, err := stmt.ExecContext(ctx,
			runID, i, r.Request.Key, r.Request.SourceText, r.Request.NonTextual,
			o.Status.String(), o.Text, string(o.Kind), o.Detail, o.StatusCode); err != nil {
			return fmt.Errorf("failed to save row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// CompleteRun marks a run as completed and stores its summary counts.
func (s *Store) CompleteRun(ctx context.Context, runID string, sum internal.Summary) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, total = ?, succeeded = ?, skipped = ?, failed = ?, updated_at = ? WHERE id = ?`,
		RunCompleted, sum.Total, sum.Succeeded, sum.Skipped, sum.Failed, time.Now().UTC(), runID)
	if err != nil {
		return err
	}
	return expectOne(res, runID)
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input_file, output_file, model, status, total, succeeded, skipped, failed, created_at, updated_at FROM runs WHERE id = ?`,
		runID)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return r, err
}

// ListRuns returns all runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_file, output_file, model, status, total, succeeded, skipped, failed, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRunRows rebuilds the batch result of a run in input order.
func (s *Store) GetRunRows(ctx context.Context, runID string) (internal.BatchResult, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT row_key, source_text, non_textual, status, output_text, error_kind, error_detail, status_code
		 FROM run_rows WHERE run_id = ? ORDER BY row_idx`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := internal.BatchResult{}
	for rows.Next() {
		var (
			r      internal.RowResult
			status string
			kind   string
		)
		if err := rows.Scan(&r.Request.Key, &r.Request.SourceText, &r.Request.NonTextual,
			&status, &r.Outcome.Text, &kind, &r.Outcome.Detail, &r.Outcome.StatusCode); err != nil {
			return nil, err
		}
		if r.Outcome.Status, err = internal.ParseStatus(status); err != nil {
			return nil, err
		}
		r.Outcome.Kind = internal.ErrorKind(kind)
		result = append(result, r)
	}
	return result, rows.Err()
}

// DeleteRun removes a run and its rows.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_rows WHERE run_id = ?`, runID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return err
	}
	if err := expectOne(res, runID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var r Run
	err := sc.Scan(&r.ID, &r.InputFile, &r.OutputFile, &r.Model, &r.Status,
		&r.Summary.Total, &r.Summary.Succeeded, &r.Summary.Skipped, &r.Summary.Failed,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func expectOne(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// RunSink records a finished batch under an existing run.
type RunSink struct {
	store *Store
	runID string
}

func NewRunSink(s *Store, runID string) *RunSink {
	return &RunSink{store: s, runID: runID}
}

func (k *RunSink) Consume(ctx context.Context, result internal.BatchResult) error {
	if err := k.store.SaveRows(ctx, k.runID, result); err != nil {
		return fmt.Errorf("failed to save run rows: %w", err)
	}
	return k.store.CompleteRun(ctx, k.runID, result.Summary())
}
