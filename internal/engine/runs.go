package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-rename/internal/executor"
)

// runColumns is the canonical column list for rename_runs queries.
const runColumns = `id, mode, area_filter, domain_filter, started_at, completed_at,
	total, confirmed, warnings, failed, skipped, cancelled`

// RunRecord is one persisted run summary.
type RunRecord struct {
	ID           string
	Mode         string
	AreaFilter   string
	DomainFilter string
	StartedAt    time.Time
	CompletedAt  time.Time

	Total     int
	Confirmed int
	Warnings  int
	Failed    int
	Skipped   int
	Cancelled int
}

// OperationRecord is one persisted operation outcome.
type OperationRecord struct {
	ID        string
	RunID     string
	EntityID  string
	OldID     string
	NewID     string
	Outcome   string
	Reason    string
	Documents []string
	SortOrder int
}

// RunRepository persists run reports for audit and post-run review.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a run repository backed by the given database.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save writes a run report and all its operation outcomes in one
// transaction, so a crash mid-save never leaves a summary row without
// its operations.
func (r *RunRepository) Save(ctx context.Context, report *executor.Report, areaFilter, domainFilter string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rename_runs (id, mode, area_filter, domain_filter, started_at, completed_at,
			total, confirmed, warnings, failed, skipped, cancelled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID,
		string(report.Mode),
		nullableString(areaFilter),
		nullableString(domainFilter),
		report.StartedAt.Format(time.RFC3339),
		report.CompletedAt.Format(time.RFC3339),
		len(report.Operations),
		report.Count(executor.OutcomeConfirmed),
		report.Count(executor.OutcomeAppliedWithWarnings),
		report.Count(executor.OutcomeFailed),
		report.Count(executor.OutcomeSkipped),
		report.Count(executor.OutcomeCancelled),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for i, op := range report.Operations {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO rename_run_operations (id, run_id, entity_id, old_id, new_id,
				outcome, reason, documents, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(),
			report.RunID,
			op.StableID,
			op.OldID,
			op.NewID,
			string(op.Outcome),
			nullableString(op.Reason),
			nullableString(strings.Join(op.Documents, ",")),
			i,
		)
		if err != nil {
			return fmt.Errorf("inserting operation %s: %w", op.OldID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// Get retrieves one run summary by id.
func (r *RunRepository) Get(ctx context.Context, id string) (*RunRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM rename_runs WHERE id = ?`, id)

	rec, err := scanRunRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	return rec, nil
}

// List retrieves the most recent runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM rename_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		rec, err := scanRunRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Operations retrieves a run's operation outcomes in execution order.
func (r *RunRepository) Operations(ctx context.Context, runID string) ([]*OperationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, entity_id, old_id, new_id, outcome, reason, documents, sort_order
		FROM rename_run_operations WHERE run_id = ? ORDER BY sort_order`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying operations: %w", err)
	}
	defer rows.Close()

	var out []*OperationRecord
	for rows.Next() {
		var (
			rec       OperationRecord
			reason    sql.NullString
			documents sql.NullString
		)
		err := rows.Scan(&rec.ID, &rec.RunID, &rec.EntityID, &rec.OldID, &rec.NewID,
			&rec.Outcome, &reason, &documents, &rec.SortOrder)
		if err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		rec.Reason = reason.String
		if documents.Valid && documents.String != "" {
			rec.Documents = strings.Split(documents.String, ",")
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunRow(row *sql.Row) (*RunRecord, error) {
	return scanRun(row)
}

func scanRunRows(rows *sql.Rows) (*RunRecord, error) {
	return scanRun(rows)
}

func scanRun(scanner rowScanner) (*RunRecord, error) {
	var (
		rec          RunRecord
		areaFilter   sql.NullString
		domainFilter sql.NullString
		startedAt    string
		completedAt  sql.NullString
	)
	err := scanner.Scan(&rec.ID, &rec.Mode, &areaFilter, &domainFilter,
		&startedAt, &completedAt,
		&rec.Total, &rec.Confirmed, &rec.Warnings, &rec.Failed, &rec.Skipped, &rec.Cancelled)
	if err != nil {
		return nil, err
	}

	rec.AreaFilter = areaFilter.String
	rec.DomainFilter = domainFilter.String
	if t, parseErr := time.Parse(time.RFC3339, startedAt); parseErr == nil {
		rec.StartedAt = t
	}
	if completedAt.Valid {
		if t, parseErr := time.Parse(time.RFC3339, completedAt.String); parseErr == nil {
			rec.CompletedAt = t
		}
	}
	return &rec, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
