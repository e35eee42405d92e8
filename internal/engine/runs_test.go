package engine

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nerrad567/gray-logic-rename/internal/executor"
)

// setupTestDB creates an in-memory SQLite database with the run
// history schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}

	// Matches the rename_runs migration.
	schema := `
		CREATE TABLE rename_runs (
			id             TEXT PRIMARY KEY,
			mode           TEXT NOT NULL CHECK (mode IN ('dry-run', 'apply')),
			area_filter    TEXT,
			domain_filter  TEXT,
			started_at     TEXT NOT NULL,
			completed_at   TEXT,
			total          INTEGER NOT NULL DEFAULT 0,
			confirmed      INTEGER NOT NULL DEFAULT 0,
			warnings       INTEGER NOT NULL DEFAULT 0,
			failed         INTEGER NOT NULL DEFAULT 0,
			skipped        INTEGER NOT NULL DEFAULT 0,
			cancelled      INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE rename_run_operations (
			id          TEXT PRIMARY KEY,
			run_id      TEXT NOT NULL REFERENCES rename_runs(id) ON DELETE CASCADE,
			entity_id   TEXT NOT NULL,
			old_id      TEXT NOT NULL,
			new_id      TEXT NOT NULL,
			outcome     TEXT NOT NULL,
			reason      TEXT,
			documents   TEXT,
			sort_order  INTEGER NOT NULL
		);`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func testReport(runID string) *executor.Report {
	started := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	return &executor.Report{
		RunID:       runID,
		Mode:        executor.ModeApply,
		StartedAt:   started,
		CompletedAt: started.Add(3 * time.Second),
		Operations: []executor.OperationResult{
			{
				StableID:  "e1",
				OldID:     "light.office",
				NewID:     "office.light.main",
				Outcome:   executor.OutcomeConfirmed,
				Documents: []string{"auto-1", "scene-2"},
			},
			{
				StableID: "e2",
				OldID:    "light.hall",
				NewID:    "hall.light.main",
				Outcome:  executor.OutcomeFailed,
				Reason:   "registry: identifier already taken",
			},
		},
		Counts: map[executor.Outcome]int{
			executor.OutcomeConfirmed: 1,
			executor.OutcomeFailed:    1,
		},
	}
}

func TestRunRepositorySaveAndGet(t *testing.T) {
	repo := NewRunRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Save(ctx, testReport("run-abc"), "Office", "light"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	rec, err := repo.Get(ctx, "run-abc")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if rec.Mode != "apply" {
		t.Errorf("Mode = %q, want apply", rec.Mode)
	}
	if rec.AreaFilter != "Office" || rec.DomainFilter != "light" {
		t.Errorf("filters = %q/%q, want Office/light", rec.AreaFilter, rec.DomainFilter)
	}
	if rec.Total != 2 || rec.Confirmed != 1 || rec.Failed != 1 {
		t.Errorf("counts = total:%d confirmed:%d failed:%d, want 2/1/1",
			rec.Total, rec.Confirmed, rec.Failed)
	}
	if !rec.StartedAt.Equal(time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("StartedAt = %v", rec.StartedAt)
	}
}

func TestRunRepositoryOperations(t *testing.T) {
	repo := NewRunRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Save(ctx, testReport("run-abc"), "", ""); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	ops, err := repo.Operations(ctx, "run-abc")
	if err != nil {
		t.Fatalf("Operations() error: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("got %d operations, want 2", len(ops))
	}
	if ops[0].OldID != "light.office" || ops[1].OldID != "light.hall" {
		t.Errorf("order = %q, %q; want execution order", ops[0].OldID, ops[1].OldID)
	}
	if len(ops[0].Documents) != 2 || ops[0].Documents[1] != "scene-2" {
		t.Errorf("Documents = %v, want [auto-1 scene-2]", ops[0].Documents)
	}
	if ops[1].Reason == "" {
		t.Error("failed operation lost its reason")
	}
	if len(ops[1].Documents) != 0 {
		t.Errorf("Documents = %v, want none", ops[1].Documents)
	}
}

func TestRunRepositoryGetNotFound(t *testing.T) {
	repo := NewRunRepository(setupTestDB(t))

	_, err := repo.Get(context.Background(), "run-missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Get() error = %v, want ErrRunNotFound", err)
	}
}

func TestRunRepositoryListNewestFirst(t *testing.T) {
	repo := NewRunRepository(setupTestDB(t))
	ctx := context.Background()

	early := testReport("run-early")
	late := testReport("run-late")
	late.StartedAt = early.StartedAt.Add(time.Hour)
	late.CompletedAt = late.StartedAt.Add(time.Second)

	if err := repo.Save(ctx, early, "", ""); err != nil {
		t.Fatalf("Save(early) error: %v", err)
	}
	if err := repo.Save(ctx, late, "", ""); err != nil {
		t.Fatalf("Save(late) error: %v", err)
	}

	runs, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != "run-late" || runs[1].ID != "run-early" {
		t.Errorf("order = %q, %q; want newest first", runs[0].ID, runs[1].ID)
	}
}
