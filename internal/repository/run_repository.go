package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/deptsched/timetable-api/internal/models"
)

// RunRepository persists one row per engine.Schedule invocation: an audit
// trail, not scheduling state (spec.md's Non-goals bar persistence of
// *scheduling state* between runs; SPEC_FULL.md §2.5). A fresh run never
// reads this back into a grid.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository instantiates a run-ledger repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a completed run's summary. ID is generated when empty.
func (r *RunRepository) Create(ctx context.Context, run *models.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scheduler_runs
			(id, plan_fingerprint, seed, faculty_count, division_count, unplaced_count, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, run.ID, run.PlanFingerprint, run.Seed, run.FacultyCount, run.DivisionCount, run.UnplacedCount, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert scheduler run: %w", err)
	}
	return nil
}

// GetByID fetches a single run record.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	err := r.db.GetContext(ctx, &run, `
		SELECT id, plan_fingerprint, seed, faculty_count, division_count, unplaced_count, started_at, finished_at
		FROM scheduler_runs WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get scheduler run %s: %w", id, err)
	}
	return &run, nil
}

// ListRecent returns the most recently finished runs, most recent first.
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []models.Run
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, plan_fingerprint, seed, faculty_count, division_count, unplaced_count, started_at, finished_at
		FROM scheduler_runs ORDER BY finished_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list scheduler runs: %w", err)
	}
	return runs, nil
}
