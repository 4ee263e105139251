package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/deptsched/timetable-api/internal/models"
)

func newRunRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRunRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRunRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	started := time.Now().Add(-time.Second)
	finished := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO scheduler_runs")).
		WithArgs(sqlmock.AnyArg(), "fp-1", int64(7), 2, 3, 1, started, finished).
		WillReturnResult(sqlmock.NewResult(1, 1))

	run := &models.Run{
		PlanFingerprint: "fp-1",
		Seed:            7,
		FacultyCount:    2,
		DivisionCount:   3,
		UnplacedCount:   1,
		StartedAt:       started,
		FinishedAt:      finished,
	}
	require.NoError(t, repo.Create(context.Background(), run))
	require.NotEmpty(t, run.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepositoryListRecent(t *testing.T) {
	db, mock, cleanup := newRunRepoMock(t)
	defer cleanup()
	repo := NewRunRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "plan_fingerprint", "seed", "faculty_count", "division_count", "unplaced_count", "started_at", "finished_at",
	}).AddRow("run-1", "fp-1", int64(7), 2, 3, 0, now.Add(-time.Minute), now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, plan_fingerprint, seed, faculty_count, division_count, unplaced_count, started_at, finished_at")).
		WithArgs(20).
		WillReturnRows(rows)

	runs, err := repo.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "run-1", runs[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
