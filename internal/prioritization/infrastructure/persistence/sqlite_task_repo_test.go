package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/triage/internal/prioritization/domain/task"
	"github.com/felixgeelhaar/triage/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteTaskRepository {
	t.Helper()

	db, err := database.OpenSQLite(context.Background(), database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "triage.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewSQLiteTaskRepository(db)
	require.NoError(t, repo.InitSchema(context.Background()))
	return repo
}

func newStoredTask(t *testing.T, repo *SQLiteTaskRepository, title string) *task.Task {
	t.Helper()

	tk, err := task.NewTask(title)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), tk))
	return tk
}

func TestSQLiteTaskRepository_SaveAndFind(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	dep := uuid.New()
	due := time.Date(2025, time.December, 24, 0, 0, 0, 0, time.UTC)

	tk, err := task.NewTask("Ship the release")
	require.NoError(t, err)
	require.NoError(t, tk.SetImportance(9))
	require.NoError(t, tk.SetEstimatedHours(3.5))
	tk.SetDueDate(&due)
	tk.SetDependencies([]uuid.UUID{dep})

	require.NoError(t, repo.Save(ctx, tk))

	got, err := repo.FindByID(ctx, tk.ID())
	require.NoError(t, err)

	assert.Equal(t, tk.ID(), got.ID())
	assert.Equal(t, "Ship the release", got.Title())
	assert.Equal(t, 9, got.Importance())
	assert.Equal(t, 3.5, got.EstimatedHours())
	require.NotNil(t, got.DueDate())
	assert.True(t, got.DueDate().Equal(due))
	assert.Equal(t, []uuid.UUID{dep}, got.Dependencies())
	assert.False(t, got.IsCompleted())
}

func TestSQLiteTaskRepository_SaveIsUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tk := newStoredTask(t, repo, "First title")
	require.NoError(t, tk.SetTitle("Second title"))
	require.NoError(t, repo.Save(ctx, tk))

	got, err := repo.FindByID(ctx, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, "Second title", got.Title())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLiteTaskRepository_FindOpen(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	open := newStoredTask(t, repo, "Still open")
	done := newStoredTask(t, repo, "Already done")
	require.NoError(t, done.Complete())
	require.NoError(t, repo.Save(ctx, done))

	tasks, err := repo.FindOpen(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, open.ID(), tasks[0].ID())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteTaskRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tk := newStoredTask(t, repo, "Remove me")
	require.NoError(t, repo.Delete(ctx, tk.ID()))

	_, err := repo.FindByID(ctx, tk.ID())
	assert.ErrorIs(t, err, ErrTaskNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, tk.ID()), ErrTaskNotFound)
}

func TestSQLiteTaskRepository_FindByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
