package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Run("creates a task with defaults", func(t *testing.T) {
		tk, err := NewTask("Write report")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, tk.ID())
		assert.Equal(t, "Write report", tk.Title())
		assert.Equal(t, DefaultImportance, tk.Importance())
		assert.Nil(t, tk.DueDate())
		assert.Zero(t, tk.EstimatedHours())
		assert.False(t, tk.IsCompleted())
	})

	t.Run("trims whitespace from the title", func(t *testing.T) {
		tk, err := NewTask("  padded  ")
		require.NoError(t, err)
		assert.Equal(t, "padded", tk.Title())
	})

	t.Run("rejects an empty title", func(t *testing.T) {
		_, err := NewTask("   ")
		assert.ErrorIs(t, err, ErrEmptyTitle)
	})
}

func TestTask_SetImportance(t *testing.T) {
	tk, err := NewTask("Check bounds")
	require.NoError(t, err)

	require.NoError(t, tk.SetImportance(10))
	assert.Equal(t, 10, tk.Importance())

	assert.ErrorIs(t, tk.SetImportance(0), ErrImportanceOutOfRange)
	assert.ErrorIs(t, tk.SetImportance(11), ErrImportanceOutOfRange)
	assert.Equal(t, 10, tk.Importance(), "rejected values leave the rating unchanged")
}

func TestTask_SetEstimatedHours(t *testing.T) {
	tk, err := NewTask("Estimate")
	require.NoError(t, err)

	require.NoError(t, tk.SetEstimatedHours(2.5))
	assert.Equal(t, 2.5, tk.EstimatedHours())

	assert.ErrorIs(t, tk.SetEstimatedHours(-1), ErrNegativeHours)
}

func TestTask_Complete(t *testing.T) {
	tk, err := NewTask("Finish me")
	require.NoError(t, err)

	require.NoError(t, tk.Complete())
	assert.True(t, tk.IsCompleted())
	assert.NotNil(t, tk.CompletedAt())

	assert.ErrorIs(t, tk.Complete(), ErrTaskAlreadyComplete)
}

func TestReconstitute(t *testing.T) {
	id := uuid.New()
	dep := uuid.New()
	due := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	created := time.Now().UTC().Add(-time.Hour)

	tk := Reconstitute(id, "Restored", &due, 4, 8, []uuid.UUID{dep}, nil, created, created)

	assert.Equal(t, id, tk.ID())
	assert.Equal(t, "Restored", tk.Title())
	assert.Equal(t, &due, tk.DueDate())
	assert.Equal(t, 4.0, tk.EstimatedHours())
	assert.Equal(t, 8, tk.Importance())
	assert.Equal(t, []uuid.UUID{dep}, tk.Dependencies())
	assert.Equal(t, created, tk.CreatedAt())
}
