package queries

import (
	"context"
	"fmt"
	"testing"

	"github.com/felixgeelhaar/triage/internal/prioritization/application/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestTasksHandler_Handle(t *testing.T) {
	handler := NewSuggestTasksHandler(nil)

	batch := []services.TaskRecord{
		{ID: "urgent", Title: "Urgent", Importance: intPtr(10), DueDate: dueIn(0), EstimatedHours: 1},
		{ID: "soon", Title: "Soon", Importance: intPtr(7), DueDate: dueIn(2), EstimatedHours: 2},
		{ID: "later", Title: "Later", Importance: intPtr(5), DueDate: dueIn(12), EstimatedHours: 6},
		{ID: "distant", Title: "Distant", Importance: intPtr(3), DueDate: dueIn(45), EstimatedHours: 30},
		{ID: "someday", Title: "Someday", Importance: intPtr(1), DueDate: dueIn(90), EstimatedHours: 60},
	}

	t.Run("returns the top three by default", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), SuggestTasksQuery{
			Tasks:         batch,
			ReferenceDate: refDate,
		})
		require.NoError(t, err)

		require.Len(t, result.Suggestions, 3)
		assert.Equal(t, 5, result.TotalTasksAnalyzed)
		assert.Equal(t, "urgent", result.Suggestions[0].Task.ID)

		for i, s := range result.Suggestions {
			assert.Equal(t, i+1, s.Rank)
			assert.Contains(t, s.Reason, fmt.Sprintf("Ranked #%d with priority score", s.Rank))
			assert.Contains(t, s.Reason, s.Task.Explanation)
		}
	})

	t.Run("honors an explicit limit", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), SuggestTasksQuery{
			Tasks:         batch,
			ReferenceDate: refDate,
			Limit:         1,
		})
		require.NoError(t, err)
		require.Len(t, result.Suggestions, 1)
		assert.Equal(t, "urgent", result.Suggestions[0].Task.ID)
	})

	t.Run("short batches return everything ranked", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), SuggestTasksQuery{
			Tasks:         batch[:2],
			ReferenceDate: refDate,
		})
		require.NoError(t, err)
		assert.Len(t, result.Suggestions, 2)
	})

	t.Run("empty batch yields no suggestions", func(t *testing.T) {
		result, err := handler.Handle(context.Background(), SuggestTasksQuery{ReferenceDate: refDate})
		require.NoError(t, err)
		assert.Empty(t, result.Suggestions)
		assert.Zero(t, result.TotalTasksAnalyzed)
	})
}
