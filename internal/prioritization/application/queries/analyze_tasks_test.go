package queries

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/triage/internal/prioritization/application/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refDate = time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC)

func dueIn(days int) string {
	return refDate.AddDate(0, 0, days).Format(services.DueDateLayout)
}

func intPtr(v int) *int {
	return &v
}

func TestAnalyzeTasksHandler_Handle(t *testing.T) {
	handler := NewAnalyzeTasksHandler(nil)

	t.Run("sorts tasks by descending priority", func(t *testing.T) {
		query := AnalyzeTasksQuery{
			Tasks: []services.TaskRecord{
				{ID: "T2", Title: "Slow burn", Importance: intPtr(1), DueDate: dueIn(60), EstimatedHours: 80},
				{ID: "T1", Title: "Hot fix", Importance: intPtr(10), DueDate: dueIn(0), EstimatedHours: 1},
			},
			ReferenceDate: refDate,
		}

		result, err := handler.Handle(context.Background(), query)
		require.NoError(t, err)

		require.Len(t, result.Tasks, 2)
		assert.Equal(t, "T1", result.Tasks[0].ID)
		assert.Equal(t, "T2", result.Tasks[1].ID)
		assert.Greater(t, result.Tasks[0].PriorityScore, result.Tasks[1].PriorityScore)
		assert.Equal(t, "smart_balance", result.StrategyUsed)
		assert.Equal(t, 2, result.TotalTasks)
		assert.False(t, result.CircularDependenciesDetected)
	})

	t.Run("assigns missing IDs from title or position", func(t *testing.T) {
		query := AnalyzeTasksQuery{
			Tasks: []services.TaskRecord{
				{Title: "Named task"},
				{},
			},
			ReferenceDate: refDate,
		}

		result, err := handler.Handle(context.Background(), query)
		require.NoError(t, err)

		ids := []string{result.Tasks[0].ID, result.Tasks[1].ID}
		assert.Contains(t, ids, "Named task")
		assert.Contains(t, ids, "task_1")
	})

	t.Run("annotates tasks on circular chains", func(t *testing.T) {
		query := AnalyzeTasksQuery{
			Tasks: []services.TaskRecord{
				{ID: "A", Title: "A", Dependencies: []string{"B"}},
				{ID: "B", Title: "B", Dependencies: []string{"A"}},
				{ID: "C", Title: "C"},
			},
			ReferenceDate: refDate,
		}

		result, err := handler.Handle(context.Background(), query)
		require.NoError(t, err)

		assert.True(t, result.CircularDependenciesDetected)
		assert.Equal(t, 1, result.CircularDependencyCount)

		byID := make(map[string]ScoredTask)
		for _, st := range result.Tasks {
			byID[st.ID] = st
		}
		assert.True(t, byID["A"].HasCircularDependency)
		assert.True(t, byID["B"].HasCircularDependency)
		assert.False(t, byID["C"].HasCircularDependency)
		require.Len(t, byID["A"].CircularDependencyChains, 1)
		assert.True(t, byID["A"].CircularDependencyChains[0].Contains("B"))
		assert.Empty(t, byID["C"].CircularDependencyChains)
	})

	t.Run("rounds scores to four decimals", func(t *testing.T) {
		query := AnalyzeTasksQuery{
			Tasks: []services.TaskRecord{
				{ID: "x", Title: "x", Importance: intPtr(5)},
			},
			ReferenceDate: refDate,
		}

		result, err := handler.Handle(context.Background(), query)
		require.NoError(t, err)

		// smart balance: urgency 0.5*0.4 + importance (4/9)*0.3 + effort 0.5*0.2 + deps 0.3*0.1
		assert.Equal(t, 0.4633, result.Tasks[0].PriorityScore)
	})

	t.Run("is deterministic for a fixed reference date", func(t *testing.T) {
		query := AnalyzeTasksQuery{
			Tasks: []services.TaskRecord{
				{ID: "a", Title: "a", DueDate: dueIn(5), EstimatedHours: 3, Importance: intPtr(7)},
				{ID: "b", Title: "b", Dependencies: []string{"a"}},
			},
			Strategy:      services.StrategyDeadlineDriven,
			ReferenceDate: refDate,
		}

		first, err := handler.Handle(context.Background(), query)
		require.NoError(t, err)
		second, err := handler.Handle(context.Background(), query)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
