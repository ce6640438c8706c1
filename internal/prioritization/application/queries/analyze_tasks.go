package queries

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/felixgeelhaar/triage/internal/prioritization/application/services"
)

// ScoredTask is a task record annotated with its computed priority.
type ScoredTask struct {
	ID                       string
	Title                    string
	DueDate                  string
	EstimatedHours           float64
	Importance               *int
	Dependencies             []string
	PriorityScore            float64
	Explanation              string
	HasCircularDependency    bool
	CircularDependencyChains []services.Cycle
}

// AnalyzeTasksQuery contains the batch to analyze.
type AnalyzeTasksQuery struct {
	Tasks []services.TaskRecord
	// Strategy selects the scoring strategy. The zero value is smart balance.
	Strategy services.Strategy
	// ReferenceDate anchors urgency scoring. Zero means today.
	ReferenceDate time.Time
}

// AnalyzeTasksResult is the full analysis of a batch: every task scored and
// sorted by descending priority, with circular dependency annotations.
type AnalyzeTasksResult struct {
	Tasks                        []ScoredTask
	StrategyUsed                 string
	TotalTasks                   int
	CircularDependenciesDetected bool
	CircularDependencyCount      int
}

// AnalyzeTasksHandler runs the prioritization pipeline over a task batch.
// It holds no state beyond the engine and performs no I/O.
type AnalyzeTasksHandler struct {
	engine *services.Engine
}

// NewAnalyzeTasksHandler creates a new AnalyzeTasksHandler.
func NewAnalyzeTasksHandler(engine *services.Engine) *AnalyzeTasksHandler {
	if engine == nil {
		engine = services.NewEngine()
	}
	return &AnalyzeTasksHandler{engine: engine}
}

// Handle executes the AnalyzeTasksQuery: assign stable IDs, detect circular
// dependency chains, score every task against the batch, and sort by
// descending priority.
func (h *AnalyzeTasksHandler) Handle(_ context.Context, query AnalyzeTasksQuery) (*AnalyzeTasksResult, error) {
	records := normalizeIDs(query.Tasks)

	cycles := services.DetectCycles(records)
	cyclic := make(map[string]bool)
	for _, cycle := range cycles {
		for _, id := range cycle {
			cyclic[id] = true
		}
	}

	scored := scoreBatch(h.engine, records, query.Strategy, query.ReferenceDate)
	for i := range scored {
		id := scored[i].ID
		scored[i].HasCircularDependency = cyclic[id]
		for _, cycle := range cycles {
			if cycle.Contains(id) {
				scored[i].CircularDependencyChains = append(scored[i].CircularDependencyChains, cycle)
			}
		}
	}

	return &AnalyzeTasksResult{
		Tasks:                        scored,
		StrategyUsed:                 query.Strategy.String(),
		TotalTasks:                   len(scored),
		CircularDependenciesDetected: len(cycles) > 0,
		CircularDependencyCount:      len(cycles),
	}, nil
}

// normalizeIDs returns a copy of the batch in which every record has an ID:
// the title when present, otherwise a positional placeholder.
func normalizeIDs(tasks []services.TaskRecord) []services.TaskRecord {
	records := make([]services.TaskRecord, len(tasks))
	copy(records, tasks)
	for i := range records {
		if records[i].ID != "" {
			continue
		}
		if records[i].Title != "" {
			records[i].ID = records[i].Title
		} else {
			records[i].ID = fmt.Sprintf("task_%d", i)
		}
	}
	return records
}

// scoreBatch scores every record against the batch and returns the results
// sorted by descending priority. Scores are rounded to four decimals for
// presentation; ties keep their input order.
func scoreBatch(engine *services.Engine, records []services.TaskRecord, strategy services.Strategy, refDate time.Time) []ScoredTask {
	scored := make([]ScoredTask, 0, len(records))
	for _, rec := range records {
		result := engine.Score(rec, records, strategy, refDate)
		scored = append(scored, ScoredTask{
			ID:             rec.ID,
			Title:          rec.Title,
			DueDate:        rec.DueDate,
			EstimatedHours: rec.EstimatedHours,
			Importance:     rec.Importance,
			Dependencies:   rec.Dependencies,
			PriorityScore:  round4(result.Score),
			Explanation:    result.Explanation,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PriorityScore > scored[j].PriorityScore
	})

	return scored
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
