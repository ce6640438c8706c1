package queries

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/felixgeelhaar/triage/internal/prioritization/application/services"
)

// DefaultSuggestionLimit is how many tasks a suggestion request returns
// when the caller does not ask for a specific count.
const DefaultSuggestionLimit = 3

// Suggestion pairs a ranked task with a human-readable reason.
type Suggestion struct {
	Rank   int
	Task   ScoredTask
	Reason string
}

// SuggestTasksQuery contains the batch to rank.
type SuggestTasksQuery struct {
	Tasks         []services.TaskRecord
	Strategy      services.Strategy
	ReferenceDate time.Time
	// Limit caps the number of suggestions. Zero means DefaultSuggestionLimit.
	Limit int
}

// SuggestTasksResult lists the top-ranked tasks to work on next.
type SuggestTasksResult struct {
	Suggestions        []Suggestion
	StrategyUsed       string
	TotalTasksAnalyzed int
}

// SuggestTasksHandler ranks a batch and keeps only the top suggestions.
// Unlike analysis, suggestions skip cycle detection; the caller only wants
// an ordering.
type SuggestTasksHandler struct {
	engine *services.Engine
}

// NewSuggestTasksHandler creates a new SuggestTasksHandler.
func NewSuggestTasksHandler(engine *services.Engine) *SuggestTasksHandler {
	if engine == nil {
		engine = services.NewEngine()
	}
	return &SuggestTasksHandler{engine: engine}
}

// Handle executes the SuggestTasksQuery.
func (h *SuggestTasksHandler) Handle(_ context.Context, query SuggestTasksQuery) (*SuggestTasksResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	records := normalizeIDs(query.Tasks)
	scored := scoreBatch(h.engine, records, query.Strategy, query.ReferenceDate)
	if len(scored) > limit {
		scored = scored[:limit]
	}

	suggestions := make([]Suggestion, 0, len(scored))
	for i, st := range scored {
		rank := i + 1
		suggestions = append(suggestions, Suggestion{
			Rank: rank,
			Task: st,
			Reason: fmt.Sprintf("Ranked #%d with priority score %s. %s",
				rank, strconv.FormatFloat(st.PriorityScore, 'g', -1, 64), st.Explanation),
		})
	}

	return &SuggestTasksResult{
		Suggestions:        suggestions,
		StrategyUsed:       query.Strategy.String(),
		TotalTasksAnalyzed: len(records),
	}, nil
}
