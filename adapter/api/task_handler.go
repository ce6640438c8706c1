package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/felixgeelhaar/triage/internal/prioritization/application/queries"
	"github.com/felixgeelhaar/triage/internal/prioritization/application/services"
)

// TaskHandler handles prioritization API requests.
type TaskHandler struct {
	analyze  *queries.AnalyzeTasksHandler
	suggest  *queries.SuggestTasksHandler
	validate *validator.Validate
	logger   *slog.Logger
}

// TaskHandlerConfig holds dependencies for the task handler.
type TaskHandlerConfig struct {
	Analyze *queries.AnalyzeTasksHandler
	Suggest *queries.SuggestTasksHandler
	Logger  *slog.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(cfg TaskHandlerConfig) *TaskHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Analyze == nil {
		cfg.Analyze = queries.NewAnalyzeTasksHandler(nil)
	}
	if cfg.Suggest == nil {
		cfg.Suggest = queries.NewSuggestTasksHandler(nil)
	}
	return &TaskHandler{
		analyze:  cfg.Analyze,
		suggest:  cfg.Suggest,
		validate: validator.New(),
		logger:   cfg.Logger,
	}
}

// taskPayload is an incoming task in an analyze or suggest request.
type taskPayload struct {
	ID             string   `json:"id"`
	Title          string   `json:"title" validate:"required,max=200"`
	DueDate        string   `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	EstimatedHours float64  `json:"estimated_hours" validate:"gte=0"`
	Importance     *int     `json:"importance" validate:"omitempty,min=1,max=10"`
	Dependencies   []string `json:"dependencies"`
}

// analyzeRequest is the body of POST /api/v1/tasks/analyze.
type analyzeRequest struct {
	Tasks    []taskPayload `json:"tasks"`
	Strategy string        `json:"strategy"`
}

// scoredTaskResponse mirrors a scored task on the wire.
type scoredTaskResponse struct {
	ID                      string     `json:"id"`
	Title                   string     `json:"title"`
	DueDate                 string     `json:"due_date"`
	EstimatedHours          float64    `json:"estimated_hours"`
	Importance              int        `json:"importance"`
	Dependencies            []string   `json:"dependencies"`
	PriorityScore           float64    `json:"priority_score"`
	Explanation             string     `json:"explanation"`
	HasCircularDependency   bool       `json:"has_circular_dependency"`
	CircularDependencyChain [][]string `json:"circular_dependency_chain"`
}

type analyzeResponse struct {
	Tasks                        []scoredTaskResponse `json:"tasks"`
	StrategyUsed                 string               `json:"strategy_used"`
	TotalTasks                   int                  `json:"total_tasks"`
	CircularDependenciesDetected bool                 `json:"circular_dependencies_detected"`
	CircularDependencyCount      int                  `json:"circular_dependency_count"`
}

type suggestionResponse struct {
	Rank   int                `json:"rank"`
	Task   scoredTaskResponse `json:"task"`
	Reason string             `json:"reason"`
}

type suggestResponse struct {
	Suggestions        []suggestionResponse `json:"suggestions"`
	StrategyUsed       string               `json:"strategy_used"`
	TotalTasksAnalyzed int                  `json:"total_tasks_analyzed"`
}

// AnalyzeTasks handles POST /api/v1/tasks/analyze
func (h *TaskHandler) AnalyzeTasks(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if len(req.Tasks) == 0 {
		writeError(w, http.StatusBadRequest, "No tasks provided. Please provide a list of tasks.")
		return
	}

	strategy, ok := h.parseStrategy(w, req.Strategy)
	if !ok {
		return
	}

	records, ok := h.validateTasks(w, req.Tasks)
	if !ok {
		return
	}

	result, err := h.analyze.Handle(r.Context(), queries.AnalyzeTasksQuery{
		Tasks:         records,
		Strategy:      strategy,
		ReferenceDate: referenceDateFromRequest(r),
	})
	if err != nil {
		h.logger.Error("failed to analyze tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred while analyzing tasks")
		return
	}

	tasks := make([]scoredTaskResponse, 0, len(result.Tasks))
	for _, st := range result.Tasks {
		tasks = append(tasks, toScoredTaskResponse(st))
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Tasks:                        tasks,
		StrategyUsed:                 result.StrategyUsed,
		TotalTasks:                   result.TotalTasks,
		CircularDependenciesDetected: result.CircularDependenciesDetected,
		CircularDependencyCount:      result.CircularDependencyCount,
	})
}

// SuggestTasks handles GET /api/v1/tasks/suggest
func (h *TaskHandler) SuggestTasks(w http.ResponseWriter, r *http.Request) {
	tasksParam := r.URL.Query().Get("tasks")
	if tasksParam == "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"suggestions":   []suggestionResponse{},
			"message":       "No tasks provided. Use POST /api/v1/tasks/analyze to analyze tasks, or provide tasks as query parameter.",
			"example_usage": `GET /api/v1/tasks/suggest?tasks=[{"title":"Task 1","importance":8,"due_date":"2025-11-30"}]`,
		})
		return
	}

	payloads, err := decodeTasksParam(tasksParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format in tasks parameter.")
		return
	}

	strategy, ok := h.parseStrategy(w, r.URL.Query().Get("strategy"))
	if !ok {
		return
	}

	records, ok := h.validateTasks(w, payloads)
	if !ok {
		return
	}

	limit := 0
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		limit, _ = strconv.Atoi(limitParam)
	}

	result, err := h.suggest.Handle(r.Context(), queries.SuggestTasksQuery{
		Tasks:         records,
		Strategy:      strategy,
		ReferenceDate: referenceDateFromRequest(r),
		Limit:         limit,
	})
	if err != nil {
		h.logger.Error("failed to suggest tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred while suggesting tasks")
		return
	}

	suggestions := make([]suggestionResponse, 0, len(result.Suggestions))
	for _, s := range result.Suggestions {
		suggestions = append(suggestions, suggestionResponse{
			Rank:   s.Rank,
			Task:   toScoredTaskResponse(s.Task),
			Reason: s.Reason,
		})
	}

	writeJSON(w, http.StatusOK, suggestResponse{
		Suggestions:        suggestions,
		StrategyUsed:       result.StrategyUsed,
		TotalTasksAnalyzed: result.TotalTasksAnalyzed,
	})
}

// parseStrategy resolves a strategy name, rejecting names outside the
// recognized set. An empty name selects the default strategy.
func (h *TaskHandler) parseStrategy(w http.ResponseWriter, name string) (services.Strategy, bool) {
	if name == "" {
		return services.StrategySmartBalance, true
	}
	strategy, err := services.ParseStrategy(name)
	if err != nil {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Invalid strategy. Must be one of: %s", strings.Join(services.StrategyNames(), ", ")))
		return 0, false
	}
	return strategy, true
}

// validateTasks validates every payload and converts the batch to records.
// On the first invalid task it writes a 400 response and returns false.
func (h *TaskHandler) validateTasks(w http.ResponseWriter, payloads []taskPayload) ([]services.TaskRecord, bool) {
	records := make([]services.TaskRecord, 0, len(payloads))
	for idx, p := range payloads {
		if err := h.validate.Struct(p); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":   http.StatusText(http.StatusBadRequest),
				"message": fmt.Sprintf("Invalid task at index %d", idx),
				"details": err.Error(),
			})
			return nil, false
		}
		records = append(records, toTaskRecord(p))
	}
	return records, true
}

// decodeTasksParam parses the tasks query parameter. A single object is
// accepted and treated as a one-element batch.
func decodeTasksParam(param string) ([]taskPayload, error) {
	var payloads []taskPayload
	if err := json.Unmarshal([]byte(param), &payloads); err == nil {
		return payloads, nil
	}
	var single taskPayload
	if err := json.Unmarshal([]byte(param), &single); err != nil {
		return nil, err
	}
	return []taskPayload{single}, nil
}

// toTaskRecord converts a validated payload to a scoring record. A missing
// importance defaults to 5 at this boundary.
func toTaskRecord(p taskPayload) services.TaskRecord {
	importance := 5
	if p.Importance != nil {
		importance = *p.Importance
	}
	return services.TaskRecord{
		ID:             p.ID,
		Title:          p.Title,
		DueDate:        p.DueDate,
		EstimatedHours: p.EstimatedHours,
		Importance:     &importance,
		Dependencies:   p.Dependencies,
	}
}

func toScoredTaskResponse(st queries.ScoredTask) scoredTaskResponse {
	importance := 5
	if st.Importance != nil {
		importance = *st.Importance
	}
	deps := st.Dependencies
	if deps == nil {
		deps = []string{}
	}
	chains := make([][]string, 0, len(st.CircularDependencyChains))
	for _, cycle := range st.CircularDependencyChains {
		chains = append(chains, []string(cycle))
	}
	return scoredTaskResponse{
		ID:                      st.ID,
		Title:                   st.Title,
		DueDate:                 st.DueDate,
		EstimatedHours:          st.EstimatedHours,
		Importance:              importance,
		Dependencies:            deps,
		PriorityScore:           st.PriorityScore,
		Explanation:             st.Explanation,
		HasCircularDependency:   st.HasCircularDependency,
		CircularDependencyChain: chains,
	}
}

// referenceDateFromRequest parses the optional on query parameter. A missing
// or unparseable value yields the zero time, meaning today.
func referenceDateFromRequest(r *http.Request) time.Time {
	param := r.URL.Query().Get("on")
	if param == "" {
		return time.Time{}
	}
	t, err := time.Parse(services.DueDateLayout, param)
	if err != nil {
		return time.Time{}
	}
	return t
}
