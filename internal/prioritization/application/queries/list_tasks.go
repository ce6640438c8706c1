package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/triage/internal/prioritization/application/services"
	"github.com/felixgeelhaar/triage/internal/prioritization/domain/task"
	"github.com/google/uuid"
)

// TaskDTO is a data transfer object for persisted tasks.
type TaskDTO struct {
	ID             uuid.UUID
	Title          string
	DueDate        *time.Time
	EstimatedHours float64
	Importance     int
	Dependencies   []uuid.UUID
	CompletedAt    *time.Time
	CreatedAt      time.Time
}

// ListTasksQuery contains the parameters for listing stored tasks.
type ListTasksQuery struct {
	// IncludeCompleted also returns tasks that were already finished.
	IncludeCompleted bool
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle executes the ListTasksQuery.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	var (
		tasks []*task.Task
		err   error
	)
	if query.IncludeCompleted {
		tasks, err = h.taskRepo.FindAll(ctx)
	} else {
		tasks, err = h.taskRepo.FindOpen(ctx)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, TaskDTO{
			ID:             t.ID(),
			Title:          t.Title(),
			DueDate:        t.DueDate(),
			EstimatedHours: t.EstimatedHours(),
			Importance:     t.Importance(),
			Dependencies:   t.Dependencies(),
			CompletedAt:    t.CompletedAt(),
			CreatedAt:      t.CreatedAt(),
		})
	}
	return dtos, nil
}

// Records loads the open stored tasks in the scoring engine's record form.
func (h *ListTasksHandler) Records(ctx context.Context) ([]services.TaskRecord, error) {
	tasks, err := h.taskRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]services.TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, RecordFromTask(t))
	}
	return records, nil
}

// RecordFromTask converts a persisted task into the scoring engine's record
// form. Importance is always set on stored tasks, so it is carried over as a
// concrete rating rather than left neutral.
func RecordFromTask(t *task.Task) services.TaskRecord {
	rec := services.TaskRecord{
		ID:             t.ID().String(),
		Title:          t.Title(),
		EstimatedHours: t.EstimatedHours(),
	}
	importance := t.Importance()
	rec.Importance = &importance
	if t.DueDate() != nil {
		rec.DueDate = t.DueDate().Format(services.DueDateLayout)
	}
	for _, dep := range t.Dependencies() {
		rec.Dependencies = append(rec.Dependencies, dep.String())
	}
	return rec
}
