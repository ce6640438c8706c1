package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/triage/internal/prioritization/domain/task"
	"github.com/google/uuid"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	Title          string
	DueDate        *time.Time
	EstimatedHours float64
	// Importance is the 1-10 rating; zero keeps the default.
	Importance   int
	Dependencies []uuid.UUID
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID uuid.UUID
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo task.Repository
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository) *CreateTaskHandler {
	return &CreateTaskHandler{taskRepo: taskRepo}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	t, err := task.NewTask(cmd.Title)
	if err != nil {
		return nil, err
	}

	if cmd.DueDate != nil {
		t.SetDueDate(cmd.DueDate)
	}
	if cmd.EstimatedHours != 0 {
		if err := t.SetEstimatedHours(cmd.EstimatedHours); err != nil {
			return nil, err
		}
	}
	if cmd.Importance != 0 {
		if err := t.SetImportance(cmd.Importance); err != nil {
			return nil, err
		}
	}
	if len(cmd.Dependencies) > 0 {
		t.SetDependencies(cmd.Dependencies)
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	return &CreateTaskResult{TaskID: t.ID()}, nil
}
