package task

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle           = errors.New("task title cannot be empty")
	ErrImportanceOutOfRange = errors.New("importance must be between 1 and 10")
	ErrNegativeHours        = errors.New("estimated hours must be non-negative")
	ErrTaskAlreadyComplete  = errors.New("task is already completed")
)

// Importance bounds and default for persisted tasks. The scoring engine
// clamps defensively on top of this boundary validation.
const (
	MinImportance     = 1
	MaxImportance     = 10
	DefaultImportance = 5
)

// Task represents a persisted unit of work awaiting prioritization.
type Task struct {
	id             uuid.UUID
	title          string
	dueDate        *time.Time
	estimatedHours float64
	importance     int
	dependencies   []uuid.UUID
	completedAt    *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

// NewTask creates a new task with the given title and a neutral importance.
func NewTask(title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	now := time.Now().UTC()
	return &Task{
		id:         uuid.New(),
		title:      title,
		importance: DefaultImportance,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstitute rebuilds a task from persisted state without validation.
func Reconstitute(
	id uuid.UUID,
	title string,
	dueDate *time.Time,
	estimatedHours float64,
	importance int,
	dependencies []uuid.UUID,
	completedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *Task {
	return &Task{
		id:             id,
		title:          title,
		dueDate:        dueDate,
		estimatedHours: estimatedHours,
		importance:     importance,
		dependencies:   dependencies,
		completedAt:    completedAt,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (t *Task) ID() uuid.UUID             { return t.id }
func (t *Task) Title() string             { return t.title }
func (t *Task) DueDate() *time.Time       { return t.dueDate }
func (t *Task) EstimatedHours() float64   { return t.estimatedHours }
func (t *Task) Importance() int           { return t.importance }
func (t *Task) Dependencies() []uuid.UUID { return t.dependencies }
func (t *Task) CompletedAt() *time.Time   { return t.completedAt }
func (t *Task) CreatedAt() time.Time      { return t.createdAt }
func (t *Task) UpdatedAt() time.Time      { return t.updatedAt }
func (t *Task) IsCompleted() bool         { return t.completedAt != nil }

// SetTitle updates the task title.
func (t *Task) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t.title = title
	t.touch()
	return nil
}

// SetDueDate updates the due date. A nil date clears it.
func (t *Task) SetDueDate(dueDate *time.Time) {
	t.dueDate = dueDate
	t.touch()
}

// SetEstimatedHours updates the effort estimate. Zero means no estimate.
func (t *Task) SetEstimatedHours(hours float64) error {
	if hours < 0 {
		return ErrNegativeHours
	}
	t.estimatedHours = hours
	t.touch()
	return nil
}

// SetImportance updates the importance rating, rejecting values outside
// the 1-10 range.
func (t *Task) SetImportance(importance int) error {
	if importance < MinImportance || importance > MaxImportance {
		return ErrImportanceOutOfRange
	}
	t.importance = importance
	t.touch()
	return nil
}

// SetDependencies replaces the list of tasks this task depends on.
func (t *Task) SetDependencies(deps []uuid.UUID) {
	t.dependencies = deps
	t.touch()
}

// Complete marks the task as done.
func (t *Task) Complete() error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}
	now := time.Now().UTC()
	t.completedAt = &now
	t.touch()
	return nil
}

func (t *Task) touch() {
	t.updatedAt = time.Now().UTC()
}
