package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/triage/internal/prioritization/domain/task"
	"github.com/google/uuid"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	due_date        TEXT,
	estimated_hours REAL,
	importance      INTEGER NOT NULL,
	dependencies    TEXT NOT NULL DEFAULT '[]',
	completed_at    TEXT,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
)`

// SQLiteTaskRepository implements task.Repository using SQLite.
type SQLiteTaskRepository struct {
	db *sql.DB
}

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(db *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

// InitSchema creates the tasks table if it does not exist.
func (r *SQLiteTaskRepository) InitSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}
	return nil
}

// Save upserts a task.
func (r *SQLiteTaskRepository) Save(ctx context.Context, t *task.Task) error {
	deps, err := marshalDependencies(t.Dependencies())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (id, title, due_date, estimated_hours, importance, dependencies, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			due_date = excluded.due_date,
			estimated_hours = excluded.estimated_hours,
			importance = excluded.importance,
			dependencies = excluded.dependencies,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		t.ID().String(),
		t.Title(),
		nullTimeString(t.DueDate()),
		nullHours(t.EstimatedHours()),
		t.Importance(),
		deps,
		nullTimeString(t.CompletedAt()),
		t.CreatedAt().Format(time.RFC3339Nano),
		t.UpdatedAt().Format(time.RFC3339Nano),
	)
	return err
}

// FindByID retrieves a task by its ID.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, due_date, estimated_hours, importance, dependencies, completed_at, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id.String())

	t, err := scanSQLiteTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// FindAll retrieves all tasks, newest first.
func (r *SQLiteTaskRepository) FindAll(ctx context.Context) ([]*task.Task, error) {
	return r.findWhere(ctx, "")
}

// FindOpen retrieves tasks that are not completed, newest first.
func (r *SQLiteTaskRepository) FindOpen(ctx context.Context) ([]*task.Task, error) {
	return r.findWhere(ctx, "WHERE completed_at IS NULL")
}

// Delete removes a task.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *SQLiteTaskRepository) findWhere(ctx context.Context, where string) ([]*task.Task, error) {
	query := fmt.Sprintf(`
		SELECT id, title, due_date, estimated_hours, importance, dependencies, completed_at, created_at, updated_at
		FROM tasks %s ORDER BY created_at DESC
	`, where)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanSQLiteTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanSQLiteTask(scan func(dest ...any) error) (*task.Task, error) {
	var (
		idStr       string
		title       string
		dueDate     sql.NullString
		hours       sql.NullFloat64
		importance  int
		deps        []byte
		completedAt sql.NullString
		createdAt   string
		updatedAt   string
	)

	if err := scan(&idStr, &title, &dueDate, &hours, &importance, &deps, &completedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q: %w", idStr, err)
	}

	dependencies, err := unmarshalDependencies(deps)
	if err != nil {
		return nil, err
	}

	due, err := parseNullTime(dueDate)
	if err != nil {
		return nil, err
	}
	completed, err := parseNullTime(completedAt)
	if err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at: %w", err)
	}

	return task.Reconstitute(id, title, due, hours.Float64, importance, dependencies, completed, created, updated), nil
}

func nullTimeString(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339Nano), Valid: true}
}

func nullHours(hours float64) sql.NullFloat64 {
	if hours <= 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: hours, Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", s.String, err)
	}
	return &t, nil
}
