package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/triage/internal/prioritization/domain/task"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id              UUID PRIMARY KEY,
	title           TEXT NOT NULL,
	due_date        DATE,
	estimated_hours DOUBLE PRECISION,
	importance      INTEGER NOT NULL,
	dependencies    JSONB NOT NULL DEFAULT '[]'::jsonb,
	completed_at    TIMESTAMPTZ,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
)`

// PostgresTaskRepository implements task.Repository using PostgreSQL.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// InitSchema creates the tasks table if it does not exist.
func (r *PostgresTaskRepository) InitSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to initialize postgres schema: %w", err)
	}
	return nil
}

// Save upserts a task.
func (r *PostgresTaskRepository) Save(ctx context.Context, t *task.Task) error {
	deps, err := marshalDependencies(t.Dependencies())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (id, title, due_date, estimated_hours, importance, dependencies, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			due_date = EXCLUDED.due_date,
			estimated_hours = EXCLUDED.estimated_hours,
			importance = EXCLUDED.importance,
			dependencies = EXCLUDED.dependencies,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at
	`

	var hours *float64
	if t.EstimatedHours() > 0 {
		h := t.EstimatedHours()
		hours = &h
	}

	_, err = r.pool.Exec(ctx, query,
		t.ID(),
		t.Title(),
		t.DueDate(),
		hours,
		t.Importance(),
		deps,
		t.CompletedAt(),
		t.CreatedAt(),
		t.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a task by its ID.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, due_date, estimated_hours, importance, dependencies, completed_at, created_at, updated_at
		FROM tasks WHERE id = $1
	`, id)

	t, err := scanPostgresTask(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// FindAll retrieves all tasks, newest first.
func (r *PostgresTaskRepository) FindAll(ctx context.Context) ([]*task.Task, error) {
	return r.findWhere(ctx, "")
}

// FindOpen retrieves tasks that are not completed, newest first.
func (r *PostgresTaskRepository) FindOpen(ctx context.Context) ([]*task.Task, error) {
	return r.findWhere(ctx, "WHERE completed_at IS NULL")
}

// Delete removes a task.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) findWhere(ctx context.Context, where string) ([]*task.Task, error) {
	query := fmt.Sprintf(`
		SELECT id, title, due_date, estimated_hours, importance, dependencies, completed_at, created_at, updated_at
		FROM tasks %s ORDER BY created_at DESC
	`, where)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanPostgresTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanPostgresTask(scan func(dest ...any) error) (*task.Task, error) {
	var (
		id          uuid.UUID
		title       string
		dueDate     *time.Time
		hours       *float64
		importance  int
		deps        []byte
		completedAt *time.Time
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := scan(&id, &title, &dueDate, &hours, &importance, &deps, &completedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	dependencies, err := unmarshalDependencies(deps)
	if err != nil {
		return nil, err
	}

	estimated := 0.0
	if hours != nil {
		estimated = *hours
	}

	return task.Reconstitute(id, title, dueDate, estimated, importance, dependencies, completedAt, createdAt, updatedAt), nil
}
