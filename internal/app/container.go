// Package app wires configuration, storage, and handlers into a running
// application.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/triage/internal/prioritization/application/commands"
	"github.com/felixgeelhaar/triage/internal/prioritization/application/queries"
	"github.com/felixgeelhaar/triage/internal/prioritization/application/services"
	"github.com/felixgeelhaar/triage/internal/prioritization/domain/task"
	"github.com/felixgeelhaar/triage/internal/prioritization/infrastructure/persistence"
	"github.com/felixgeelhaar/triage/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/triage/pkg/config"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBDriver     database.Driver
	SQLiteDB     *sql.DB
	PostgresPool *pgxpool.Pool

	// Repositories
	TaskRepo task.Repository

	// Scoring
	Engine *services.Engine

	// Command Handlers
	CreateTaskHandler   *commands.CreateTaskHandler
	CompleteTaskHandler *commands.CompleteTaskHandler
	DeleteTaskHandler   *commands.DeleteTaskHandler

	// Query Handlers
	ListTasksHandler    *queries.ListTasksHandler
	AnalyzeTasksHandler *queries.AnalyzeTasksHandler
	SuggestTasksHandler *queries.SuggestTasksHandler
}

// NewContainer creates the application container: it opens the configured
// database, applies the schema, and wires every handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	dbCfg := database.Config{
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.MaxConns,
	}

	c.DBDriver = database.DetectDriver(cfg.DatabaseURL)
	switch c.DBDriver {
	case database.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, dbCfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.PostgresPool = pool

		repo := persistence.NewPostgresTaskRepository(pool)
		if err := repo.InitSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("init postgres schema: %w", err)
		}
		c.TaskRepo = repo

	default:
		db, err := database.OpenSQLite(ctx, dbCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		c.SQLiteDB = db

		repo := persistence.NewSQLiteTaskRepository(db)
		if err := repo.InitSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("init sqlite schema: %w", err)
		}
		c.TaskRepo = repo
	}

	logger.Info("database connected", "driver", c.DBDriver.String())

	c.Engine = services.NewEngine()

	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.TaskRepo)
	c.CompleteTaskHandler = commands.NewCompleteTaskHandler(c.TaskRepo)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(c.TaskRepo)

	c.ListTasksHandler = queries.NewListTasksHandler(c.TaskRepo)
	c.AnalyzeTasksHandler = queries.NewAnalyzeTasksHandler(c.Engine)
	c.SuggestTasksHandler = queries.NewSuggestTasksHandler(c.Engine)

	return c, nil
}

// Close releases the container's resources.
func (c *Container) Close() error {
	if c.PostgresPool != nil {
		c.PostgresPool.Close()
	}
	if c.SQLiteDB != nil {
		return c.SQLiteDB.Close()
	}
	return nil
}
