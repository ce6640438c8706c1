package cli

import (
	"github.com/felixgeelhaar/triage/internal/prioritization/application/commands"
	"github.com/felixgeelhaar/triage/internal/prioritization/application/queries"
	"github.com/felixgeelhaar/triage/internal/prioritization/application/services"
)

// App holds the CLI application dependencies.
type App struct {
	// Task Command Handlers
	CreateTaskHandler   *commands.CreateTaskHandler
	CompleteTaskHandler *commands.CompleteTaskHandler
	DeleteTaskHandler   *commands.DeleteTaskHandler

	// Query Handlers
	ListTasksHandler    *queries.ListTasksHandler
	AnalyzeTasksHandler *queries.AnalyzeTasksHandler
	SuggestTasksHandler *queries.SuggestTasksHandler

	// DefaultStrategy is used when a command does not pass --strategy.
	DefaultStrategy services.Strategy
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	createTaskHandler *commands.CreateTaskHandler,
	completeTaskHandler *commands.CompleteTaskHandler,
	deleteTaskHandler *commands.DeleteTaskHandler,
	listTasksHandler *queries.ListTasksHandler,
	analyzeTasksHandler *queries.AnalyzeTasksHandler,
	suggestTasksHandler *queries.SuggestTasksHandler,
) *App {
	return &App{
		CreateTaskHandler:   createTaskHandler,
		CompleteTaskHandler: completeTaskHandler,
		DeleteTaskHandler:   deleteTaskHandler,
		ListTasksHandler:    listTasksHandler,
		AnalyzeTasksHandler: analyzeTasksHandler,
		SuggestTasksHandler: suggestTasksHandler,
		DefaultStrategy:     services.StrategySmartBalance,
	}
}

// SetDefaultStrategy updates the strategy commands fall back to.
func (a *App) SetDefaultStrategy(s services.Strategy) {
	a.DefaultStrategy = s
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
