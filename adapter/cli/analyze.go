package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/triage/internal/prioritization/application/queries"
	"github.com/felixgeelhaar/triage/internal/prioritization/application/services"
)

var (
	analyzeFile     string
	analyzeStrategy string
	analyzeOn       string
)

// fileTask is a task entry in an analyze input file. Field names match the
// HTTP API wire format.
type fileTask struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	DueDate        string   `json:"due_date"`
	EstimatedHours float64  `json:"estimated_hours"`
	Importance     *int     `json:"importance"`
	Dependencies   []string `json:"dependencies"`
}

// fileBatch allows either a bare array of tasks or an object wrapping one.
type fileBatch struct {
	Tasks    []fileTask `json:"tasks"`
	Strategy string     `json:"strategy"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score and rank a batch of tasks",
	Long: `Analyze tasks and print them ranked by priority score.

Reads tasks from a JSON file when --file is given, otherwise analyzes
the stored open tasks.

Examples:
  triage analyze
  triage analyze --file tasks.json
  triage analyze --file tasks.json --strategy fastest_wins
  triage analyze --on 2025-11-15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.AnalyzeTasksHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		strategy, err := resolveStrategy(app, analyzeStrategy)
		if err != nil {
			return err
		}

		refDate, err := parseReferenceDate(analyzeOn)
		if err != nil {
			return err
		}

		var records []services.TaskRecord
		if analyzeFile != "" {
			var fileStrategy string
			records, fileStrategy, err = loadTaskFile(analyzeFile)
			if err != nil {
				return err
			}
			if analyzeStrategy == "" && fileStrategy != "" {
				strategy, err = services.ParseStrategy(fileStrategy)
				if err != nil {
					return fmt.Errorf("invalid strategy %q in %s (valid: %s)",
						fileStrategy, analyzeFile, strings.Join(services.StrategyNames(), ", "))
				}
			}
		} else {
			records, err = storedRecords(cmd, app)
			if err != nil {
				return err
			}
		}

		if len(records) == 0 {
			fmt.Println("No tasks to analyze.")
			return nil
		}

		ctx := cmd.Context()
		result, err := app.AnalyzeTasksHandler.Handle(ctx, queries.AnalyzeTasksQuery{
			Tasks:         records,
			Strategy:      strategy,
			ReferenceDate: refDate,
		})
		if err != nil {
			return fmt.Errorf("failed to analyze tasks: %w", err)
		}

		printAnalysis(result)
		return nil
	},
}

// printAnalysis writes the ranked batch with cycle warnings.
func printAnalysis(result *queries.AnalyzeTasksResult) {
	fmt.Printf("Analyzed %d task(s) with strategy %s\n", result.TotalTasks, result.StrategyUsed)
	fmt.Println(strings.Repeat("-", 60))

	for i, t := range result.Tasks {
		marker := ""
		if t.HasCircularDependency {
			marker = " [CYCLE]"
		}
		fmt.Printf("%d. %s (score %.4f)%s\n", i+1, t.Title, t.PriorityScore, marker)
		fmt.Printf("   %s\n", t.Explanation)
		if t.DueDate != "" {
			fmt.Printf("   Due: %s\n", t.DueDate)
		}
		fmt.Println()
	}

	if result.CircularDependenciesDetected {
		fmt.Printf("Warning: %d circular dependency chain(s) detected:\n", result.CircularDependencyCount)
		seen := map[string]bool{}
		for _, t := range result.Tasks {
			for _, chain := range t.CircularDependencyChains {
				key := strings.Join(chain, "->")
				if seen[key] {
					continue
				}
				seen[key] = true
				fmt.Printf("  %s\n", strings.Join(chain, " -> "))
			}
		}
	}
}

// loadTaskFile reads a JSON task batch. The file may be a bare array or an
// object with tasks and an optional strategy.
func loadTaskFile(path string) ([]services.TaskRecord, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	var tasks []fileTask
	var strategy string
	if err := json.Unmarshal(data, &tasks); err != nil {
		var batch fileBatch
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, "", fmt.Errorf("parse %s: %w", path, err)
		}
		tasks = batch.Tasks
		strategy = batch.Strategy
	}

	records := make([]services.TaskRecord, 0, len(tasks))
	for i, t := range tasks {
		if t.Title == "" {
			return nil, "", fmt.Errorf("task at index %d has no title", i)
		}
		importance := 5
		if t.Importance != nil {
			importance = *t.Importance
		}
		records = append(records, services.TaskRecord{
			ID:             t.ID,
			Title:          t.Title,
			DueDate:        t.DueDate,
			EstimatedHours: t.EstimatedHours,
			Importance:     &importance,
			Dependencies:   t.Dependencies,
		})
	}
	return records, strategy, nil
}

// storedRecords loads the open stored tasks as scoring records.
func storedRecords(cmd *cobra.Command, app *App) ([]services.TaskRecord, error) {
	if app.ListTasksHandler == nil {
		return nil, fmt.Errorf("application not initialized - database connection required")
	}
	tasks, err := app.ListTasksHandler.Records(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to load stored tasks: %w", err)
	}
	return tasks, nil
}

// resolveStrategy picks the flag strategy or the app default.
func resolveStrategy(app *App, name string) (services.Strategy, error) {
	if name == "" {
		return app.DefaultStrategy, nil
	}
	strategy, err := services.ParseStrategy(name)
	if err != nil {
		return 0, fmt.Errorf("invalid strategy %q (valid: %s)",
			name, strings.Join(services.StrategyNames(), ", "))
	}
	return strategy, nil
}

// parseReferenceDate parses an optional YYYY-MM-DD anchor date.
func parseReferenceDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return t, nil
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "JSON file with tasks to analyze")
	analyzeCmd.Flags().StringVarP(&analyzeStrategy, "strategy", "s", "", "scoring strategy (fastest_wins, high_impact, deadline_driven, smart_balance)")
	analyzeCmd.Flags().StringVar(&analyzeOn, "on", "", "reference date for urgency scoring (YYYY-MM-DD)")

	rootCmd.AddCommand(analyzeCmd)
}
