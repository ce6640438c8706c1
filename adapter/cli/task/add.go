package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/triage/adapter/cli"
	"github.com/felixgeelhaar/triage/internal/prioritization/application/commands"
)

var (
	dueDate    string
	hours      float64
	importance int
	dependsOn  []string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task with a title and optional scoring inputs.

Examples:
  triage task add "Finish quarterly report"
  triage task add "Review PR" --due 2025-11-30 --hours 0.5
  triage task add "Ship release" --importance 9 --depends-on <task-id>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		title := args[0]

		createCmd := commands.CreateTaskCommand{
			Title:          title,
			EstimatedHours: hours,
			Importance:     importance,
		}

		// Parse due date if provided
		if dueDate != "" {
			parsed, err := time.Parse("2006-01-02", dueDate)
			if err != nil {
				return fmt.Errorf("invalid due date format (use YYYY-MM-DD): %w", err)
			}
			createCmd.DueDate = &parsed
		}

		for _, dep := range dependsOn {
			id, err := uuid.Parse(dep)
			if err != nil {
				return fmt.Errorf("invalid dependency ID %q: %w", dep, err)
			}
			createCmd.Dependencies = append(createCmd.Dependencies, id)
		}

		ctx := cmd.Context()
		result, err := app.CreateTaskHandler.Handle(ctx, createCmd)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		fmt.Printf("Task added: %s\n", result.TaskID)
		fmt.Printf("  title: %s\n", title)
		if dueDate != "" {
			fmt.Printf("  due: %s\n", dueDate)
		}
		if hours > 0 {
			fmt.Printf("  estimated hours: %g\n", hours)
		}
		if importance > 0 {
			fmt.Printf("  importance: %d/10\n", importance)
		}

		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().Float64Var(&hours, "hours", 0, "estimated effort in hours")
	addCmd.Flags().IntVarP(&importance, "importance", "i", 0, "importance rating 1-10")
	addCmd.Flags().StringSliceVar(&dependsOn, "depends-on", nil, "IDs of tasks this task depends on")
}
