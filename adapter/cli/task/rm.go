package task

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/triage/adapter/cli"
	"github.com/felixgeelhaar/triage/internal/prioritization/application/commands"
)

var rmCmd = &cobra.Command{
	Use:   "rm [task-id]",
	Short: "Remove a task",
	Long: `Remove a task by its ID.

Examples:
  triage task rm 550e8400-e29b-41d4-a716-446655440000`,
	Aliases: []string{"remove", "delete"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.DeleteTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		ctx := cmd.Context()
		if err := app.DeleteTaskHandler.Handle(ctx, commands.DeleteTaskCommand{TaskID: taskID}); err != nil {
			return fmt.Errorf("failed to remove task: %w", err)
		}

		fmt.Printf("Task removed: %s\n", taskID)
		return nil
	},
}
