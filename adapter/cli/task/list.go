package task

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/triage/adapter/cli"
	"github.com/felixgeelhaar/triage/internal/prioritization/application/queries"
)

var showCompleted bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List stored tasks.

Examples:
  triage task list              # Open tasks
  triage task list --all        # Including completed tasks`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListTasksHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		ctx := cmd.Context()
		tasks, err := app.ListTasksHandler.Handle(ctx, queries.ListTasksQuery{
			IncludeCompleted: showCompleted,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		fmt.Printf("Tasks (%d):\n", len(tasks))
		fmt.Println(strings.Repeat("-", 60))

		for _, t := range tasks {
			icon := "[ ]"
			if t.CompletedAt != nil {
				icon = "[x]"
			}
			fmt.Printf("%s %s (importance %d/10)\n", icon, t.Title, t.Importance)
			fmt.Printf("   ID: %s\n", t.ID.String()[:8])
			if t.DueDate != nil {
				fmt.Printf("   Due: %s\n", t.DueDate.Format("2006-01-02"))
			}
			if t.EstimatedHours > 0 {
				fmt.Printf("   Effort: %g h\n", t.EstimatedHours)
			}
			if len(t.Dependencies) > 0 {
				fmt.Printf("   Depends on: %d task(s)\n", len(t.Dependencies))
			}
			fmt.Println()
		}

		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&showCompleted, "all", "a", false, "include completed tasks")
}
