package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/triage/internal/prioritization/application/queries"
)

var (
	nextStrategy string
	nextLimit    int
	nextOn       string
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Suggest what to work on next",
	Long: `Score the stored open tasks and print the top suggestions.

Examples:
  triage next
  triage next --strategy deadline_driven
  triage next --limit 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SuggestTasksHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		strategy, err := resolveStrategy(app, nextStrategy)
		if err != nil {
			return err
		}

		refDate, err := parseReferenceDate(nextOn)
		if err != nil {
			return err
		}

		records, err := storedRecords(cmd, app)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No open tasks. Add one with: triage task add \"<title>\"")
			return nil
		}

		ctx := cmd.Context()
		result, err := app.SuggestTasksHandler.Handle(ctx, queries.SuggestTasksQuery{
			Tasks:         records,
			Strategy:      strategy,
			ReferenceDate: refDate,
			Limit:         nextLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to suggest tasks: %w", err)
		}

		fmt.Printf("Top %d of %d open task(s), strategy %s:\n",
			len(result.Suggestions), result.TotalTasksAnalyzed, result.StrategyUsed)
		fmt.Println(strings.Repeat("-", 60))
		for _, s := range result.Suggestions {
			fmt.Printf("%d. %s (score %.4f)\n", s.Rank, s.Task.Title, s.Task.PriorityScore)
			fmt.Printf("   %s\n", s.Reason)
			fmt.Println()
		}

		return nil
	},
}

func init() {
	nextCmd.Flags().StringVarP(&nextStrategy, "strategy", "s", "", "scoring strategy (fastest_wins, high_impact, deadline_driven, smart_balance)")
	nextCmd.Flags().IntVarP(&nextLimit, "limit", "n", 0, "number of suggestions (default 3)")
	nextCmd.Flags().StringVar(&nextOn, "on", "", "reference date for urgency scoring (YYYY-MM-DD)")

	rootCmd.AddCommand(nextCmd)
}
