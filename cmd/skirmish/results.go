package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-skirmish/internal/storage"
)

var flagResultsLimit int

var resultsCmd = &cobra.Command{
	Use:   "results [scenario]",
	Short: "Show recent match results",
	Long: `Display recent match results. With a scenario argument, also shows
aggregate statistics for that scenario.

Examples:
  skirmish results
  skirmish results --limit 5
  skirmish results standard`,
	Args: cobra.MaximumNArgs(1),
	Run:  runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagResultsLimit, "limit", 10, "Number of results to show")
}

func runResults(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	results, err := store.RecentMatches(flagResultsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	if len(results) == 0 {
		fmt.Println("No matches recorded yet.")
		return
	}

	fmt.Println("Recent matches:")
	fmt.Println()
	fmt.Printf("  %-10s  %-8s  %-20s  %-6s  %s\n", "Scenario", "Winner", "Reason", "Turns", "Date")
	fmt.Printf("  %-10s  %-8s  %-20s  %-6s  %s\n", "--------", "------", "------", "-----", "----")

	for _, r := range results {
		winner := r.Winner
		if winner == "" {
			winner = "draw"
		}
		fmt.Printf("  %-10s  %-8s  %-20s  %-6d  %s\n",
			r.Scenario, winner, r.EndReason, r.Turns, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if len(args) == 1 {
		stats, err := store.GetScenarioStats(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
			os.Exit(1)
		}
		fmt.Println()
		fmt.Printf("Scenario %q: %d played, P1 %d / P2 %d / draws %d, avg %.1f turns\n",
			stats.Scenario, stats.Played, stats.Player1Wins, stats.Player2Wins,
			stats.Draws, stats.AvgTurns)
	}
}
