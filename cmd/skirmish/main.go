// skirmish is a turn-based strategy game played in the terminal.
//
// Usage:
//
//	skirmish play                - Start a local hot-seat match
//	skirmish serve               - Start SSH server for remote play
//	skirmish scenarios           - List available scenario presets
//	skirmish saves               - List saved matches
//	skirmish results             - Show recent match results
//	skirmish rules               - Print the effective ruleset
//
// Global flags:
//
//	--db <path>     - Set database path (default: ~/.skirmish/skirmish.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skirmish",
	Short: "Skirmish - Turn-based grid strategy in your terminal",
	Long: `Skirmish is a terminal-based turn-based strategy game. Two players
share a 25x25 battlefield, build units, gather resources, and race to
destroy the enemy base or hit the resource threshold first.

Available commands:
  play       - Start a local hot-seat match
  serve      - Start SSH server for remote play
  scenarios  - List scenario presets
  saves      - List saved matches
  results    - View recent match results
  rules      - Print the effective ruleset as YAML

Examples:
  skirmish play
  skirmish play --scenario blitz
  skirmish play --load campaign
  skirmish serve --ssh :2222
  skirmish results --limit 5`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.skirmish/skirmish.db", "Path to saves database")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(rulesCmd)
}
