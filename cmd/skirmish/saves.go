package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-skirmish/internal/storage"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List saved matches",
	Long: `Display all saved matches in the database.

Examples:
  skirmish saves
  skirmish saves delete old-campaign`,
	Run: runSaves,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved match",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesDelete,
}

func init() {
	savesCmd.AddCommand(savesDeleteCmd)
}

func runSaves(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening saves database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	saves, err := store.ListSaves()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving saves: %v\n", err)
		os.Exit(1)
	}

	if len(saves) == 0 {
		fmt.Println("No saved matches yet.")
		fmt.Println()
		fmt.Println("Save a match with Ctrl+S while playing.")
		return
	}

	fmt.Println("Saved matches:")
	fmt.Println()
	fmt.Printf("  %-24s  %-6s  %-8s  %s\n", "Name", "Turn", "Status", "Updated")
	fmt.Printf("  %-24s  %-6s  %-8s  %s\n", "----", "----", "------", "-------")

	for _, s := range saves {
		fmt.Printf("  %-24s  %-6d  %-8s  %s\n",
			s.Name, s.Turn, s.Status, s.UpdatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Println("Run 'skirmish play --load <name>' to resume one.")
}

func runSavesDelete(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening saves database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.DeleteSave(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting save: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted save %q\n", args[0])
}
