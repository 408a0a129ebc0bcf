package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-skirmish/internal/config"
	"github.com/vovakirdan/tui-skirmish/internal/game"
	"github.com/vovakirdan/tui-skirmish/internal/platform/tui"
	"github.com/vovakirdan/tui-skirmish/internal/scenario"
	"github.com/vovakirdan/tui-skirmish/internal/storage"
	"github.com/vovakirdan/tui-skirmish/internal/turn"
)

var (
	flagScenario string
	flagConfig   string
	flagLoad     string
	flagBrowse   bool
	flagSaveName string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a local hot-seat match",
	Long: `Start a two-player hot-seat match in the current terminal.

Controls:
  Arrows/hjkl - Move cursor
  Enter       - Select unit / confirm action
  M/A/G/B     - Move, attack, gather, build
  N/E         - Next phase, end turn
  Ctrl+S      - Save
  Q/Ctrl+C    - Quit

Examples:
  skirmish play
  skirmish play --scenario blitz
  skirmish play --config ./my-rules.yaml
  skirmish play --load campaign
  skirmish play --browse`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagScenario, "scenario", "standard", "Scenario preset to play")
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML (overrides --scenario)")
	playCmd.Flags().StringVar(&flagLoad, "load", "", "Resume the named saved match")
	playCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Pick a saved match interactively")
	playCmd.Flags().StringVar(&flagSaveName, "save-name", "quicksave", "Save slot used by Ctrl+S")
}

func runPlay(cmd *cobra.Command, args []string) {
	// Open the saves database; the match still works without it.
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open saves database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	loadName := flagLoad
	if flagBrowse {
		loadName = pickSave(store)
		if loadName == "" {
			return
		}
	}

	var state *game.State
	scenarioName := flagScenario

	if loadName != "" {
		state = resumeMatch(store, loadName)
		if flagSaveName == "quicksave" {
			flagSaveName = loadName // Keep saving into the resumed slot
		}
	} else {
		cfg := buildRules()
		state, err = game.New(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating match: %v\n", err)
			os.Exit(1)
		}
	}

	ctrl := turn.New(state, state.Config().Timing, nil)

	if runErr := tui.Run(state, ctrl, store, scenarioName, flagSaveName); runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running match: %v\n", runErr)
		os.Exit(1)
	}
}

// buildRules resolves the ruleset from --config or --scenario.
func buildRules() config.Config {
	if flagConfig != "" {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}

	if !scenario.Exists(flagScenario) {
		fmt.Fprintf(os.Stderr, "Error: unknown scenario %q\n", flagScenario)
		fmt.Fprintln(os.Stderr, "Run 'skirmish scenarios' to see available presets.")
		os.Exit(1)
	}
	cfg, err := scenario.Build(flagScenario)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// resumeMatch restores a state from the named save slot.
func resumeMatch(store *storage.Store, name string) *game.State {
	if store == nil {
		fmt.Fprintln(os.Stderr, "Error: saves database unavailable")
		os.Exit(1)
	}

	entry, err := store.LoadGame(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading save: %v\n", err)
		os.Exit(1)
	}
	if entry == nil {
		fmt.Fprintf(os.Stderr, "Error: no save named %q\n", name)
		fmt.Fprintln(os.Stderr, "Run 'skirmish saves' to see saved matches.")
		os.Exit(1)
	}

	snap, err := game.UnmarshalSnapshot(entry.Snapshot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding save: %v\n", err)
		os.Exit(1)
	}
	state, err := game.Restore(snap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error restoring save: %v\n", err)
		os.Exit(1)
	}
	return state
}

// pickSave opens the interactive saves browser sized to the terminal.
func pickSave(store *storage.Store) string {
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	name, err := tui.RunSavesBrowser(store, width, height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return name
}
