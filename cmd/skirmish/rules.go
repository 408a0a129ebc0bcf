package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-skirmish/internal/config"
	"github.com/vovakirdan/tui-skirmish/internal/scenario"
)

var (
	flagRulesScenario string
	flagRulesConfig   string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective ruleset as YAML",
	Long: `Print the fully resolved ruleset that a match would use, after
applying the scenario preset or custom config file. Useful as a starting
point for a custom rules YAML.

Examples:
  skirmish rules
  skirmish rules --scenario blitz > my-rules.yaml
  skirmish rules --config ./my-rules.yaml`,
	Run: runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&flagRulesScenario, "scenario", "standard", "Scenario preset to resolve")
	rulesCmd.Flags().StringVar(&flagRulesConfig, "config", "", "Path to custom rules YAML (overrides --scenario)")
}

func runRules(cmd *cobra.Command, args []string) {
	var cfg config.Config
	var err error

	if flagRulesConfig != "" {
		cfg, err = config.Load(flagRulesConfig)
	} else {
		cfg, err = scenario.Build(flagRulesScenario)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding rules: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
