package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-duel/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective duel rules as YAML",
	Long: `Print the duel rules that serve and play would use, after the
--config file (or ~/.duel/duel.yaml) is applied over the built-in rules.

Examples:
  duel config
  duel config --config ./tournament.yaml
  duel config > ~/.duel/duel.yaml`,
	RunE: func(_ *cobra.Command, _ []string) error {
		rules, err := loadRules()
		if err != nil {
			return err
		}
		data, err := config.Marshal(rules)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}
