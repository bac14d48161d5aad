// duel is a server-authoritative, round-based two-player duel for the terminal.
//
// Usage:
//
//	duel serve               - Host a duel over SSH and WebSocket
//	duel play                - Duel a CPU opponent in this terminal
//	duel history             - Show recent matches
//	duel config              - Print the effective duel rules as YAML
//
// Global flags:
//
//	--config <path>     - Duel rules YAML (default: ~/.duel/duel.yaml, then the built-in rules)
//	--db <path>         - Match database (default: ~/.duel/matches.db)
//	--log-level <level> - debug, info, warn or error
//	--seed <value>      - RNG seed for reproducible matches
//
// Settings may also come from DUEL_* environment variables or a .env file.
// Flags win over the environment.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-duel/internal/config"
	"github.com/vovakirdan/tui-duel/internal/storage"
)

var (
	// Global flags
	flagConfigPath string
	flagDBPath     string
	flagLogLevel   string
	flagSeed       int64

	serverCfg = config.DefaultServerConfig()
	logger    *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "duel",
	Short: "Terminal duel - one shoots, one dodges, then swap",
	Long: `Duel is a two-player, round-based shooting duel played in the terminal.

Each round one player is on offense with a single shot and the other
dodges. Roles swap every round. A headshot scores a point; the first to
a majority of the rounds wins the match.

Available commands:
  serve    - Host a shared duel over SSH and WebSocket
  play     - Duel a CPU opponent locally
  history  - View recent matches and player records
  config   - Print the effective duel rules

Examples:
  duel serve
  duel serve --ssh :2222 --http :9000
  duel play --name alice --skill 0.8
  duel history
  duel config > my-duel.yaml`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to duel rules YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", serverCfg.DBPath, "Path to match database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", serverCfg.LogLevel, "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// setup resolves server settings (defaults, then .env and DUEL_*, then
// flags) and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	if err := serverCfg.ApplyEnv(nil); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("config") {
		serverCfg.ConfigPath = flagConfigPath
	}
	if flags.Changed("db") {
		serverCfg.DBPath = flagDBPath
	}
	if flags.Changed("log-level") {
		serverCfg.LogLevel = flagLogLevel
	}

	level, err := log.ParseLevel(serverCfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", serverCfg.LogLevel, err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "duel",
		Level:           level,
	})
	return nil
}

// loadRules loads the duel rules named by --config or DUEL_CONFIG.
func loadRules() (config.DuelConfig, error) {
	cfg, err := config.LoadDuel(serverCfg.ConfigPath)
	if err != nil {
		return cfg, fmt.Errorf("cannot load duel config: %w", err)
	}
	return cfg, nil
}

// openStore opens the match database. A failure is logged and the caller
// carries on without history.
func openStore() *storage.Store {
	store, err := storage.Open(serverCfg.DBPath)
	if err != nil {
		logger.Warn("match history disabled", "db", serverCfg.DBPath, "error", err)
		return nil
	}
	return store
}
