package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-duel/internal/platform/tui"
	"github.com/vovakirdan/tui-duel/internal/storage"
)

var (
	flagHistoryPlayer string
	flagHistoryLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent matches",
	Long: `Display recent matches from the match database.

In a terminal this opens an interactive table with player records.
When piped, or with --player, it prints plain text instead.

Examples:
  duel history
  duel history --player alice
  duel history --limit 50 | less`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagHistoryPlayer, "player", "", "Show one player's record and matches")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of matches to print")
}

func runHistory(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(serverCfg.DBPath)
	if err != nil {
		return fmt.Errorf("cannot open match database: %w", err)
	}
	defer store.Close()

	if flagHistoryPlayer != "" {
		return printPlayer(store, flagHistoryPlayer)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunHistory(store, width, height)
	}

	matches, err := store.RecentMatches(flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("cannot load matches: %w", err)
	}
	printMatches(matches)
	return nil
}

func printPlayer(store *storage.Store, name string) error {
	rec, err := store.PlayerRecord(name)
	if err != nil {
		return fmt.Errorf("cannot load player record: %w", err)
	}
	if rec.Matches == 0 {
		fmt.Printf("No matches recorded for %s.\n", name)
		return nil
	}

	fmt.Printf("%s\n\n", name)
	fmt.Printf("  Matches    %d\n", rec.Matches)
	fmt.Printf("  Wins       %d\n", rec.Wins)
	fmt.Printf("  Losses     %d\n", rec.Losses)
	fmt.Printf("  Abandoned  %d\n", rec.Abandoned)
	fmt.Printf("  Headshots  %d\n", rec.Headshots)
	fmt.Println()

	matches, err := store.PlayerMatches(name, flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("cannot load matches: %w", err)
	}
	printMatches(matches)
	return nil
}

func printMatches(matches []storage.MatchRecord) {
	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Run 'duel serve' or 'duel play' to record the first one!")
		return
	}

	fmt.Printf("  %-16s  %-12s  %-7s  %-12s  %-12s  %s\n", "Date", "Player 1", "Score", "Player 2", "Winner", "End")
	fmt.Printf("  %-16s  %-12s  %-7s  %-12s  %-12s  %s\n", "----", "--------", "-----", "--------", "------", "---")
	for _, m := range matches {
		fmt.Printf("  %-16s  %-12s  %-7s  %-12s  %-12s  %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"),
			m.Player1Name,
			fmt.Sprintf("%d : %d", m.Score1, m.Score2),
			m.Player2Name,
			m.Winner(),
			m.EndReason,
		)
	}
}
