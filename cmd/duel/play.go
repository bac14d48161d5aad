package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-duel/internal/bot"
	"github.com/vovakirdan/tui-duel/internal/multiplayer"
	"github.com/vovakirdan/tui-duel/internal/platform/tui"
)

var (
	flagName     string
	flagSkill    float64
	flagReaction int
	flagNoSave   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Duel a CPU opponent in this terminal",
	Long: `Start a local duel against a CPU opponent.

Controls:
  Arrows/WASD  - Strafe (defense) or aim (in aim mode)
  Tab/E        - Toggle aim mode
  Space/Enter  - Fire (offense, once per round)
  ?            - Help
  Q/Ctrl+C     - Quit

Examples:
  duel play
  duel play --name alice --skill 0.9
  duel play --reaction 400 --no-save`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagName, "name", "", "Your display name (default: $USER)")
	playCmd.Flags().Float64Var(&flagSkill, "skill", bot.DefaultSkill, "CPU aim skill from 0 to 1")
	playCmd.Flags().IntVar(&flagReaction, "reaction", int(bot.DefaultReaction/time.Millisecond), "CPU reaction time in milliseconds")
	playCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the match")
}

func runPlay(_ *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("play needs an interactive terminal")
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	name := flagName
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "player"
	}

	rules, err := loadRules()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so host logs are dropped
	hostCfg := multiplayer.HostConfig{Duel: rules, Seed: flagSeed}
	if !flagNoSave {
		if store := openStore(); store != nil {
			defer store.Close()
			hostCfg.Results = store
		}
	}

	host, err := multiplayer.NewHost(hostCfg)
	if err != nil {
		return fmt.Errorf("cannot create host: %w", err)
	}
	host.Start()
	defer host.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cpu := bot.New(bot.Config{
		Skill:    flagSkill,
		Reaction: time.Duration(flagReaction) * time.Millisecond,
		TickRate: rules.Timing.TickRate,
		Arena:    rules.Arena,
		Seed:     flagSeed,
	})
	go cpu.Run(ctx, host)

	return tui.Run(host, name, width, height)
}
