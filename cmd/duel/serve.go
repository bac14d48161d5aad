package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/slack-go/slack"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-duel/internal/duel"
	"github.com/vovakirdan/tui-duel/internal/multiplayer"
	"github.com/vovakirdan/tui-duel/internal/notify"
	"github.com/vovakirdan/tui-duel/internal/platform/tui"
	"github.com/vovakirdan/tui-duel/internal/platform/web"
)

const shutdownTimeout = 10 * time.Second

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host a shared duel over SSH and WebSocket",
	Long: `Start the duel host and its front ends.

Every connection joins the same duel. The first two become the
participants; later connections spectate or are turned away, depending
on the match.spectators rule. Finished matches are saved to the match
database when it can be opened, and posted to Slack when DUEL_SLACK_TOKEN
and DUEL_SLACK_CHANNEL are set.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.duel/host_key

Examples:
  duel serve                     # SSH on :23235, HTTP on :8080
  duel serve --ssh :2222         # Listen for SSH on port 2222
  duel serve --http ""           # SSH only
  duel serve --config duel.yaml  # Custom rules

Players can connect with:
  ssh localhost -p 23235
  ws://localhost:8080/ws?name=alice&codec=json`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", serverCfg.SSHAddr, `SSH address (host:port), "" disables SSH`)
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", serverCfg.HTTPAddr, `HTTP/WebSocket address (host:port), "" disables HTTP`)
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", int(serverCfg.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if flags.Changed("ssh") {
		serverCfg.SSHAddr = flagSSHAddr
	}
	if flags.Changed("http") {
		serverCfg.HTTPAddr = flagHTTPAddr
	}
	if flags.Changed("host-key") {
		serverCfg.HostKeyPath = flagHostKey
	}
	if flags.Changed("idle-timeout") {
		serverCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}
	if serverCfg.SSHAddr == "" && serverCfg.HTTPAddr == "" {
		return errors.New("nothing to serve: both --ssh and --http are empty")
	}

	rules, err := loadRules()
	if err != nil {
		return err
	}

	hostCfg := multiplayer.HostConfig{
		Duel:   rules,
		Logger: logger.WithPrefix("host"),
		Seed:   flagSeed,
	}
	var sinks duel.ResultSinks
	store := openStore()
	if store != nil {
		defer store.Close()
		sinks = append(sinks, store)
	}
	if serverCfg.SlackEnabled() {
		client := slack.New(serverCfg.SlackToken)
		sinks = append(sinks, notify.NewSlackNotifier(client, serverCfg.SlackChannel, logger.WithPrefix("slack")))
		logger.Info("posting results to slack", "channel", serverCfg.SlackChannel)
	}
	if len(sinks) > 0 {
		hostCfg.Results = sinks
	}

	host, err := multiplayer.NewHost(hostCfg)
	if err != nil {
		return fmt.Errorf("cannot create host: %w", err)
	}
	host.Start()
	defer host.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	type server interface {
		ListenAndServe() error
		Shutdown(ctx context.Context) error
	}
	var servers []server

	if serverCfg.SSHAddr != "" {
		sshSrv, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     serverCfg.SSHAddr,
			HostKeyPath: serverCfg.HostKeyPath,
			IdleTimeout: serverCfg.IdleTimeout,
		}, host, store, logger.WithPrefix("ssh"))
		if err != nil {
			return err
		}
		servers = append(servers, sshSrv)
	}
	if serverCfg.HTTPAddr != "" {
		// A nil *storage.Store must not become a non-nil MatchStore
		var history web.MatchStore
		if store != nil {
			history = store
		}
		servers = append(servers, web.NewServer(serverCfg.HTTPAddr, host, history, logger.WithPrefix("http")))
	}

	errs := make(chan error, len(servers))
	for _, s := range servers {
		s := s
		go func() {
			errs <- s.ListenAndServe()
		}()
	}
	logger.Info("duel host running", "rounds", rules.Match.TotalRounds, "tick_rate", rules.Timing.TickRate)

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case serveErr = <-errs:
		if serveErr != nil {
			logger.Error("server failed", "error", serveErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, s := range servers {
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown incomplete", "error", err)
		}
	}
	return serveErr
}
