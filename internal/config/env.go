package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds process-level settings for the duel host.
type ServerConfig struct {
	SSHAddr     string        // SSH listen address, empty disables SSH
	HTTPAddr    string        // HTTP/WebSocket listen address, empty disables HTTP
	HostKeyPath string        // SSH host key; empty means ~/.duel/host_key
	DBPath      string        // Match results database
	ConfigPath  string        // Duel rules YAML
	LogLevel    string        // debug, info, warn, error
	IdleTimeout time.Duration // SSH idle timeout

	// Match results are announced to Slack when both are set.
	SlackToken   string
	SlackChannel string
}

// DefaultServerConfig returns the built-in server settings.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		SSHAddr:     ":23235",
		HTTPAddr:    ":8080",
		DBPath:      "~/.duel/matches.db",
		LogLevel:    "info",
		IdleTimeout: 30 * time.Minute,
	}
}

// SlackEnabled reports whether results should be posted to Slack.
func (c ServerConfig) SlackEnabled() bool {
	return c.SlackToken != "" && c.SlackChannel != ""
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are ignored; existing variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: cannot load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from DUEL_* environment variables.
func (c *ServerConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	strs := map[string]*string{
		"DUEL_SSH_ADDR":  &c.SSHAddr,
		"DUEL_HTTP_ADDR": &c.HTTPAddr,
		"DUEL_HOST_KEY":  &c.HostKeyPath,
		"DUEL_DB":        &c.DBPath,
		"DUEL_CONFIG":    &c.ConfigPath,
		"DUEL_LOG_LEVEL": &c.LogLevel,

		"DUEL_SLACK_TOKEN":   &c.SlackToken,
		"DUEL_SLACK_CHANNEL": &c.SlackChannel,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("DUEL_IDLE_TIMEOUT"); ok {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return fmt.Errorf("config: DUEL_IDLE_TIMEOUT must be a positive number of minutes, got %q", v)
		}
		c.IdleTimeout = time.Duration(minutes) * time.Minute
	}
	return nil
}
