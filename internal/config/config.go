// Package config provides YAML-based duel configuration loading and
// environment overrides for the server process.
package config

import (
	"errors"
	"fmt"
)

// DuelConfig contains all tunables of the duel rules and arena.
type DuelConfig struct {
	Timing    TimingConfig    `yaml:"timing"`
	Match     MatchConfig     `yaml:"match"`
	Validator ValidatorConfig `yaml:"validator"`
	Arena     ArenaConfig     `yaml:"arena"`
	Movement  MovementConfig  `yaml:"movement"`
}

// TimingConfig holds phase durations in whole time units (seconds).
type TimingConfig struct {
	TickRate   int `yaml:"tick_rate"`  // Simulation steps per time unit
	Countdown  int `yaml:"countdown"`  // Round countdown
	RoundTime  int `yaml:"round_time"` // Max length of an active round
	Resolution int `yaml:"resolution"` // End-of-round hold
	Restart    int `yaml:"restart"`    // Game-over hold before the lobby reopens
}

// SpectatorPolicy decides what happens to connections beyond the second.
type SpectatorPolicy string

const (
	SpectatorsAllow  SpectatorPolicy = "spectate"
	SpectatorsReject SpectatorPolicy = "reject"
)

// MatchConfig defines the victory condition and admission policy.
type MatchConfig struct {
	TotalRounds int             `yaml:"total_rounds"` // Best-of count; victory at ceil(total/2)
	Spectators  SpectatorPolicy `yaml:"spectators"`
}

// ValidatorConfig tunes the authoritative hit cast.
type ValidatorConfig struct {
	MaxRange float64 `yaml:"max_range"`
}

// ArenaConfig defines spawn lines and hit volume sizes.
type ArenaConfig struct {
	HalfWidth     float64 `yaml:"half_width"`      // Strafe limit either side of center
	Depth         float64 `yaml:"depth"`           // Distance between firing and defense lines
	EyeHeight     float64 `yaml:"eye_height"`      // Ray origin height and head center height
	HeadRadius    float64 `yaml:"head_radius"`     // Critical sub-volume
	BodyHalfWidth float64 `yaml:"body_half_width"` // Body box half extent in X and Z
	BodyHeight    float64 `yaml:"body_height"`     // Body box top
}

// MovementConfig controls strafing and aiming response.
type MovementConfig struct {
	MaxSpeed         float64 `yaml:"max_speed"`         // Units per time unit
	AccelerationTime float64 `yaml:"acceleration_time"` // Time units to reach full speed
	AimSensitivity   float64 `yaml:"aim_sensitivity"`   // Aim units per time unit
	MaxYaw           float64 `yaml:"max_yaw"`           // Degrees
	MaxPitch         float64 `yaml:"max_pitch"`         // Degrees
}

// VictoryScore returns the number of eliminations needed to win.
func (c DuelConfig) VictoryScore() int {
	return (c.Match.TotalRounds + 1) / 2
}

// Ticks converts whole time units into simulation steps.
func (c DuelConfig) Ticks(units int) int {
	return units * c.Timing.TickRate
}

// Validate rejects configurations the coordinator cannot run.
func (c DuelConfig) Validate() error {
	var errs []error

	if c.Timing.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("timing.tick_rate must be positive, got %d", c.Timing.TickRate))
	}
	for name, v := range map[string]int{
		"timing.countdown":  c.Timing.Countdown,
		"timing.round_time": c.Timing.RoundTime,
		"timing.resolution": c.Timing.Resolution,
		"timing.restart":    c.Timing.Restart,
	} {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	if c.Match.TotalRounds <= 0 {
		errs = append(errs, fmt.Errorf("match.total_rounds must be positive, got %d", c.Match.TotalRounds))
	}
	switch c.Match.Spectators {
	case SpectatorsAllow, SpectatorsReject:
	default:
		errs = append(errs, fmt.Errorf("match.spectators must be %q or %q, got %q",
			SpectatorsAllow, SpectatorsReject, c.Match.Spectators))
	}
	if c.Validator.MaxRange <= 0 {
		errs = append(errs, fmt.Errorf("validator.max_range must be positive, got %g", c.Validator.MaxRange))
	}
	if c.Arena.HeadRadius <= 0 || c.Arena.BodyHeight <= 0 || c.Arena.Depth <= 0 {
		errs = append(errs, errors.New("arena volumes and depth must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid duel config: %w", errors.Join(errs...))
	}
	return nil
}
