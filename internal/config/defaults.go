package config

import (
	_ "embed"
)

//go:embed defaults/duel.yaml
var defaultDuelYAML []byte

// DefaultDuelConfig returns the hard-coded duel configuration.
// Mirrors defaults/duel.yaml; used if the embedded file cannot be parsed.
func DefaultDuelConfig() DuelConfig {
	return DuelConfig{
		Timing: TimingConfig{
			TickRate:   20,
			Countdown:  5,
			RoundTime:  30,
			Resolution: 5,
			Restart:    5,
		},
		Match: MatchConfig{
			TotalRounds: 7,
			Spectators:  SpectatorsAllow,
		},
		Validator: ValidatorConfig{
			MaxRange: 100,
		},
		Arena: ArenaConfig{
			HalfWidth:     6,
			Depth:         20,
			EyeHeight:     1.6,
			HeadRadius:    0.25,
			BodyHalfWidth: 0.4,
			BodyHeight:    1.35,
		},
		Movement: MovementConfig{
			MaxSpeed:         4,
			AccelerationTime: 0.5,
			AimSensitivity:   0.6,
			MaxYaw:           45,
			MaxPitch:         10,
		},
	}
}

// DefaultYAML returns the embedded default duel YAML.
func DefaultYAML() []byte {
	return defaultDuelYAML
}
