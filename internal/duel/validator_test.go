package duel

import (
	"math"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/vovakirdan/tui-duel/internal/config"
	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/replica"
)

// duelists places an offense on the firing line and a defense at x.
func duelists(t *testing.T, cfg config.DuelConfig, defenseX float64) (*Arena, *replica.Authority, *Participant, *Participant) {
	t.Helper()
	auth := replica.NewAuthority("test")
	byID := map[ParticipantID]*Participant{}
	arena := NewArena(cfg.Arena, auth, func(id ParticipantID) *Participant { return byID[id] })

	off := newParticipant("off", "offense", 0, auth, nil, arena, cfg)
	def := newParticipant("def", "defense", 1, auth, nil, arena, cfg)
	byID[off.id], byID[def.id] = off, def
	off.SetRole(auth, RoleOffense)
	def.SetRole(auth, RoleDefense)
	def.Place(auth, core.V3(defenseX, 0, cfg.Arena.Depth))
	return arena, auth, off, def
}

func TestValidateOutcomes(t *testing.T) {
	cfg := config.DefaultDuelConfig()
	eye, depth := cfg.Arena.EyeHeight, cfg.Arena.Depth

	tests := []struct {
		name     string
		defenseX float64
		dir      core.Vec3
		want     Outcome
	}{
		{"straight at the head", 0, core.V3(0, 0, 1), OutcomeHeadshot},
		{"edge of the head", 0.2, core.V3(0, 0, 1), OutcomeHeadshot},
		{"just outside the head", 0.3, core.V3(0, 0, 1), OutcomeMiss},
		{"center of the body", 0, core.V3(0, 0.8-eye, depth), OutcomeBodyHit},
		{"strafed target", 3, core.V3(3, 0, depth), OutcomeHeadshot},
		{"strafed away", 3, core.V3(0, 0, 1), OutcomeMiss},
		{"backwards", 0, core.V3(0, 0, -1), OutcomeMiss},
		{"zero direction", 0, core.Vec3{}, OutcomeMiss},
		{"NaN direction", 0, core.V3(math.NaN(), 0, 1), OutcomeMiss},
		{"huge components", 3, core.V3(3e200, 0, depth*1e200), OutcomeHeadshot},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			arena, auth, off, def := duelists(t, cfg, tc.defenseX)
			v := NewValidator(arena, cfg.Validator.MaxRange, auth, nil, nil)

			shot := v.Validate(off, tc.dir, []*Participant{off, def})
			if shot.Outcome != tc.want {
				t.Errorf("outcome = %v, expected %v", shot.Outcome, tc.want)
			}
			if dead := def.Dead(); dead != (tc.want == OutcomeHeadshot) {
				t.Errorf("target dead = %v for outcome %v", dead, shot.Outcome)
			}
			if off.Dead() {
				t.Error("the shooter can never hit itself")
			}
		})
	}
}

func TestValidateMaxRange(t *testing.T) {
	cfg := config.DefaultDuelConfig()
	cfg.Validator.MaxRange = cfg.Arena.Depth / 2
	arena, auth, off, def := duelists(t, cfg, 0)
	v := NewValidator(arena, cfg.Validator.MaxRange, auth, nil, nil)

	if shot := v.Validate(off, core.V3(0, 0, 1), []*Participant{def}); shot.Outcome != OutcomeMiss {
		t.Errorf("outcome = %v beyond max range, expected miss", shot.Outcome)
	}
}

func TestValidateSkipsDeadTargets(t *testing.T) {
	cfg := config.DefaultDuelConfig()
	arena, auth, off, def := duelists(t, cfg, 0)
	def.RegisterHit(auth)
	v := NewValidator(arena, cfg.Validator.MaxRange, auth, nil, nil)

	if shot := v.Validate(off, core.V3(0, 0, 1), []*Participant{def}); shot.Outcome != OutcomeMiss {
		t.Errorf("outcome = %v on a dead target, expected miss", shot.Outcome)
	}
}

func TestValidateCues(t *testing.T) {
	cfg := config.DefaultDuelConfig()

	t.Run("miss plays near-miss to the shooter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		presenter := NewMockPresenter(ctrl)
		arena, auth, off, def := duelists(t, cfg, 0)
		v := NewValidator(arena, cfg.Validator.MaxRange, auth, presenter, nil)

		presenter.EXPECT().PlayCue(CueNearMiss, off.ID()).Times(1)
		v.Validate(off, core.V3(1, 0, 0), []*Participant{def})
	})

	t.Run("headshot plays nothing from the validator", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		presenter := NewMockPresenter(ctrl)
		arena, auth, off, def := duelists(t, cfg, 0)
		v := NewValidator(arena, cfg.Validator.MaxRange, auth, presenter, nil)

		v.Validate(off, core.V3(0, 0, 1), []*Participant{def})
	})
}

func TestValidateReportsImpact(t *testing.T) {
	cfg := config.DefaultDuelConfig()
	arena, auth, off, def := duelists(t, cfg, 0)
	v := NewValidator(arena, cfg.Validator.MaxRange, auth, nil, nil)

	shot := v.Validate(off, core.V3(0, 0, 1), []*Participant{def})
	wantDist := cfg.Arena.Depth - cfg.Arena.HeadRadius
	if math.Abs(shot.Distance-wantDist) > 1e-9 {
		t.Errorf("distance = %g, expected %g", shot.Distance, wantDist)
	}
	if shot.Target != def.ID() {
		t.Errorf("target = %q, expected %q", shot.Target, def.ID())
	}
	if math.Abs(shot.Point.Z-wantDist) > 1e-9 || math.Abs(shot.Point.Y-cfg.Arena.EyeHeight) > 1e-9 {
		t.Errorf("impact point = %+v", shot.Point)
	}
}
