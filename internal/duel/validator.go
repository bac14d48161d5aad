package duel

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/replica"
)

// Shot is the authoritative result of one fire request.
type Shot struct {
	Outcome  Outcome
	Target   ParticipantID // Empty on a clean miss
	Distance float64
	Point    core.Vec3
}

// Validator casts the offense's shot against the hit volumes of every other
// participant. The client's aim direction is untrusted and only its direction
// is used; origin, positions and volumes are the server's.
type Validator struct {
	arena     *Arena
	maxRange  float64
	auth      *replica.Authority
	presenter Presenter
	logger    *log.Logger
}

// NewValidator creates a validator over the given arena.
func NewValidator(arena *Arena, maxRange float64, auth *replica.Authority, presenter Presenter, logger *log.Logger) *Validator {
	if presenter == nil {
		presenter = noopPresenter{}
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Validator{
		arena:     arena,
		maxRange:  maxRange,
		auth:      auth,
		presenter: presenter,
		logger:    logger,
	}
}

// Validate resolves a shot from firer along dir.
//
// The nearest volume hit within range decides the outcome. A head hit marks
// the target dead. Anything else, including a body hit, plays the near-miss
// cue to the firer and changes no state. A zero or non-finite direction is
// a miss.
func (v *Validator) Validate(firer *Participant, dir core.Vec3, targets []*Participant) Shot {
	unit, ok := dir.Normalize()
	if !ok {
		v.logger.Debug("rejected shot direction", "firer", firer.ID(), "dir", dir)
		v.presenter.PlayCue(CueNearMiss, firer.ID())
		return Shot{Outcome: OutcomeMiss}
	}

	ray := core.Ray{Origin: firer.Eye(), Dir: unit}
	best := Shot{Outcome: OutcomeMiss, Distance: v.maxRange}
	var hit *Participant

	for _, t := range targets {
		if t == nil || t == firer || t.Dead() {
			continue
		}
		if d, ok := v.arena.HeadVolume(t).Intersect(ray); ok && d <= best.Distance {
			best = Shot{Outcome: OutcomeHeadshot, Target: t.ID(), Distance: d, Point: ray.At(d)}
			hit = t
		}
		if d, ok := v.arena.BodyVolume(t).Intersect(ray); ok && d < best.Distance {
			best = Shot{Outcome: OutcomeBodyHit, Target: t.ID(), Distance: d, Point: ray.At(d)}
			hit = t
		}
	}

	if best.Outcome == OutcomeHeadshot {
		hit.RegisterHit(v.auth)
		v.logger.Info("headshot", "firer", firer.ID(), "target", hit.ID(), "distance", best.Distance)
		return best
	}

	if best.Outcome == OutcomeMiss {
		best.Distance = 0
	}
	v.logger.Debug("shot missed", "firer", firer.ID(), "outcome", best.Outcome)
	v.presenter.PlayCue(CueNearMiss, firer.ID())
	return best
}
