package duel

import (
	"github.com/vovakirdan/tui-duel/internal/config"
	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/replica"
)

// Arena is the default Spawner. The offense stands on the firing line at
// z=0 and the defense on the far line at z=Depth, both centered on x=0.
// Waiting participants go to the line of their join slot.
type Arena struct {
	cfg    config.ArenaConfig
	auth   *replica.Authority
	lookup func(ParticipantID) *Participant
}

// NewArena creates an arena that resolves participants through lookup.
func NewArena(cfg config.ArenaConfig, auth *replica.Authority, lookup func(ParticipantID) *Participant) *Arena {
	return &Arena{cfg: cfg, auth: auth, lookup: lookup}
}

// ResetPosition places the participant on its spawn line.
func (a *Arena) ResetPosition(id ParticipantID) {
	p := a.lookup(id)
	if p == nil {
		return
	}
	p.Place(a.auth, a.SpawnPoint(p.Role(), p.slot))
}

// SpawnPoint returns the neutral position for a role.
func (a *Arena) SpawnPoint(role Role, slot int) core.Vec3 {
	switch role {
	case RoleOffense:
		return core.V3(0, 0, 0)
	case RoleDefense:
		return core.V3(0, 0, a.cfg.Depth)
	default:
		if slot == 0 {
			return core.V3(0, 0, 0)
		}
		return core.V3(0, 0, a.cfg.Depth)
	}
}

// HeadVolume returns the critical hit sphere of a participant.
func (a *Arena) HeadVolume(p *Participant) core.Sphere {
	return core.Sphere{
		Center: p.Position().Add(core.V3(0, a.cfg.EyeHeight, 0)),
		Radius: a.cfg.HeadRadius,
	}
}

// BodyVolume returns the non-critical hit box of a participant.
func (a *Arena) BodyVolume(p *Participant) core.Box {
	pos := p.Position()
	hw := a.cfg.BodyHalfWidth
	return core.Box{
		Min: core.V3(pos.X-hw, pos.Y, pos.Z-hw),
		Max: core.V3(pos.X+hw, pos.Y+a.cfg.BodyHeight, pos.Z+hw),
	}
}
