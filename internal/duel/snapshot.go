package duel

import "github.com/vovakirdan/tui-duel/internal/core"

// ParticipantView is a read-only copy of a participant's replicated state.
type ParticipantView struct {
	ID       ParticipantID
	Name     string
	Role     Role
	Dead     bool
	CanFire  bool
	Score    int
	Position core.Vec3
	Aim      Aim
	Yaw      float64
	Pitch    float64
}

// Snapshot is a point-in-time copy of the whole match for observers.
type Snapshot struct {
	MatchID      string
	Phase        Phase
	Round        int
	Remaining    int
	VictoryScore int
	Participants []ParticipantView
	Spectators   int
	Fired        bool
	LastShot     Shot
}

// Direction returns the unit vector the viewed participant is aiming along.
// Clients send it with a fire request.
func (v ParticipantView) Direction() core.Vec3 {
	return facing(v.Role, v.Yaw, v.Pitch)
}

// View copies the participant's replicated state.
func (p *Participant) View() ParticipantView {
	yaw, pitch := p.Angles()
	return ParticipantView{
		ID:       p.id,
		Name:     p.name,
		Role:     p.Role(),
		Dead:     p.Dead(),
		CanFire:  p.CanFire(),
		Score:    p.Score(),
		Position: p.Position(),
		Aim:      p.Aim(),
		Yaw:      yaw,
		Pitch:    pitch,
	}
}

// Snapshot copies the coordinator state.
func (c *Coordinator) Snapshot() Snapshot {
	s := Snapshot{
		MatchID:      c.matchID,
		Phase:        c.phase,
		Round:        c.round,
		Remaining:    c.Remaining(),
		VictoryScore: c.cfg.VictoryScore(),
		Fired:        c.fired,
		LastShot:     c.lastShot,
	}
	for _, p := range c.slots {
		s.Participants = append(s.Participants, p.View())
	}
	return s
}

// Snapshot copies the coordinator state including spectators.
func (l *Lifecycle) Snapshot() Snapshot {
	s := l.coord.Snapshot()
	s.Spectators = len(l.spectators)
	return s
}
