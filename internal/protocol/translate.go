package protocol

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/duel"
	"github.com/vovakirdan/tui-duel/internal/multiplayer"
)

// EncodeEvent renders a host event as a frame. tickHz is echoed in welcome.
func EncodeEvent(c Codec, evt multiplayer.SessionEvent, tickHz int) ([]byte, error) {
	switch e := evt.(type) {
	case multiplayer.WelcomeEvent:
		return c.Encode(MsgWelcome, Welcome{
			PlayerID:  string(e.ID),
			Admission: strings.ToLower(e.Admission.String()),
			TickHz:    tickHz,
		})
	case multiplayer.RejectedEvent:
		return c.Encode(MsgRejected, Rejected{Reason: e.Reason})
	case multiplayer.StateEvent:
		return c.Encode(MsgState, StateFromSnapshot(e.Tick, e.Snapshot))
	case multiplayer.MessageEvent:
		return c.Encode(MsgMessage, Message{Text: e.Text})
	case multiplayer.CueEvent:
		return c.Encode(MsgCue, Cue{Name: string(e.Cue)})
	case multiplayer.ScoreEvent:
		return c.Encode(MsgScore, Score{Own: e.Own, Opponent: e.Opponent})
	case multiplayer.TimerEvent:
		return c.Encode(MsgTimer, Timer{Remaining: e.Remaining})
	case multiplayer.ShotEvent:
		s := Shot{Accepted: e.Accepted, Target: string(e.Target)}
		if e.Accepted {
			s.Outcome = outcomeName(e.Outcome)
		}
		return c.Encode(MsgShot, s)
	default:
		return nil, fmt.Errorf("protocol: unsupported event %T", evt)
	}
}

// DecodeClient parses a client frame into a host message from id.
// Hello is not a host message; it returns (nil, nil) for the caller to
// handle during the handshake.
func DecodeClient(c Codec, b []byte, id multiplayer.SessionID) (multiplayer.HostMessage, error) {
	env, err := c.DecodeEnvelope(b)
	if err != nil {
		return nil, err
	}

	switch env.T {
	case MsgInput:
		in, err := DecodePayload[Input](c, env)
		if err != nil {
			return nil, err
		}
		return multiplayer.InputMsg{SessionID: id, Input: in.Frame()}, nil
	case MsgFire:
		f, err := DecodePayload[Fire](c, env)
		if err != nil {
			return nil, err
		}
		return multiplayer.FireMsg{SessionID: id, Direction: core.V3(f.X, f.Y, f.Z)}, nil
	case MsgHello:
		return nil, nil
	default:
		return nil, fmt.Errorf("protocol: unknown client message %q", env.T)
	}
}

// Frame converts the wire input to an input frame.
func (in Input) Frame() core.InputFrame {
	f := core.NewInputFrame()
	for action, held := range map[core.Action]bool{
		core.ActionLeft:  in.Left,
		core.ActionRight: in.Right,
		core.ActionUp:    in.Up,
		core.ActionDown:  in.Down,
		core.ActionAim:   in.Aim,
	} {
		if held {
			f.Set(action)
		}
	}
	return f
}

// StateFromSnapshot converts a duel snapshot to its wire form.
func StateFromSnapshot(tick uint64, s duel.Snapshot) State {
	st := State{
		Tick:         tick,
		MatchID:      s.MatchID,
		Phase:        phaseName(s.Phase),
		Round:        s.Round,
		Remaining:    s.Remaining,
		VictoryScore: s.VictoryScore,
		Spectators:   s.Spectators,
		Players:      make([]PlayerSnapshot, 0, len(s.Participants)),
	}
	for _, p := range s.Participants {
		st.Players = append(st.Players, PlayerSnapshot{
			ID:      string(p.ID),
			Name:    p.Name,
			Role:    strings.ToLower(p.Role.String()),
			Dead:    p.Dead,
			CanFire: p.CanFire,
			Score:   p.Score,
			X:       p.Position.X,
			Z:       p.Position.Z,
			Yaw:     p.Yaw,
			Pitch:   p.Pitch,
		})
	}
	return st
}

func phaseName(p duel.Phase) string {
	switch p {
	case duel.PhaseWaitingForPlayers:
		return "waiting"
	case duel.PhaseRoundCountdown:
		return "countdown"
	case duel.PhaseRoundActive:
		return "active"
	case duel.PhaseRoundResolution:
		return "resolution"
	case duel.PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

func outcomeName(o duel.Outcome) string {
	switch o {
	case duel.OutcomeHeadshot:
		return "headshot"
	case duel.OutcomeBodyHit:
		return "body"
	default:
		return "miss"
	}
}
