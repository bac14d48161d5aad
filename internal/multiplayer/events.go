package multiplayer

import (
	"github.com/vovakirdan/tui-duel/internal/core"
	"github.com/vovakirdan/tui-duel/internal/duel"
)

// SessionEvent represents an event sent from the host to a session.
type SessionEvent interface {
	sessionEvent()
}

// WelcomeEvent is sent when a session is admitted, and again when a
// spectator is promoted to participant.
type WelcomeEvent struct {
	ID        SessionID
	Admission duel.Admission
}

func (WelcomeEvent) sessionEvent() {}

// RejectedEvent is sent when a session cannot be admitted. The host
// closes nothing; the transport decides whether to hang up.
type RejectedEvent struct {
	Reason string
}

func (RejectedEvent) sessionEvent() {}

// StateEvent carries a snapshot of the whole duel.
type StateEvent struct {
	Tick     uint64
	Snapshot duel.Snapshot
}

func (StateEvent) sessionEvent() {}

// MessageEvent is a player-facing status text.
type MessageEvent struct {
	Text string
}

func (MessageEvent) sessionEvent() {}

// CueEvent triggers a sound or flash on the client.
type CueEvent struct {
	Cue duel.Cue
}

func (CueEvent) sessionEvent() {}

// ScoreEvent updates the client's own and opponent score.
type ScoreEvent struct {
	Own      int
	Opponent int
}

func (ScoreEvent) sessionEvent() {}

// TimerEvent updates the remaining time of the active round.
type TimerEvent struct {
	Remaining int
}

func (TimerEvent) sessionEvent() {}

// ShotEvent tells the shooter how its fire request was resolved.
type ShotEvent struct {
	Accepted bool
	Outcome  duel.Outcome
	Target   SessionID
}

func (ShotEvent) sessionEvent() {}

// HostMessage represents a message from a session to the host.
type HostMessage interface {
	hostMessage()
}

// ConnectMsg asks the host to admit a session.
type ConnectMsg struct {
	Session SessionHandle
}

func (ConnectMsg) hostMessage() {}

// DisconnectMsg is sent when a session disconnects.
type DisconnectMsg struct {
	SessionID SessionID
}

func (DisconnectMsg) hostMessage() {}

// InputMsg carries held input for the next tick.
type InputMsg struct {
	SessionID SessionID
	Input     core.InputFrame
}

func (InputMsg) hostMessage() {}

// FireMsg is a fire request with the client's aim direction.
type FireMsg struct {
	SessionID SessionID
	Direction core.Vec3
}

func (FireMsg) hostMessage() {}
