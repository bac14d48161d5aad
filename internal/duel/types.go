// Package duel implements the authoritative two-player duel: participants,
// server-side hit validation, the round state machine and connection
// admission.
//
// Everything in this package runs on the host's single simulation goroutine.
// Replicated fields are readable from any goroutine through replica.Value.
package duel

import "errors"

// ParticipantID identifies one connection for the lifetime of a session.
type ParticipantID string

// Broadcast addresses every connected observer instead of one participant.
const Broadcast ParticipantID = ""

// Role is a participant's part in the current round.
type Role int

const (
	RoleWaiting Role = iota
	RoleOffense
	RoleDefense
)

// String returns a human-readable name for the role.
func (r Role) String() string {
	switch r {
	case RoleWaiting:
		return "Waiting"
	case RoleOffense:
		return "Offense"
	case RoleDefense:
		return "Defense"
	default:
		return "Unknown"
	}
}

// Opposite returns the role a participant takes after a swap.
// Waiting has no opposite and is returned unchanged.
func (r Role) Opposite() Role {
	switch r {
	case RoleOffense:
		return RoleDefense
	case RoleDefense:
		return RoleOffense
	default:
		return r
	}
}

// Phase is the coordinator's state.
type Phase int

const (
	PhaseWaitingForPlayers Phase = iota
	PhaseRoundCountdown
	PhaseRoundActive
	PhaseRoundResolution
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseWaitingForPlayers:
		return "Waiting for players"
	case PhaseRoundCountdown:
		return "Countdown"
	case PhaseRoundActive:
		return "Round active"
	case PhaseRoundResolution:
		return "Round over"
	case PhaseGameOver:
		return "Game over"
	default:
		return "Unknown"
	}
}

// InRound reports whether the phase requires two participants.
func (p Phase) InRound() bool {
	return p == PhaseRoundCountdown || p == PhaseRoundActive || p == PhaseRoundResolution
}

// Outcome classifies a validated shot.
type Outcome int

const (
	OutcomeMiss Outcome = iota
	OutcomeBodyHit
	OutcomeHeadshot
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeMiss:
		return "Miss"
	case OutcomeBodyHit:
		return "Body hit"
	case OutcomeHeadshot:
		return "Headshot"
	default:
		return "Unknown"
	}
}

// Cue names a presentation side effect such as a sound.
type Cue string

const (
	CueRoundStart Cue = "round_start"
	CueRoundEnd   Cue = "round_end"
	CueNearMiss   Cue = "near_miss"
	CueDeath      Cue = "death"
	CueVictory    Cue = "victory"
	CueDefeat     Cue = "defeat"
)

// Player-facing messages.
const (
	MsgWaiting  = "Waiting for Players..."
	MsgGo       = "Fire!"
	MsgHeadshot = "Headshot!"
	MsgMiss     = "Miss!"
	MsgTimesUp  = "Times Up!"
	MsgWin      = "You Win!"
	MsgLose     = "You Lose!"
)

// EndReason describes why a match stopped.
type EndReason string

const (
	EndReasonCompleted  EndReason = "completed"
	EndReasonDisconnect EndReason = "disconnect"
)

var (
	// ErrMatchFull is returned when a third connection arrives and spectators are disabled.
	ErrMatchFull = errors.New("duel: match is full")

	// ErrAlreadyConnected is returned when an ID connects twice.
	ErrAlreadyConnected = errors.New("duel: participant already connected")

	// ErrUnknownParticipant is returned for operations on an ID that is not connected.
	ErrUnknownParticipant = errors.New("duel: unknown participant")
)
