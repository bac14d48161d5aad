// Package protocol defines the duel wire format used by network clients.
//
// Every frame is an envelope {t, p}: a message type and a payload encoded
// with the same codec. JSON travels as text frames, msgpack as binary.
package protocol

// Client to server.
const (
	MsgHello = "hello"
	MsgInput = "input"
	MsgFire  = "fire"
)

// Server to client.
const (
	MsgWelcome  = "welcome"
	MsgRejected = "rejected"
	MsgState    = "state"
	MsgMessage  = "message"
	MsgCue      = "cue"
	MsgScore    = "score"
	MsgTimer    = "timer"
	MsgShot     = "shot"
)

// Version is the protocol revision sent in hello.
const Version = 1

type Hello struct {
	V    int    `json:"v" msgpack:"v"`
	Name string `json:"name,omitempty" msgpack:"name,omitempty"`
}

// Input is the held state of the client's controls for one tick. Left and
// right are relative to the player's facing; the defense faces the offense.
type Input struct {
	Left  bool `json:"left,omitempty" msgpack:"left,omitempty"`
	Right bool `json:"right,omitempty" msgpack:"right,omitempty"`
	Up    bool `json:"up,omitempty" msgpack:"up,omitempty"`
	Down  bool `json:"down,omitempty" msgpack:"down,omitempty"`
	Aim   bool `json:"aim,omitempty" msgpack:"aim,omitempty"` // arrows steer the aim instead of strafing
}

// Fire carries the client's aim direction. It need not be normalized.
type Fire struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

type Welcome struct {
	PlayerID  string `json:"playerId" msgpack:"playerId"`
	Admission string `json:"admission" msgpack:"admission"` // participant or spectator
	TickHz    int    `json:"tickHz" msgpack:"tickHz"`
}

type Rejected struct {
	Reason string `json:"reason" msgpack:"reason"`
}

type State struct {
	Tick         uint64           `json:"tick" msgpack:"tick"`
	MatchID      string           `json:"matchId,omitempty" msgpack:"matchId,omitempty"`
	Phase        string           `json:"phase" msgpack:"phase"`
	Round        int              `json:"round" msgpack:"round"`
	Remaining    int              `json:"remaining" msgpack:"remaining"`
	VictoryScore int              `json:"victoryScore" msgpack:"victoryScore"`
	Spectators   int              `json:"spectators" msgpack:"spectators"`
	Players      []PlayerSnapshot `json:"players" msgpack:"players"`
}

type PlayerSnapshot struct {
	ID      string  `json:"id" msgpack:"id"`
	Name    string  `json:"name" msgpack:"name"`
	Role    string  `json:"role" msgpack:"role"`
	Dead    bool    `json:"dead,omitempty" msgpack:"dead,omitempty"`
	CanFire bool    `json:"canFire,omitempty" msgpack:"canFire,omitempty"`
	Score   int     `json:"score" msgpack:"score"`
	X       float64 `json:"x" msgpack:"x"`
	Z       float64 `json:"z" msgpack:"z"`
	Yaw     float64 `json:"yaw" msgpack:"yaw"`
	Pitch   float64 `json:"pitch" msgpack:"pitch"`
}

type Message struct {
	Text string `json:"text" msgpack:"text"`
}

type Cue struct {
	Name string `json:"name" msgpack:"name"`
}

type Score struct {
	Own      int `json:"own" msgpack:"own"`
	Opponent int `json:"opponent" msgpack:"opponent"`
}

type Timer struct {
	Remaining int `json:"remaining" msgpack:"remaining"`
}

type Shot struct {
	Accepted bool   `json:"accepted" msgpack:"accepted"`
	Outcome  string `json:"outcome,omitempty" msgpack:"outcome,omitempty"`
	Target   string `json:"target,omitempty" msgpack:"target,omitempty"`
}
